// Command abalone-server exposes a game session and the engine entry points
// to a local UI over HTTP and websockets.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/config"
	"github.com/dhruvparekh01/abalone/internal/game"
	"github.com/dhruvparekh01/abalone/internal/logging"
	"github.com/dhruvparekh01/abalone/internal/search"
)

const tickInterval = 50 * time.Millisecond

func main() {
	configPath := flag.String("config", "", "JSON config file")
	addr := flag.String("addr", "", "listen address (overrides listen_addr)")
	logLevel := flag.String("log-level", "info", "log level")
	pretty := flag.Bool("pretty", false, "human-readable logs")
	flag.Parse()

	if err := logging.Setup(*logLevel, *pretty); err != nil {
		log.Fatal().Err(err).Msg("logging")
	}
	if err := run(*configPath, *addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func newServer(cfg config.Config) (*server, error) {
	controller, err := game.NewController(game.DefaultSettings(cfg), cfg)
	if err != nil {
		return nil, err
	}
	s := &server{
		controller: controller,
		hub:        NewHub(),
		searchHub:  NewSearchHub(),
		logger:     logging.Component("backend"),
	}
	controller.SetProgress(func(colour board.Colour, r search.DepthReport) {
		if config.Get().SearchProgress {
			s.searchHub.Publish(progressFromReport(colour, r))
		}
	})
	return s, nil
}

// tickLoop drives AI turns and broadcasts every move it plays.
func (s *server) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.controller.Tick() {
				continue
			}
			if entry, ok := s.controller.LatestHistoryEntry(); ok {
				s.hub.PublishHistory(historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}})
			}
			s.hub.PublishStatus(controllerStatus(s.controller))
		}
	}
}

func run(configPath, addr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.ListenAddr = addr
	}
	config.Set(cfg)

	s, err := newServer(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.hub.Run(ctx.Done())
	go s.searchHub.Run(ctx.Done())
	go s.tickLoop(ctx)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	s.logger.Info().Str("addr", cfg.ListenAddr).Msg("listening")
	var runErr error
	select {
	case <-sigCtx.Done():
		s.logger.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			runErr = errors.Wrap(err, "listen")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error().Err(err).Msg("graceful shutdown failed")
		if closeErr := httpServer.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			s.logger.Error().Err(closeErr).Msg("forced close failed")
		}
	}
	cancel()
	s.controller.Stop()
	return runErr
}
