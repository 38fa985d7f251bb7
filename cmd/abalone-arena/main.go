// Command abalone-arena plays two evaluators against each other in-process
// and keeps Elo ratings for them.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/config"
	"github.com/dhruvparekh01/abalone/internal/game"
	"github.com/dhruvparekh01/abalone/internal/heuristic"
	"github.com/dhruvparekh01/abalone/internal/logging"
)

const (
	initialElo = 1500.0
	eloK       = 24.0
)

type contender struct {
	Name   string
	Elo    float64
	Wins   int
	Losses int
	Ties   int
}

type arenaOptions struct {
	A, B          string
	Games         int
	Budget        time.Duration
	MaxDepth      int
	Layout        board.Layout
	MoveLimit     int
	Parallel      int
	RandomOpening bool
}

// fixture is one scheduled game; AIsBlack alternates so both evaluators
// open equally often.
type fixture struct {
	Index    int
	AIsBlack bool
}

type gameResult struct {
	Fixture fixture
	Status  game.Status
	Plies   int
	Black   int
	White   int
}

func main() {
	var opts arenaOptions
	var layout string
	flag.StringVar(&opts.A, "a", "centre", "first evaluator")
	flag.StringVar(&opts.B, "b", "manhattan", "second evaluator")
	flag.IntVar(&opts.Games, "games", 10, "number of games")
	flag.DurationVar(&opts.Budget, "budget", 200*time.Millisecond, "search budget per move")
	flag.IntVar(&opts.MaxDepth, "max-depth", 64, "search depth cap")
	flag.StringVar(&layout, "layout", board.LayoutStandard.String(), "starting layout")
	flag.IntVar(&opts.MoveLimit, "move-limit", 40, "moves per side")
	flag.IntVar(&opts.Parallel, "j", 1, "games played concurrently")
	flag.BoolVar(&opts.RandomOpening, "random-opening", true, "black opens with a random move")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	if err := logging.Setup(*logLevel, true); err != nil {
		log.Fatal().Err(err).Msg("logging")
	}
	if err := opts.Layout.UnmarshalText([]byte(layout)); err != nil {
		log.Fatal().Err(err).Msg("layout")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a, b, err := runArena(ctx, opts, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("arena")
	}
	fmt.Printf("final: %s\n", standings(a, b))
}

func (o arenaOptions) validate() error {
	for _, name := range []string{o.A, o.B} {
		if _, err := heuristic.Lookup(name); err != nil {
			return err
		}
	}
	if o.Games <= 0 {
		return errors.Errorf("games must be positive, got %d", o.Games)
	}
	if o.Budget <= 0 {
		return errors.Errorf("budget must be positive, got %s", o.Budget)
	}
	return nil
}

// schedule alternates colours and shuffles the play order.
func schedule(games int) []fixture {
	out := make([]fixture, games)
	for i := range out {
		out[i] = fixture{Index: i, AIsBlack: i%2 == 0}
	}
	frand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func runArena(ctx context.Context, opts arenaOptions, out io.Writer) (contender, contender, error) {
	a := contender{Name: opts.A, Elo: initialElo}
	b := contender{Name: opts.B, Elo: initialElo}
	if err := opts.validate(); err != nil {
		return a, b, err
	}

	var mu sync.Mutex
	played := 0
	g, ctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}
	for _, f := range schedule(opts.Games) {
		f := f
		g.Go(func() error {
			res, err := playGame(ctx, opts, f)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			played++
			recordResult(&a, &b, res)
			fmt.Fprintf(out, "game %d/%d (#%d) %s %d-%d in %d plies | %s\n",
				played, opts.Games, res.Fixture.Index+1, outcome(opts, res), res.Black, res.White, res.Plies, standings(a, b))
			return nil
		})
	}
	err := g.Wait()
	return a, b, err
}

func playGame(ctx context.Context, opts arenaOptions, f fixture) (gameResult, error) {
	black, white := opts.A, opts.B
	if !f.AIsBlack {
		black, white = white, black
	}
	cfg := config.DefaultConfig()
	cfg.AiLogSearchStats = false
	cfg.AiMaxDepth = opts.MaxDepth
	cfg.AiSafetyMarginMs = 5
	settings := game.Settings{
		Layout:         opts.Layout,
		BlackType:      game.PlayerAI,
		WhiteType:      game.PlayerAI,
		BlackEvaluator: black,
		WhiteEvaluator: white,
		MoveLimit:      opts.MoveLimit,
		TimeLimitMs:    int(opts.Budget / time.Millisecond),
		RandomOpening:  opts.RandomOpening,
	}
	match, err := game.NewGame(settings, cfg)
	if err != nil {
		return gameResult{}, err
	}
	match.Start()
	for match.State().Status == game.StatusRunning {
		if err := ctx.Err(); err != nil {
			match.Stop()
			return gameResult{}, err
		}
		if err := match.PlayAITurn(); err != nil {
			return gameResult{}, errors.Wrapf(err, "game %d", f.Index+1)
		}
	}
	state := match.State()
	log.Debug().Int("game", f.Index+1).Stringer("status", state.Status).Str("message", state.LastMessage).Msg("game finished")
	return gameResult{
		Fixture: f,
		Status:  state.Status,
		Plies:   match.History().Size(),
		Black:   state.Score(board.Black),
		White:   state.Score(board.White),
	}, nil
}

// resultForA is 1 for a win by the first evaluator, 0 for a loss and 0.5
// for a tie.
func resultForA(res gameResult) float64 {
	switch res.Status {
	case game.StatusBlackWon:
		if res.Fixture.AIsBlack {
			return 1
		}
		return 0
	case game.StatusWhiteWon:
		if res.Fixture.AIsBlack {
			return 0
		}
		return 1
	}
	return 0.5
}

func recordResult(a, b *contender, res gameResult) {
	score := resultForA(res)
	switch score {
	case 1:
		a.Wins++
		b.Losses++
	case 0:
		a.Losses++
		b.Wins++
	default:
		a.Ties++
		b.Ties++
	}
	updateElo(a, b, score, eloK)
}

func updateElo(a *contender, b *contender, resultForA float64, k float64) {
	expA := 1.0 / (1.0 + math.Pow(10, (b.Elo-a.Elo)/400.0))
	expB := 1.0 / (1.0 + math.Pow(10, (a.Elo-b.Elo)/400.0))
	a.Elo += k * (resultForA - expA)
	b.Elo += k * ((1.0 - resultForA) - expB)
}

func outcome(opts arenaOptions, res gameResult) string {
	black, white := opts.A, opts.B
	if !res.Fixture.AIsBlack {
		black, white = white, black
	}
	switch res.Status {
	case game.StatusBlackWon:
		return fmt.Sprintf("%s (black) beat %s", black, white)
	case game.StatusWhiteWon:
		return fmt.Sprintf("%s (white) beat %s", white, black)
	}
	return fmt.Sprintf("%s (black) tied %s", black, white)
}

func standings(a, b contender) string {
	return fmt.Sprintf("%s %.0f (%d/%d/%d) vs %s %.0f (%d/%d/%d)",
		a.Name, a.Elo, a.Wins, a.Losses, a.Ties,
		b.Name, b.Elo, b.Wins, b.Losses, b.Ties)
}
