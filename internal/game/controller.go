package game

import (
	"sync"
	"time"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/config"
	"github.com/dhruvparekh01/abalone/internal/movegen"
)

// Controller serialises access to a Game for concurrent callers.
type Controller struct {
	mu   sync.Mutex
	game *Game
}

func NewController(settings Settings, cfg config.Config) (*Controller, error) {
	g, err := NewGame(settings, cfg)
	if err != nil {
		return nil, err
	}
	return &Controller{game: g}, nil
}

func (gc *Controller) SetProgress(fn ProgressFunc) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.SetProgress(fn)
}

func (gc *Controller) ApplyHumanMove(marbles []board.Coord, d board.Direction) (movegen.Move, error) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.ApplyHumanMove(marbles, d)
}

func (gc *Controller) Tick() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Tick()
}

func (gc *Controller) State() State {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.State()
}

func (gc *Controller) Settings() Settings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Settings()
}

func (gc *Controller) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History()
}

func (gc *Controller) TurnStartedAt() time.Time {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.TurnStartedAt()
}

func (gc *Controller) LatestHistoryEntry() (HistoryEntry, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.history.Last()
}

func (gc *Controller) AiThinking() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.AiThinking()
}

func (gc *Controller) Reset(settings Settings) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Reset(settings)
}

func (gc *Controller) StartGame(settings Settings) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if err := gc.game.Reset(settings); err != nil {
		return err
	}
	gc.game.Start()
	return nil
}

func (gc *Controller) Stop() {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Stop()
}

func (gc *Controller) Undo() error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Undo()
}

// UpdateSettings applies new settings. Without reset only the players are
// rebuilt and the position is kept.
func (gc *Controller) UpdateSettings(update Settings, reset bool) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if reset {
		return gc.game.Reset(update)
	}
	if err := update.Validate(); err != nil {
		return err
	}
	gc.game.settings = update
	return gc.game.createPlayers()
}

func (gc *Controller) SetConfig(cfg config.Config) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.SetConfig(cfg)
}
