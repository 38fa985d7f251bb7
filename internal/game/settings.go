package game

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/config"
	"github.com/dhruvparekh01/abalone/internal/heuristic"
	"github.com/dhruvparekh01/abalone/internal/notation"
)

var ErrInvalidSettings = errors.New("invalid game settings")

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

func (p PlayerType) String() string {
	if p == PlayerAI {
		return "ai"
	}
	return "human"
}

func (p PlayerType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PlayerType) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "human":
		*p = PlayerHuman
	case "ai", "computer":
		*p = PlayerAI
	default:
		return errors.Wrapf(ErrInvalidSettings, "player type %q", text)
	}
	return nil
}

type Settings struct {
	Layout         board.Layout `json:"layout"`
	BlackType      PlayerType   `json:"black_type"`
	WhiteType      PlayerType   `json:"white_type"`
	BlackEvaluator string       `json:"black_evaluator"`
	WhiteEvaluator string       `json:"white_evaluator"`
	MoveLimit      int          `json:"move_limit"`
	TimeLimitMs    int          `json:"time_limit_ms"`
	RandomOpening  bool         `json:"random_opening"`
	// StartCells replaces the layout with an explicit position in the
	// batch cell format ("C5b,E6w").
	StartCells string `json:"start_cells,omitempty"`
}

// DefaultSettings is a human playing black against the AI, using the engine
// defaults from cfg.
func DefaultSettings(cfg config.Config) Settings {
	return Settings{
		Layout:         board.LayoutStandard,
		BlackType:      PlayerHuman,
		WhiteType:      PlayerAI,
		BlackEvaluator: cfg.AiHeuristic,
		WhiteEvaluator: cfg.AiHeuristic,
		MoveLimit:      cfg.MoveLimit,
		TimeLimitMs:    cfg.AiTimeBudgetMs,
		RandomOpening:  cfg.AiRandomOpening,
	}
}

func (s Settings) Validate() error {
	if s.MoveLimit <= 0 {
		return errors.Wrapf(ErrInvalidSettings, "move limit must be positive, got %d", s.MoveLimit)
	}
	if s.TimeLimitMs <= 0 {
		return errors.Wrapf(ErrInvalidSettings, "time limit must be positive, got %d", s.TimeLimitMs)
	}
	for _, name := range []string{s.BlackEvaluator, s.WhiteEvaluator} {
		if _, err := heuristic.Lookup(name); err != nil {
			return err
		}
	}
	if _, err := s.StartBoard(); err != nil {
		return err
	}
	return nil
}

// StartBoard is the position the game begins from.
func (s Settings) StartBoard() (board.Board, error) {
	if strings.TrimSpace(s.StartCells) == "" {
		return board.NewBoard(s.Layout), nil
	}
	b, err := notation.ParseCells(s.StartCells)
	if err != nil {
		return board.Board{}, errors.WithMessage(err, "start cells")
	}
	return b, nil
}

func (s Settings) TimeLimit() time.Duration {
	return time.Duration(s.TimeLimitMs) * time.Millisecond
}

func (s Settings) typeFor(colour board.Colour) PlayerType {
	if colour == board.Black {
		return s.BlackType
	}
	return s.WhiteType
}

func (s Settings) evaluatorFor(colour board.Colour) string {
	if colour == board.Black {
		return s.BlackEvaluator
	}
	return s.WhiteEvaluator
}
