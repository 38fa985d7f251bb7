package game

import (
	"time"

	"github.com/pkg/errors"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/movegen"
)

type Status int

const (
	StatusNotStarted Status = iota
	StatusRunning
	StatusBlackWon
	StatusWhiteWon
	StatusTie
)

var statusNames = [...]string{
	StatusNotStarted: "not_started",
	StatusRunning:    "running",
	StatusBlackWon:   "black_won",
	StatusWhiteWon:   "white_won",
	StatusTie:        "tie",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return errors.Errorf("unknown status %q", text)
}

func (s Status) Over() bool {
	return s == StatusBlackWon || s == StatusWhiteWon || s == StatusTie
}

// State is a snapshot of a game. Per-side arrays are indexed by
// board.Colour.
type State struct {
	Board       board.Board
	ToMove      board.Colour
	Status      Status
	HasLastMove bool
	LastMove    movegen.Move
	Moves       [2]int
	TotalTime   [2]time.Duration
	LastTime    [2]time.Duration
	// Passes counts consecutive turns passed for lack of a legal move.
	Passes      int
	LastMessage string
}

func newState(b board.Board) State {
	return State{Board: b, ToMove: board.Black, Status: StatusNotStarted}
}

func (s State) Score(colour board.Colour) int {
	return s.Board.Score(colour)
}

func (s State) MovesFor(colour board.Colour) int {
	return s.Moves[colour]
}

func (s State) TotalTimeFor(colour board.Colour) time.Duration {
	return s.TotalTime[colour]
}

// Winner reports the side with the higher score, or false on a tie.
func (s State) Winner() (board.Colour, bool) {
	black, white := s.Score(board.Black), s.Score(board.White)
	switch {
	case black > white:
		return board.Black, true
	case white > black:
		return board.White, true
	}
	return board.White, false
}

func wonStatus(colour board.Colour) Status {
	if colour == board.Black {
		return StatusBlackWon
	}
	return StatusWhiteWon
}
