package movegen

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/dhruvparekh01/abalone/internal/board"
)

// Kind says how the marbles of a move travelled.
type Kind uint8

const (
	KindSingle Kind = iota
	KindInLine
	KindBroadside
)

func (k Kind) String() string {
	switch k {
	case KindInLine:
		return "inline"
	case KindBroadside:
		return "broadside"
	default:
		return "single"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "single":
		*k = KindSingle
	case "inline":
		*k = KindInLine
	case "broadside":
		*k = KindBroadside
	default:
		return errors.Errorf("unknown move kind %q", text)
	}
	return nil
}

// Move describes a transition; Marbles are in group order, first to last
// along the group's axis.
type Move struct {
	Marbles   []board.Coord   `json:"marbles"`
	Direction board.Direction `json:"direction"`
	Kind      Kind            `json:"kind"`
	// Pushed counts opposing marbles displaced by a sumito, Captured the
	// subset of those that went over the edge.
	Pushed   int `json:"pushed,omitempty"`
	Captured int `json:"captured,omitempty"`
}

// Successor is a legal resulting position and the move that produced it.
type Successor struct {
	Board board.Board
	Move  Move
}

// Head is the marble that leads an in-line move.
func (m Move) Head() board.Coord {
	if len(m.Marbles) == 0 {
		return board.Coord{}
	}
	if leadsWithLast(m.Marbles, m.Direction) {
		return m.Marbles[len(m.Marbles)-1]
	}
	return m.Marbles[0]
}

// Tail is the cell an in-line move vacates.
func (m Move) Tail() board.Coord {
	if len(m.Marbles) == 0 {
		return board.Coord{}
	}
	if leadsWithLast(m.Marbles, m.Direction) {
		return m.Marbles[0]
	}
	return m.Marbles[len(m.Marbles)-1]
}

// Destination is the cell an in-line or single move fills.
func (m Move) Destination() board.Coord {
	return m.Head().Step(m.Direction)
}

// Same reports whether other moves the same marbles in the same direction,
// regardless of the order the marbles are listed in.
func (m Move) Same(other Move) bool {
	if m.Direction != other.Direction || len(m.Marbles) != len(other.Marbles) {
		return false
	}
	for _, c := range m.Marbles {
		found := false
		for _, o := range other.Marbles {
			if c == o {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// String is the batch-file description: "[E5] - E" for singles,
// "[vacated, filled] - DIR" for in-line moves and "[first, last] - DIR" for
// broadside moves.
func (m Move) String() string {
	if len(m.Marbles) == 0 {
		return "[] - " + m.Direction.String()
	}
	var labels []string
	switch m.Kind {
	case KindSingle:
		labels = []string{m.Marbles[0].Label()}
	case KindInLine:
		labels = []string{m.Tail().Label(), m.Destination().Label()}
	default:
		labels = []string{m.Marbles[0].Label(), m.Marbles[len(m.Marbles)-1].Label()}
	}
	return "[" + strings.Join(labels, ", ") + "] - " + m.Direction.String()
}

func leadsWithLast(marbles []board.Coord, d board.Direction) bool {
	if len(marbles) < 2 {
		return true
	}
	return marbles[0].Step(d) == marbles[1]
}
