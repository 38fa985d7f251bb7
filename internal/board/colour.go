package board

import "github.com/pkg/errors"

// Colour is the side a marble belongs to.
type Colour uint8

const (
	White Colour = iota
	Black
)

var ErrInvalidColour = errors.New("invalid colour")

func (c Colour) Opponent() Colour {
	if c == White {
		return Black
	}
	return White
}

// Cell returns the cell value a marble of this colour occupies.
func (c Colour) Cell() Cell {
	if c == Black {
		return CellBlack
	}
	return CellWhite
}

// Label is the single-character boundary form: 'w' or 'b'.
func (c Colour) Label() byte {
	if c == Black {
		return 'b'
	}
	return 'w'
}

func (c Colour) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

func (c Colour) MarshalText() ([]byte, error) {
	return []byte{c.Label()}, nil
}

func (c *Colour) UnmarshalText(text []byte) error {
	parsed, err := ParseColour(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColour accepts the boundary labels "w"/"b" and the long names.
func ParseColour(s string) (Colour, error) {
	switch s {
	case "w", "W", "white":
		return White, nil
	case "b", "B", "black":
		return Black, nil
	}
	return White, errors.Wrapf(ErrInvalidColour, "%q", s)
}

// ColourOf reports which colour occupies a cell, if any.
func ColourOf(cell Cell) (Colour, bool) {
	switch cell {
	case CellWhite:
		return White, true
	case CellBlack:
		return Black, true
	}
	return White, false
}
