package board

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrInvalidLabel     = errors.New("invalid coordinate label")
	ErrInvalidDirection = errors.New("invalid direction")
)

// Coord indexes the 9x9 grid. Row 0 is the top row (label I).
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) InBounds() bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < Size && c.Col < Size
}

// Playable reports whether c is one of the 61 hexagon cells.
func (c Coord) Playable() bool {
	return c.InBounds() && emptyGrid[c.Row][c.Col] != CellOffBoard
}

func (c Coord) Step(d Direction) Coord {
	delta := deltas[d]
	return Coord{Row: c.Row + delta[0], Col: c.Col + delta[1]}
}

// StepN moves n cells in direction d.
func (c Coord) StepN(d Direction, n int) Coord {
	delta := deltas[d]
	return Coord{Row: c.Row + n*delta[0], Col: c.Col + n*delta[1]}
}

// Label renders the boundary form: row letter (A is row 8, I is row 0) then column+1.
func (c Coord) Label() string {
	if !c.InBounds() {
		return "??"
	}
	return string([]byte{byte('A' + (Size - 1 - c.Row)), byte('1' + c.Col)})
}

func (c Coord) String() string {
	return c.Label()
}

func (c Coord) MarshalText() ([]byte, error) {
	if !c.InBounds() {
		return nil, errors.Wrapf(ErrInvalidLabel, "coordinate (%d,%d) out of range", c.Row, c.Col)
	}
	return []byte(c.Label()), nil
}

func (c *Coord) UnmarshalText(text []byte) error {
	parsed, err := ParseCoord(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCoord is the inverse of Label. Lower-case letters are accepted.
func ParseCoord(label string) (Coord, error) {
	label = strings.TrimSpace(label)
	if len(label) != 2 {
		return Coord{}, errors.Wrapf(ErrInvalidLabel, "%q", label)
	}
	letter := label[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	digit := label[1]
	if letter < 'A' || letter > 'I' || digit < '1' || digit > '9' {
		return Coord{}, errors.Wrapf(ErrInvalidLabel, "%q", label)
	}
	return Coord{Row: Size - 1 - int(letter-'A'), Col: int(digit - '1')}, nil
}

// Direction is one of the six hexagonal compass directions.
type Direction uint8

const (
	NE Direction = iota
	E
	SE
	SW
	W
	NW
)

// Directions lists all six in enum order.
var Directions = [...]Direction{NE, E, SE, SW, W, NW}

var deltas = [...][2]int{
	NE: {-1, 1},
	E:  {0, 1},
	SE: {1, 0},
	SW: {1, -1},
	W:  {0, -1},
	NW: {-1, 0},
}

var directionNames = [...]string{NE: "NE", E: "E", SE: "SE", SW: "SW", W: "W", NW: "NW"}

// Delta returns the (row, col) offset of one step.
func (d Direction) Delta() (int, int) {
	return deltas[d][0], deltas[d][1]
}

func (d Direction) Opposite() Direction {
	return (d + 3) % 6
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "?"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func ParseDirection(s string) (Direction, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range directionNames {
		if name == upper {
			return Direction(i), nil
		}
	}
	return NE, errors.Wrapf(ErrInvalidDirection, "%q", s)
}
