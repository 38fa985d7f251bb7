// Package board holds the Abalone position model: a 9x9 grid with the
// 61-cell hexagon inscribed in it, plus coordinate and colour conventions.
package board

import (
	"strings"

	"github.com/pkg/errors"
)

// Cell values match the grid encoding used at the API boundary.
type Cell uint8

const (
	CellOffBoard Cell = iota
	CellEmpty
	CellWhite
	CellBlack
)

const (
	Size         = 9
	MaxMarbles   = 14
	WinningScore = 6
	// EliminationCount is the marble count at which a side has lost.
	EliminationCount = MaxMarbles - WinningScore
)

// Board is a value type: copying a Board copies the position.
type Board [Size][Size]Cell

func (c Cell) String() string {
	switch c {
	case CellEmpty:
		return "Empty"
	case CellWhite:
		return "White"
	case CellBlack:
		return "Black"
	default:
		return "OffBoard"
	}
}

// At returns CellOffBoard for coordinates outside the grid.
func (b Board) At(c Coord) Cell {
	if !c.InBounds() {
		return CellOffBoard
	}
	return b[c.Row][c.Col]
}

func (b Board) IsEmpty(c Coord) bool {
	return b.At(c) == CellEmpty
}

// IsEmptyOrOffBoard is true for empty cells and for anything a pushed marble
// would fall off into.
func (b Board) IsEmptyOrOffBoard(c Coord) bool {
	cell := b.At(c)
	return cell == CellEmpty || cell == CellOffBoard
}

func (b Board) IsOccupiedByOpponent(c Coord, colour Colour) bool {
	return b.At(c) == colour.Opponent().Cell()
}

func (b Board) Holds(c Coord, colour Colour) bool {
	return b.At(c) == colour.Cell()
}

// ApplyMove returns a copy with dest set to colour and start emptied. It does
// not check legality, but never writes outside the hexagon.
func (b Board) ApplyMove(start, dest Coord, colour Colour) Board {
	if start.Playable() {
		b[start.Row][start.Col] = CellEmpty
	}
	if dest.Playable() {
		b[dest.Row][dest.Col] = colour.Cell()
	}
	return b
}

// PlaceIfEmpty returns a copy with a marble of colour at dest when dest is an
// empty hexagon cell. Otherwise the board is returned unchanged, which is how
// a marble pushed over the edge disappears.
func (b Board) PlaceIfEmpty(dest Coord, colour Colour) Board {
	if b.IsEmpty(dest) {
		b[dest.Row][dest.Col] = colour.Cell()
	}
	return b
}

func (b Board) Count(colour Colour) int {
	target := colour.Cell()
	count := 0
	for row := range b {
		for _, cell := range b[row] {
			if cell == target {
				count++
			}
		}
	}
	return count
}

// Marbles lists the cells holding colour in row-major order.
func (b Board) Marbles(colour Colour) []Coord {
	target := colour.Cell()
	out := make([]Coord, 0, MaxMarbles)
	for row := range b {
		for col, cell := range b[row] {
			if cell == target {
				out = append(out, Coord{Row: row, Col: col})
			}
		}
	}
	return out
}

// Score is the number of opposing marbles colour has pushed off.
func (b Board) Score(colour Colour) int {
	return MaxMarbles - b.Count(colour.Opponent())
}

// Grid exposes the board in its integer encoding (0 off, 1 empty, 2 white, 3 black).
func (b Board) Grid() [][]int {
	rows := make([][]int, Size)
	for row := range b {
		rows[row] = make([]int, Size)
		for col, cell := range b[row] {
			rows[row][col] = int(cell)
		}
	}
	return rows
}

// FromGrid is the inverse of Grid. The off-board mask must match the hexagon.
func FromGrid(rows [][]int) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, errors.Errorf("grid has %d rows, want %d", len(rows), Size)
	}
	for row := range rows {
		if len(rows[row]) != Size {
			return b, errors.Errorf("grid row %d has %d cells, want %d", row, len(rows[row]), Size)
		}
		for col, value := range rows[row] {
			if value < int(CellOffBoard) || value > int(CellBlack) {
				return b, errors.Errorf("grid cell (%d,%d) has value %d", row, col, value)
			}
			cell := Cell(value)
			if (cell == CellOffBoard) != (emptyGrid[row][col] == CellOffBoard) {
				return b, errors.Errorf("grid cell (%d,%d) does not match the hexagon", row, col)
			}
			b[row][col] = cell
		}
	}
	return b, nil
}

// String draws the hexagon, top row first, with row letters.
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		indent := row - Size/2
		if indent < 0 {
			indent = -indent
		}
		sb.WriteByte(byte('A' + (Size - 1 - row)))
		sb.WriteByte(' ')
		sb.WriteString(strings.Repeat(" ", indent))
		first := true
		for col := 0; col < Size; col++ {
			cell := b[row][col]
			if cell == CellOffBoard {
				continue
			}
			if !first {
				sb.WriteByte(' ')
			}
			first = false
			switch cell {
			case CellWhite:
				sb.WriteByte('w')
			case CellBlack:
				sb.WriteByte('b')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
