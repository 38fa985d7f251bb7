package heuristic

import "github.com/dhruvparekh01/abalone/internal/board"

const (
	marbleValue = 50
	// eliminationBonus is added once a side is down to board.EliminationCount.
	eliminationBonus = 100
)

// Position bonus, growing towards the centre of the hexagon.
var centreTable = [board.Size][board.Size]int{
	{0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 1, 1, 1, 0},
	{0, 0, 0, 1, 2, 2, 2, 1, 0},
	{0, 0, 1, 2, 3, 3, 2, 1, 0},
	{0, 1, 2, 3, 4, 3, 2, 1, 0},
	{0, 1, 2, 3, 3, 2, 1, 0, 0},
	{0, 1, 2, 2, 2, 1, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0},
}

// Centre is the reference evaluator: material plus centralisation, with a
// large swing once either side has lost six marbles.
type Centre struct{}

func (Centre) Evaluate(b board.Board, perspective board.Colour) float64 {
	own, other := perspective.Cell(), perspective.Opponent().Cell()
	total, ownCount, otherCount := 0, 0, 0
	for row := range b {
		for col, cell := range b[row] {
			switch cell {
			case own:
				total += marbleValue + centreTable[row][col]
				ownCount++
			case other:
				total -= marbleValue + centreTable[row][col]
				otherCount++
			}
		}
	}
	if otherCount <= board.EliminationCount {
		total += eliminationBonus
	} else if ownCount <= board.EliminationCount {
		total -= eliminationBonus
	}
	return float64(total)
}
