package heuristic

import "github.com/dhruvparekh01/abalone/internal/board"

// Run weights: the first three marbles of a contiguous run earn 71, 72 and
// 73, anything longer 70 per extra marble.
var runWeights = [...]int{71, 72, 73}

const longRunWeight = 70

// lineSteps are the three axes lines are read along.
var lineSteps = [...]board.Direction{board.E, board.SE, board.NE}

// Lines rewards marbles that sit in contiguous runs along rows and both
// diagonals.
type Lines struct{}

func (Lines) Evaluate(b board.Board, perspective board.Colour) float64 {
	return float64(lineScore(b, perspective) - lineScore(b, perspective.Opponent()))
}

func lineScore(b board.Board, colour board.Colour) int {
	score := 0
	for _, d := range lineSteps {
		back := d.Opposite()
		for row := 0; row < board.Size; row++ {
			for col := 0; col < board.Size; col++ {
				start := board.Coord{Row: row, Col: col}
				if start.Step(back).InBounds() {
					continue
				}
				run := 0
				for c := start; c.InBounds(); c = c.Step(d) {
					if !b.Holds(c, colour) {
						run = 0
						continue
					}
					if run < len(runWeights) {
						score += runWeights[run]
					} else {
						score += longRunWeight
					}
					run++
				}
			}
		}
	}
	return score
}
