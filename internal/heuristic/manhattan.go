package heuristic

import "github.com/dhruvparekh01/abalone/internal/board"

const (
	centreIndex = board.Size / 2
	// A side with no marbles counts as being as far out as possible.
	maxManhattan = 2 * centreIndex
	// Below this difference in mean distance the marble count decides.
	closeDistance = 2
	countWeight   = 10
)

// Manhattan compares mean Manhattan distance to the centre cell, falling back
// on marble counts when both sides are about equally central.
type Manhattan struct{}

func (Manhattan) Evaluate(b board.Board, perspective board.Colour) float64 {
	own, other := perspective.Cell(), perspective.Opponent().Cell()
	ownSum, otherSum, ownCount, otherCount := 0, 0, 0, 0
	for row := range b {
		for col, cell := range b[row] {
			dist := abs(row-centreIndex) + abs(col-centreIndex)
			switch cell {
			case own:
				ownSum += dist
				ownCount++
			case other:
				otherSum += dist
				otherCount++
			}
		}
	}
	diff := meanDistance(otherSum, otherCount) - meanDistance(ownSum, ownCount)
	bonus := 0.0
	if abs(diff) < closeDistance {
		bonus = float64((ownCount - otherCount) * countWeight)
	}
	return diff + bonus
}

func meanDistance(sum, count int) float64 {
	if count == 0 {
		return maxManhattan
	}
	return float64(sum) / float64(count)
}
