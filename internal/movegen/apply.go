package movegen

import "github.com/dhruvparekh01/abalone/internal/board"

// Apply plays a user-selected move: the chosen marbles (any order) moved one
// step in direction d. It returns ok=false, and the board untouched, when the
// selection is not a legal move for colour.
func Apply(b board.Board, colour board.Colour, marbles []board.Coord, d board.Direction) (Successor, bool) {
	if len(marbles) == 0 || len(marbles) > 3 {
		return Successor{Board: b}, false
	}
	if !ValidGroup(b, colour, marbles) {
		return Successor{Board: b}, false
	}
	wanted := Move{Marbles: marbles, Direction: d}
	var candidates []Successor
	if len(marbles) == 1 {
		candidates = Singles(colour, b)
	} else {
		candidates = GroupMoves(colour, b, len(marbles))
	}
	for _, candidate := range candidates {
		if candidate.Move.Same(wanted) {
			return candidate, true
		}
	}
	return Successor{Board: b}, false
}

// HasMoves reports whether colour has at least one legal move.
func HasMoves(colour board.Colour, b board.Board) bool {
	for _, origin := range b.Marbles(colour) {
		for _, d := range board.Directions {
			if b.IsEmpty(origin.Step(d)) {
				return true
			}
		}
	}
	return len(GroupMoves(colour, b, 2)) > 0 || len(GroupMoves(colour, b, 3)) > 0
}
