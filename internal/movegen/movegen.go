// Package movegen enumerates every legal Abalone move for a side: single
// marbles, two- and three-marble in-line moves (with sumito pushes) and
// broadside moves.
package movegen

import "github.com/dhruvparekh01/abalone/internal/board"

// Scan order for single-marble neighbours.
var singleOrder = [...]board.Direction{board.NW, board.NE, board.W, board.E, board.SW, board.SE}

// axis is the step from a group's first marble to the next one.
type axis struct {
	step      board.Direction
	inline    [2]board.Direction
	broadside [4]board.Direction
}

// Axes in scan order: SW/NE, W/E, NW/SE.
var axes = [...]axis{
	{step: board.NE, inline: [2]board.Direction{board.NE, board.SW}, broadside: [4]board.Direction{board.NW, board.W, board.SE, board.E}},
	{step: board.E, inline: [2]board.Direction{board.W, board.E}, broadside: [4]board.Direction{board.NW, board.SW, board.SE, board.NE}},
	{step: board.SE, inline: [2]board.Direction{board.NW, board.SE}, broadside: [4]board.Direction{board.SW, board.W, board.NE, board.E}},
}

// Generate returns all successors for colour: triples first, then doubles,
// then singles. Search move ordering ties depend on this order.
func Generate(colour board.Colour, b board.Board) []Successor {
	out := make([]Successor, 0, 64)
	out = appendGroupMoves(out, colour, b, 3)
	out = appendGroupMoves(out, colour, b, 2)
	out = appendSingles(out, colour, b)
	return out
}

// GenerateBySize returns the same successors ordered singles, doubles,
// triples, the order the batch files use.
func GenerateBySize(colour board.Colour, b board.Board) []Successor {
	out := make([]Successor, 0, 64)
	out = appendSingles(out, colour, b)
	out = appendGroupMoves(out, colour, b, 2)
	out = appendGroupMoves(out, colour, b, 3)
	return out
}

// Singles returns the single-marble successors in scan order.
func Singles(colour board.Colour, b board.Board) []Successor {
	return appendSingles(nil, colour, b)
}

// GroupMoves returns the in-line and broadside successors of every group of
// the given size (2 or 3).
func GroupMoves(colour board.Colour, b board.Board, size int) []Successor {
	return appendGroupMoves(nil, colour, b, size)
}

func appendSingles(out []Successor, colour board.Colour, b board.Board) []Successor {
	for _, origin := range b.Marbles(colour) {
		for _, d := range singleOrder {
			dest := origin.Step(d)
			if !b.IsEmpty(dest) {
				continue
			}
			out = append(out, Successor{
				Board: b.ApplyMove(origin, dest, colour),
				Move:  Move{Marbles: []board.Coord{origin}, Direction: d, Kind: KindSingle},
			})
		}
	}
	return out
}

// Groups lists every colinear group of exactly size marbles of colour,
// scanning cells row-major and axes SW/NE, W/E, NW/SE.
func Groups(colour board.Colour, b board.Board, size int) [][]board.Coord {
	if size < 2 || size > 3 {
		return nil
	}
	var groups [][]board.Coord
	for _, origin := range b.Marbles(colour) {
		for _, ax := range axes {
			group := make([]board.Coord, size)
			for i := range group {
				group[i] = origin.StepN(ax.step, i)
			}
			if ValidGroup(b, colour, group) {
				groups = append(groups, group)
			}
		}
	}
	return groups
}

// ValidGroup reports whether every member is an in-bounds cell holding colour.
func ValidGroup(b board.Board, colour board.Colour, group []board.Coord) bool {
	if len(group) == 0 {
		return false
	}
	for _, c := range group {
		if !b.Holds(c, colour) {
			return false
		}
	}
	return true
}

func appendGroupMoves(out []Successor, colour board.Colour, b board.Board, size int) []Successor {
	for _, group := range Groups(colour, b, size) {
		ax, ok := axisOf(group)
		if !ok {
			continue
		}
		for _, d := range ax.inline {
			if next, move, ok := inlineMove(b, colour, group, d); ok {
				out = append(out, Successor{Board: next, Move: move})
			}
		}
		for _, d := range ax.broadside {
			if next, move, ok := broadsideMove(b, colour, group, d); ok {
				out = append(out, Successor{Board: next, Move: move})
			}
		}
	}
	return out
}

// axisOf classifies a group by its endpoints.
func axisOf(group []board.Coord) (axis, bool) {
	if len(group) < 2 {
		return axis{}, false
	}
	first, last := group[0], group[len(group)-1]
	switch {
	case first.Row > last.Row && first.Col < last.Col:
		return axes[0], true
	case first.Row == last.Row && first.Col < last.Col:
		return axes[1], true
	case first.Row < last.Row && first.Col == last.Col:
		return axes[2], true
	}
	return axis{}, false
}

// inlineMove moves group one step along its own axis, pushing up to
// len(group)-1 opposing marbles. The tail marble jumps to the destination,
// which leaves the same position as shifting every marble.
func inlineMove(b board.Board, colour board.Colour, group []board.Coord, d board.Direction) (board.Board, Move, bool) {
	move := Move{Marbles: group, Direction: d, Kind: KindInLine}
	head, tail := move.Head(), move.Tail()
	dest := head.Step(d)
	if b.IsEmpty(dest) {
		return b.ApplyMove(tail, dest, colour), move, true
	}
	if !b.IsOccupiedByOpponent(dest, colour) {
		return b, Move{}, false
	}
	opponent := colour.Opponent()
	beyond := dest.Step(d)
	if b.IsEmptyOrOffBoard(beyond) {
		move.Pushed = 1
		if !b.IsEmpty(beyond) {
			move.Captured = 1
		}
		next := b.ApplyMove(tail, dest, colour).PlaceIfEmpty(beyond, opponent)
		return next, move, true
	}
	if len(group) < 3 || !b.IsOccupiedByOpponent(beyond, colour) {
		return b, Move{}, false
	}
	further := beyond.Step(d)
	if !b.IsEmptyOrOffBoard(further) {
		return b, Move{}, false
	}
	move.Pushed = 2
	if !b.IsEmpty(further) {
		move.Captured = 1
	}
	next := b.ApplyMove(tail, dest, colour).PlaceIfEmpty(further, opponent)
	return next, move, true
}

// broadsideMove shifts every marble sideways; all targets must be empty.
func broadsideMove(b board.Board, colour board.Colour, group []board.Coord, d board.Direction) (board.Board, Move, bool) {
	for _, c := range group {
		if !b.IsEmpty(c.Step(d)) {
			return b, Move{}, false
		}
	}
	next := b
	for _, c := range group {
		next = next.ApplyMove(c, c.Step(d), colour)
	}
	return next, Move{Marbles: group, Direction: d, Kind: KindBroadside}, true
}
