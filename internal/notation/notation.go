// Package notation reads and writes the text format used by the batch state
// generator: an input file names the side to move and the occupied cells,
// and the outputs list every successor board and the move producing it.
package notation

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/movegen"
)

var ErrMalformedInput = errors.New("malformed input")

// Input is a parsed input file.
type Input struct {
	Colour board.Colour
	Board  board.Board
}

// ParseInput reads the colour line followed by the cell line. Carriage
// returns and trailing blank lines are ignored.
func ParseInput(r io.Reader) (Input, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return Input{}, errors.Wrap(err, "read input")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return Input{}, errors.Wrap(ErrMalformedInput, "missing colour line")
	}
	if len(lines) > 2 {
		return Input{}, errors.Wrapf(ErrMalformedInput, "expected 2 lines, got %d", len(lines))
	}

	colour, err := board.ParseColour(strings.TrimSpace(lines[0]))
	if err != nil {
		return Input{}, errors.Wrap(err, "line 1")
	}
	cells := ""
	if len(lines) == 2 {
		cells = lines[1]
	}
	b, err := ParseCells(cells)
	if err != nil {
		return Input{}, errors.Wrap(err, "line 2")
	}
	return Input{Colour: colour, Board: b}, nil
}

// ParseCells parses a comma-separated list such as "C5b,E6w" onto an empty
// board. An empty string gives an empty board.
func ParseCells(s string) (board.Board, error) {
	b := board.Empty()
	s = strings.TrimSpace(s)
	if s == "" {
		return b, nil
	}
	for _, raw := range strings.Split(s, ",") {
		token := strings.TrimSpace(raw)
		if len(token) != 3 {
			return board.Board{}, errors.Wrapf(ErrMalformedInput, "cell %q", token)
		}
		c, err := board.ParseCoord(token[:2])
		if err != nil {
			return board.Board{}, errors.Wrapf(err, "cell %q", token)
		}
		if !c.Playable() {
			return board.Board{}, errors.Wrapf(ErrMalformedInput, "cell %q is off the board", token)
		}
		colour, err := board.ParseColour(token[2:])
		if err != nil {
			return board.Board{}, errors.Wrapf(err, "cell %q", token)
		}
		if !b.IsEmpty(c) {
			return board.Board{}, errors.Wrapf(ErrMalformedInput, "cell %q listed twice", token)
		}
		b[c.Row][c.Col] = colour.Cell()
		if b.Count(colour) > board.MaxMarbles {
			return board.Board{}, errors.Wrapf(ErrMalformedInput, "more than %d %s marbles", board.MaxMarbles, colour)
		}
	}
	return b, nil
}

type cellEntry struct {
	coord  board.Coord
	colour board.Colour
}

// FormatBoard lists the occupied cells, black first, then by row letter and
// column.
func FormatBoard(b board.Board) string {
	var entries []cellEntry
	for _, colour := range []board.Colour{board.Black, board.White} {
		for _, c := range b.Marbles(colour) {
			entries = append(entries, cellEntry{coord: c, colour: colour})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, z := entries[i], entries[j]
		if a.colour != z.colour {
			return a.colour == board.Black
		}
		if a.coord.Row != z.coord.Row {
			return a.coord.Row > z.coord.Row
		}
		return a.coord.Col < z.coord.Col
	})
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(e.coord.Label())
		sb.WriteByte(e.colour.Label())
	}
	return sb.String()
}

// FormatInput renders an input file for colour to move on b.
func FormatInput(colour board.Colour, b board.Board) string {
	return string(colour.Label()) + "\n" + FormatBoard(b) + "\n"
}

// Generate parses an input file and writes one line per successor to
// boardOut and the matching move to moveOut. It returns the number of
// successors written.
func Generate(in io.Reader, boardOut, moveOut io.Writer) (int, error) {
	input, err := ParseInput(in)
	if err != nil {
		return 0, err
	}
	successors := movegen.GenerateBySize(input.Colour, input.Board)
	if err := WriteSuccessors(successors, boardOut, moveOut); err != nil {
		return 0, err
	}
	return len(successors), nil
}

// WriteSuccessors writes the board and move lines for successors, each line
// terminated by a newline.
func WriteSuccessors(successors []movegen.Successor, boardOut, moveOut io.Writer) error {
	bw := bufio.NewWriter(boardOut)
	mw := bufio.NewWriter(moveOut)
	for _, s := range successors {
		if _, err := bw.WriteString(FormatBoard(s.Board) + "\n"); err != nil {
			return errors.Wrap(err, "write board line")
		}
		if _, err := mw.WriteString(s.Move.String() + "\n"); err != nil {
			return errors.Wrap(err, "write move line")
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "flush boards")
	}
	return errors.Wrap(mw.Flush(), "flush moves")
}
