package notation

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/movegen"
)

const cornersInput = "b\nA3b,B2b,B3b,C3b,C4b,G7b,G8b,H7b,H8b,H9b,I8b,I9b,A4w,A5w,B4w,B5w,B6w,C5w,C6w,G4w,G5w,H4w,H5w,H6w,I5w,I6w\n"

const clashInput = "b\nE3b,E4b,E5b,F4b,F5b,E6w,E7w,F6w,F7w,F8w\n"

func TestParseInput(t *testing.T) {
	in, err := ParseInput(strings.NewReader(clashInput))
	if err != nil {
		t.Fatalf("expected input to parse: %v", err)
	}
	if in.Colour != board.Black {
		t.Fatalf("expected black to move, got %s", in.Colour)
	}
	if in.Board.Count(board.Black) != 5 || in.Board.Count(board.White) != 5 {
		t.Fatalf("expected 5 marbles each, got %d black and %d white", in.Board.Count(board.Black), in.Board.Count(board.White))
	}
	e6, _ := board.ParseCoord("E6")
	if !in.Board.Holds(e6, board.White) {
		t.Fatalf("expected a white marble on E6")
	}
}

func TestParseInputToleratesLineEndings(t *testing.T) {
	crlf := strings.ReplaceAll(clashInput, "\n", "\r\n") + "\r\n\r\n"
	a, err := ParseInput(strings.NewReader(crlf))
	if err != nil {
		t.Fatalf("expected CRLF input to parse: %v", err)
	}
	b, _ := ParseInput(strings.NewReader(clashInput))
	if a != b {
		t.Fatalf("expected CRLF and LF input to agree")
	}
}

func TestParseInputRejectsBadFiles(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad colour", "x\nE5b\n"},
		{"bad label", "b\nJ5b\n"},
		{"bad colour suffix", "b\nE5x\n"},
		{"short token", "b\nE5\n"},
		{"off board", "b\nA9b\n"},
		{"duplicate", "b\nE5b,E5w\n"},
		{"extra line", "b\nE5b\nE6w\n"},
		{"too many marbles", "w\n" + fifteenWhite() + "\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseInput(strings.NewReader(tc.input)); err == nil {
				t.Fatalf("expected %q to be rejected", tc.input)
			}
		})
	}
}

func fifteenWhite() string {
	var cells []string
	for row := 0; row < board.Size && len(cells) < 15; row++ {
		for col := 0; col < board.Size && len(cells) < 15; col++ {
			if c := (board.Coord{Row: row, Col: col}); c.Playable() {
				cells = append(cells, c.Label()+"w")
			}
		}
	}
	return strings.Join(cells, ",")
}

func TestParseCellsErrorsAreTyped(t *testing.T) {
	if _, err := ParseCells("Z1b"); !errors.Is(err, board.ErrInvalidLabel) {
		t.Fatalf("expected ErrInvalidLabel, got %v", err)
	}
	if _, err := ParseCells("E5q"); !errors.Is(err, board.ErrInvalidColour) {
		t.Fatalf("expected ErrInvalidColour, got %v", err)
	}
	if _, err := ParseCells("E5b,E5b"); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
	b, err := ParseCells("")
	if err != nil || b != board.Empty() {
		t.Fatalf("expected an empty cell list to give an empty board")
	}
}

func TestFormatBoardOrdering(t *testing.T) {
	b, err := ParseCells("I5w,E5b,A1w,E4b,B2b")
	if err != nil {
		t.Fatalf("expected cells to parse: %v", err)
	}
	if got := FormatBoard(b); got != "B2b,E4b,E5b,A1w,I5w" {
		t.Fatalf("expected black first then row letter and column order, got %q", got)
	}
}

func TestFormatBoardRoundTrip(t *testing.T) {
	in, err := ParseInput(strings.NewReader(cornersInput))
	if err != nil {
		t.Fatalf("expected input to parse: %v", err)
	}
	if got := FormatInput(in.Colour, in.Board); got != cornersInput {
		t.Fatalf("expected the input to round trip, got %q", got)
	}
	for _, layout := range []board.Layout{board.LayoutStandard, board.LayoutGermanDaisy, board.LayoutBelgianDaisy} {
		b := board.NewBoard(layout)
		back, err := ParseCells(FormatBoard(b))
		if err != nil {
			t.Fatalf("expected %s to round trip: %v", layout, err)
		}
		if back != b {
			t.Fatalf("expected %s to round trip unchanged", layout)
		}
	}
}

func TestGenerateWritesOneLinePerSuccessor(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		count     int
		firstMove string
		firstLine string
	}{
		{
			name:      "corners",
			input:     cornersInput,
			count:     50,
			firstMove: "[I8] - W",
			firstLine: "A3b,B2b,B3b,C3b,C4b,G7b,G8b,H7b,H8b,H9b,I7b,I9b,A4w,A5w,B4w,B5w,B6w,C5w,C6w,G4w,G5w,H4w,H5w,H6w,I5w,I6w",
		},
		{
			name:      "clash",
			input:     clashInput,
			count:     35,
			firstMove: "[F4] - NW",
			firstLine: "E3b,E4b,E5b,F5b,G4b,E6w,E7w,F6w,F7w,F8w",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var boards, moves bytes.Buffer
			n, err := Generate(strings.NewReader(tc.input), &boards, &moves)
			if err != nil {
				t.Fatalf("expected generation to succeed: %v", err)
			}
			if n != tc.count {
				t.Fatalf("expected %d successors, got %d", tc.count, n)
			}
			boardLines := strings.Split(boards.String(), "\n")
			moveLines := strings.Split(moves.String(), "\n")
			if len(boardLines) != n+1 || boardLines[n] != "" {
				t.Fatalf("expected %d newline-terminated board lines", n)
			}
			if len(moveLines) != n+1 || moveLines[n] != "" {
				t.Fatalf("expected %d newline-terminated move lines", n)
			}
			if boardLines[0] != tc.firstLine {
				t.Fatalf("expected first board %q, got %q", tc.firstLine, boardLines[0])
			}
			if moveLines[0] != tc.firstMove {
				t.Fatalf("expected first move %q, got %q", tc.firstMove, moveLines[0])
			}
		})
	}
}

func TestGenerateFollowsBatchOrder(t *testing.T) {
	in, _ := ParseInput(strings.NewReader(clashInput))
	var boards, moves bytes.Buffer
	if _, err := Generate(strings.NewReader(clashInput), &boards, &moves); err != nil {
		t.Fatalf("expected generation to succeed: %v", err)
	}
	successors := movegen.GenerateBySize(in.Colour, in.Board)
	moveLines := strings.Split(strings.TrimSuffix(moves.String(), "\n"), "\n")
	boardLines := strings.Split(strings.TrimSuffix(boards.String(), "\n"), "\n")
	for i, s := range successors {
		if moveLines[i] != s.Move.String() {
			t.Fatalf("expected move %d to be %q, got %q", i, s.Move, moveLines[i])
		}
		if boardLines[i] != FormatBoard(s.Board) {
			t.Fatalf("expected board %d to match its move", i)
		}
	}
	sizes := make([]int, len(successors))
	for i, s := range successors {
		sizes[i] = len(s.Move.Marbles)
	}
	for i := 1; i < len(sizes); i++ {
		if sizes[i] < sizes[i-1] {
			t.Fatalf("expected singles, then doubles, then triples")
		}
	}
}

func TestGeneratePropagatesParseErrors(t *testing.T) {
	var boards, moves bytes.Buffer
	if _, err := Generate(strings.NewReader("b\nE5b,E5b\n"), &boards, &moves); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
	if boards.Len() != 0 || moves.Len() != 0 {
		t.Fatalf("expected nothing written for a bad input")
	}
}
