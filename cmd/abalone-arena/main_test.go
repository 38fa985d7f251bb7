package main

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/game"
	"github.com/dhruvparekh01/abalone/internal/heuristic"
)

func TestUpdateEloIsZeroSum(t *testing.T) {
	a := contender{Name: "a", Elo: initialElo}
	b := contender{Name: "b", Elo: initialElo}
	updateElo(&a, &b, 1, eloK)
	if math.Abs(a.Elo-(initialElo+eloK/2)) > 1e-9 {
		t.Fatalf("expected an even win to gain K/2, got %f", a.Elo)
	}
	if math.Abs((a.Elo+b.Elo)-2*initialElo) > 1e-9 {
		t.Fatalf("expected ratings to stay zero-sum, got %f + %f", a.Elo, b.Elo)
	}

	before := a.Elo
	updateElo(&a, &b, 0.5, eloK)
	if a.Elo >= before {
		t.Fatalf("expected the favourite to lose rating on a tie, got %f -> %f", before, a.Elo)
	}
}

func TestResultForA(t *testing.T) {
	cases := []struct {
		status   game.Status
		aIsBlack bool
		want     float64
	}{
		{game.StatusBlackWon, true, 1},
		{game.StatusBlackWon, false, 0},
		{game.StatusWhiteWon, true, 0},
		{game.StatusWhiteWon, false, 1},
		{game.StatusTie, true, 0.5},
	}
	for _, tc := range cases {
		res := gameResult{Fixture: fixture{AIsBlack: tc.aIsBlack}, Status: tc.status}
		if got := resultForA(res); got != tc.want {
			t.Fatalf("expected %v for %s with a black=%v, got %v", tc.want, tc.status, tc.aIsBlack, got)
		}
	}
}

func TestRecordResultTallies(t *testing.T) {
	a := contender{Elo: initialElo}
	b := contender{Elo: initialElo}
	recordResult(&a, &b, gameResult{Fixture: fixture{AIsBlack: true}, Status: game.StatusBlackWon})
	recordResult(&a, &b, gameResult{Fixture: fixture{AIsBlack: false}, Status: game.StatusBlackWon})
	recordResult(&a, &b, gameResult{Fixture: fixture{AIsBlack: true}, Status: game.StatusTie})
	if a.Wins != 1 || a.Losses != 1 || a.Ties != 1 || b.Wins != 1 || b.Losses != 1 || b.Ties != 1 {
		t.Fatalf("unexpected tallies %+v %+v", a, b)
	}
}

func TestScheduleAlternatesColours(t *testing.T) {
	fixtures := schedule(7)
	seen := make(map[int]bool)
	aBlack := 0
	for _, f := range fixtures {
		if seen[f.Index] {
			t.Fatalf("expected each game once, saw %d twice", f.Index)
		}
		seen[f.Index] = true
		if f.AIsBlack != (f.Index%2 == 0) {
			t.Fatalf("expected game %d colours to alternate", f.Index)
		}
		if f.AIsBlack {
			aBlack++
		}
	}
	if len(seen) != 7 || aBlack != 4 {
		t.Fatalf("expected 7 games with a black in 4, got %d and %d", len(seen), aBlack)
	}
}

func TestRunArenaPlaysEveryGame(t *testing.T) {
	opts := arenaOptions{
		A:         "centre",
		B:         "lines",
		Games:     2,
		Budget:    200 * time.Millisecond,
		MaxDepth:  1,
		Layout:    board.LayoutStandard,
		MoveLimit: 2,
		Parallel:  2,
	}
	var out bytes.Buffer
	a, b, err := runArena(context.Background(), opts, &out)
	if err != nil {
		t.Fatalf("expected the arena to finish: %v", err)
	}
	if got := a.Wins + a.Losses + a.Ties; got != 2 {
		t.Fatalf("expected 2 results for a, got %d", got)
	}
	if a.Wins != b.Losses || a.Ties != b.Ties {
		t.Fatalf("expected mirrored tallies, got %+v %+v", a, b)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 2 {
		t.Fatalf("expected one line per game, got %q", out.String())
	}
}

func TestRunArenaRejectsUnknownEvaluator(t *testing.T) {
	opts := arenaOptions{A: "centre", B: "nope", Games: 1, Budget: time.Second}
	_, _, err := runArena(context.Background(), opts, &bytes.Buffer{})
	if !errors.Is(err, heuristic.ErrUnknownEvaluator) {
		t.Fatalf("expected ErrUnknownEvaluator, got %v", err)
	}
}
