package game

import (
	"errors"
	"testing"
	"time"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/config"
	"github.com/dhruvparekh01/abalone/internal/search"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.AiLogSearchStats = false
	cfg.AiMaxDepth = 1
	return cfg
}

func humanVsHuman() Settings {
	s := DefaultSettings(testConfig())
	s.WhiteType = PlayerHuman
	return s
}

func coords(t *testing.T, labels ...string) []board.Coord {
	t.Helper()
	out := make([]board.Coord, len(labels))
	for i, label := range labels {
		c, err := board.ParseCoord(label)
		if err != nil {
			t.Fatalf("expected %q to parse: %v", label, err)
		}
		out[i] = c
	}
	return out
}

func startedGame(t *testing.T, settings Settings) *Game {
	t.Helper()
	g, err := NewGame(settings, testConfig())
	if err != nil {
		t.Fatalf("expected a game: %v", err)
	}
	g.Start()
	return g
}

func tickUntilMoved(t *testing.T, g *Game) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if g.Tick() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected the AI to move within 5s")
}

func TestHumanMoveUpdatesState(t *testing.T) {
	g := startedGame(t, humanVsHuman())
	move, err := g.ApplyHumanMove(coords(t, "C3", "C4", "C5"), board.NW)
	if err != nil {
		t.Fatalf("expected the move to be legal: %v", err)
	}
	if len(move.Marbles) != 3 {
		t.Fatalf("expected a three marble move, got %s", move)
	}
	st := g.State()
	if st.ToMove != board.White {
		t.Fatalf("expected white to move next")
	}
	if st.Moves[board.Black] != 1 || st.Moves[board.White] != 0 {
		t.Fatalf("expected one black move, got %v", st.Moves)
	}
	for _, c := range coords(t, "D3", "D4", "D5") {
		if !st.Board.Holds(c, board.Black) {
			t.Fatalf("expected black on %s", c)
		}
	}
	if !st.HasLastMove || !st.LastMove.Same(move) {
		t.Fatalf("expected the last move to be recorded")
	}
	if g.History().Size() != 1 {
		t.Fatalf("expected one history entry, got %d", g.History().Size())
	}
}

func TestIllegalHumanMoveLeavesBoard(t *testing.T) {
	g := startedGame(t, humanVsHuman())
	before := g.State().Board
	if _, err := g.ApplyHumanMove(coords(t, "A1", "B2"), board.E); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if _, err := g.ApplyHumanMove(coords(t, "I5"), board.SE); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected moving a white marble as black to fail, got %v", err)
	}
	st := g.State()
	if st.Board != before || st.ToMove != board.Black || g.History().Size() != 0 {
		t.Fatalf("expected nothing to change after illegal moves")
	}
}

func TestHumanMoveRejectedWhenNotRunningOrNotHuman(t *testing.T) {
	g, err := NewGame(DefaultSettings(testConfig()), testConfig())
	if err != nil {
		t.Fatalf("expected a game: %v", err)
	}
	if _, err := g.ApplyHumanMove(coords(t, "C3"), board.NW); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
	g.Start()
	if _, err := g.ApplyHumanMove(coords(t, "C3"), board.NW); err != nil {
		t.Fatalf("expected black's move to be accepted: %v", err)
	}
	if _, err := g.ApplyHumanMove(coords(t, "G5"), board.SE); !errors.Is(err, ErrNotHumanTurn) {
		t.Fatalf("expected ErrNotHumanTurn on the AI's turn, got %v", err)
	}
	g.Stop()
}

func TestPushingOffSixthMarbleWins(t *testing.T) {
	s := humanVsHuman()
	s.StartCells = "E6b,E7b,E8b,I5b,I6b,I7b,I8b,I9b,H9b,E9w,A1w,A2w,A3w,A4w,A5w,B1w,B2w,B3w"
	g := startedGame(t, s)
	if g.State().Status != StatusRunning {
		t.Fatalf("expected the game to be running at 5-5")
	}
	move, err := g.ApplyHumanMove(coords(t, "E8", "E6", "E7"), board.E)
	if err != nil {
		t.Fatalf("expected the push to be legal: %v", err)
	}
	if move.Captured != 1 {
		t.Fatalf("expected one marble pushed off, got %d", move.Captured)
	}
	st := g.State()
	if st.Status != StatusBlackWon {
		t.Fatalf("expected black to win, got %s", st.Status)
	}
	if st.Score(board.Black) != board.WinningScore {
		t.Fatalf("expected black to score %d, got %d", board.WinningScore, st.Score(board.Black))
	}
	if st.LastMessage != "Black pushed 6 white marbles off." {
		t.Fatalf("unexpected message %q", st.LastMessage)
	}
	if _, err := g.ApplyHumanMove(coords(t, "A1"), board.E); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected no moves after the game ends, got %v", err)
	}
}

func TestMoveLimitEndsInTie(t *testing.T) {
	s := humanVsHuman()
	s.MoveLimit = 1
	g := startedGame(t, s)
	if _, err := g.ApplyHumanMove(coords(t, "C3"), board.NW); err != nil {
		t.Fatalf("expected black's move: %v", err)
	}
	if g.State().Status != StatusRunning {
		t.Fatalf("expected the game to continue until both sides reach the limit")
	}
	if _, err := g.ApplyHumanMove(coords(t, "G5"), board.SE); err != nil {
		t.Fatalf("expected white's move: %v", err)
	}
	if st := g.State(); st.Status != StatusTie {
		t.Fatalf("expected a tie at equal scores, got %s", st.Status)
	}
}

func TestStopDecidesOnScore(t *testing.T) {
	s := humanVsHuman()
	s.StartCells = "E1b,E2b,E3b,E4b,E5b,E6b,E7b,E8b,E9b,D1b,A1w,A2w,A3w,A4w,A5w,B1w,B2w,B3w,B4w"
	g := startedGame(t, s)
	g.Stop()
	st := g.State()
	if st.Status != StatusBlackWon {
		t.Fatalf("expected black to lead 5-4 and win, got %s", st.Status)
	}
	if st.LastMessage != "Game over." {
		t.Fatalf("unexpected message %q", st.LastMessage)
	}
}

func TestUndoHumanVsHuman(t *testing.T) {
	g := startedGame(t, humanVsHuman())
	if err := g.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
	if _, err := g.ApplyHumanMove(coords(t, "C3"), board.NW); err != nil {
		t.Fatalf("expected black's move: %v", err)
	}
	afterFirst := g.State()
	if _, err := g.ApplyHumanMove(coords(t, "G5"), board.SE); err != nil {
		t.Fatalf("expected white's move: %v", err)
	}
	if err := g.Undo(); err != nil {
		t.Fatalf("expected undo to succeed: %v", err)
	}
	st := g.State()
	if st.Board != afterFirst.Board || st.ToMove != board.White {
		t.Fatalf("expected the position after black's move with white to play")
	}
	if st.Moves != afterFirst.Moves || st.TotalTime != afterFirst.TotalTime {
		t.Fatalf("expected counts and clocks restored, got %v %v", st.Moves, st.TotalTime)
	}
	if g.History().Size() != 1 {
		t.Fatalf("expected one history entry left, got %d", g.History().Size())
	}
}

func TestUndoAfterGameOverResumes(t *testing.T) {
	s := humanVsHuman()
	s.MoveLimit = 1
	g := startedGame(t, s)
	_, _ = g.ApplyHumanMove(coords(t, "C3"), board.NW)
	_, _ = g.ApplyHumanMove(coords(t, "G5"), board.SE)
	if !g.State().Status.Over() {
		t.Fatalf("expected the game to be over")
	}
	if err := g.Undo(); err != nil {
		t.Fatalf("expected undo to succeed: %v", err)
	}
	if g.State().Status != StatusRunning {
		t.Fatalf("expected the game to resume, got %s", g.State().Status)
	}
}

func TestPassesEndTheGame(t *testing.T) {
	g := startedGame(t, humanVsHuman())
	g.applySearchResult(search.Result{})
	st := g.State()
	if st.ToMove != board.White || st.Passes != 1 || st.Moves[board.Black] != 1 {
		t.Fatalf("expected black's pass to hand the turn to white, got %+v", st)
	}
	last, _ := g.History().Last()
	if !last.Pass || last.Board != st.Board {
		t.Fatalf("expected a pass entry on the unchanged board")
	}
	g.pass(false)
	g.settleTurn()
	if st := g.State(); st.Status != StatusTie {
		t.Fatalf("expected two passes to end the game level, got %s", st.Status)
	}
}

func TestAIRepliesAfterHumanMove(t *testing.T) {
	s := DefaultSettings(testConfig())
	s.TimeLimitMs = 200
	g := startedGame(t, s)
	if _, err := g.ApplyHumanMove(coords(t, "C3", "C4", "C5"), board.NW); err != nil {
		t.Fatalf("expected black's move: %v", err)
	}
	var reports []search.DepthReport
	g.SetProgress(func(c board.Colour, r search.DepthReport) {
		if c == board.White {
			reports = append(reports, r)
		}
	})
	tickUntilMoved(t, g)
	st := g.State()
	if st.ToMove != board.Black || st.Moves[board.White] != 1 {
		t.Fatalf("expected white to have replied, got %+v", st.Moves)
	}
	last, _ := g.History().Last()
	if !last.IsAI || last.Colour != board.White || last.Depth < 1 {
		t.Fatalf("expected an AI entry with a completed depth, got %+v", last)
	}
	if len(reports) == 0 {
		t.Fatalf("expected progress reports from the search")
	}
	if err := g.Undo(); err != nil {
		t.Fatalf("expected undo to succeed: %v", err)
	}
	if g.History().Size() != 0 || g.State().ToMove != board.Black {
		t.Fatalf("expected undo to take back both plies")
	}
}

func TestRandomOpeningForAIBlack(t *testing.T) {
	s := DefaultSettings(testConfig())
	s.BlackType, s.WhiteType = PlayerAI, PlayerHuman
	g := startedGame(t, s)
	if !g.Tick() {
		t.Fatalf("expected the opening move to be played on the first tick")
	}
	last, ok := g.History().Last()
	if !ok || !last.IsAI || last.Depth != 0 || last.Colour != board.Black {
		t.Fatalf("expected an unsearched AI opening, got %+v", last)
	}
	if g.State().ToMove != board.White {
		t.Fatalf("expected white to move next")
	}
	if err := g.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected no human move to undo, got %v", err)
	}
}

func TestAIVersusAIPlaysToTheLimit(t *testing.T) {
	s := DefaultSettings(testConfig())
	s.BlackType, s.WhiteType = PlayerAI, PlayerAI
	s.WhiteEvaluator = "lines"
	s.MoveLimit = 3
	g := startedGame(t, s)
	for i := 0; i < 10 && g.State().Status == StatusRunning; i++ {
		if err := g.PlayAITurn(); err != nil {
			t.Fatalf("expected the AI turn to play: %v", err)
		}
	}
	st := g.State()
	if !st.Status.Over() {
		t.Fatalf("expected the game to end, got %s", st.Status)
	}
	if st.Moves[board.Black] != 3 || st.Moves[board.White] != 3 {
		t.Fatalf("expected 3 moves each, got %v", st.Moves)
	}
	if err := g.PlayAITurn(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning after the end, got %v", err)
	}
}

func TestResetStopsThinking(t *testing.T) {
	s := DefaultSettings(testConfig())
	s.BlackType = PlayerAI
	s.RandomOpening = false
	s.TimeLimitMs = 10000
	cfg := testConfig()
	cfg.AiMaxDepth = 64
	g, err := NewGame(s, cfg)
	if err != nil {
		t.Fatalf("expected a game: %v", err)
	}
	g.Start()
	g.Tick()
	if !g.AiThinking() {
		t.Fatalf("expected the search to be running")
	}
	start := time.Now()
	if err := g.Reset(humanVsHuman()); err != nil {
		t.Fatalf("expected reset to succeed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("expected reset to interrupt the search, took %v", elapsed)
	}
	if g.State().Status != StatusNotStarted {
		t.Fatalf("expected a fresh game")
	}
}

func TestSettingsValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"move limit", func(s *Settings) { s.MoveLimit = 0 }},
		{"time limit", func(s *Settings) { s.TimeLimitMs = -1 }},
		{"evaluator", func(s *Settings) { s.BlackEvaluator = "oracle" }},
		{"start cells", func(s *Settings) { s.StartCells = "E5b,E5w" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings(testConfig())
			tc.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Fatalf("expected validation to fail")
			}
			g, _ := NewGame(humanVsHuman(), testConfig())
			if err := g.Reset(s); err == nil {
				t.Fatalf("expected reset to reject the settings")
			}
			if g.Settings().MoveLimit != humanVsHuman().MoveLimit {
				t.Fatalf("expected the old settings to stay")
			}
		})
	}
}

func TestPlayerTypeText(t *testing.T) {
	var p PlayerType
	if err := p.UnmarshalText([]byte("AI")); err != nil || p != PlayerAI {
		t.Fatalf("expected AI to parse, got %v %v", p, err)
	}
	if err := p.UnmarshalText([]byte("robot")); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
	if text, _ := PlayerHuman.MarshalText(); string(text) != "human" {
		t.Fatalf("expected human, got %s", text)
	}
}
