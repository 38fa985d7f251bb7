// Package game runs an Abalone session between two players, human or AI:
// turn order, per-side move counts and clocks, win and tie detection,
// history and undo.
package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/config"
	"github.com/dhruvparekh01/abalone/internal/logging"
	"github.com/dhruvparekh01/abalone/internal/movegen"
	"github.com/dhruvparekh01/abalone/internal/search"
)

var (
	ErrNotRunning    = errors.New("game not running")
	ErrNotHumanTurn  = errors.New("not a human turn")
	ErrNotAITurn     = errors.New("not an AI turn")
	ErrIllegalMove   = errors.New("illegal move")
	ErrNothingToUndo = errors.New("nothing to undo")
)

// ProgressFunc receives each completed search depth of the AI to move. It
// is called from the search goroutine.
type ProgressFunc func(colour board.Colour, report search.DepthReport)

type Game struct {
	settings    Settings
	cfg         config.Config
	state       State
	history     MoveHistory
	blackPlayer Player
	whitePlayer Player
	turnStart   time.Time
	progress    ProgressFunc
	logger      zerolog.Logger
}

func NewGame(settings Settings, cfg config.Config) (*Game, error) {
	g := &Game{cfg: cfg, logger: logging.Component("game")}
	if err := g.Reset(settings); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset discards the current game and sets up a new one that has not
// started. Invalid settings leave the game untouched.
func (g *Game) Reset(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	start, err := settings.StartBoard()
	if err != nil {
		return err
	}
	g.stopThinking()
	g.settings = settings
	if err := g.createPlayers(); err != nil {
		return err
	}
	g.state = newState(start)
	g.history.Clear()
	g.turnStart = time.Now()
	g.logMatchup()
	return nil
}

func (g *Game) Start() {
	if g.state.Status != StatusNotStarted {
		return
	}
	g.state.Status = StatusRunning
	g.turnStart = time.Now()
	g.settleTurn()
}

// Stop ends a running game now, decided on score.
func (g *Game) Stop() {
	if g.state.Status != StatusRunning {
		return
	}
	g.stopThinking()
	g.endOnScore("Game over.")
}

func (g *Game) State() State {
	return g.state
}

func (g *Game) History() MoveHistory {
	return MoveHistory{entries: g.history.All()}
}

func (g *Game) Settings() Settings {
	return g.settings
}

func (g *Game) Config() config.Config {
	return g.cfg
}

// SetConfig replaces the engine config used by later searches.
func (g *Game) SetConfig(cfg config.Config) error {
	g.cfg = cfg
	return g.createPlayers()
}

func (g *Game) SetProgress(fn ProgressFunc) {
	g.progress = fn
}

func (g *Game) TurnStartedAt() time.Time {
	return g.turnStart
}

func (g *Game) ApplyHumanMove(marbles []board.Coord, d board.Direction) (movegen.Move, error) {
	if g.state.Status != StatusRunning {
		return movegen.Move{}, ErrNotRunning
	}
	if !g.CurrentPlayerIsHuman() {
		return movegen.Move{}, ErrNotHumanTurn
	}
	s, ok := movegen.Apply(g.state.Board, g.state.ToMove, marbles, d)
	if !ok {
		g.state.LastMessage = "Illegal move"
		return movegen.Move{}, errors.Wrapf(ErrIllegalMove, "%v %s for %s", marbles, d, g.state.ToMove)
	}
	g.commit(s, false, 0)
	return s.Move, nil
}

// Tick advances an AI turn: it collects a finished search, or starts one.
// It reports whether a move was played.
func (g *Game) Tick() bool {
	if g.state.Status != StatusRunning {
		return false
	}
	ai, ok := g.currentPlayer().(*AIPlayer)
	if !ok {
		return false
	}
	if ai.HasMoveReady() {
		return g.applySearchResult(ai.TakeMove())
	}
	if ai.IsThinking() {
		return false
	}
	if g.openingMoveDue() {
		return g.playRandomOpening()
	}
	ai.StartThinking(g.state.Board, g.state.ToMove, g.searchOptions(g.state.ToMove))
	return false
}

// PlayAITurn searches on the calling goroutine and plays the result.
func (g *Game) PlayAITurn() error {
	if g.state.Status != StatusRunning {
		return ErrNotRunning
	}
	ai, ok := g.currentPlayer().(*AIPlayer)
	if !ok {
		return ErrNotAITurn
	}
	if g.openingMoveDue() {
		g.playRandomOpening()
		return nil
	}
	g.applySearchResult(ai.ChooseMove(g.state.Board, g.state.ToMove, g.searchOptions(g.state.ToMove)))
	return nil
}

// Undo takes back the most recent human move together with every AI reply
// and pass played after it.
func (g *Game) Undo() error {
	entries := g.history.All()
	last := -1
	for i := len(entries) - 1; i >= 0; i-- {
		if !entries[i].IsAI && !entries[i].Pass {
			last = i
			break
		}
	}
	if last < 0 {
		return ErrNothingToUndo
	}
	g.stopThinking()
	g.state = entries[last].before
	g.state.LastMessage = fmt.Sprintf("Undid %d ply", len(entries)-last)
	for g.history.Size() > last {
		g.history.Pop()
	}
	g.turnStart = time.Now()
	g.logger.Info().Int("plies", len(entries)-last).Stringer("to_move", g.state.ToMove).Msg("undo")
	return nil
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	ai, ok := g.currentPlayer().(*AIPlayer)
	return ok && ai.IsThinking()
}

func (g *Game) currentPlayer() Player {
	return g.playerForColour(g.state.ToMove)
}

func (g *Game) playerForColour(colour board.Colour) Player {
	if colour == board.Black {
		return g.blackPlayer
	}
	return g.whitePlayer
}

func (g *Game) createPlayers() error {
	g.stopThinking()
	players := make([]Player, 2)
	for _, colour := range []board.Colour{board.White, board.Black} {
		if g.settings.typeFor(colour) == PlayerHuman {
			players[colour] = NewHumanPlayer()
			continue
		}
		ai, err := NewAIPlayer(g.settings.evaluatorFor(colour), g.cfg.AiLogSearchStats, g.logger)
		if err != nil {
			return err
		}
		players[colour] = ai
	}
	g.whitePlayer, g.blackPlayer = players[board.White], players[board.Black]
	return nil
}

func (g *Game) stopThinking() {
	for _, p := range []Player{g.blackPlayer, g.whitePlayer} {
		if ai, ok := p.(*AIPlayer); ok {
			ai.StopThinking()
		}
	}
}

func (g *Game) searchOptions(colour board.Colour) search.Options {
	opts := search.Options{
		Budget:          g.settings.TimeLimit(),
		SafetyMargin:    g.cfg.SafetyMargin(),
		MaxDepth:        g.cfg.AiMaxDepth,
		OrderMinimizing: g.cfg.AiOrderMinimizing,
	}
	if progress := g.progress; progress != nil {
		opts.OnDepth = func(r search.DepthReport) { progress(colour, r) }
	}
	return opts
}

func (g *Game) openingMoveDue() bool {
	return g.settings.RandomOpening && g.state.ToMove == board.Black && g.history.Size() == 0
}

func (g *Game) playRandomOpening() bool {
	successors := movegen.Generate(board.Black, g.state.Board)
	if len(successors) == 0 {
		g.pass(true)
		g.settleTurn()
		return false
	}
	g.commit(successors[frand.Intn(len(successors))], true, 0)
	return true
}

func (g *Game) applySearchResult(res search.Result) bool {
	if !res.Found {
		g.pass(true)
		g.settleTurn()
		return false
	}
	g.commit(movegen.Successor{Board: res.Board, Move: res.Move}, true, res.Depth)
	return true
}

func (g *Game) commit(s movegen.Successor, isAI bool, depth int) {
	colour := g.state.ToMove
	elapsed := time.Since(g.turnStart)
	entry := HistoryEntry{
		Board:   s.Board,
		Move:    s.Move,
		Colour:  colour,
		Elapsed: elapsed,
		IsAI:    isAI,
		Depth:   depth,
		before:  g.state,
	}
	g.state.Board = s.Board
	g.state.LastMove = s.Move
	g.state.HasLastMove = true
	g.state.Moves[colour]++
	g.state.TotalTime[colour] += elapsed
	g.state.LastTime[colour] = elapsed
	g.state.Passes = 0
	g.state.LastMessage = ""
	g.history.Push(entry)
	g.logMovePlayed(entry)

	g.state.ToMove = colour.Opponent()
	g.turnStart = time.Now()
	g.settleTurn()
}

// pass records a turn lost for lack of a legal move.
func (g *Game) pass(isAI bool) {
	colour := g.state.ToMove
	elapsed := time.Since(g.turnStart)
	g.history.Push(HistoryEntry{
		Board:   g.state.Board,
		Colour:  colour,
		Elapsed: elapsed,
		IsAI:    isAI,
		Pass:    true,
		before:  g.state,
	})
	g.state.Moves[colour]++
	g.state.TotalTime[colour] += elapsed
	g.state.LastTime[colour] = elapsed
	g.state.Passes++
	g.state.LastMessage = fmt.Sprintf("%s has no legal move and passes.", capitalise(colour.String()))
	g.logger.Info().Stringer("colour", colour).Int("passes", g.state.Passes).Msg("pass")
	g.state.ToMove = colour.Opponent()
	g.turnStart = time.Now()
}

// settleTurn ends the game when a rule says so and passes for a side that
// cannot move.
func (g *Game) settleTurn() {
	for g.state.Status == StatusRunning {
		if g.checkGameOver() {
			return
		}
		if g.state.Passes >= 2 {
			g.endOnScore("Game over, neither side can move.")
			return
		}
		if movegen.HasMoves(g.state.ToMove, g.state.Board) {
			return
		}
		g.pass(!g.CurrentPlayerIsHuman())
	}
}

func (g *Game) checkGameOver() bool {
	for _, colour := range []board.Colour{board.Black, board.White} {
		if g.state.Score(colour) >= board.WinningScore {
			g.finish(wonStatus(colour), fmt.Sprintf("%s pushed %d %s marbles off.", capitalise(colour.String()), board.WinningScore, colour.Opponent()))
			return true
		}
	}
	limit := g.settings.MoveLimit
	if g.state.Moves[board.Black] >= limit && g.state.Moves[board.White] >= limit {
		g.endOnScore("Game over, move limit reached for both players.")
		return true
	}
	return false
}

func (g *Game) endOnScore(message string) {
	if winner, ok := g.state.Winner(); ok {
		g.finish(wonStatus(winner), message)
		return
	}
	g.finish(StatusTie, message)
}

func (g *Game) finish(status Status, message string) {
	g.state.Status = status
	g.state.LastMessage = message
	g.logger.Info().
		Stringer("status", status).
		Int("black_score", g.state.Score(board.Black)).
		Int("white_score", g.state.Score(board.White)).
		Int("black_moves", g.state.Moves[board.Black]).
		Int("white_moves", g.state.Moves[board.White]).
		Msg(message)
}

func (g *Game) logMatchup() {
	label := func(colour board.Colour) string {
		if g.settings.typeFor(colour) == PlayerAI {
			return "AI (" + g.settings.evaluatorFor(colour) + ")"
		}
		return "Human"
	}
	g.logger.Info().
		Stringer("layout", g.settings.Layout).
		Str("black", label(board.Black)).
		Str("white", label(board.White)).
		Int("move_limit", g.settings.MoveLimit).
		Int("time_limit_ms", g.settings.TimeLimitMs).
		Msg("new game")
}

func (g *Game) logMovePlayed(entry HistoryEntry) {
	g.logger.Info().
		Stringer("colour", entry.Colour).
		Stringer("move", entry.Move).
		Bool("ai", entry.IsAI).
		Int("depth", entry.Depth).
		Dur("elapsed", entry.Elapsed).
		Int("score", g.state.Score(entry.Colour)).
		Int("moves", g.state.Moves[entry.Colour]).
		Msg("move")
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
