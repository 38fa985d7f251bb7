// Package search picks a move with iterative-deepening minimax and
// alpha-beta pruning, bounded by a wall-clock budget.
package search

import (
	"math"
	"sort"
	"time"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/heuristic"
	"github.com/dhruvparekh01/abalone/internal/movegen"
)

const (
	DefaultBudget       = 10 * time.Second
	DefaultSafetyMargin = 5 * time.Millisecond
	// DefaultMaxDepth caps recursion on sparse boards where every depth
	// completes quickly.
	DefaultMaxDepth = 64
)

type Options struct {
	Evaluator heuristic.Evaluator
	// Budget is the wall-clock time for the whole search. With Budget <= 0
	// and MaxDepth > 0 the search runs every depth up to MaxDepth with no
	// deadline.
	Budget time.Duration
	// SafetyMargin is taken off Budget before the deadline is set.
	SafetyMargin time.Duration
	MaxDepth     int
	// OrderMinimizing sorts the minimizing side's replies ascending. When
	// false they are searched in generation order.
	OrderMinimizing bool
	// OnDepth is called after every completed depth.
	OnDepth func(DepthReport)
	// ShouldStop abandons the search, including depth 1, when it returns
	// true. The result then holds the deepest depth completed before that.
	ShouldStop func() bool

	disablePruning bool
}

type Result struct {
	Board board.Board
	Move  movegen.Move
	Value float64
	Depth int
	// Found is false when the side to move has no legal move; Board is then
	// the input position.
	Found bool
	Stats Stats
}

type DepthReport struct {
	Depth   int
	Move    movegen.Move
	Value   float64
	Nodes   int64
	Elapsed time.Duration
}

type minimaxContext struct {
	evaluator       heuristic.Evaluator
	perspective     board.Colour
	deadline        time.Time
	hasDeadline     bool
	orderMinimizing bool
	shouldStop      func() bool
	prune           bool
	aborted         bool
	stats           *Stats
}

type node struct {
	board board.Board
	move  movegen.Move
	value float64
	found bool
}

func (o Options) withDefaults() Options {
	if o.Evaluator == nil {
		o.Evaluator = heuristic.Default()
	}
	if o.SafetyMargin < 0 {
		o.SafetyMargin = 0
	}
	if o.Budget <= 0 && o.MaxDepth <= 0 {
		o.Budget = DefaultBudget
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// Search returns the best move for colour found before the budget runs out.
// Depth 1 always completes, so a move is returned whenever one exists. A
// deeper iteration interrupted by the deadline is discarded.
func Search(b board.Board, colour board.Colour, opts Options) Result {
	opts = opts.withDefaults()
	start := time.Now()
	stats := Stats{Start: start}
	ctx := &minimaxContext{
		evaluator:       opts.Evaluator,
		perspective:     colour,
		orderMinimizing: opts.OrderMinimizing,
		shouldStop:      opts.ShouldStop,
		prune:           !opts.disablePruning,
		stats:           &stats,
	}
	if opts.Budget > 0 {
		budget := opts.Budget - opts.SafetyMargin
		if budget < 0 {
			budget = 0
		}
		ctx.deadline = start.Add(budget)
		ctx.hasDeadline = true
	}

	result := Result{Board: b}
	if !movegen.HasMoves(colour, b) {
		result.Value = opts.Evaluator.Evaluate(b, colour)
		result.Stats = stats
		return result
	}
	for depth := 1; depth <= opts.MaxDepth; depth++ {
		if depth > 1 && ctx.timedOut() {
			break
		}
		ctx.aborted = false
		depthStart := time.Now()
		nodesBefore := stats.Nodes
		best := ctx.minimax(b, depth, colour, math.Inf(-1), math.Inf(1), true, depth == 1)
		if ctx.aborted || !best.found {
			break
		}
		result = Result{Board: best.board, Move: best.move, Value: best.value, Depth: depth, Found: true}
		elapsed := time.Since(depthStart)
		stats.DepthDurations = append(stats.DepthDurations, elapsed)
		stats.CompletedDepths = depth
		if opts.OnDepth != nil {
			opts.OnDepth(DepthReport{
				Depth:   depth,
				Move:    best.move,
				Value:   best.value,
				Nodes:   stats.Nodes - nodesBefore,
				Elapsed: elapsed,
			})
		}
	}
	result.Stats = stats
	return result
}

// SearchDepth runs a single fixed-depth search with no deadline.
func SearchDepth(b board.Board, colour board.Colour, depth int, opts Options) Result {
	opts.Budget = 0
	opts.OnDepth = nil
	if depth < 1 {
		depth = 1
	}
	stats := Stats{Start: time.Now()}
	ctx := &minimaxContext{
		evaluator:       opts.withDefaults().Evaluator,
		perspective:     colour,
		orderMinimizing: opts.OrderMinimizing,
		prune:           !opts.disablePruning,
		stats:           &stats,
	}
	best := ctx.minimax(b, depth, colour, math.Inf(-1), math.Inf(1), true, true)
	if !best.found {
		return Result{Board: b, Value: best.value, Stats: stats}
	}
	stats.CompletedDepths = depth
	stats.DepthDurations = append(stats.DepthDurations, time.Since(stats.Start))
	return Result{Board: best.board, Move: best.move, Value: best.value, Depth: depth, Found: true, Stats: stats}
}

func (ctx *minimaxContext) timedOut() bool {
	return ctx.hasDeadline && !time.Now().Before(ctx.deadline)
}

func (ctx *minimaxContext) stopped() bool {
	return ctx.shouldStop != nil && ctx.shouldStop()
}

func (ctx *minimaxContext) leaf(b board.Board) node {
	return node{board: b, value: ctx.evaluator.Evaluate(b, ctx.perspective)}
}

// minimax scores b from the perspective colour's point of view. toMove
// alternates with depth; the perspective colour is always the maximizer.
func (ctx *minimaxContext) minimax(b board.Board, depth int, toMove board.Colour, alpha, beta float64, maximizing bool, ignoreDeadline bool) node {
	ctx.stats.Nodes++
	if depth <= 0 {
		return ctx.leaf(b)
	}
	if ctx.stopped() || (!ignoreDeadline && ctx.timedOut()) {
		ctx.aborted = true
		return ctx.leaf(b)
	}
	successors := movegen.Generate(toMove, b)
	if len(successors) == 0 {
		return ctx.leaf(b)
	}
	ordered := ctx.order(successors, maximizing)
	next := toMove.Opponent()

	if maximizing {
		best := node{value: math.Inf(-1)}
		for _, s := range ordered {
			child := ctx.minimax(s.Board, depth-1, next, alpha, beta, false, false)
			if !best.found || child.value > best.value {
				best = node{board: s.Board, move: s.Move, value: child.value, found: true}
			}
			alpha = math.Max(alpha, best.value)
			if ctx.prune && alpha >= beta {
				ctx.stats.Cutoffs++
				break
			}
		}
		return best
	}

	best := node{value: math.Inf(1)}
	for _, s := range ordered {
		child := ctx.minimax(s.Board, depth-1, next, alpha, beta, true, false)
		if !best.found || child.value < best.value {
			best = node{board: s.Board, move: s.Move, value: child.value, found: true}
		}
		beta = math.Min(beta, best.value)
		if ctx.prune && beta <= alpha {
			ctx.stats.Cutoffs++
			break
		}
	}
	return best
}

// order sorts successors by static value: best first for the maximizer,
// worst first for the minimizer when OrderMinimizing is set.
func (ctx *minimaxContext) order(successors []movegen.Successor, maximizing bool) []movegen.Successor {
	if !maximizing && !ctx.orderMinimizing {
		return successors
	}
	type scored struct {
		score float64
		succ  movegen.Successor
	}
	list := make([]scored, len(successors))
	for i, s := range successors {
		list[i] = scored{score: ctx.evaluator.Evaluate(s.Board, ctx.perspective), succ: s}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if maximizing {
			return list[i].score > list[j].score
		}
		return list[i].score < list[j].score
	})
	out := make([]movegen.Successor, len(list))
	for i, entry := range list {
		out[i] = entry.succ
	}
	return out
}
