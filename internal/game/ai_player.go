package game

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/heuristic"
	"github.com/dhruvparekh01/abalone/internal/search"
)

// AIPlayer runs one search at a time on a background goroutine. Game.Tick
// polls it for the finished result.
type AIPlayer struct {
	name      string
	evaluator heuristic.Evaluator
	logStats  bool
	logger    zerolog.Logger

	moveMutex   sync.Mutex
	workerDone  chan struct{}
	thinking    atomic.Bool
	moveReady   atomic.Bool
	stopSignal  atomic.Bool
	readyResult search.Result
}

func NewAIPlayer(evaluatorName string, logStats bool, logger zerolog.Logger) (*AIPlayer, error) {
	ev, err := heuristic.Lookup(evaluatorName)
	if err != nil {
		return nil, err
	}
	if evaluatorName == "" {
		evaluatorName = heuristic.DefaultName
	}
	return &AIPlayer{
		name:      evaluatorName,
		evaluator: ev,
		logStats:  logStats,
		logger:    logger,
	}, nil
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) Evaluator() string {
	return a.name
}

// ChooseMove searches synchronously.
func (a *AIPlayer) ChooseMove(b board.Board, colour board.Colour, opts search.Options) search.Result {
	opts.Evaluator = a.evaluator
	res := search.Search(b, colour, opts)
	if a.logStats {
		logSearchStats(a.logger, "choose", colour, a.name, res)
	}
	return res
}

func (a *AIPlayer) StartThinking(b board.Board, colour board.Colour, opts search.Options) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)
	a.stopSignal.Store(false)

	opts.Evaluator = a.evaluator
	opts.ShouldStop = func() bool { return a.stopSignal.Load() }
	done := make(chan struct{})
	a.workerDone = done
	go func() {
		defer close(done)
		res := search.Search(b, colour, opts)
		if a.stopSignal.Load() {
			a.moveReady.Store(false)
			a.thinking.Store(false)
			return
		}
		if a.logStats {
			logSearchStats(a.logger, "think", colour, a.name, res)
		}
		a.moveMutex.Lock()
		a.readyResult = res
		a.moveMutex.Unlock()
		a.moveReady.Store(true)
		a.thinking.Store(false)
	}()
}

// StopThinking abandons a running search and waits for its goroutine.
func (a *AIPlayer) StopThinking() {
	a.stopSignal.Store(true)
	if a.workerDone != nil {
		<-a.workerDone
		a.workerDone = nil
	}
	a.moveReady.Store(false)
	a.thinking.Store(false)
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeMove() search.Result {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyResult
}
