package game

import (
	"github.com/rs/zerolog"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/search"
)

func logSearchStats(logger zerolog.Logger, tag string, colour board.Colour, evaluator string, res search.Result) {
	stats := res.Stats
	event := logger.Info().
		Str("tag", tag).
		Stringer("colour", colour).
		Str("evaluator", evaluator).
		Int("depth", stats.CompletedDepths).
		Int64("nodes", stats.Nodes).
		Int64("cutoffs", stats.Cutoffs).
		Dur("elapsed", stats.Elapsed()).
		Str("depth_times", stats.DepthTimes()).
		Float64("nps", stats.NodesPerSecond())
	if res.Found {
		event = event.Stringer("move", res.Move).Float64("value", res.Value)
	} else {
		event = event.Bool("pass", true)
	}
	event.Msg("search")
}
