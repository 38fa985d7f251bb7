// Command abalone-prof runs one fixed search under the profiler.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog/log"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/heuristic"
	"github.com/dhruvparekh01/abalone/internal/logging"
	"github.com/dhruvparekh01/abalone/internal/search"
)

func main() {
	mode := flag.String("mode", "cpu", "profile kind: cpu or mem")
	dir := flag.String("dir", ".", "profile output directory")
	evaluator := flag.String("evaluator", heuristic.DefaultName, "evaluator")
	depth := flag.Int("depth", 4, "fixed search depth")
	layoutName := flag.String("layout", board.LayoutStandard.String(), "starting layout")
	flag.Parse()

	if err := logging.Setup("info", true); err != nil {
		log.Fatal().Err(err).Msg("logging")
	}
	var layout board.Layout
	if err := layout.UnmarshalText([]byte(*layoutName)); err != nil {
		log.Fatal().Err(err).Msg("layout")
	}
	ev, err := heuristic.Lookup(*evaluator)
	if err != nil {
		log.Fatal().Err(err).Msg("evaluator")
	}

	profileMode := profile.CPUProfile
	if *mode == "mem" {
		profileMode = profile.MemProfile
	}
	defer profile.Start(profileMode, profile.ProfilePath(*dir), profile.NoShutdownHook).Stop()

	b := board.NewBoard(layout)
	start := time.Now()
	res := search.SearchDepth(b, board.Black, *depth, search.Options{Evaluator: ev})
	elapsed := time.Since(start)

	fmt.Println("depth", res.Depth, "value", res.Value, "nodes", res.Stats.Nodes, "cutoffs", res.Stats.Cutoffs,
		"time", elapsed.Milliseconds(), "nps", uint64(res.Stats.NodesPerSecond()))
	fmt.Println("depth times", res.Stats.DepthTimes())
	fmt.Println("bestmove", res.Move)
}
