package search

import (
	"fmt"
	"strings"
	"time"
)

type Stats struct {
	Nodes           int64
	Cutoffs         int64
	Start           time.Time
	DepthDurations  []time.Duration
	CompletedDepths int
}

// Elapsed is the time since Start, or the sum of the per-depth durations
// when Start is unset.
func (s Stats) Elapsed() time.Duration {
	if !s.Start.IsZero() {
		return time.Since(s.Start)
	}
	var total time.Duration
	for _, d := range s.DepthDurations {
		total += d
	}
	return total
}

func (s Stats) NodesPerSecond() float64 {
	elapsed := s.Elapsed()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.Nodes) / elapsed.Seconds()
}

// DepthTimes renders the per-depth durations as "3ms,12ms,140ms".
func (s Stats) DepthTimes() string {
	parts := make([]string, 0, len(s.DepthDurations))
	for _, d := range s.DepthDurations {
		parts = append(parts, fmt.Sprintf("%dms", d.Milliseconds()))
	}
	return strings.Join(parts, ",")
}
