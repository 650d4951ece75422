// Package prof records wall-clock timings of the sampler pipeline for the
// command-line tools: one entry per phase (tabulation and compilation at
// construction, then the sampling run) tagged with the distribution it
// timed.
package prof

import (
	"sync"
	"time"
)

// Phase is one timed step of a sampler pipeline run.
type Phase struct {
	Dist    string        // distribution name, e.g. "gamma"
	Label   string        // pipeline step, e.g. "construct" or "sample"
	Dur     time.Duration // wall-clock time of the step
	Samples int           // values drawn during the step, 0 at construction
}

// PerSample returns the average cost of one draw, or 0 for phases that do
// not draw.
func (p Phase) PerSample() time.Duration {
	if p.Samples == 0 {
		return 0
	}
	return p.Dur / time.Duration(p.Samples)
}

var (
	mu     sync.Mutex
	record []Phase
)

// Record logs the time elapsed since start as one pipeline phase of the
// named distribution. samples is the number of values drawn during the
// phase, zero for construction steps.
func Record(dist, label string, samples int, start time.Time) {
	elapsed := time.Since(start)
	mu.Lock()
	record = append(record, Phase{Dist: dist, Label: label, Dur: elapsed, Samples: samples})
	mu.Unlock()
}

// SnapshotAndReset returns the recorded phases and clears them.
func SnapshotAndReset() []Phase {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Phase, len(record))
	copy(out, record)
	record = nil
	return out
}

// Totals aggregates the pending phases per label without clearing them.
func Totals() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	totals := make(map[string]time.Duration, len(record))
	for _, p := range record {
		totals[p.Label] += p.Dur
	}
	return totals
}
