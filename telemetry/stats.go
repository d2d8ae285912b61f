package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated collision statistics for a time window.
type WindowStats struct {
	WindowEndTick int32   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	Steps        int `csv:"steps"`
	PairsTested  int `csv:"pairs_tested"`
	BroadRejects int `csv:"broad_rejects"`
	Contacts     int `csv:"contacts"`
	ColliderHits int `csv:"collider_hits"`

	MaxDepth float64 `csv:"max_depth"`

	ImpulseMean float64 `csv:"impulse_mean"`
	ImpulseP50  float64 `csv:"impulse_p50"`
	ImpulseP90  float64 `csv:"impulse_p90"`
}

// computeWindowStats aggregates a collector window. Quantiles need sorted
// samples; the collector's buffer is sorted in place since it is reset right
// after.
func computeWindowStats(windowEndTick int32, simTime float64, c *Collector) WindowStats {
	ws := WindowStats{
		WindowEndTick: windowEndTick,
		SimTimeSec:    simTime,
		Steps:         c.steps,
		PairsTested:   c.pairsTested,
		BroadRejects:  c.broadRejects,
		Contacts:      c.contacts,
		ColliderHits:  c.colliderHits,
		MaxDepth:      c.maxDepth,
	}
	if len(c.impulses) > 0 {
		sort.Float64s(c.impulses)
		ws.ImpulseMean = stat.Mean(c.impulses, nil)
		ws.ImpulseP50 = stat.Quantile(0.5, stat.Empirical, c.impulses, nil)
		ws.ImpulseP90 = stat.Quantile(0.9, stat.Empirical, c.impulses, nil)
	}
	return ws
}

// Log writes the window to the structured log.
func (ws *WindowStats) Log() {
	slog.Info("collision window",
		"tick", ws.WindowEndTick,
		"sim_time", ws.SimTimeSec,
		"contacts", ws.Contacts,
		"collider_hits", ws.ColliderHits,
		"pairs", ws.PairsTested,
		"broad_rejects", ws.BroadRejects,
		"impulse_mean", ws.ImpulseMean,
		"impulse_p90", ws.ImpulseP90,
		"max_depth", ws.MaxDepth,
	)
}
