// Package telemetry collects per-step collision statistics and writes them
// out in windowed aggregates.
package telemetry

// Collector accumulates collision pass counters over a stats window.
type Collector struct {
	pairsTested  int
	broadRejects int
	contacts     int
	colliderHits int
	steps        int
	maxDepth     float64
	impulses     []float64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordPass adds one collision pass to the current window.
func (c *Collector) RecordPass(pairsTested, broadRejects, contacts, colliderHits int, maxDepth float64, impulses []float64) {
	c.pairsTested += pairsTested
	c.broadRejects += broadRejects
	c.contacts += contacts
	c.colliderHits += colliderHits
	c.steps++
	if maxDepth > c.maxDepth {
		c.maxDepth = maxDepth
	}
	c.impulses = append(c.impulses, impulses...)
}

// Steps returns the number of passes recorded in the current window.
func (c *Collector) Steps() int {
	return c.steps
}

// Flush aggregates the current window into stats and resets the collector.
func (c *Collector) Flush(windowEndTick int32, simTime float64) WindowStats {
	stats := computeWindowStats(windowEndTick, simTime, c)
	c.pairsTested = 0
	c.broadRejects = 0
	c.contacts = 0
	c.colliderHits = 0
	c.steps = 0
	c.maxDepth = 0
	c.impulses = c.impulses[:0]
	return stats
}
