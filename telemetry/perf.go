package telemetry

import (
	"time"
)

// Phase names for the simulation step.
const (
	PhaseMotion      = "motion"
	PhaseCollision   = "collision"
	PhaseProjectiles = "projectiles"
	PhaseMarkers     = "markers"
	PhaseFlush       = "flush"
)

// phaseOrder fixes the CSV column order.
var phaseOrder = []string{PhaseMotion, PhaseCollision, PhaseProjectiles, PhaseMarkers, PhaseFlush}

// PerfRecord is one step's timing breakdown, in microseconds.
type PerfRecord struct {
	Tick        int32 `csv:"tick"`
	Total       int64 `csv:"total_us"`
	Motion      int64 `csv:"motion_us"`
	Collision   int64 `csv:"collision_us"`
	Projectiles int64 `csv:"projectiles_us"`
	Markers     int64 `csv:"markers_us"`
	Flush       int64 `csv:"flush_us"`
}

// PerfCollector times the phases of a single simulation step.
type PerfCollector struct {
	stepStart  time.Time
	phaseStart time.Time
	phases     map[string]time.Duration
}

// NewPerfCollector creates a perf collector.
func NewPerfCollector() *PerfCollector {
	return &PerfCollector{phases: make(map[string]time.Duration, len(phaseOrder))}
}

// BeginStep starts timing a step.
func (p *PerfCollector) BeginStep() {
	now := time.Now()
	p.stepStart = now
	p.phaseStart = now
	for k := range p.phases {
		delete(p.phases, k)
	}
}

// EndPhase records the time since the previous phase boundary under name.
func (p *PerfCollector) EndPhase(name string) {
	now := time.Now()
	p.phases[name] += now.Sub(p.phaseStart)
	p.phaseStart = now
}

// Record finishes the step and returns its timing breakdown.
func (p *PerfCollector) Record(tick int32) PerfRecord {
	total := time.Since(p.stepStart)
	return PerfRecord{
		Tick:        tick,
		Total:       total.Microseconds(),
		Motion:      p.phases[PhaseMotion].Microseconds(),
		Collision:   p.phases[PhaseCollision].Microseconds(),
		Projectiles: p.phases[PhaseProjectiles].Microseconds(),
		Markers:     p.phases[PhaseMarkers].Microseconds(),
		Flush:       p.phases[PhaseFlush].Microseconds(),
	}
}
