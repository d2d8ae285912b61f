// Package game wires the ECS world, the physics systems, and the fixed
// timestep driver together.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/voidbound/skiff/components"
	"github.com/voidbound/skiff/config"
	"github.com/voidbound/skiff/net"
	"github.com/voidbound/skiff/systems"
	"github.com/voidbound/skiff/telemetry"
)

// maxClockJump is the frame delta above which the wall clock is assumed to
// have jumped (suspend, debugger) rather than elapsed.
const maxClockJump = 0.5

// catchupSteps caps how many fixed steps a clock jump may schedule.
const catchupSteps = 5

// Options configures a new game.
type Options struct {
	Seed      int64
	Role      systems.Role
	OutputDir string
	Headless  bool
}

// Game holds the complete simulation state.
type Game struct {
	world *ecs.World
	cfg   *config.Config
	rng   *rand.Rand
	role  systems.Role
	lazy  *systems.LazyUpdate

	motion    *systems.MotionSystem
	collision *systems.CollisionSystem
	deleter   *systems.Deleter

	// Entity mappers
	bodyMapper *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Blocky,
		components.Hits,
	]
	projMapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Collider,
		components.Projectile,
		components.Hits,
	]

	// Individual component mappers for lookups
	posMap    *ecs.Map[components.Position]
	velMap    *ecs.Map[components.Velocity]
	blockyMap *ecs.Map[components.Blocky]
	hitsMap   *ecs.Map[components.Hits]
	repMap    *ecs.Map[net.Replicated]

	bodyFilter   ecs.Filter2[components.Position, components.Blocky]
	projFilter   ecs.Filter3[components.Position, components.Projectile, components.Hits]
	markerFilter ecs.Filter1[components.Marker]
	arrowFilter  ecs.Filter1[components.Arrow]

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager

	// State
	player      ecs.Entity
	tick        int32
	accumulator float64
	paused      bool
	speed       int // simulation speed multiplier in the viewer
	nextNetID   uint32
	headless    bool
}

// New creates a game from the loaded configuration and spawns the initial
// population.
func New(opts Options) (*Game, error) {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	g := &Game{
		world:     world,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		role:      opts.Role,
		lazy:      &systems.LazyUpdate{},
		motion:    systems.NewMotionSystem(world),
		deleter:   systems.NewDeleter(world),
		collector: telemetry.NewCollector(),
		perf:      telemetry.NewPerfCollector(),
		output:    output,
		speed:     1,
		nextNetID: 1,
		headless:  opts.Headless,
		bodyMapper: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Blocky,
			components.Hits,
		](world),
		projMapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Collider,
			components.Projectile,
			components.Hits,
		](world),
		posMap:       ecs.NewMap[components.Position](world),
		velMap:       ecs.NewMap[components.Velocity](world),
		blockyMap:    ecs.NewMap[components.Blocky](world),
		hitsMap:      ecs.NewMap[components.Hits](world),
		repMap:       ecs.NewMap[net.Replicated](world),
		bodyFilter:   *ecs.NewFilter2[components.Position, components.Blocky](world),
		projFilter:   *ecs.NewFilter3[components.Position, components.Projectile, components.Hits](world),
		markerFilter: *ecs.NewFilter1[components.Marker](world),
		arrowFilter:  *ecs.NewFilter1[components.Arrow](world),
	}

	g.collision = systems.NewCollisionSystem(world, systems.CollisionOptions{
		Elasticity:     cfg.Physics.Elasticity,
		SeparationBias: cfg.Physics.SeparationBias,
		DebugMarkers:   cfg.Debug.Markers,
	})

	g.spawnInitialPopulation()
	return g, nil
}

// Advance accumulates frame time and runs as many fixed steps as fit. A
// frame delta above maxClockJump is treated as a wall-clock jump: the
// accumulator is clamped so the simulation catches up without a step storm.
// Returns the number of steps run.
func (g *Game) Advance(frameDt float64) int {
	dt := g.cfg.Physics.DT
	if frameDt > maxClockJump {
		slog.Warn("clock jumped forward", "seconds", frameDt)
		g.accumulator = catchupSteps * dt
	} else {
		g.accumulator += frameDt
	}

	steps := 0
	for g.accumulator > dt {
		g.Step()
		g.accumulator -= dt
		steps++
	}
	return steps
}

// Remaining returns the unsimulated time left in the accumulator, used by
// the headless loop to sleep off the rest of the step.
func (g *Game) Remaining() float64 {
	return g.cfg.Physics.DT - g.accumulator
}

// Step runs exactly one fixed simulation step. The step is atomic: the
// collision pass runs to completion and all deferred mutations are flushed
// before the step ends.
func (g *Game) Step() {
	dt := g.cfg.Physics.DT
	g.perf.BeginStep()

	g.motion.Update(dt)
	g.perf.EndPhase(telemetry.PhaseMotion)

	if g.role.Authoritative() {
		stats := g.collision.Update(g.role, g.lazy)
		// A non-positive window disables collection; recording without a
		// flush would grow the collector for the life of the process.
		if g.cfg.Telemetry.StatsWindow > 0 {
			g.collector.RecordPass(
				stats.PairsTested, stats.BroadRejects, stats.Contacts,
				stats.ColliderHits, stats.MaxDepth, stats.Impulses,
			)
		}
	}
	g.perf.EndPhase(telemetry.PhaseCollision)

	if g.role.Authoritative() {
		g.updateProjectiles(dt)
	}
	g.perf.EndPhase(telemetry.PhaseProjectiles)

	g.ageMarkers()
	g.perf.EndPhase(telemetry.PhaseMarkers)

	g.lazy.Flush()
	g.perf.EndPhase(telemetry.PhaseFlush)

	g.tick++
	if g.tick%worldStateInterval == 0 {
		g.logWorldState()
	}
	if g.tick%60 == 0 {
		if err := g.output.WritePerf(g.perf.Record(g.tick)); err != nil {
			slog.Error("perf output failed", "error", err)
		}
	}
	g.flushStatsWindow()
}

// flushStatsWindow emits a telemetry window when enough steps accumulated.
func (g *Game) flushStatsWindow() {
	dt := g.cfg.Physics.DT
	windowSteps := int(g.cfg.Telemetry.StatsWindow / dt)
	if windowSteps <= 0 || g.collector.Steps() < windowSteps {
		return
	}
	ws := g.collector.Flush(g.tick, float64(g.tick)*dt)
	ws.Log()
	if err := g.output.WriteStats(ws); err != nil {
		slog.Error("stats output failed", "error", err)
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Role returns the simulation role.
func (g *Game) Role() systems.Role {
	return g.role
}

// Paused reports whether the viewer has paused the simulation.
func (g *Game) Paused() bool {
	return g.paused
}

// Speed returns the viewer's simulation speed multiplier.
func (g *Game) Speed() int {
	return g.speed
}

// Unload releases resources held outside the Go heap.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("closing telemetry output", "error", err)
	}
}
