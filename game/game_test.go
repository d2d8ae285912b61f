package game

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/voidbound/skiff/components"
	"github.com/voidbound/skiff/config"
	"github.com/voidbound/skiff/geom"
	"github.com/voidbound/skiff/net"
	"github.com/voidbound/skiff/systems"
)

// newEmptyGame builds a headless game with no initial population so tests
// control exactly what exists in the world.
func newEmptyGame(t *testing.T, role systems.Role) *Game {
	t.Helper()
	config.MustInit("")
	cfg := config.Cfg()
	cfg.World.Ships = 0
	cfg.World.Asteroids = 0
	cfg.Telemetry.StatsWindow = 0

	g, err := New(Options{Seed: 1, Role: role, Headless: true})
	if err != nil {
		t.Fatalf("creating game: %v", err)
	}
	return g
}

func twoHullBlocks() []components.PlacedBlock {
	return []components.PlacedBlock{
		{Offset: geom.Vec2{X: 0, Y: 0}, Block: components.NewBlock(components.BlockHull)},
		{Offset: geom.Vec2{X: 0, Y: 1}, Block: components.NewBlock(components.BlockHull)},
	}
}

func TestAdvanceAccumulatesFixedSteps(t *testing.T) {
	g := newEmptyGame(t, systems.RoleStandalone)
	dt := config.Cfg().Physics.DT

	if steps := g.Advance(0.5 * dt); steps != 0 {
		t.Errorf("half a step ran %d steps, want 0", steps)
	}
	// The half step is still banked in the accumulator.
	if steps := g.Advance(0.6 * dt); steps != 1 {
		t.Errorf("banked time ran %d steps, want 1", steps)
	}
	if steps := g.Advance(3 * dt); steps != 3 {
		t.Errorf("three steps of time ran %d steps, want 3", steps)
	}
	if g.Tick() != 4 {
		t.Errorf("tick = %d, want 4", g.Tick())
	}
}

func TestAdvanceClampsClockJump(t *testing.T) {
	g := newEmptyGame(t, systems.RoleStandalone)

	// A multi-second frame delta is a wall clock jump, not elapsed
	// simulation time: the accumulator is clamped to a bounded catch-up.
	steps := g.Advance(30.0)
	if steps > catchupSteps {
		t.Errorf("clock jump ran %d steps, want at most %d", steps, catchupSteps)
	}
	if steps < catchupSteps-1 {
		t.Errorf("clock jump ran %d steps, want a bounded catch-up", steps)
	}
}

func TestProjectileDamagesNearestBlock(t *testing.T) {
	g := newEmptyGame(t, systems.RoleStandalone)
	body := g.spawnBlocky(geom.Vec2{X: 3}, 0, geom.Vec2{}, twoHullBlocks())
	proj := g.FireProjectile(ecs.Entity{}, geom.Vec2{}, geom.Vec2{X: 30})

	for i := 0; i < 30 && g.world.Alive(proj); i++ {
		g.Step()
	}

	if g.world.Alive(proj) {
		t.Fatal("projectile should detonate and be removed on impact")
	}
	if !g.world.Alive(body) {
		t.Fatal("body with a surviving block should stay alive")
	}
	blocky := g.blockyMap.Get(body)
	if len(blocky.Blocks) != 1 {
		t.Fatalf("body has %d blocks after impact, want 1", len(blocky.Blocks))
	}
	// The block nearest the impact point dies; the far block survives.
	if got := blocky.Blocks[0].Offset; got != (geom.Vec2{X: 0, Y: 1}) {
		t.Errorf("surviving block at %v, want (0, 1)", got)
	}
	// Derived quantities track the new footprint.
	if blocky.Mass != 1.0 {
		t.Errorf("mass = %v after losing a block, want 1", blocky.Mass)
	}
	if len(blocky.Tree.Nodes) != 1 {
		t.Errorf("tree has %d nodes after rebuild, want 1", len(blocky.Tree.Nodes))
	}
}

func TestProjectileDestroysLastBlock(t *testing.T) {
	g := newEmptyGame(t, systems.RoleStandalone)
	body := g.spawnBlocky(geom.Vec2{X: 3}, 0, geom.Vec2{}, []components.PlacedBlock{
		{Offset: geom.Vec2{}, Block: components.NewBlock(components.BlockHull)},
	})
	proj := g.FireProjectile(ecs.Entity{}, geom.Vec2{}, geom.Vec2{X: 30})

	for i := 0; i < 30 && g.world.Alive(proj); i++ {
		g.Step()
	}

	if g.world.Alive(body) {
		t.Error("body that lost its last block should be removed")
	}
}

func TestProjectileExpires(t *testing.T) {
	g := newEmptyGame(t, systems.RoleStandalone)
	proj := g.FireProjectile(ecs.Entity{}, geom.Vec2{}, geom.Vec2{X: 1})

	dt := config.Cfg().Physics.DT
	deadline := int(3.0/dt) + 2
	for i := 0; i < deadline && g.world.Alive(proj); i++ {
		g.Step()
	}
	if g.world.Alive(proj) {
		t.Error("projectile should expire after its lifetime with nothing to hit")
	}
}

func TestRaycastBody(t *testing.T) {
	g := newEmptyGame(t, systems.RoleStandalone)
	body := g.spawnBlocky(geom.Vec2{X: 5}, 0, geom.Vec2{}, []components.PlacedBlock{
		{Offset: geom.Vec2{}, Block: components.NewBlock(components.BlockHull)},
	})

	dist, point, ok := g.RaycastBody(body, geom.Vec2{}, geom.Vec2{X: 1})
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(dist-4.5) > 1e-9 {
		t.Errorf("dist = %v, want 4.5", dist)
	}
	if math.Abs(point.X-4.5) > 1e-9 || math.Abs(point.Y) > 1e-9 {
		t.Errorf("point = %v, want (4.5, 0)", point)
	}
}

func TestRaycastRotatedBody(t *testing.T) {
	g := newEmptyGame(t, systems.RoleStandalone)
	// Two blocks along local x, rotated a quarter turn: they stand along
	// world y at x=5.
	body := g.spawnBlocky(geom.Vec2{X: 5}, math.Pi/2, geom.Vec2{}, []components.PlacedBlock{
		{Offset: geom.Vec2{X: 0, Y: 0}, Block: components.NewBlock(components.BlockHull)},
		{Offset: geom.Vec2{X: 1, Y: 0}, Block: components.NewBlock(components.BlockHull)},
	})

	dist, point, ok := g.RaycastBody(body, geom.Vec2{X: 0, Y: 1}, geom.Vec2{X: 1})
	if !ok {
		t.Fatal("expected hit on the rotated block")
	}
	if math.Abs(dist-4.5) > 1e-6 {
		t.Errorf("dist = %v, want 4.5", dist)
	}
	if math.Abs(point.X-4.5) > 1e-6 || math.Abs(point.Y-1) > 1e-6 {
		t.Errorf("point = %v, want (4.5, 1)", point)
	}
}

func TestRaycastNearestBody(t *testing.T) {
	g := newEmptyGame(t, systems.RoleStandalone)
	near := g.spawnBlocky(geom.Vec2{X: 3}, 0, geom.Vec2{}, []components.PlacedBlock{
		{Offset: geom.Vec2{}, Block: components.NewBlock(components.BlockHull)},
	})
	g.spawnBlocky(geom.Vec2{X: 8}, 0, geom.Vec2{}, []components.PlacedBlock{
		{Offset: geom.Vec2{}, Block: components.NewBlock(components.BlockHull)},
	})

	e, dist, _, ok := g.Raycast(geom.Vec2{}, geom.Vec2{X: 1})
	if !ok {
		t.Fatal("expected hit")
	}
	if e != near {
		t.Error("raycast returned the farther body")
	}
	if math.Abs(dist-2.5) > 1e-9 {
		t.Errorf("dist = %v, want 2.5", dist)
	}
}

func TestDisabledStatsWindowRecordsNothing(t *testing.T) {
	g := newEmptyGame(t, systems.RoleStandalone)
	g.spawnBlocky(geom.Vec2{}, 0, geom.Vec2{}, twoHullBlocks())

	for i := 0; i < 10; i++ {
		g.Step()
	}
	// With the window disabled nothing ever flushes, so the collector must
	// not accumulate either.
	if got := g.collector.Steps(); got != 0 {
		t.Errorf("collector recorded %d passes with stats disabled, want 0", got)
	}
}

func TestEnabledStatsWindowRecordsPasses(t *testing.T) {
	config.MustInit("")
	cfg := config.Cfg()
	cfg.World.Ships = 0
	cfg.World.Asteroids = 0
	cfg.Telemetry.StatsWindow = 60.0

	g, err := New(Options{Seed: 1, Role: systems.RoleStandalone, Headless: true})
	if err != nil {
		t.Fatalf("creating game: %v", err)
	}
	for i := 0; i < 10; i++ {
		g.Step()
	}
	if got := g.collector.Steps(); got != 10 {
		t.Errorf("collector recorded %d passes, want 10", got)
	}
}

func TestRaycastExcludingSkipsOwnBody(t *testing.T) {
	g := newEmptyGame(t, systems.RoleStandalone)
	// A ray cast from inside the shooter passes through its own blocks and
	// reports the body behind them.
	shooter := g.spawnBlocky(geom.Vec2{}, 0, geom.Vec2{}, []components.PlacedBlock{
		{Offset: geom.Vec2{}, Block: components.NewBlock(components.BlockHull)},
		{Offset: geom.Vec2{X: 1}, Block: components.NewBlock(components.BlockHull)},
	})
	target := g.spawnBlocky(geom.Vec2{X: 5}, 0, geom.Vec2{}, []components.PlacedBlock{
		{Offset: geom.Vec2{}, Block: components.NewBlock(components.BlockHull)},
	})

	e, dist, _, ok := g.RaycastExcluding(geom.Vec2{}, geom.Vec2{X: 1}, shooter)
	if !ok {
		t.Fatal("expected hit on the body behind the shooter")
	}
	if e != target {
		t.Error("raycast returned the shooter's own body")
	}
	if math.Abs(dist-4.5) > 1e-9 {
		t.Errorf("dist = %v, want 4.5", dist)
	}

	// Without the exclusion the shooter's forward block is the nearest hit.
	e, dist, _, ok = g.Raycast(geom.Vec2{}, geom.Vec2{X: 1})
	if !ok || e != shooter {
		t.Fatal("expected the shooter's own block to be hit first")
	}
	if math.Abs(dist-0.5) > 1e-9 {
		t.Errorf("dist = %v, want 0.5", dist)
	}
}

func TestServerDeletionLeavesIntent(t *testing.T) {
	g := newEmptyGame(t, systems.RoleServer)
	body := g.spawnBlocky(geom.Vec2{X: 3}, 0, geom.Vec2{}, []components.PlacedBlock{
		{Offset: geom.Vec2{}, Block: components.NewBlock(components.BlockHull)},
	})
	proj := g.FireProjectile(ecs.Entity{}, geom.Vec2{}, geom.Vec2{X: 30})

	for i := 0; i < 30; i++ {
		g.Step()
	}

	// On a server both entities are replicated, so neither handle dies:
	// the replication layer gets delete intents instead.
	if !g.world.Alive(proj) || !g.world.Alive(body) {
		t.Fatal("replicated entities removed without the replication layer")
	}
	delMap := ecs.NewMap[net.Delete](g.world)
	if delMap.Get(proj) == nil {
		t.Error("detonated projectile missing its delete intent")
	}
	if delMap.Get(body) == nil {
		t.Error("destroyed body missing its delete intent")
	}
}
