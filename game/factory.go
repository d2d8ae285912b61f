package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/voidbound/skiff/components"
	"github.com/voidbound/skiff/geom"
	"github.com/voidbound/skiff/net"
)

// spawnInitialPopulation creates the starting ships and asteroids.
func (g *Game) spawnInitialPopulation() {
	w := g.cfg.World.Width
	h := g.cfg.World.Height

	for i := 0; i < g.cfg.World.Ships; i++ {
		pos := geom.Vec2{
			X: (g.rng.Float64() - 0.5) * w * 0.8,
			Y: (g.rng.Float64() - 0.5) * h * 0.8,
		}
		vel := geom.Vec2{
			X: (g.rng.Float64() - 0.5) * 6,
			Y: (g.rng.Float64() - 0.5) * 6,
		}
		e := g.SpawnShip(pos, g.rng.Float64()*2*math.Pi, vel)
		if i == 0 {
			g.player = e
		}
	}

	for i := 0; i < g.cfg.World.Asteroids; i++ {
		pos := geom.Vec2{
			X: (g.rng.Float64() - 0.5) * w,
			Y: (g.rng.Float64() - 0.5) * h,
		}
		g.SpawnAsteroid(pos, 4+g.rng.Intn(8))
	}
}

// shipLayout is the block footprint every ship starts with: a cockpit core,
// a hull cross, and thrusters at the stern.
func shipLayout() []components.PlacedBlock {
	return []components.PlacedBlock{
		{Offset: geom.Vec2{X: 0, Y: 0}, Block: components.NewBlock(components.BlockCockpit)},
		{Offset: geom.Vec2{X: 1, Y: 0}, Block: components.NewBlock(components.BlockHull)},
		{Offset: geom.Vec2{X: 0, Y: 1}, Block: components.NewBlock(components.BlockHull)},
		{Offset: geom.Vec2{X: 0, Y: -1}, Block: components.NewBlock(components.BlockHull)},
		{Offset: geom.Vec2{X: 2, Y: 0}, Block: components.NewBlock(components.BlockArmor)},
		{Offset: geom.Vec2{X: -1, Y: 0}, Block: components.NewBlock(components.BlockThruster)},
		{Offset: geom.Vec2{X: -1, Y: 1}, Block: components.NewBlock(components.BlockThruster)},
		{Offset: geom.Vec2{X: -1, Y: -1}, Block: components.NewBlock(components.BlockThruster)},
	}
}

// SpawnShip creates a ship at the given position and heading.
func (g *Game) SpawnShip(pos geom.Vec2, rot float64, vel geom.Vec2) ecs.Entity {
	return g.spawnBlocky(pos, rot, vel, shipLayout())
}

// SpawnAsteroid creates a random blob of hull blocks grown by a lattice
// random walk from the origin cell.
func (g *Game) SpawnAsteroid(pos geom.Vec2, size int) ecs.Entity {
	occupied := map[[2]int]bool{{0, 0}: true}
	cells := [][2]int{{0, 0}}
	for len(cells) < size {
		base := cells[g.rng.Intn(len(cells))]
		dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
		d := dirs[g.rng.Intn(4)]
		next := [2]int{base[0] + d[0], base[1] + d[1]}
		if occupied[next] {
			continue
		}
		occupied[next] = true
		cells = append(cells, next)
	}

	blocks := make([]components.PlacedBlock, len(cells))
	for i, c := range cells {
		blocks[i] = components.PlacedBlock{
			Offset: geom.Vec2{X: float64(c[0]), Y: float64(c[1])},
			Block:  components.NewBlock(components.BlockHull),
		}
	}
	vel := geom.Vec2{
		X: (g.rng.Float64() - 0.5) * 2,
		Y: (g.rng.Float64() - 0.5) * 2,
	}
	return g.spawnBlocky(pos, g.rng.Float64()*2*math.Pi, vel, blocks)
}

// spawnBlocky creates a composite body with its hit ledger, replicated when
// the role is networked.
func (g *Game) spawnBlocky(pos geom.Vec2, rot float64, vel geom.Vec2, blocks []components.PlacedBlock) ecs.Entity {
	p := components.Position{Pos: pos, Rot: rot}
	v := components.Velocity{Vel: vel, Rot: 0}
	b := components.NewBlocky(blocks)
	h := components.Hits{}
	e := g.bodyMapper.NewEntity(&p, &v, &b, &h)
	g.replicate(e)
	return e
}

// FireProjectile spawns a projectile that ignores its shooter. Projectile
// motion is externally driven: the collision pass never alters its velocity.
func (g *Game) FireProjectile(shooter ecs.Entity, pos geom.Vec2, vel geom.Vec2) ecs.Entity {
	col := components.NewCollider(geom.Vec2{X: 0.3, Y: 0.1}, 0.2)
	col.Ignore = shooter

	p := components.Position{Pos: pos, Rot: math.Atan2(vel.Y, vel.X)}
	v := components.Velocity{Vel: vel}
	proj := components.Projectile{Shooter: shooter, TTL: 3.0, Blast: 1.0}
	h := components.Hits{}
	e := g.projMapper.NewEntity(&p, &v, &col, &proj, &h)
	g.replicate(e)
	return e
}

// replicate tags an entity for replication when the role is networked.
func (g *Game) replicate(e ecs.Entity) {
	if !g.role.Networked() {
		return
	}
	g.repMap.Add(e, &net.Replicated{ID: g.nextNetID})
	g.nextNetID++
}
