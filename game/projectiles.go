package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/voidbound/skiff/components"
	"github.com/voidbound/skiff/geom"
)

// strike is a projectile impact waiting to be applied after the query.
type strike struct {
	proj   ecs.Entity
	target ecs.Entity
	loc    geom.Vec2 // world-space impact point
	blast  float64
}

// updateProjectiles consumes the projectile hit ledgers produced by this
// step's collision pass: detonate on whatever was struck, age out the rest.
// Detonation and deletion happen after the query so the iteration stays
// valid; deletion routes through the Deleter for replication.
func (g *Game) updateProjectiles(dt float64) {
	var strikes []strike
	var expired []ecs.Entity

	query := g.projFilter.Query()
	for query.Next() {
		pos, proj, hits := query.Get()
		e := query.Entity()

		proj.TTL -= dt
		if proj.TTL <= 0 {
			expired = append(expired, e)
			continue
		}

		for _, h := range hits.Hits {
			if c, ok := h.Effect.(components.CollisionEffect); ok {
				strikes = append(strikes, strike{
					proj:   e,
					target: c.Other,
					loc:    pos.Pos.Add(h.RelLocation.Rotate(pos.Rot)),
					blast:  proj.Blast,
				})
				break // one detonation per projectile
			}
		}
	}

	for _, s := range strikes {
		g.detonate(s)
		g.deleter.Delete(g.role, g.lazy, s.proj)
	}
	for _, e := range expired {
		g.deleter.Delete(g.role, g.lazy, e)
	}
}

// detonate records an explosion hit on the target and damages its nearest
// block. A body that loses its last block is deleted.
func (g *Game) detonate(s strike) {
	if !g.world.Alive(s.target) {
		return
	}
	pos := g.posMap.Get(s.target)
	hits := g.hitsMap.Get(s.target)
	if pos == nil || hits == nil {
		return
	}

	rel := s.loc.Sub(pos.Pos).RotateInv(pos.Rot)
	hits.Hits = append(hits.Hits, components.Hit{
		RelLocation: rel,
		Effect:      components.ExplosionEffect{Magnitude: s.blast},
	})

	blocky := g.blockyMap.Get(s.target)
	if blocky == nil || blocky.Empty() {
		return
	}

	// Damage the block closest to the impact point.
	nearest := 0
	best := blocky.Blocks[0].Offset.Sub(rel).LenSq()
	for i := 1; i < len(blocky.Blocks); i++ {
		if d := blocky.Blocks[i].Offset.Sub(rel).LenSq(); d < best {
			best = d
			nearest = i
		}
	}

	blocky.Blocks[nearest].Block.Health -= s.blast
	if blocky.Blocks[nearest].Block.Health > 0 {
		return
	}

	remaining := make([]components.PlacedBlock, 0, len(blocky.Blocks)-1)
	remaining = append(remaining, blocky.Blocks[:nearest]...)
	remaining = append(remaining, blocky.Blocks[nearest+1:]...)
	if len(remaining) == 0 {
		g.deleter.Delete(g.role, g.lazy, s.target)
		return
	}
	// Derived mass, inertia, and the tree must match the new footprint.
	*blocky = components.NewBlocky(remaining)
}
