package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/voidbound/skiff/components"
	"github.com/voidbound/skiff/geom"
)

// RaycastBody casts a world-space ray against one composite body. The ray is
// transformed into the body's local frame before descending its tree; the
// returned point is in world space. Rotation preserves length, so the
// parametric distance carries over unchanged.
func (g *Game) RaycastBody(e ecs.Entity, origin, dir geom.Vec2) (float64, geom.Vec2, bool) {
	pos := g.posMap.Get(e)
	blocky := g.blockyMap.Get(e)
	if pos == nil || blocky == nil || blocky.Empty() {
		return 0, geom.Vec2{}, false
	}
	return raycastLocal(pos.Pos, pos.Rot, blocky, origin, dir)
}

// Raycast finds the nearest composite body hit by a world-space ray, for
// hit-scan gameplay queries. Returns the zero entity when nothing is hit.
func (g *Game) Raycast(origin, dir geom.Vec2) (ecs.Entity, float64, geom.Vec2, bool) {
	return g.RaycastExcluding(origin, dir, ecs.Entity{})
}

// RaycastExcluding is Raycast with one body left out of consideration, for
// rays cast from a body that must not strike itself.
func (g *Game) RaycastExcluding(origin, dir geom.Vec2, skip ecs.Entity) (ecs.Entity, float64, geom.Vec2, bool) {
	var bestEntity ecs.Entity
	var bestPoint geom.Vec2
	bestDist := 0.0
	found := false

	query := g.bodyFilter.Query()
	for query.Next() {
		if query.Entity() == skip {
			continue
		}
		pos, blocky := query.Get()
		if blocky.Empty() {
			continue
		}
		dist, point, ok := raycastLocal(pos.Pos, pos.Rot, blocky, origin, dir)
		if ok && (!found || dist < bestDist) {
			found = true
			bestDist = dist
			bestPoint = point
			bestEntity = query.Entity()
		}
	}
	return bestEntity, bestDist, bestPoint, found
}

func raycastLocal(pos geom.Vec2, rot float64, blocky *components.Blocky, origin, dir geom.Vec2) (float64, geom.Vec2, bool) {
	localOrigin := origin.Sub(pos).RotateInv(rot)
	localDir := dir.RotateInv(rot)
	dist, localPoint, ok := blocky.Tree.Raycast(localOrigin, localDir)
	if !ok {
		return 0, geom.Vec2{}, false
	}
	return dist, pos.Add(localPoint.Rotate(rot)), true
}
