package systems

import (
	"math"

	"github.com/voidbound/skiff/components"
	"github.com/voidbound/skiff/geom"
)

// resolve applies the contact impulse between two composite bodies along the
// contact normal:
//
//	j = -(1 + e) * (v_rel . n) / (1/mA + 1/mB + (rA x n)^2/IA + (rB x n)^2/IB)
//
// where v_rel includes each contact point's rotational contribution. Both
// bodies are also separated along n by half the penetration depth plus a
// small bias so the same contact does not re-trigger next step.
func (s *CollisionSystem) resolve(role Role, lazy *LazyUpdate, pc *pairContact) {
	a := &s.bodyList[pc.a]
	b := &s.bodyList[pc.b]
	hit := &pc.contact
	n := hit.Direction

	rap := hit.Location.Sub(a.pos.Pos)
	rbp := hit.Location.Sub(b.pos.Pos)

	va := a.vel.Vel.Add(rap.CrossScalar(-a.vel.Rot))
	vb := b.vel.Vel.Add(rbp.CrossScalar(-b.vel.Rot))
	vab := va.Sub(vb)

	crossA := rap.Cross(n)
	crossB := rbp.Cross(n)
	denom := 1/a.blocky.Mass + 1/b.blocky.Mass +
		crossA*crossA/a.blocky.Inertia + crossB*crossB/b.blocky.Inertia
	impulse := -(1 + s.opts.Elasticity) * vab.Dot(n) / denom

	// Hit locations are recorded in each body's frame before separation.
	relA := rap.RotateInv(a.pos.Rot)
	relB := rbp.RotateInv(b.pos.Rot)

	sep := n.Scale(hit.Depth*0.5 + s.opts.SeparationBias)

	a.pos.Pos = a.pos.Pos.Add(sep)
	a.vel.Vel = a.vel.Vel.Add(n.Scale(impulse / a.blocky.Mass))
	a.vel.Rot += impulse * crossA / a.blocky.Inertia
	a.hits.Hits = append(a.hits.Hits, components.Hit{
		RelLocation: relA,
		Effect:      components.CollisionEffect{Impulse: impulse, Other: b.entity},
	})

	b.pos.Pos = b.pos.Pos.Sub(sep)
	b.vel.Vel = b.vel.Vel.Sub(n.Scale(impulse / b.blocky.Mass))
	b.vel.Rot -= impulse * crossB / b.blocky.Inertia
	b.hits.Hits = append(b.hits.Hits, components.Hit{
		RelLocation: relB,
		Effect:      components.CollisionEffect{Impulse: impulse, Other: a.entity},
	})

	if role.Networked() {
		s.markDirty(lazy, a.entity)
		s.markDirty(lazy, b.entity)
	}
	if s.opts.DebugMarkers {
		s.emitMarkers(lazy, hit.Location, n, impulse)
	}

	s.stats.Contacts++
	s.stats.Impulses = append(s.stats.Impulses, math.Abs(impulse))
	if hit.Depth > s.stats.MaxDepth {
		s.stats.MaxDepth = hit.Depth
	}
}

// resolveCollider handles a composite striking a simple collider. The
// collider records the momentum delivered (relative speed times composite
// mass); only if the collider declares a mass does the composite receive a
// one-sided impulse, with the collider treated as a point mass.
func (s *CollisionSystem) resolveCollider(role Role, lazy *LazyUpdate, body *bodyRef, col *colliderRef, hit *geom.Contact) {
	n := hit.Direction // pushes the composite out
	rap := hit.Location.Sub(body.pos.Pos)

	var colVel geom.Vec2
	if col.vel != nil {
		colVel = col.vel.Vel
	}
	vrel := body.vel.Vel.Add(rap.CrossScalar(-body.vel.Rot)).Sub(colVel)

	relLoc := hit.Location.Sub(col.pos.Pos).RotateInv(col.pos.Rot)
	col.hits.Hits = append(col.hits.Hits, components.Hit{
		RelLocation: relLoc,
		Effect: components.CollisionEffect{
			Impulse: vrel.Len() * body.blocky.Mass,
			Other:   body.entity,
		},
	})
	s.stats.ColliderHits++

	if col.col.Mass > 0 {
		crossA := rap.Cross(n)
		denom := 1/body.blocky.Mass + 1/col.col.Mass + crossA*crossA/body.blocky.Inertia
		impulse := -(1 + s.opts.Elasticity) * vrel.Dot(n) / denom

		body.vel.Vel = body.vel.Vel.Add(n.Scale(impulse / body.blocky.Mass))
		body.vel.Rot += impulse * crossA / body.blocky.Inertia
		s.stats.Impulses = append(s.stats.Impulses, math.Abs(impulse))

		if role.Networked() {
			s.markDirty(lazy, body.entity)
		}
	}

	if s.opts.DebugMarkers {
		s.emitMarkers(lazy, hit.Location, n, 0)
	}
}

// emitMarkers defers creation of debug visualization entities at a contact.
func (s *CollisionSystem) emitMarkers(lazy *LazyUpdate, loc geom.Vec2, n geom.Vec2, impulse float64) {
	lazy.Defer(func() {
		s.markerMap.NewEntity(&components.Marker{Loc: loc})
		if impulse != 0 {
			s.arrowMap.NewEntity(&components.Arrow{A: loc, B: loc.Add(n.Scale(impulse * 10))})
		}
	})
}
