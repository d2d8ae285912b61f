package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/voidbound/skiff/components"
	"github.com/voidbound/skiff/geom"
	"github.com/voidbound/skiff/net"
)

// CollisionOptions are the physics response knobs, loaded from config.
type CollisionOptions struct {
	Elasticity     float64 // restitution coefficient
	SeparationBias float64 // extra push-out distance per body, prevents re-contact
	DebugMarkers   bool    // emit Marker/Arrow entities at contact points
}

// PassStats summarizes one detection pass for telemetry. The Impulses slice
// is reused across passes; consume it before the next Update.
type PassStats struct {
	PairsTested  int
	BroadRejects int
	Contacts     int
	ColliderHits int
	MaxDepth     float64
	Impulses     []float64
}

// bodyRef snapshots a composite body for the pass. The pointers stay valid
// because every structural change is deferred until after the pass.
type bodyRef struct {
	entity ecs.Entity
	pos    *components.Position
	vel    *components.Velocity
	blocky *components.Blocky
	hits   *components.Hits
}

// colliderRef snapshots a simple collider. vel may be nil for static bodies.
type colliderRef struct {
	entity ecs.Entity
	pos    *components.Position
	vel    *components.Velocity
	col    *components.Collider
	hits   *components.Hits
}

// pairContact is a discovered composite-vs-composite contact, kept until the
// write phase.
type pairContact struct {
	a, b    int // indices into the body snapshot
	contact geom.Contact
}

// CollisionSystem runs collision detection and response once per fixed step.
// It only ever runs under an authoritative role; detection on a replica is a
// programmer error and aborts.
type CollisionSystem struct {
	world *ecs.World
	opts  CollisionOptions

	bodies    ecs.Filter3[components.Position, components.Velocity, components.Blocky]
	colliders ecs.Filter2[components.Position, components.Collider]
	ledgers   ecs.Filter1[components.Hits]

	hitsMap   *ecs.Map[components.Hits]
	velMap    *ecs.Map[components.Velocity]
	repMap    *ecs.Map[net.Replicated]
	dirtyMap  *ecs.Map[net.Dirty]
	markerMap *ecs.Map1[components.Marker]
	arrowMap  *ecs.Map1[components.Arrow]

	// scratch buffers reused across passes
	bodyList     []bodyRef
	colliderList []colliderRef
	contacts     []pairContact
	stats        PassStats
}

// NewCollisionSystem creates a collision system on the given world.
func NewCollisionSystem(w *ecs.World, opts CollisionOptions) *CollisionSystem {
	return &CollisionSystem{
		world:     w,
		opts:      opts,
		bodies:    *ecs.NewFilter3[components.Position, components.Velocity, components.Blocky](w),
		colliders: *ecs.NewFilter2[components.Position, components.Collider](w),
		ledgers:   *ecs.NewFilter1[components.Hits](w),
		hitsMap:   ecs.NewMap[components.Hits](w),
		velMap:    ecs.NewMap[components.Velocity](w),
		repMap:    ecs.NewMap[net.Replicated](w),
		dirtyMap:  ecs.NewMap[net.Dirty](w),
		markerMap: ecs.NewMap1[components.Marker](w),
		arrowMap:  ecs.NewMap1[components.Arrow](w),
	}
}

// Update runs one full detection and response pass: clear the hit ledgers,
// find composite-vs-composite contacts (each unordered pair once, first
// contact per pair), resolve them in discovery order, then test simple
// colliders against composites. Structural side effects (dirty marks, debug
// markers) go through lazy and apply after the pass.
func (s *CollisionSystem) Update(role Role, lazy *LazyUpdate) PassStats {
	if !role.Authoritative() {
		panic("collision: detection pass run on non-authoritative role " + role.String())
	}

	s.stats = PassStats{Impulses: s.stats.Impulses[:0]}

	// The ledger is transient per-step output; rebuild it from scratch.
	clearQuery := s.ledgers.Query()
	for clearQuery.Next() {
		clearQuery.Get().Clear()
	}

	s.snapshot()
	s.detectPairs()
	for i := range s.contacts {
		s.resolve(role, lazy, &s.contacts[i])
	}
	s.colliderPass(role, lazy)

	return s.stats
}

// snapshot collects the participating entities. Contact discovery is a
// read-only phase over this snapshot; resolution writes through the same
// pointers afterwards (two-phase, so tree descent never observes a body
// mid-mutation).
func (s *CollisionSystem) snapshot() {
	s.bodyList = s.bodyList[:0]
	query := s.bodies.Query()
	for query.Next() {
		pos, vel, blocky := query.Get()
		e := query.Entity()
		s.bodyList = append(s.bodyList, bodyRef{e, pos, vel, blocky, s.mustHits(e)})
	}

	s.colliderList = s.colliderList[:0]
	colQuery := s.colliders.Query()
	for colQuery.Next() {
		pos, col := colQuery.Get()
		e := colQuery.Entity()
		s.colliderList = append(s.colliderList, colliderRef{e, pos, s.velMap.Get(e), col, s.mustHits(e)})
	}
}

// detectPairs finds at most one contact per unordered composite pair per
// step: the first leaf pair the tree descent reaches, not necessarily the
// deepest penetration. Resolving the deepest (or all) contacts would change
// physical outcomes; the first-found behavior is kept deliberately.
func (s *CollisionSystem) detectPairs() {
	s.contacts = s.contacts[:0]
	for i := range s.bodyList {
		a := &s.bodyList[i]
		if a.blocky.Empty() {
			continue
		}
		for j := i + 1; j < len(s.bodyList); j++ {
			b := &s.bodyList[j]
			if b.blocky.Empty() {
				continue
			}
			s.stats.PairsTested++

			r := a.blocky.Radius + b.blocky.Radius
			if a.pos.Pos.Sub(b.pos.Pos).LenSq() > r*r {
				s.stats.BroadRejects++
				continue
			}

			contact := geom.IntersectTrees(
				&a.blocky.Tree, a.pos.Pos, a.pos.Rot,
				&b.blocky.Tree, b.pos.Pos, b.pos.Rot,
			)
			if contact != nil {
				s.contacts = append(s.contacts, pairContact{a: i, b: j, contact: *contact})
			}
		}
	}
}

// colliderPass tests every simple collider against every composite body.
// One-sided: the collider's single box descends the composite's tree, the
// collider is never displaced and its velocity is never modified.
func (s *CollisionSystem) colliderPass(role Role, lazy *LazyUpdate) {
	for bi := range s.bodyList {
		body := &s.bodyList[bi]
		if body.blocky.Empty() {
			continue
		}
		for ci := range s.colliderList {
			col := &s.colliderList[ci]
			if col.entity == body.entity || col.col.Ignore == body.entity {
				continue
			}

			r := body.blocky.Radius + col.col.Radius
			if body.pos.Pos.Sub(col.pos.Pos).LenSq() > r*r {
				continue
			}

			contact := geom.IntersectTreeBox(
				&body.blocky.Tree, body.pos.Pos, body.pos.Rot,
				col.pos.Pos, col.pos.Rot, col.col.HalfExtents,
			)
			if contact == nil {
				continue
			}
			s.resolveCollider(role, lazy, body, col, contact)
		}
	}
}

// mustHits asserts the Hits ledger of a collision participant. Every entity
// with a shape gets one at creation; a missing ledger is a programmer error.
func (s *CollisionSystem) mustHits(e ecs.Entity) *components.Hits {
	h := s.hitsMap.Get(e)
	if h == nil {
		panic("collision: shaped entity has no Hits ledger")
	}
	return h
}

// markDirty defers a replication dirty mark. Issued through the lazy queue
// so it is safe from within iteration; duplicates collapse at flush time.
func (s *CollisionSystem) markDirty(lazy *LazyUpdate, e ecs.Entity) {
	lazy.Defer(func() {
		if !s.world.Alive(e) || s.repMap.Get(e) == nil {
			return
		}
		if s.dirtyMap.Get(e) == nil {
			s.dirtyMap.Add(e, &net.Dirty{})
		}
	})
}
