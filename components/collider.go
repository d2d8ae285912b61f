package components

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/voidbound/skiff/geom"
)

// Collider is a simple collision body: a single bounding box that reacts
// against composite shapes but never against other colliders. Its motion is
// externally driven (projectiles, pickups); the collision pass records hits
// on it but never touches its velocity.
type Collider struct {
	HalfExtents geom.Vec2
	Radius      float64    // bounding radius for broad-phase pruning
	Mass        float64    // 0 means massless: no impulse imparted to composites
	Ignore      ecs.Entity // entity excluded from tests, zero value for none
}

// NewCollider builds a collider from its box half-extents. Mass may be zero.
func NewCollider(halfExtents geom.Vec2, mass float64) Collider {
	return Collider{
		HalfExtents: halfExtents,
		Radius:      halfExtents.Len(),
		Mass:        mass,
	}
}
