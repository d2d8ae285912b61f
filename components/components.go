// Package components defines ECS components for the simulation.
package components

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/voidbound/skiff/geom"
)

// Position places an entity in the world.
type Position struct {
	Pos geom.Vec2
	Rot float64 // heading in radians, wrapped to [0, 2*Pi) after integration
}

// Velocity is an entity's linear velocity and angular rate. Mutated only by
// the motion and collision systems, never by gameplay within the same pass.
type Velocity struct {
	Vel geom.Vec2
	Rot float64
}

// HitEffect is what a recorded hit did to the entity.
type HitEffect interface {
	isHitEffect()
}

// CollisionEffect records a rigid-body contact with another entity.
type CollisionEffect struct {
	Impulse float64 // impulse magnitude delivered along the contact normal
	Other   ecs.Entity
}

func (CollisionEffect) isHitEffect() {}

// ExplosionEffect records blast damage delivered at the hit location.
type ExplosionEffect struct {
	Magnitude float64
}

func (ExplosionEffect) isHitEffect() {}

// Hit is a single contact record in the receiving entity's local frame.
type Hit struct {
	RelLocation geom.Vec2
	Effect      HitEffect
}

// Hits is the per-entity contact ledger. It is cleared at the start of every
// collision pass and rebuilt during that pass; consumers must read it before
// the next pass.
type Hits struct {
	Hits []Hit
}

// Clear drops all recorded hits, keeping the backing storage.
func (h *Hits) Clear() {
	h.Hits = h.Hits[:0]
}

// Projectile marks an externally-driven body that damages what it strikes.
type Projectile struct {
	Shooter ecs.Entity // excluded from collision tests against this projectile
	TTL     float64    // seconds until self-destruction
	Blast   float64    // explosion magnitude delivered on impact
}

// Marker is a debug visualization point, created lazily by the collision
// pass when markers are enabled and aged out by the game loop.
type Marker struct {
	Loc   geom.Vec2
	Frame int32
}

// Arrow is a debug visualization segment for impulse directions.
type Arrow struct {
	A, B  geom.Vec2
	Frame int32
}
