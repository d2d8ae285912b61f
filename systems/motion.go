package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/voidbound/skiff/components"
	"github.com/voidbound/skiff/geom"
)

// MotionSystem integrates positions from velocities once per fixed step.
type MotionSystem struct {
	filter ecs.Filter2[components.Position, components.Velocity]
}

// NewMotionSystem creates a new motion system.
func NewMotionSystem(w *ecs.World) *MotionSystem {
	return &MotionSystem{
		filter: *ecs.NewFilter2[components.Position, components.Velocity](w),
	}
}

// Update advances every moving entity by dt seconds. Headings are wrapped to
// [0, 2*Pi).
func (s *MotionSystem) Update(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel := query.Get()
		pos.Pos = pos.Pos.Add(vel.Vel.Scale(dt))
		pos.Rot = geom.WrapAngle(pos.Rot + vel.Rot*dt)
	}
}
