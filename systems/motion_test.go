package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/voidbound/skiff/components"
	"github.com/voidbound/skiff/geom"
)

func TestMotionIntegration(t *testing.T) {
	world := ecs.NewWorld()
	sys := NewMotionSystem(world)
	mapper := ecs.NewMap2[components.Position, components.Velocity](world)
	posMap := ecs.NewMap[components.Position](world)

	p := components.Position{Pos: geom.Vec2{X: 1, Y: 2}, Rot: 0.5}
	v := components.Velocity{Vel: geom.Vec2{X: 2, Y: -4}, Rot: 0.25}
	e := mapper.NewEntity(&p, &v)

	sys.Update(0.5)

	got := posMap.Get(e)
	if math.Abs(got.Pos.X-2) > eps || math.Abs(got.Pos.Y-0) > eps {
		t.Errorf("position = %v, want (2, 0)", got.Pos)
	}
	if math.Abs(got.Rot-0.625) > eps {
		t.Errorf("rotation = %v, want 0.625", got.Rot)
	}
}

func TestMotionWrapsHeading(t *testing.T) {
	world := ecs.NewWorld()
	sys := NewMotionSystem(world)
	mapper := ecs.NewMap2[components.Position, components.Velocity](world)
	posMap := ecs.NewMap[components.Position](world)

	p := components.Position{Rot: 2*math.Pi - 0.1}
	v := components.Velocity{Rot: 0.2}
	e := mapper.NewEntity(&p, &v)

	sys.Update(1.0)

	got := posMap.Get(e).Rot
	if math.Abs(got-0.1) > eps {
		t.Errorf("rotation = %v, want 0.1 after wrap", got)
	}
	if got < 0 || got >= 2*math.Pi {
		t.Errorf("rotation %v outside [0, 2*Pi)", got)
	}
}
