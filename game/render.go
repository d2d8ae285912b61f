package game

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/voidbound/skiff/components"
	"github.com/voidbound/skiff/geom"
)

// view maps between world and screen coordinates. World Y points up, screen
// Y points down, so the transform flips Y and negates rotations.
type view struct {
	scale   float64
	cx, cy  float64 // screen center
	worldW  float64
	worldH  float64
	screenW float64
	screenH float64
}

func (g *Game) currentView() view {
	sw := float64(rl.GetScreenWidth())
	sh := float64(rl.GetScreenHeight())
	w := g.cfg.World.Width
	h := g.cfg.World.Height
	scale := math.Min(sw/w, sh/h)
	return view{
		scale:   scale,
		cx:      sw / 2,
		cy:      sh / 2,
		worldW:  w,
		worldH:  h,
		screenW: sw,
		screenH: sh,
	}
}

func (v view) toScreen(p geom.Vec2) rl.Vector2 {
	return rl.Vector2{
		X: float32(v.cx + p.X*v.scale),
		Y: float32(v.cy - p.Y*v.scale),
	}
}

func (v view) toWorld(s rl.Vector2) geom.Vec2 {
	return geom.Vec2{
		X: (float64(s.X) - v.cx) / v.scale,
		Y: (v.cy - float64(s.Y)) / v.scale,
	}
}

// blockColor maps a block kind to its fill color, dimmed as health drops.
func blockColor(b components.Block) rl.Color {
	var base rl.Color
	switch b.Kind {
	case components.BlockArmor:
		base = rl.Color{R: 140, G: 145, B: 160, A: 255}
	case components.BlockCockpit:
		base = rl.Color{R: 90, G: 180, B: 230, A: 255}
	case components.BlockThruster:
		base = rl.Color{R: 230, G: 150, B: 60, A: 255}
	default:
		base = rl.Color{R: 110, G: 110, B: 110, A: 255}
	}
	ratio := b.Health / 3.0
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0.3 {
		ratio = 0.3
	}
	base.R = uint8(float64(base.R) * ratio)
	base.G = uint8(float64(base.G) * ratio)
	base.B = uint8(float64(base.B) * ratio)
	return base
}

// Draw renders the world and the HUD. The viewer is a read-only observer of
// the simulation state; it never mutates components.
func (g *Game) Draw() {
	v := g.currentView()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 14, B: 20, A: 255})

	g.drawWorldBounds(v)
	g.drawBodies(v)
	g.drawProjectiles(v)
	g.drawDebugOverlay(v)
	g.drawCursorTarget(v)
	g.drawHUD(v)

	rl.EndDrawing()
}

func (g *Game) drawWorldBounds(v view) {
	topLeft := v.toScreen(geom.Vec2{X: -v.worldW / 2, Y: v.worldH / 2})
	rl.DrawRectangleLines(
		int32(topLeft.X), int32(topLeft.Y),
		int32(v.worldW*v.scale), int32(v.worldH*v.scale),
		rl.Color{R: 40, G: 45, B: 60, A: 255},
	)
}

func (g *Game) drawBodies(v view) {
	size := float32(v.scale)

	query := g.bodyFilter.Query()
	for query.Next() {
		pos, blocky := query.Get()
		deg := float32(-pos.Rot * 180 / math.Pi)

		for i := range blocky.Blocks {
			pb := &blocky.Blocks[i]
			center := v.toScreen(pos.Pos.Add(pb.Offset.Rotate(pos.Rot)))
			rect := rl.Rectangle{X: center.X, Y: center.Y, Width: size, Height: size}
			origin := rl.Vector2{X: size / 2, Y: size / 2}
			rl.DrawRectanglePro(rect, origin, deg, blockColor(pb.Block))
		}

		if query.Entity() == g.player {
			center := v.toScreen(pos.Pos)
			rl.DrawCircleLines(int32(center.X), int32(center.Y),
				float32(blocky.Radius*v.scale), rl.Color{R: 90, G: 180, B: 230, A: 120})
		}
	}
}

func (g *Game) drawProjectiles(v view) {
	query := g.projFilter.Query()
	for query.Next() {
		pos, _, _ := query.Get()
		p := v.toScreen(pos.Pos)
		rl.DrawCircleV(p, float32(0.2*v.scale), rl.Color{R: 255, G: 230, B: 120, A: 255})
	}
}

// drawDebugOverlay renders collision markers and impulse arrows, fading
// with age.
func (g *Game) drawDebugOverlay(v view) {
	ttl := float32(g.cfg.Debug.MarkerTTL)
	if ttl <= 0 {
		ttl = 1
	}

	markers := g.markerFilter.Query()
	for markers.Next() {
		m := markers.Get()
		alpha := uint8((1 - float32(m.Frame)/ttl) * 220)
		p := v.toScreen(m.Loc)
		rl.DrawCircleV(p, float32(0.15*v.scale), rl.Color{R: 255, G: 70, B: 70, A: alpha})
	}

	arrows := g.arrowFilter.Query()
	for arrows.Next() {
		a := arrows.Get()
		alpha := uint8((1 - float32(a.Frame)/ttl) * 200)
		rl.DrawLineEx(v.toScreen(a.A), v.toScreen(a.B), 2,
			rl.Color{R: 80, G: 255, B: 120, A: alpha})
	}
}

// drawCursorTarget marks the first body the player's aim ray would strike.
func (g *Game) drawCursorTarget(v view) {
	origin, dir, ok := g.cursorRay()
	if !ok {
		return
	}
	_, _, point, hit := g.RaycastExcluding(origin, dir, g.player)
	if !hit {
		return
	}
	p := v.toScreen(point)
	rl.DrawCircleLines(int32(p.X), int32(p.Y), float32(0.3*v.scale),
		rl.Color{R: 255, G: 255, B: 255, A: 160})
}

func (g *Game) drawHUD(v view) {
	bodies := 0
	query := g.bodyFilter.Query()
	for query.Next() {
		bodies++
	}

	rl.DrawText(
		fmt.Sprintf("tick %d | role %s | bodies %d", g.tick, g.role, bodies),
		10, 10, 18, rl.RayWhite,
	)
	rl.DrawFPS(int32(v.screenW)-90, 10)

	label := "Pause"
	if g.paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: 10, Y: 36, Width: 90, Height: 26}, label) {
		g.paused = !g.paused
	}

	newSpeed := gui.SliderBar(
		rl.Rectangle{X: 110, Y: 36, Width: 140, Height: 26},
		"", fmt.Sprintf("%dx", g.speed),
		float32(g.speed), 1, 8,
	)
	g.speed = int(newSpeed + 0.5)
	if g.speed < 1 {
		g.speed = 1
	}
}
