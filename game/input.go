package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/voidbound/skiff/geom"
)

// projectileSpeed is the muzzle speed of player-fired projectiles.
const projectileSpeed = 20.0

// HandleInput processes viewer input. Fire control only works on an
// authoritative role; a replica viewer can pause its local presentation but
// cannot mutate the simulation.
func (g *Game) HandleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	if rl.IsKeyPressed(rl.KeyComma) && g.speed > 1 {
		g.speed--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.speed < 8 {
		g.speed++
	}

	if g.role.Authoritative() && rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		g.fireAtCursor()
	}
}

// fireAtCursor launches a projectile from the player ship toward the mouse
// position, spawned just outside the ship's bounding radius so it does not
// strike the shooter's own hull on the first step.
func (g *Game) fireAtCursor() {
	if !g.world.Alive(g.player) {
		return
	}
	pos := g.posMap.Get(g.player)
	blocky := g.blockyMap.Get(g.player)
	if pos == nil || blocky == nil {
		return
	}

	target := g.currentView().toWorld(rl.GetMousePosition())
	dir := target.Sub(pos.Pos)
	if dir.LenSq() == 0 {
		return
	}
	dir = dir.Normalize()

	muzzle := pos.Pos.Add(dir.Scale(blocky.Radius + 0.5))
	g.FireProjectile(g.player, muzzle, dir.Scale(projectileSpeed))
}

// cursorRay reports what the player is pointing at, used by the HUD to
// highlight the body under the cursor.
func (g *Game) cursorRay() (geom.Vec2, geom.Vec2, bool) {
	if !g.world.Alive(g.player) {
		return geom.Vec2{}, geom.Vec2{}, false
	}
	pos := g.posMap.Get(g.player)
	if pos == nil {
		return geom.Vec2{}, geom.Vec2{}, false
	}
	target := g.currentView().toWorld(rl.GetMousePosition())
	dir := target.Sub(pos.Pos)
	if dir.LenSq() == 0 {
		return geom.Vec2{}, geom.Vec2{}, false
	}
	return pos.Pos, dir.Normalize(), true
}
