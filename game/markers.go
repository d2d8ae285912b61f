package game

import "github.com/mlange-42/ark/ecs"

// ageMarkers advances debug marker lifetimes and removes expired ones.
// Markers are debug-only and never replicated, so removal is direct.
func (g *Game) ageMarkers() {
	ttl := g.cfg.Debug.MarkerTTL
	var dead []ecs.Entity

	markers := g.markerFilter.Query()
	for markers.Next() {
		m := markers.Get()
		m.Frame++
		if m.Frame > ttl {
			dead = append(dead, markers.Entity())
		}
	}

	arrows := g.arrowFilter.Query()
	for arrows.Next() {
		a := arrows.Get()
		a.Frame++
		if a.Frame > ttl {
			dead = append(dead, arrows.Entity())
		}
	}

	for _, e := range dead {
		g.world.RemoveEntity(e)
	}
}
