package game

import "log/slog"

// worldStateInterval is how many ticks pass between world-state log lines.
const worldStateInterval = 600

// logWorldState emits a periodic population summary so long headless runs
// leave a trace of what the simulation was doing.
func (g *Game) logWorldState() {
	bodies := 0
	blocks := 0
	query := g.bodyFilter.Query()
	for query.Next() {
		_, blocky := query.Get()
		bodies++
		blocks += len(blocky.Blocks)
	}

	projectiles := 0
	projs := g.projFilter.Query()
	for projs.Next() {
		projectiles++
	}

	markers := 0
	ms := g.markerFilter.Query()
	for ms.Next() {
		markers++
	}

	slog.Info("world state",
		"tick", g.tick,
		"role", g.role.String(),
		"bodies", bodies,
		"blocks", blocks,
		"projectiles", projectiles,
		"markers", markers,
	)
}
