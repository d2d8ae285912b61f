package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/voidbound/skiff/config"
	"github.com/voidbound/skiff/game"
	"github.com/voidbound/skiff/systems"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	roleFlag := flag.String("role", "", "Simulation role: standalone, server, or client (empty = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV telemetry")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	roleName := cfg.Net.Role
	if *roleFlag != "" {
		roleName = *roleFlag
	}
	role, err := systems.ParseRole(roleName)
	if err != nil {
		slog.Error("invalid role", "role", roleName, "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:      rngSeed,
		Role:      role,
		OutputDir: *outputDir,
		Headless:  *headless,
	}

	if *headless {
		runHeadless(opts, *maxTicks)
		return
	}
	runViewer(opts, *maxTicks)
}

// runHeadless drives the simulation on wall-clock time without a window,
// sleeping off the remainder of each fixed step.
func runHeadless(opts game.Options, maxTicks int) {
	g, err := game.New(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"role", opts.Role.String(),
		"max_ticks", maxTicks,
	)

	prev := time.Now()
	for {
		now := time.Now()
		frameDt := now.Sub(prev).Seconds()
		prev = now

		g.Advance(frameDt)

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}

		if remaining := g.Remaining(); remaining > 0 {
			time.Sleep(time.Duration(remaining * float64(time.Second)))
		}
	}
}

// runViewer drives the simulation inside a raylib window.
func runViewer(opts game.Options, maxTicks int) {
	cfg := config.Cfg()

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Skiff")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.HandleInput()

		if !g.Paused() {
			frameDt := float64(rl.GetFrameTime()) * float64(g.Speed())
			g.Advance(frameDt)
		}

		g.Draw()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
}
