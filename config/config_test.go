package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}
	if math.Abs(cfg.Physics.DT-1.0/60.0) > 1e-6 {
		t.Errorf("default dt = %v, want ~1/60", cfg.Physics.DT)
	}
	if cfg.Physics.Elasticity != 0.6 {
		t.Errorf("default elasticity = %v, want 0.6", cfg.Physics.Elasticity)
	}
	if cfg.Net.Role != "standalone" {
		t.Errorf("default role = %q, want standalone", cfg.Net.Role)
	}
	if cfg.World.Width <= 0 || cfg.World.Height <= 0 {
		t.Errorf("default world %vx%v, want positive dimensions", cfg.World.Width, cfg.World.Height)
	}
}

func TestLoadOverridesAreSparse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	override := []byte("physics:\n  elasticity: 0.9\nnet:\n  role: server\n")
	if err := os.WriteFile(path, override, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Physics.Elasticity != 0.9 {
		t.Errorf("elasticity = %v, want override 0.9", cfg.Physics.Elasticity)
	}
	if cfg.Net.Role != "server" {
		t.Errorf("role = %q, want override server", cfg.Net.Role)
	}
	// Untouched keys keep their defaults.
	if math.Abs(cfg.Physics.SeparationBias-0.05) > 1e-9 {
		t.Errorf("separation bias = %v, want default 0.05", cfg.Physics.SeparationBias)
	}
	if cfg.World.Ships == 0 {
		t.Error("ships lost its default on sparse override")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for a missing config file")
	}
}
