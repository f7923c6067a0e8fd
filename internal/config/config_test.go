package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tubeshooter.toml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadOverlaysDefaults(t *testing.T) {
	p := writeConfig(t, `
[screen]
max_radius = 400.0

[movement]
spiral_duration = "2500ms"
orbit_duration = "2s"
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Screen.MaxRadius != 400 {
		t.Errorf("max_radius %v, want 400", cfg.Screen.MaxRadius)
	}
	if cfg.Movement.SpiralDuration.Duration != 2500*time.Millisecond {
		t.Errorf("spiral_duration %s, want 2.5s", cfg.Movement.SpiralDuration.Duration)
	}
	if cfg.Movement.OrbitDuration.Duration != 2*time.Second {
		t.Errorf("orbit_duration %s, want 2s", cfg.Movement.OrbitDuration.Duration)
	}
	// Untouched sections keep their defaults.
	if cfg.Movement.AttackSpeed != 220 {
		t.Errorf("attack_speed %v, want default 220", cfg.Movement.AttackSpeed)
	}
	if cfg.Simulation.TickRate.Duration != 16670*time.Microsecond {
		t.Errorf("tick_rate %s, want default", cfg.Simulation.TickRate.Duration)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	p := writeConfig(t, `
[movement]
spiral_duration = "three seconds"
`)
	if _, err := Load(p); err == nil {
		t.Error("unparseable duration: expected error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing file: expected error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Zero max radius", func(c *Config) { c.Screen.MaxRadius = 0 }},
		{"Inverted scale band", func(c *Config) { c.Tube.MinScale = 2 }},
		{"Inverted alpha band", func(c *Config) { c.Tube.MinAlpha = 2 }},
		{"Zero spiral duration", func(c *Config) { c.Movement.SpiralDuration = Duration{} }},
		{"Zero orbit duration", func(c *Config) { c.Movement.OrbitDuration = Duration{} }},
		{"Zero attack duration", func(c *Config) { c.Movement.AttackDuration = Duration{} }},
		{"Exit margin below one", func(c *Config) { c.Movement.ExitMargin = 0.9 }},
		{"Clamp inside exit boundary", func(c *Config) { c.Movement.HardMaxMargin = 1.0 }},
		{"Zero tick rate", func(c *Config) { c.Simulation.TickRate = Duration{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := Defaults().Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestCenterDerivation(t *testing.T) {
	c := Defaults().Screen.Center()
	if c.X != 512 || c.Y != 384 || c.MaxRadius != 360 {
		t.Errorf("center %+v, want (512, 384, r360)", c)
	}
}
