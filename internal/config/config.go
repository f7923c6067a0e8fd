package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/sl4ppy/gyruss-tube-shooter/internal/polar"
)

// Duration wraps time.Duration so config files can write "3s" or "150ms".
// BurntSushi/toml decodes strings through encoding.TextUnmarshaler, which
// time.Duration itself does not implement.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type Config struct {
	Game       GameConfig       `toml:"game"`
	Screen     ScreenConfig     `toml:"screen"`
	Tube       TubeConfig       `toml:"tube"`
	Movement   MovementConfig   `toml:"movement"`
	Difficulty DifficultyConfig `toml:"difficulty"`
	Simulation SimulationConfig `toml:"simulation"`
	Logging    LoggingConfig    `toml:"logging"`
}

type GameConfig struct {
	Name string `toml:"name"`
}

// ScreenConfig fixes the world center and field bounds. Configuration, not
// runtime-discovered: the tube center never moves.
type ScreenConfig struct {
	Width     float64 `toml:"width"`
	Height    float64 `toml:"height"`
	MaxRadius float64 `toml:"max_radius"` // rim of the tube in screen units
}

// Center returns the fixed world center used by all polar math.
func (s ScreenConfig) Center() polar.Center {
	return polar.Center{
		X:         s.Width / 2,
		Y:         s.Height / 2,
		MaxRadius: s.MaxRadius,
	}
}

// TubeConfig shapes the depth illusion: the scale/alpha bands entities are
// mapped into by their radius.
type TubeConfig struct {
	MinScale float64 `toml:"min_scale"`
	MaxScale float64 `toml:"max_scale"`
	MinAlpha float64 `toml:"min_alpha"`
	MaxAlpha float64 `toml:"max_alpha"`
}

// MovementConfig holds the default choreography parameters. Per-wave YAML
// entries override formation, count, radius and spiral duration; everything
// else comes from here.
type MovementConfig struct {
	SpiralDuration Duration `toml:"spiral_duration"`
	OrbitDuration  Duration `toml:"orbit_duration"`
	AngularSpeed   float64  `toml:"angular_speed"` // rad/s in orbit
	AttackSpeed    float64  `toml:"attack_speed"`  // units/s toward center
	AttackDuration Duration `toml:"attack_duration"`
	TargetRadius   float64  `toml:"target_radius"` // dive cutoff radius
	ExitSpeed      float64  `toml:"exit_speed"`    // units/s outward
	ReturnDuration Duration `toml:"return_duration"`
	ExitMargin     float64  `toml:"exit_margin"`     // exit boundary = max_radius * margin
	HardMaxMargin  float64  `toml:"hard_max_margin"` // safety clamp = max_radius * margin
	PathCacheSize  int      `toml:"path_cache_size"`
}

// DifficultyConfig controls how the orbit holding pattern shrinks as waves
// escalate. The floor keeps late waves winnable.
type DifficultyConfig struct {
	OrbitDecayPerWave Duration `toml:"orbit_decay_per_wave"`
	OrbitFloor        Duration `toml:"orbit_floor"`
	WaveSpawnDelay    Duration `toml:"wave_spawn_delay"`
}

type SimulationConfig struct {
	TickRate Duration `toml:"tick_rate"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console, json
}

// Load reads a TOML config file over the built-in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations that would produce NaN positions or
// unkillable waves at spawn time rather than mid-game.
func (c *Config) Validate() error {
	if c.Screen.MaxRadius <= 0 {
		return fmt.Errorf("screen.max_radius must be positive, got %.2f", c.Screen.MaxRadius)
	}
	if c.Tube.MinScale > c.Tube.MaxScale {
		return fmt.Errorf("tube scale band inverted: min %.2f > max %.2f", c.Tube.MinScale, c.Tube.MaxScale)
	}
	if c.Tube.MinAlpha > c.Tube.MaxAlpha {
		return fmt.Errorf("tube alpha band inverted: min %.2f > max %.2f", c.Tube.MinAlpha, c.Tube.MaxAlpha)
	}
	if c.Movement.SpiralDuration.Duration <= 0 {
		return fmt.Errorf("movement.spiral_duration must be positive, got %s", c.Movement.SpiralDuration.Duration)
	}
	if c.Movement.OrbitDuration.Duration <= 0 {
		return fmt.Errorf("movement.orbit_duration must be positive, got %s", c.Movement.OrbitDuration.Duration)
	}
	if c.Movement.AttackDuration.Duration <= 0 || c.Movement.ReturnDuration.Duration <= 0 {
		return fmt.Errorf("attack/return durations must be positive")
	}
	if c.Movement.ExitMargin < 1 {
		return fmt.Errorf("movement.exit_margin must be >= 1, got %.2f", c.Movement.ExitMargin)
	}
	if c.Movement.HardMaxMargin < c.Movement.ExitMargin {
		return fmt.Errorf("movement.hard_max_margin %.2f below exit_margin %.2f", c.Movement.HardMaxMargin, c.Movement.ExitMargin)
	}
	if c.Simulation.TickRate.Duration <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %s", c.Simulation.TickRate.Duration)
	}
	return nil
}

// Defaults returns the built-in configuration: a 1024×768 field tuned for
// 60 ticks/s.
func Defaults() *Config {
	return &Config{
		Game: GameConfig{
			Name: "gyruss-tube-shooter",
		},
		Screen: ScreenConfig{
			Width:     1024,
			Height:    768,
			MaxRadius: 360,
		},
		Tube: TubeConfig{
			MinScale: 0.15,
			MaxScale: 1.0,
			MinAlpha: 0.25,
			MaxAlpha: 1.0,
		},
		Movement: MovementConfig{
			SpiralDuration: Duration{3 * time.Second},
			OrbitDuration:  Duration{3 * time.Second},
			AngularSpeed:   0.9,
			AttackSpeed:    220,
			AttackDuration: Duration{4 * time.Second},
			TargetRadius:   24,
			ExitSpeed:      260,
			ReturnDuration: Duration{5 * time.Second},
			ExitMargin:     1.1,
			HardMaxMargin:  1.5,
			PathCacheSize:  64,
		},
		Difficulty: DifficultyConfig{
			OrbitDecayPerWave: Duration{150 * time.Millisecond},
			OrbitFloor:        Duration{800 * time.Millisecond},
			WaveSpawnDelay:    Duration{1500 * time.Millisecond},
		},
		Simulation: SimulationConfig{
			TickRate: Duration{16670 * time.Microsecond}, // ~60 ticks/s
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
