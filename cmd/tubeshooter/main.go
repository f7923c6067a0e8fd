package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sl4ppy/gyruss-tube-shooter/internal/config"
	coresys "github.com/sl4ppy/gyruss-tube-shooter/internal/core/system"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/data"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/director"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/scripting"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/stage"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        gyruss-tube-shooter  v0.1.0        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      tube movement · headless sim         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mgame:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ──────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/tubeshooter.toml"
	if p := os.Getenv("TUBESHOOTER_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Game.Name)

	// 3. Load choreography data
	printSection("data")

	waveTable, err := data.LoadWaveTable("data/yaml/wave_list.yaml")
	if err != nil {
		return fmt.Errorf("load wave table: %w", err)
	}
	printStat("waves", waveTable.Count())

	profileTable, err := data.LoadAttackProfiles("data/yaml/attack_profiles.yaml")
	if err != nil {
		return fmt.Errorf("load attack profiles: %w", err)
	}
	printStat("attack profiles", profileTable.Count())

	// 4. Boot the Lua wave planner
	luaEngine, err := scripting.NewEngine("scripts", log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("lua scripts loaded")
	fmt.Println()

	// 5. Build the director and register tick systems
	dir := director.New(director.Options{
		Config:   cfg,
		Stage:    stage.NewLogStage(log),
		Waves:    waveTable,
		Profiles: profileTable,
		Engine:   luaEngine,
		Log:      log,
	})

	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(dir.Bus()))
	runner.Register(system.NewWaveSystem(dir))
	runner.Register(system.NewMovementSystem(dir))
	runner.Register(system.NewStageSyncSystem(dir))
	runner.Register(system.NewCleanupSystem(dir))

	// 6. Start the game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate.Duration)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("game loop started (tick: %s)", cfg.Simulation.TickRate.Duration))
	fmt.Println()

	statsCounter := 0
	statsInterval := int(5 * time.Second / cfg.Simulation.TickRate.Duration)
	if statsInterval < 1 {
		statsInterval = 1
	}

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			// Real elapsed time, not the nominal tick rate: the machine
			// is frame-rate independent and loop hiccups must not slow
			// the choreography down.
			dt := now.Sub(last)
			last = now
			runner.Tick(dt)

			statsCounter++
			if statsCounter >= statsInterval {
				statsCounter = 0
				log.Info("simulation",
					zap.Int("wave", dir.Wave()),
					zap.Int("live", dir.LiveCount()),
					zap.Int("score", dir.Score()))
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
