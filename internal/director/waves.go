package director

import (
	"time"

	"go.uber.org/zap"

	"github.com/sl4ppy/gyruss-tube-shooter/internal/core/ecs"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/formation"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/movement"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/path"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/scripting"
)

// PlanWave runs one wave-director decision step. With a Lua engine loaded
// the script decides (spawns, attack groups); otherwise the Go default
// applies: spawn the next table wave after a short delay once the field is
// clear, and let orbit timeouts drive attacks. No wave table disables
// sequencing entirely (pure library use).
func (d *Director) PlanWave(dt time.Duration) {
	if d.waves == nil {
		return
	}

	if d.engine != nil {
		ctx := scripting.WaveContext{
			Wave:        d.wave,
			LiveEnemies: d.states.Len(),
			Orbiting:    d.countOrbiting(),
			Score:       d.score,
			BaseOrbitMs: int(durMs(d.cfg.Movement.OrbitDuration.Duration)),
		}
		if cmds := d.engine.RunWavePlanner(ctx); len(cmds) > 0 {
			d.executeCommands(cmds)
			return
		}
	}

	// Go fallback: next wave once the field is clear and the delay ran out.
	if d.states.Len() > 0 {
		return
	}
	d.spawnDelayMs -= float64(dt) / float64(time.Millisecond)
	if d.spawnDelayMs > 0 {
		return
	}
	d.spawnNextWave("", 0)
}

func (d *Director) executeCommands(cmds []scripting.WaveCommand) {
	for _, cmd := range cmds {
		switch cmd.Type {
		case "spawn":
			d.spawnNextWave(cmd.Formation, cmd.Count)
		case "force_attack":
			d.forceAttackGroup(cmd.Group)
		default:
			d.log.Warn("wave planner: unknown command", zap.String("type", cmd.Type))
		}
	}
}

// spawnNextWave advances the wave counter, rescales difficulty, and spawns
// the next table entry. Formation and count overrides come from the Lua
// planner; zero values keep the table's.
func (d *Director) spawnNextWave(formationOverride string, countOverride int) {
	d.wave++
	entry := d.waves.Get(d.wave)
	if entry == nil {
		return
	}

	ft := formation.Type(entry.Formation)
	if formationOverride != "" {
		ft = formation.Type(formationOverride)
	}
	count := entry.Count
	if countOverride > 0 {
		count = countOverride
	}

	targetRadius := entry.TargetRadius
	if targetRadius <= 0 {
		targetRadius = d.cfg.Screen.MaxRadius * 0.85
	}
	spiral := d.cfg.Movement.SpiralDuration.Duration
	if entry.SpiralMs > 0 {
		spiral = time.Duration(entry.SpiralMs) * time.Millisecond
	}
	profile := path.Profile(entry.CurveProfile)
	if profile == "" {
		profile = path.GyrussClassic
	}

	var intensity, frequency float64
	if ap := d.profiles.Get(entry.AttackProfile); ap != nil {
		intensity = ap.CurveIntensity
		frequency = ap.CurveFrequency
	} else if entry.AttackProfile != "" {
		d.log.Warn("wave: unknown attack profile, diving straight",
			zap.String("profile", entry.AttackProfile))
	}

	d.orbitMs = d.scaledOrbitMs()

	_, err := d.SpawnFormationSpec(FormationSpec{
		Formation:      ft,
		Count:          count,
		TargetRadius:   targetRadius,
		SpiralDuration: spiral,
		CurveProfile:   profile,
		CurveIntensity: intensity,
		CurveFrequency: frequency,
		ScoreValue:     entry.ScoreValue,
		Wave:           d.wave,
	})
	if err != nil {
		// A malformed wave entry skips that wave rather than halting the
		// sequence for every wave after it.
		d.log.Error("wave spawn rejected", zap.Int("wave", d.wave), zap.Error(err))
	}

	d.spawnDelayMs = durMs(d.cfg.Difficulty.WaveSpawnDelay.Duration)
}

// scaledOrbitMs applies the difficulty curve to the orbit hold duration:
// Lua first, linear decay with a floor otherwise.
func (d *Director) scaledOrbitMs() float64 {
	base := durMs(d.cfg.Movement.OrbitDuration.Duration)
	floor := durMs(d.cfg.Difficulty.OrbitFloor.Duration)

	if d.engine != nil {
		if ms, ok := d.engine.CalcOrbitDuration(d.wave, int(base), int(floor)); ok {
			return float64(ms)
		}
	}

	ms := base - durMs(d.cfg.Difficulty.OrbitDecayPerWave.Duration)*float64(d.wave-1)
	if ms < floor {
		ms = floor
	}
	return ms
}

// forceAttackGroup pulls up to n orbiting entities into their dive.
func (d *Director) forceAttackGroup(n int) {
	if n <= 0 {
		return
	}
	d.states.Each(func(_ ecs.EntityID, st *movement.State) {
		if n <= 0 || st.Phase != movement.PhaseOrbit {
			return
		}
		d.ForceAttack(st)
		n--
	})
}

func (d *Director) countOrbiting() int {
	n := 0
	d.states.Each(func(_ ecs.EntityID, st *movement.State) {
		if st.Phase == movement.PhaseOrbit {
			n++
		}
	})
	return n
}
