package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// newEngineWith writes one wave script into a temp layout and loads it.
func newEngineWith(t *testing.T, script string) *Engine {
	t.Helper()
	dir := t.TempDir()
	waveDir := filepath.Join(dir, "wave")
	if err := os.MkdirAll(waveDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if script != "" {
		if err := os.WriteFile(filepath.Join(waveDir, "director.lua"), []byte(script), 0o644); err != nil {
			t.Fatalf("write script: %v", err)
		}
	}
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestMissingScriptsFallBack(t *testing.T) {
	// No scripts at all: every entry point signals "use the Go default".
	e := newEngineWith(t, "")

	if cmds := e.RunWavePlanner(WaveContext{Wave: 1}); cmds != nil {
		t.Errorf("planner without plan_wave returned %+v, want nil", cmds)
	}
	if ms, ok := e.CalcOrbitDuration(1, 3000, 800); ok {
		t.Errorf("orbit duration without script returned (%d, true), want absent", ms)
	}
}

func TestMissingScriptsDirIsNotAnError(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "nope"), zap.NewNop())
	if err != nil {
		t.Fatalf("missing scripts dir should load empty, got %v", err)
	}
	e.Close()
}

func TestBrokenScriptFailsLoad(t *testing.T) {
	dir := t.TempDir()
	waveDir := filepath.Join(dir, "wave")
	if err := os.MkdirAll(waveDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(waveDir, "bad.lua"), []byte("function oops("), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewEngine(dir, zap.NewNop()); err == nil {
		t.Error("expected load error for broken script")
	}
}

const plannerScript = `
function plan_wave(ctx)
    if ctx.live_enemies == 0 then
        return { { type = "spawn", formation = "circle", count = 6 } }
    end
    if ctx.orbiting >= 4 then
        return { { type = "force_attack", group = 2 } }
    end
    return {}
end

function calc_orbit_duration(wave, base_ms, floor_ms)
    return base_ms - (wave - 1) * 500
end
`

func TestRunWavePlanner(t *testing.T) {
	e := newEngineWith(t, plannerScript)

	cmds := e.RunWavePlanner(WaveContext{Wave: 1, LiveEnemies: 0})
	if len(cmds) != 1 {
		t.Fatalf("empty field: got %d commands, want 1", len(cmds))
	}
	if cmds[0].Type != "spawn" || cmds[0].Formation != "circle" || cmds[0].Count != 6 {
		t.Errorf("spawn command = %+v", cmds[0])
	}

	cmds = e.RunWavePlanner(WaveContext{Wave: 3, LiveEnemies: 6, Orbiting: 5})
	if len(cmds) != 1 {
		t.Fatalf("orbiting field: got %d commands, want 1", len(cmds))
	}
	if cmds[0].Type != "force_attack" || cmds[0].Group != 2 {
		t.Errorf("force_attack command = %+v", cmds[0])
	}

	// Mid-spiral: the script declines to act.
	if cmds = e.RunWavePlanner(WaveContext{Wave: 3, LiveEnemies: 6, Orbiting: 1}); len(cmds) != 0 {
		t.Errorf("quiet step: got %d commands, want none", len(cmds))
	}
}

func TestCalcOrbitDuration(t *testing.T) {
	e := newEngineWith(t, plannerScript)

	tests := []struct {
		name   string
		wave   int
		wantMs int
		wantOK bool
	}{
		{"First wave keeps base", 1, 3000, true},
		{"Fifth wave decays", 5, 1000, true},
		{"Below floor clamps", 6, 800, true},
		{"Negative result falls back", 10, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms, ok := e.CalcOrbitDuration(tt.wave, 3000, 800)
			if ms != tt.wantMs || ok != tt.wantOK {
				t.Errorf("CalcOrbitDuration(%d) = (%d, %v), want (%d, %v)", tt.wave, ms, ok, tt.wantMs, tt.wantOK)
			}
		})
	}
}

func TestPlannerErrorReturnsNil(t *testing.T) {
	e := newEngineWith(t, `
function plan_wave(ctx)
    error("deliberate failure")
end
`)
	if cmds := e.RunWavePlanner(WaveContext{Wave: 1}); cmds != nil {
		t.Errorf("failing planner returned %+v, want nil", cmds)
	}
}
