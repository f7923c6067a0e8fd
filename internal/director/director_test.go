package director

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sl4ppy/gyruss-tube-shooter/internal/config"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/core/ecs"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/core/event"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/data"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/formation"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/movement"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/path"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/stage"
)

const tick = 16670 * time.Microsecond

func newTestDirector(t *testing.T) (*Director, *stage.NullStage) {
	t.Helper()
	ns := stage.NewNullStage()
	d := New(Options{
		Config: config.Defaults(),
		Stage:  ns,
	})
	return d, ns
}

func TestSpawnFormationRejectsBadParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FormationSpec)
	}{
		{"Zero count", func(s *FormationSpec) { s.Count = 0 }},
		{"Negative count", func(s *FormationSpec) { s.Count = -3 }},
		{"Zero radius", func(s *FormationSpec) { s.TargetRadius = 0 }},
		{"Radius beyond rim", func(s *FormationSpec) { s.TargetRadius = 9999 }},
		{"Zero duration", func(s *FormationSpec) { s.SpiralDuration = 0 }},
		{"Unknown curve profile", func(s *FormationSpec) { s.CurveProfile = path.Profile("zigzag") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ns := newTestDirector(t)
			spec := FormationSpec{
				Formation:      formation.Circle,
				Count:          8,
				TargetRadius:   300,
				SpiralDuration: 3 * time.Second,
			}
			tt.mutate(&spec)
			if _, err := d.SpawnFormationSpec(spec); err == nil {
				t.Fatal("expected error, got nil")
			}
			// The whole call rejects: no partial formation.
			if d.LiveCount() != 0 || ns.Live() != 0 {
				t.Errorf("rejected spawn left %d entities, %d stage handles", d.LiveCount(), ns.Live())
			}
		})
	}
}

func TestSpawnFormationCreatesMembers(t *testing.T) {
	d, ns := newTestDirector(t)

	states, err := d.SpawnFormation(formation.V, 5, 300, 3*time.Second)
	if err != nil {
		t.Fatalf("SpawnFormation: %v", err)
	}
	if len(states) != 5 || d.LiveCount() != 5 || ns.Live() != 5 {
		t.Fatalf("got %d states, %d live, %d handles; want 5 each", len(states), d.LiveCount(), ns.Live())
	}
	for i, st := range states {
		if st.Phase != movement.PhaseSpawn {
			t.Errorf("member %d phase %s, want spawn", i, st.Phase)
		}
		if st.Index != i || st.Count != 5 {
			t.Errorf("member %d identity index=%d count=%d", i, st.Index, st.Count)
		}
		if len(st.Path) == 0 {
			t.Errorf("member %d has no spiral trajectory", i)
		}
	}
}

func TestSpawnFormationUnknownTagStillSpawns(t *testing.T) {
	d, _ := newTestDirector(t)
	states, err := d.SpawnFormation(formation.Type("swarm"), 3, 300, 3*time.Second)
	if err != nil {
		t.Fatalf("unknown formation tag should fall back to line, got %v", err)
	}
	if len(states) != 3 {
		t.Fatalf("got %d members, want 3", len(states))
	}
}

func TestFullWaveChoreography(t *testing.T) {
	d, ns := newTestDirector(t)

	states, err := d.SpawnFormation(formation.V, 5, 300, 3*time.Second)
	if err != nil {
		t.Fatalf("SpawnFormation: %v", err)
	}

	allIn := func(p movement.Phase) bool {
		for _, st := range states {
			if st.Phase != p {
				return false
			}
		}
		return true
	}

	// Spiral lasts 3000ms at ~16.67ms/tick: every member must be orbiting
	// by tick 181.
	for i := 0; i < 181; i++ {
		d.AdvanceAll(tick)
		d.SyncStage()
	}
	if !allIn(movement.PhaseOrbit) {
		t.Fatalf("not all orbiting at tick 181: %s %s %s %s %s",
			states[0].Phase, states[1].Phase, states[2].Phase, states[3].Phase, states[4].Phase)
	}

	// Orbit holds another 3000ms, then everyone dives.
	for i := 0; i < 181; i++ {
		d.AdvanceAll(tick)
	}
	if !allIn(movement.PhaseAttack) {
		t.Fatalf("not all attacking at tick 362")
	}

	// Dive, return and exit are all bounded: nothing may remain live.
	for i := 0; i < 638 && d.LiveCount() > 0; i++ {
		d.AdvanceAll(tick)
	}
	if d.LiveCount() != 0 {
		t.Fatalf("%d entities still live after 1000 ticks", d.LiveCount())
	}
	if ns.Live() != 0 {
		t.Errorf("%d stage handles leaked", ns.Live())
	}
	// Nobody was shot, so everyone escaped: no points.
	if d.Score() != 0 {
		t.Errorf("score %d for a wave of escapes, want 0", d.Score())
	}
}

func TestAdvanceAllZeroDeltaIsIdempotent(t *testing.T) {
	d, _ := newTestDirector(t)
	states, err := d.SpawnFormation(formation.Circle, 4, 300, 3*time.Second)
	if err != nil {
		t.Fatalf("SpawnFormation: %v", err)
	}

	// Move past spawn promotion into steady spiral first.
	for i := 0; i < 10; i++ {
		d.AdvanceAll(tick)
	}

	type snap struct {
		phase movement.Phase
		x, y  float64
	}
	before := make([]snap, len(states))
	for i, st := range states {
		before[i] = snap{st.Phase, st.X, st.Y}
	}

	d.AdvanceAll(0)

	for i, st := range states {
		if st.Phase != before[i].phase || st.X != before[i].x || st.Y != before[i].y {
			t.Errorf("member %d changed under dt=0: phase %s->%s", i, before[i].phase, st.Phase)
		}
	}
	if d.LiveCount() != 4 {
		t.Errorf("dt=0 tick changed live count to %d", d.LiveCount())
	}
}

func TestKillAwardsScore(t *testing.T) {
	d, _ := newTestDirector(t)
	states, err := d.SpawnFormationSpec(FormationSpec{
		Formation:      formation.Line,
		Count:          3,
		TargetRadius:   300,
		SpiralDuration: 3 * time.Second,
		ScoreValue:     150,
	})
	if err != nil {
		t.Fatalf("SpawnFormationSpec: %v", err)
	}

	d.AdvanceAll(tick)
	d.Kill(states[0])
	d.Kill(states[1])
	d.AdvanceAll(tick)

	if d.LiveCount() != 1 {
		t.Errorf("live count %d after two kills, want 1", d.LiveCount())
	}
	if d.Score() != 300 {
		t.Errorf("score %d, want 300", d.Score())
	}
}

func TestEventsFlowThroughBus(t *testing.T) {
	d, _ := newTestDirector(t)
	bus := d.Bus()

	var spawned []event.FormationSpawned
	var phases []event.PhaseChanged
	var destroyed []event.EnemyDestroyed
	var awarded []event.ScoreAwarded
	var cleared []event.WaveCleared
	event.Subscribe(bus, func(e event.FormationSpawned) { spawned = append(spawned, e) })
	event.Subscribe(bus, func(e event.PhaseChanged) { phases = append(phases, e) })
	event.Subscribe(bus, func(e event.EnemyDestroyed) { destroyed = append(destroyed, e) })
	event.Subscribe(bus, func(e event.ScoreAwarded) { awarded = append(awarded, e) })
	event.Subscribe(bus, func(e event.WaveCleared) { cleared = append(cleared, e) })

	states, err := d.SpawnFormationSpec(FormationSpec{
		Formation:      formation.Circle,
		Count:          3,
		TargetRadius:   300,
		SpiralDuration: 3 * time.Second,
		ScoreValue:     100,
	})
	if err != nil {
		t.Fatalf("SpawnFormationSpec: %v", err)
	}

	d.AdvanceAll(tick) // spawn → spiral for everyone
	d.Kill(states[2])
	d.AdvanceAll(tick)
	d.Kill(states[0])
	d.Kill(states[1])
	d.AdvanceAll(tick)

	bus.SwapBuffers()
	bus.DispatchAll()

	if len(spawned) != 1 || spawned[0].Formation != formation.Circle || len(spawned[0].Members) != 3 {
		t.Errorf("formation spawned events: %+v", spawned)
	}
	// 3 spawn→spiral transitions; the kills bypass PhaseChanged (they are
	// external destroys, not machine transitions).
	if len(phases) != 3 {
		t.Errorf("got %d phase events, want 3", len(phases))
	}
	for _, p := range phases {
		if p.From != "spawn" || p.To != "spiral" {
			t.Errorf("phase event %s -> %s, want spawn -> spiral", p.From, p.To)
		}
	}
	if len(destroyed) != 3 {
		t.Errorf("got %d destroy events, want 3", len(destroyed))
	}
	for _, e := range destroyed {
		if e.Escaped {
			t.Errorf("killed entity %d reported as escaped", e.Index)
		}
	}
	if len(awarded) != 3 {
		t.Errorf("got %d score events, want 3", len(awarded))
	}
	if len(cleared) != 1 {
		t.Errorf("got %d wave-cleared events, want 1", len(cleared))
	}
	if d.Score() != 300 {
		t.Errorf("score %d, want 300", d.Score())
	}
}

func TestForceAttackOnlyFromOrbit(t *testing.T) {
	d, _ := newTestDirector(t)
	states, err := d.SpawnFormation(formation.V, 2, 300, 3*time.Second)
	if err != nil {
		t.Fatalf("SpawnFormation: %v", err)
	}

	d.AdvanceAll(tick)
	d.ForceAttack(states[0]) // still spiraling, must be refused
	if states[0].Phase != movement.PhaseSpiral {
		t.Fatalf("force attack applied to spiraling entity: %s", states[0].Phase)
	}

	for i := 0; i < 180 && states[0].Phase != movement.PhaseOrbit; i++ {
		d.AdvanceAll(tick)
	}
	if states[0].Phase != movement.PhaseOrbit {
		t.Fatal("entity never reached orbit")
	}

	d.ForceAttack(states[0])
	if states[0].Phase != movement.PhaseAttack {
		t.Errorf("phase %s after force attack, want attack", states[0].Phase)
	}
	if states[1].Phase != movement.PhaseOrbit {
		t.Errorf("bystander phase %s, want untouched orbit", states[1].Phase)
	}
}

func writeWaveTable(t *testing.T) *data.WaveTable {
	t.Helper()
	p := filepath.Join(t.TempDir(), "wave_list.yaml")
	body := `waves:
  - wave: 1
    formation: circle
    count: 4
    target_radius: 300
    score_value: 100
  - wave: 2
    formation: v
    count: 3
    target_radius: 280
    score_value: 150
`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write wave table: %v", err)
	}
	wt, err := data.LoadWaveTable(p)
	if err != nil {
		t.Fatalf("load wave table: %v", err)
	}
	return wt
}

func TestPlanWaveSequencesTable(t *testing.T) {
	ns := stage.NewNullStage()
	d := New(Options{
		Config: config.Defaults(),
		Stage:  ns,
		Waves:  writeWaveTable(t),
	})

	// Empty field, no pending delay: wave 1 spawns immediately.
	d.PlanWave(tick)
	if d.Wave() != 1 {
		t.Fatalf("wave %d after first plan, want 1", d.Wave())
	}
	if d.LiveCount() != 4 {
		t.Fatalf("live count %d, want 4 from the circle entry", d.LiveCount())
	}

	// Field occupied: planning is a no-op.
	d.PlanWave(tick)
	if d.Wave() != 1 || d.LiveCount() != 4 {
		t.Fatal("plan spawned while the field was occupied")
	}

	// Clear the field, then the spawn delay gates the next wave.
	d.AdvanceAll(tick)
	kill := make([]*movement.State, 0, 4)
	d.states.Each(func(_ ecs.EntityID, st *movement.State) {
		kill = append(kill, st)
	})
	for _, st := range kill {
		d.Kill(st)
	}
	d.AdvanceAll(tick)
	if d.LiveCount() != 0 {
		t.Fatalf("field not clear after kills: %d live", d.LiveCount())
	}

	// Default delay is 1500ms: 89 ticks of ~16.67ms stay under it.
	for i := 0; i < 89; i++ {
		d.PlanWave(tick)
	}
	if d.Wave() != 1 {
		t.Fatalf("wave advanced to %d before the spawn delay elapsed", d.Wave())
	}
	d.PlanWave(tick)
	d.PlanWave(tick)
	if d.Wave() != 2 {
		t.Fatalf("wave %d after spawn delay, want 2", d.Wave())
	}
	if d.LiveCount() != 3 {
		t.Errorf("live count %d, want 3 from the v entry", d.LiveCount())
	}
}

func TestWaveTableWrapsAround(t *testing.T) {
	wt := writeWaveTable(t)
	if got := wt.Get(3); got.Formation != "circle" {
		t.Errorf("wave 3 wrapped to %q, want circle", got.Formation)
	}
	if got := wt.Get(4); got.Formation != "v" {
		t.Errorf("wave 4 wrapped to %q, want v", got.Formation)
	}
}

func TestOrbitDurationDecaysPerWave(t *testing.T) {
	d := New(Options{
		Config: config.Defaults(),
		Stage:  stage.NewNullStage(),
		Waves:  writeWaveTable(t),
	})

	// Default curve: 3000ms base, minus 150ms per wave, floored at 800ms.
	d.wave = 1
	if got := d.scaledOrbitMs(); math.Abs(got-3000) > 1e-9 {
		t.Errorf("wave 1 orbit %vms, want 3000", got)
	}
	d.wave = 5
	if got := d.scaledOrbitMs(); math.Abs(got-2400) > 1e-9 {
		t.Errorf("wave 5 orbit %vms, want 2400", got)
	}
	d.wave = 50
	if got := d.scaledOrbitMs(); math.Abs(got-800) > 1e-9 {
		t.Errorf("wave 50 orbit %vms, want the 800 floor", got)
	}
}
