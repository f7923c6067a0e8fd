// Package director coordinates the movement core: it spawns formations,
// advances every live entity once per tick, retires destroyed entities in a
// single filter pass, and emits the events the collaborator layer (scoring,
// wave sequencing, bullet spawning) reacts to.
package director

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sl4ppy/gyruss-tube-shooter/internal/component"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/config"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/core/ecs"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/core/event"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/data"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/formation"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/movement"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/path"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/polar"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/scripting"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/stage"
)

// nominal sample rate for spiral paths. Sampling density only affects
// interpolation smoothness; motion itself is scaled by real delta time.
const pathSamplesPerSecond = 60

// Options wires the director's collaborators. Stage and Config are
// required; everything else has a working zero value (nil wave table
// disables wave sequencing, nil engine disables Lua planning).
type Options struct {
	Config   *config.Config
	Stage    stage.Stage
	Bus      *event.Bus
	Waves    *data.WaveTable
	Profiles *data.AttackProfileTable
	Engine   *scripting.Engine
	Log      *zap.Logger
}

// Director owns the live enemy set. Accessed only from the game loop
// goroutine — no locks.
type Director struct {
	log       *zap.Logger
	cfg       *config.Config
	world     *ecs.World
	states    *ecs.PtrComponentStore[movement.State]
	drawables *ecs.PtrComponentStore[component.Drawable]
	machine   *movement.Machine
	stage     stage.Stage
	bus       *event.Bus
	cache     *path.Cache
	waves     *data.WaveTable
	profiles  *data.AttackProfileTable
	engine    *scripting.Engine

	wave         int
	orbitMs      float64
	spawnDelayMs float64
	score        int

	idOf     map[*movement.State]ecs.EntityID
	waveOf   map[ecs.EntityID]int
	waveLive map[int]int
	teardown []stage.Handle
}

func New(opts Options) *Director {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	bus := opts.Bus
	if bus == nil {
		bus = event.NewBus()
	}

	world := ecs.NewWorld()
	states := ecs.NewPtrComponentStore[movement.State]()
	drawables := ecs.NewPtrComponentStore[component.Drawable]()
	world.Registry().Register(states)
	world.Registry().Register(drawables)

	return &Director{
		log:       log,
		cfg:       opts.Config,
		world:     world,
		states:    states,
		drawables: drawables,
		machine:   movement.NewMachine(log),
		stage:     opts.Stage,
		bus:       bus,
		cache:     path.NewCache(opts.Config.Movement.PathCacheSize),
		waves:     opts.Waves,
		profiles:  opts.Profiles,
		engine:    opts.Engine,
		orbitMs:   durMs(opts.Config.Movement.OrbitDuration.Duration),
		idOf:      make(map[*movement.State]ecs.EntityID, 64),
		waveOf:    make(map[ecs.EntityID]int, 64),
		waveLive:  make(map[int]int, 8),
	}
}

// Bus returns the event bus collaborators subscribe on.
func (d *Director) Bus() *event.Bus { return d.bus }

// Wave returns the current wave number (0 before the first spawn).
func (d *Director) Wave() int { return d.wave }

// Score returns the accumulated score from destroy events.
func (d *Director) Score() int { return d.score }

// LiveCount returns the number of live entities.
func (d *Director) LiveCount() int { return d.states.Len() }

// FormationSpec carries the full parameter set for one formation spawn.
type FormationSpec struct {
	Formation      formation.Type
	Count          int
	TargetRadius   float64
	SpiralDuration time.Duration
	CurveProfile   path.Profile // "" = GyrussClassic
	CurveIntensity float64      // attack dive lateral weight
	CurveFrequency float64
	ScoreValue     int
	Wave           int
}

// SpawnFormation creates one formation with default dive parameters. One
// movement state per member, initial phase Spawn at the center.
func (d *Director) SpawnFormation(ft formation.Type, count int, targetRadius float64, spiralDuration time.Duration) ([]*movement.State, error) {
	return d.SpawnFormationSpec(FormationSpec{
		Formation:      ft,
		Count:          count,
		TargetRadius:   targetRadius,
		SpiralDuration: spiralDuration,
		Wave:           d.wave,
	})
}

// SpawnFormationSpec creates one formation from a full spec. Malformed
// parameters reject the whole call before any entity is constructed.
func (d *Director) SpawnFormationSpec(spec FormationSpec) ([]*movement.State, error) {
	if spec.Count < 1 {
		return nil, fmt.Errorf("spawn formation: count %d, must be at least 1", spec.Count)
	}
	maxR := d.cfg.Screen.MaxRadius
	if spec.TargetRadius <= 0 || spec.TargetRadius > maxR {
		return nil, fmt.Errorf("spawn formation: target radius %.2f outside (0, %.2f]", spec.TargetRadius, maxR)
	}
	if spec.SpiralDuration <= 0 {
		return nil, fmt.Errorf("spawn formation: spiral duration %s, must be positive", spec.SpiralDuration)
	}
	profile := spec.CurveProfile
	if profile == "" {
		profile = path.GyrussClassic
	}
	if !path.Valid(profile) {
		return nil, fmt.Errorf("spawn formation: unknown curve profile %q", profile)
	}
	if !formation.Known(spec.Formation) {
		// Not fatal — layout falls back to Line — but worth a trace.
		d.log.Warn("spawn formation: unknown formation tag, using line layout",
			zap.String("formation", string(spec.Formation)))
	}

	frames := int(spec.SpiralDuration.Seconds() * pathSamplesPerSecond)
	if frames < 1 {
		frames = 1
	}

	// Generate every trajectory before constructing any entity so a bad
	// parameter tuple rejects the whole formation.
	paths := make([][]polar.Point, spec.Count)
	for i := 0; i < spec.Count; i++ {
		angle := formation.StartAngle(spec.Formation, i, spec.Count)
		p, err := d.cache.Generate(angle, 0, spec.TargetRadius, frames, profile)
		if err != nil {
			return nil, fmt.Errorf("spawn formation member %d: %w", i, err)
		}
		paths[i] = p
	}

	mv := d.cfg.Movement
	center := d.cfg.Screen.Center()
	members := make([]ecs.EntityID, 0, spec.Count)
	states := make([]*movement.State, 0, spec.Count)

	for i := 0; i < spec.Count; i++ {
		st := &movement.State{
			Formation:      spec.Formation,
			Index:          i,
			Count:          spec.Count,
			Phase:          movement.PhaseSpawn,
			X:              center.X,
			Y:              center.Y,
			Path:           paths[i],
			SpiralDuration: durMs(spec.SpiralDuration),
			OrbitRadius:    spec.TargetRadius,
			AngularSpeed:   mv.AngularSpeed / 1000,
			CurveIntensity: spec.CurveIntensity,
			CurveFrequency: spec.CurveFrequency,
			AttackSpeed:    mv.AttackSpeed / 1000,
			AttackDuration: durMs(mv.AttackDuration.Duration),
			TargetRadius:   mv.TargetRadius,
			ExitSpeed:      mv.ExitSpeed / 1000,
			ExitRadius:     maxR * mv.ExitMargin,
			ReturnDuration: durMs(mv.ReturnDuration.Duration),
			ScoreValue:     spec.ScoreValue,
		}

		id := d.world.CreateEntity()
		d.states.Set(id, st)
		h := d.stage.CreateEntityAt(center.X, center.Y)
		d.drawables.Set(id, &component.Drawable{Handle: h})

		d.idOf[st] = id
		d.waveOf[id] = spec.Wave
		d.waveLive[spec.Wave]++
		members = append(members, id)
		states = append(states, st)
	}

	event.Emit(d.bus, event.FormationSpawned{
		Formation: spec.Formation,
		Wave:      spec.Wave,
		Members:   members,
	})
	d.log.Info("formation spawned",
		zap.String("formation", string(spec.Formation)),
		zap.Int("count", spec.Count),
		zap.Int("wave", spec.Wave),
		zap.Float64("target_radius", spec.TargetRadius))

	return states, nil
}

// AdvanceAll drives the state machine for every live entity, then removes
// Destroy-phase entities in a single filter pass after all advances have
// completed. Returns one outcome per advanced entity.
func (d *Director) AdvanceAll(dt time.Duration) []movement.TickOutcome {
	dtMs := float64(dt) / float64(time.Millisecond)
	tc := d.tickConfig()

	outcomes := make([]movement.TickOutcome, 0, d.states.Len())

	type retired struct {
		id ecs.EntityID
		st *movement.State
		sc *movement.ScoreEvent
	}
	var dead []retired

	d.states.Each(func(id ecs.EntityID, st *movement.State) {
		before := st.Phase
		out := d.machine.Advance(st, dtMs, tc)
		if st.Phase != before {
			event.Emit(d.bus, event.PhaseChanged{
				EntityID: id,
				From:     before.String(),
				To:       st.Phase.String(),
			})
		}
		if !out.StillAlive {
			dead = append(dead, retired{id: id, st: st, sc: out.Score})
		}
		outcomes = append(outcomes, out)
	})

	for _, r := range dead {
		d.retire(r.id, r.st, r.sc)
	}
	d.flush()

	return outcomes
}

// SyncStage pushes every surviving entity's derived visuals to the stage.
func (d *Director) SyncStage() {
	ecs.Each2(d.states, d.drawables, func(_ ecs.EntityID, st *movement.State, dr *component.Drawable) {
		d.stage.SetPosition(dr.Handle, st.X, st.Y)
		d.stage.SetRotation(dr.Handle, st.Rotation)
		d.stage.SetScale(dr.Handle, st.Scale)
		d.stage.SetAlpha(dr.Handle, st.Alpha)
	})
}

// ForceAttack pulls an orbiting entity into its attack dive early.
// No-op for entities in any other phase.
func (d *Director) ForceAttack(st *movement.State) {
	before := st.Phase
	if !d.machine.ForceAttack(st) {
		return
	}
	if id, ok := d.idOf[st]; ok {
		event.Emit(d.bus, event.PhaseChanged{
			EntityID: id,
			From:     before.String(),
			To:       st.Phase.String(),
		})
	}
}

// Kill destroys an entity from outside the state machine (player hit). The
// entity is removed on the current tick's filter pass and its score value
// is awarded.
func (d *Director) Kill(st *movement.State) {
	d.machine.DestroyExternal(st)
}

// Cleanup flushes any destroys queued outside AdvanceAll (event handlers,
// external kills landing after the movement phase). No-op when nothing is
// pending.
func (d *Director) Cleanup() {
	d.flush()
}

// retire queues one dead entity for removal and emits its destroy events.
func (d *Director) retire(id ecs.EntityID, st *movement.State, sc *movement.ScoreEvent) {
	d.world.MarkForDestruction(id)
	if dr, ok := d.drawables.Get(id); ok {
		d.teardown = append(d.teardown, dr.Handle)
	}

	escaped := sc == nil || sc.Reason == movement.ScoreEscaped
	event.Emit(d.bus, event.EnemyDestroyed{
		EntityID:  id,
		Formation: st.Formation,
		Index:     st.Index,
		Escaped:   escaped,
	})
	if sc != nil && sc.Points > 0 {
		d.score += sc.Points
		event.Emit(d.bus, event.ScoreAwarded{
			EntityID:  id,
			Formation: st.Formation,
			Points:    sc.Points,
		})
	}

	delete(d.idOf, st)
	if w, ok := d.waveOf[id]; ok {
		delete(d.waveOf, id)
		d.waveLive[w]--
		if d.waveLive[w] <= 0 {
			delete(d.waveLive, w)
			event.Emit(d.bus, event.WaveCleared{Wave: w})
			d.log.Info("wave cleared", zap.Int("wave", w))
		}
	}
}

func (d *Director) flush() {
	d.world.FlushDestroyQueue()
	for _, h := range d.teardown {
		d.stage.Destroy(h)
	}
	d.teardown = d.teardown[:0]
}

// tickConfig builds the immutable per-tick snapshot. Difficulty scaling
// changes d.orbitMs between waves, never mid-tick.
func (d *Director) tickConfig() movement.TickConfig {
	center := d.cfg.Screen.Center()
	return movement.TickConfig{
		Center:        center,
		MinScale:      d.cfg.Tube.MinScale,
		MaxScale:      d.cfg.Tube.MaxScale,
		MinAlpha:      d.cfg.Tube.MinAlpha,
		MaxAlpha:      d.cfg.Tube.MaxAlpha,
		OrbitDuration: d.orbitMs,
		HardMaxRadius: center.MaxRadius * d.cfg.Movement.HardMaxMargin,
	}
}

func durMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
