// Package movement advances enemy entities through the tube choreography:
// Spawn → Spiral → Orbit → Attack → Return → Destroy. One Machine drives
// every live entity; each Advance call touches exactly one entity's state
// plus the immutable per-tick config, so iteration order never matters.
package movement

import (
	"math"

	"go.uber.org/zap"

	"github.com/sl4ppy/gyruss-tube-shooter/internal/path"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/polar"
)

// epsilonSq guards direction normalization. Below this squared length a
// direction is treated as degenerate and the previously held facing is
// kept.
const epsilonSq = 1e-12

// TickConfig is the immutable per-tick configuration snapshot. The wave
// director rebuilds it between waves (difficulty scaling); it is never
// mutated mid-tick.
type TickConfig struct {
	Center polar.Center

	MinScale float64
	MaxScale float64
	MinAlpha float64
	MaxAlpha float64

	// OrbitDuration shrinks as difficulty escalates. Captured into the
	// entity on Orbit entry.
	OrbitDuration float64 // ms

	// HardMaxRadius is the bounds-safety clamp, independent of phase.
	HardMaxRadius float64
}

// Machine executes the movement state machine. Stateless apart from its
// logger; all mutable data lives in the per-entity State.
type Machine struct {
	log *zap.Logger
}

func NewMachine(log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Machine{log: log}
}

// Advance moves one entity forward by dt milliseconds, mutating st in
// place. An entity already in Destroy is never advanced; the outcome just
// reports it dead so the caller's filter pass removes it.
func (m *Machine) Advance(st *State, dt float64, cfg TickConfig) TickOutcome {
	if st.Phase == PhaseDestroy {
		return TickOutcome{StillAlive: false, Score: st.takeScore()}
	}

	switch st.Phase {
	case PhaseSpawn:
		m.tickSpawn(st, cfg)
	case PhaseSpiral:
		m.tickSpiral(st, dt, cfg)
	case PhaseOrbit:
		m.tickOrbit(st, dt, cfg)
	case PhaseAttack:
		m.tickAttack(st, dt, cfg)
	case PhaseReturn:
		m.tickReturn(st, dt, cfg)
	}

	// A single malformed entity must not corrupt the shared tick loop:
	// any NaN in its position kills it on the spot.
	if math.IsNaN(st.X) || math.IsNaN(st.Y) || math.IsNaN(st.Pos.Radius) {
		m.log.Warn("movement: NaN position, destroying entity",
			zap.String("formation", string(st.Formation)),
			zap.Int("index", st.Index),
			zap.String("phase", st.Phase.String()))
		st.enterPhase(PhaseDestroy)
		return TickOutcome{StillAlive: false, Score: st.takeScore()}
	}

	// Bounds safety: clamp runaway radii back onto the hard maximum. An
	// entity already on its way out is forced straight to Destroy instead
	// of drifting off-field forever.
	if st.Pos.Radius > cfg.HardMaxRadius {
		wasReturning := st.Phase == PhaseReturn
		st.Pos.Radius = cfg.HardMaxRadius
		st.X, st.Y = polar.ToScreen(st.Pos.Radius, st.Pos.Angle, cfg.Center)
		if wasReturning {
			st.scoreEscaped()
			st.enterPhase(PhaseDestroy)
		}
	}

	// Derived visuals, every phase, every tick.
	depth := polar.DepthFactor(st.Pos.Radius, cfg.Center.MaxRadius)
	st.Scale = polar.ScaleFromDepth(depth, cfg.MinScale, cfg.MaxScale)
	st.Alpha = polar.AlphaFromDepth(depth, cfg.MinAlpha, cfg.MaxAlpha)

	if st.Phase == PhaseDestroy {
		return TickOutcome{StillAlive: false, Score: st.takeScore()}
	}
	return TickOutcome{StillAlive: true}
}

// DestroyExternal marks an entity destroyed from outside the state machine
// (player hit). The entity leaves the live set on the next filter pass,
// carrying a score event worth its point value.
func (m *Machine) DestroyExternal(st *State) {
	if st.Phase == PhaseDestroy {
		return
	}
	st.pendingScore = &ScoreEvent{
		Formation: st.Formation,
		Index:     st.Index,
		Points:    st.ScoreValue,
		Reason:    ScoreDestroyed,
	}
	st.enterPhase(PhaseDestroy)
}

// ForceAttack pulls an orbiting entity into its attack dive early. Used by
// the wave director for attack-group coordination. Reports whether the
// override applied; entities outside Orbit are left alone.
func (m *Machine) ForceAttack(st *State) bool {
	if st.Phase != PhaseOrbit {
		return false
	}
	m.enterAttack(st)
	return true
}

// ---------- Spawn ----------

// tickSpawn promotes a freshly spawned entity to Spiral. Instantaneous:
// happens on the first Advance regardless of dt, including dt = 0. The
// spiral trajectory was computed and stored at formation-spawn time; an
// entity that somehow arrived here without one is malformed and destroyed.
func (m *Machine) tickSpawn(st *State, cfg TickConfig) {
	if len(st.Path) < 2 || st.SpiralDuration <= 0 {
		m.log.Warn("movement: spawned entity has no trajectory, destroying",
			zap.String("formation", string(st.Formation)),
			zap.Int("index", st.Index))
		st.enterPhase(PhaseDestroy)
		return
	}
	st.Pos = st.Path[0]
	st.X, st.Y = polar.ToScreen(st.Pos.Radius, st.Pos.Angle, cfg.Center)
	st.Cursor = 0
	st.enterPhase(PhaseSpiral)
}

// ---------- Spiral ----------

func (m *Machine) tickSpiral(st *State, dt float64, cfg TickConfig) {
	st.PhaseTimer += dt

	pathLen := float64(len(st.Path) - 1)
	st.Cursor += pathLen / st.SpiralDuration * dt

	p := path.Interpolate(st.Path, st.Cursor)
	st.Pos = p
	st.X, st.Y = polar.ToScreen(p.Radius, p.Angle, cfg.Center)

	// Facing = tangent of motion, taken from consecutive path samples
	// rather than velocity so a zero-dt tick or the very first step can't
	// divide by zero.
	ahead := path.Interpolate(st.Path, st.Cursor+1)
	ax, ay := polar.ToScreen(ahead.Radius, ahead.Angle, cfg.Center)
	dx, dy := ax-st.X, ay-st.Y
	if dx*dx+dy*dy > epsilonSq {
		st.Rotation = polar.NormalizeAngle(math.Atan2(dy, dx))
	}

	// Timer is the primary transition condition; cursor exhaustion is the
	// safety net. Both derive from the same configured duration, so they
	// agree by construction — keeping both closes the gap under variable
	// frame timing.
	if st.PhaseTimer >= st.SpiralDuration || st.Cursor >= pathLen {
		end := st.Path[len(st.Path)-1]
		st.Pos = end
		st.X, st.Y = polar.ToScreen(end.Radius, end.Angle, cfg.Center)
		st.OrbitRadius = end.Radius
		st.OrbitDuration = cfg.OrbitDuration
		st.enterPhase(PhaseOrbit)
	}
}

// ---------- Orbit ----------

func (m *Machine) tickOrbit(st *State, dt float64, cfg TickConfig) {
	st.PhaseTimer += dt

	st.Pos.Angle = polar.NormalizeAngle(st.Pos.Angle + st.AngularSpeed*dt)
	st.Pos.Radius = st.OrbitRadius
	st.X, st.Y = polar.ToScreen(st.Pos.Radius, st.Pos.Angle, cfg.Center)

	// Tangent facing, counterclockwise convention: angle + π/2.
	st.Rotation = polar.NormalizeAngle(st.Pos.Angle + math.Pi/2)

	if st.PhaseTimer >= st.OrbitDuration {
		m.enterAttack(st)
	}
}

func (m *Machine) enterAttack(st *State) {
	st.AttackStartR = st.Pos.Radius
	st.AttackStartAngle = st.Pos.Angle
	st.enterPhase(PhaseAttack)
}

// ---------- Attack ----------

// tickAttack integrates the dive in Cartesian space: a radial component
// toward the center plus a perpendicular curve component weighted by the
// configured intensity. Radius/angle are recomputed from the new Cartesian
// position for depth and facing only — feeding them back into the motion
// would oscillate.
func (m *Machine) tickAttack(st *State, dt float64, cfg TickConfig) {
	st.PhaseTimer += dt

	dx := cfg.Center.X - st.X
	dy := cfg.Center.Y - st.Y
	distSq := dx*dx + dy*dy

	var ux, uy float64
	if distSq > epsilonSq {
		dist := math.Sqrt(distSq)
		ux, uy = dx/dist, dy/dist
	} else {
		// On top of the center: keep diving along the held facing.
		ux, uy = math.Cos(st.Rotation), math.Sin(st.Rotation)
	}

	// Lateral curve, perpendicular to the radial direction. Zero
	// intensity is a straight dive.
	curve := 0.0
	if st.CurveIntensity != 0 && st.AttackDuration > 0 {
		curve = st.CurveIntensity *
			math.Sin(2*math.Pi*st.CurveFrequency*st.PhaseTimer/st.AttackDuration)
	}
	px, py := -uy, ux

	vx := (ux + px*curve) * st.AttackSpeed
	vy := (uy + py*curve) * st.AttackSpeed
	st.X += vx * dt
	st.Y += vy * dt

	// Polar derived from Cartesian, for depth/scale/facing only.
	st.Pos.Radius, st.Pos.Angle = polar.FromScreen(st.X, st.Y, cfg.Center)

	if vx*vx+vy*vy > epsilonSq {
		st.Rotation = polar.NormalizeAngle(math.Atan2(vy, vx))
	}

	// Radius threshold is the real exit; the timer is a safety net so an
	// entity can never get numerically stuck mid-dive.
	if st.Pos.Radius <= st.TargetRadius || st.PhaseTimer > st.AttackDuration {
		st.enterPhase(PhaseReturn)
	}
}

// ---------- Return ----------

// tickReturn moves the entity radially outward at constant speed. Motion is
// integrated in Cartesian along the outward unit vector, which preserves
// the angle and grows the radius monotonically; polar is recomputed each
// tick for depth.
func (m *Machine) tickReturn(st *State, dt float64, cfg TickConfig) {
	st.PhaseTimer += dt

	dx := st.X - cfg.Center.X
	dy := st.Y - cfg.Center.Y
	distSq := dx*dx + dy*dy

	var ux, uy float64
	if distSq > epsilonSq {
		dist := math.Sqrt(distSq)
		ux, uy = dx/dist, dy/dist
	} else {
		// Degenerate: sitting exactly on the center. Leave along the last
		// known polar angle.
		ux, uy = math.Cos(st.Pos.Angle), math.Sin(st.Pos.Angle)
	}

	st.X += ux * st.ExitSpeed * dt
	st.Y += uy * st.ExitSpeed * dt
	st.Pos.Radius, st.Pos.Angle = polar.FromScreen(st.X, st.Y, cfg.Center)

	st.Rotation = polar.NormalizeAngle(math.Atan2(uy, ux))

	if st.Pos.Radius > st.ExitRadius || st.PhaseTimer > st.ReturnDuration {
		st.scoreEscaped()
		st.enterPhase(PhaseDestroy)
	}
}

// ---------- helpers ----------

func (st *State) scoreEscaped() {
	if st.pendingScore == nil {
		st.pendingScore = &ScoreEvent{
			Formation: st.Formation,
			Index:     st.Index,
			Points:    0,
			Reason:    ScoreEscaped,
		}
	}
}

func (st *State) takeScore() *ScoreEvent {
	s := st.pendingScore
	st.pendingScore = nil
	return s
}
