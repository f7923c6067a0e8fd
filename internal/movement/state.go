package movement

import (
	"github.com/sl4ppy/gyruss-tube-shooter/internal/formation"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/polar"
)

// Phase is the closed set of movement phases. Exactly one is active per
// entity; every transition resets the phase timer.
type Phase uint8

const (
	PhaseSpawn Phase = iota
	PhaseSpiral
	PhaseOrbit
	PhaseAttack
	PhaseReturn
	PhaseDestroy
)

func (p Phase) String() string {
	switch p {
	case PhaseSpawn:
		return "spawn"
	case PhaseSpiral:
		return "spiral"
	case PhaseOrbit:
		return "orbit"
	case PhaseAttack:
		return "attack"
	case PhaseReturn:
		return "return"
	case PhaseDestroy:
		return "destroy"
	}
	return "unknown"
}

// State holds the per-entity movement record. Mutated only by the Machine,
// only from the game loop goroutine — no locks.
//
// Polar position is authoritative during Spiral and Orbit. During Attack
// and Return the Cartesian position is authoritative and Pos is recomputed
// from it each tick, used only for depth/scale/facing — never fed back into
// the motion integration.
type State struct {
	// Identity within the formation that spawned this entity.
	Formation formation.Type
	Index     int
	Count     int

	Phase      Phase
	Pos        polar.Point
	X, Y       float64 // derived screen position
	PhaseTimer float64 // ms elapsed in the current phase

	// Spiral entry trajectory with a fractional cursor into it.
	Path           []polar.Point
	Cursor         float64
	SpiralDuration float64 // ms

	// Orbit holding pattern. OrbitDuration is captured from the tick
	// config on Orbit entry so difficulty scaling between waves takes
	// effect without touching live entities.
	OrbitRadius   float64
	AngularSpeed  float64 // rad/ms
	OrbitDuration float64 // ms

	// Attack dive.
	CurveIntensity   float64 // lateral curve weight (0 = straight dive)
	CurveFrequency   float64 // lateral oscillations per dive
	AttackSpeed      float64 // units/ms
	AttackDuration   float64 // ms, timeout safety net
	TargetRadius     float64 // dive ends when radius drops below this
	AttackStartR     float64
	AttackStartAngle float64

	// Return leg.
	ExitSpeed      float64 // units/ms
	ExitRadius     float64 // crossing this boundary destroys the entity
	ReturnDuration float64 // ms, timeout safety net

	// Derived visuals, recomputed every tick. Never persisted as
	// independent truth.
	Scale    float64
	Rotation float64
	Alpha    float64

	// Points awarded if this entity is destroyed by the player.
	ScoreValue int

	pendingScore *ScoreEvent
}

// enterPhase performs the one universal transition rule: switch phase and
// reset the phase timer.
func (st *State) enterPhase(p Phase) {
	st.Phase = p
	st.PhaseTimer = 0
}

// ScoreReason says why a score event fired.
type ScoreReason uint8

const (
	// ScoreDestroyed: the entity was destroyed by the player.
	ScoreDestroyed ScoreReason = iota
	// ScoreEscaped: the entity completed its run and left the field.
	ScoreEscaped
)

// ScoreEvent is handed to the collaborator layer when an entity leaves the
// live set.
type ScoreEvent struct {
	Formation formation.Type
	Index     int
	Points    int
	Reason    ScoreReason
}

// TickOutcome is returned by Machine.Advance for one entity and one tick.
type TickOutcome struct {
	StillAlive bool
	Score      *ScoreEvent
}
