package system

import (
	"time"

	coresys "github.com/sl4ppy/gyruss-tube-shooter/internal/core/system"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/director"
)

// MovementSystem advances every live entity's state machine and retires
// the destroyed ones. Phase 2 (Movement) — the algorithmic core of a tick.
type MovementSystem struct {
	d *director.Director
}

func NewMovementSystem(d *director.Director) *MovementSystem {
	return &MovementSystem{d: d}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *MovementSystem) Update(dt time.Duration) {
	s.d.AdvanceAll(dt)
}
