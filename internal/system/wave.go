package system

import (
	"time"

	coresys "github.com/sl4ppy/gyruss-tube-shooter/internal/core/system"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/director"
)

// WaveSystem runs the wave director's decision step: spawning the next
// formation and scheduling attack groups. Phase 1 (Wave).
type WaveSystem struct {
	d *director.Director
}

func NewWaveSystem(d *director.Director) *WaveSystem {
	return &WaveSystem{d: d}
}

func (s *WaveSystem) Phase() coresys.Phase { return coresys.PhaseWave }

func (s *WaveSystem) Update(dt time.Duration) {
	s.d.PlanWave(dt)
}
