package system

import (
	"time"

	coresys "github.com/sl4ppy/gyruss-tube-shooter/internal/core/system"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/director"
)

// CleanupSystem flushes destroys queued outside the movement pass — event
// handlers and external kills landing late in the tick. Phase 4 (Cleanup).
type CleanupSystem struct {
	d *director.Director
}

func NewCleanupSystem(d *director.Director) *CleanupSystem {
	return &CleanupSystem{d: d}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.d.Cleanup()
}
