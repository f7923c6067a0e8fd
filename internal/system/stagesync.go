package system

import (
	"time"

	coresys "github.com/sl4ppy/gyruss-tube-shooter/internal/core/system"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/director"
)

// StageSyncSystem pushes derived position/rotation/scale/alpha to the
// rendering collaborator. Phase 3 (StageSync).
type StageSyncSystem struct {
	d *director.Director
}

func NewStageSyncSystem(d *director.Director) *StageSyncSystem {
	return &StageSyncSystem{d: d}
}

func (s *StageSyncSystem) Phase() coresys.Phase { return coresys.PhaseStageSync }

func (s *StageSyncSystem) Update(_ time.Duration) {
	s.d.SyncStage()
}
