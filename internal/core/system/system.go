package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseEvents    Phase = iota // 0: swap + dispatch last tick's events
	PhaseWave                   // 1: wave director decisions (spawn, force-attack)
	PhaseMovement               // 2: advance every entity's state machine
	PhaseStageSync              // 3: push position/rotation/scale/alpha to the stage
	PhaseCleanup                // 4: flush the destroy queue
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
