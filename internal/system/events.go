// Package system holds the per-tick systems registered on the core runner.
// Each wraps one director responsibility so the tick order lives in one
// place (the Phase constants) instead of inside the game loop.
package system

import (
	"time"

	coresys "github.com/sl4ppy/gyruss-tube-shooter/internal/core/system"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/core/event"
)

// EventDispatchSystem rotates the event bus buffers and delivers last
// tick's events to their subscribers. Phase 0 (Events).
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
