// Package stage defines the capability interface the movement core uses to
// drive visual entities. The core never owns rendering resources: it asks
// the stage to create a handle, pushes position/rotation/scale/alpha to it
// every tick, and releases it on destroy. Rendering, animation and audio
// live entirely behind this interface.
package stage

import "go.uber.org/zap"

// Handle is an opaque reference to a drawable entity owned by the stage.
// Zero is never a valid handle.
type Handle uint64

// Stage is implemented by the rendering collaborator.
type Stage interface {
	// CreateEntityAt spawns a drawable at the given screen position and
	// returns its handle.
	CreateEntityAt(x, y float64) Handle
	SetPosition(h Handle, x, y float64)
	SetRotation(h Handle, radians float64)
	SetScale(h Handle, factor float64)
	SetAlpha(h Handle, factor float64)
	// Destroy releases the drawable. The handle is invalid afterwards.
	Destroy(h Handle)
}

// NullStage satisfies Stage and does nothing beyond handing out handles.
// Used in tests and benchmarks.
type NullStage struct {
	next Handle
	live int
}

func NewNullStage() *NullStage { return &NullStage{} }

func (s *NullStage) CreateEntityAt(x, y float64) Handle {
	s.next++
	s.live++
	return s.next
}

func (s *NullStage) SetPosition(Handle, float64, float64) {}
func (s *NullStage) SetRotation(Handle, float64)          {}
func (s *NullStage) SetScale(Handle, float64)             {}
func (s *NullStage) SetAlpha(Handle, float64)             {}

func (s *NullStage) Destroy(Handle) {
	if s.live > 0 {
		s.live--
	}
}

// Live returns the number of handles created and not yet destroyed.
func (s *NullStage) Live() int { return s.live }

// LogStage logs create/destroy at Debug and is otherwise a NullStage.
// Per-tick mutator calls are deliberately not logged — at 60 ticks/s with
// dozens of entities that would drown the log.
type LogStage struct {
	NullStage
	log *zap.Logger
}

func NewLogStage(log *zap.Logger) *LogStage {
	return &LogStage{log: log}
}

func (s *LogStage) CreateEntityAt(x, y float64) Handle {
	h := s.NullStage.CreateEntityAt(x, y)
	s.log.Debug("stage: entity created",
		zap.Uint64("handle", uint64(h)),
		zap.Float64("x", x),
		zap.Float64("y", y))
	return h
}

func (s *LogStage) Destroy(h Handle) {
	s.NullStage.Destroy(h)
	s.log.Debug("stage: entity destroyed", zap.Uint64("handle", uint64(h)))
}
