package event

import (
	"github.com/sl4ppy/gyruss-tube-shooter/internal/core/ecs"
	"github.com/sl4ppy/gyruss-tube-shooter/internal/formation"
)

// Events the movement core emits for the collaborator layer (scoring, wave
// sequencing, bullet spawning). All are delivered one tick after emission.

// FormationSpawned fires once per formation spawn with the member entity IDs.
type FormationSpawned struct {
	Formation formation.Type
	Wave      int
	Members   []ecs.EntityID
}

// PhaseChanged fires on every movement phase boundary.
type PhaseChanged struct {
	EntityID ecs.EntityID
	From     string
	To       string
}

// EnemyDestroyed fires when an entity leaves the live set, for any reason.
type EnemyDestroyed struct {
	EntityID  ecs.EntityID
	Formation formation.Type
	Index     int
	Escaped   bool
}

// ScoreAwarded fires when a destroyed entity is worth points.
type ScoreAwarded struct {
	EntityID  ecs.EntityID
	Formation formation.Type
	Points    int
}

// WaveCleared fires when the last member of a wave leaves the live set.
type WaveCleared struct {
	Wave int
}
