package component

import "github.com/sl4ppy/gyruss-tube-shooter/internal/stage"

// Drawable links an entity to the visual handle the stage collaborator owns
// for it. Kept separate from the movement state so the stage-sync pass can
// query (movement, drawable) pairs and teardown stays a single Remove.
type Drawable struct {
	Handle stage.Handle
}
