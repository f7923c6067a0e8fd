// Package formation maps a formation shape and member index to the start
// angle that seeds that member's spiral entry.
package formation

import "math"

// Type tags a formation shape. Stored in wave data as a string so YAML and
// Lua can name formations directly.
type Type string

const (
	V       Type = "v"
	Line    Type = "line"
	Circle  Type = "circle"
	Diamond Type = "diamond"
	Cross   Type = "cross"
)

// Known reports whether t is a recognized formation tag.
func Known(t Type) bool {
	switch t {
	case V, Line, Circle, Diamond, Cross:
		return true
	}
	return false
}

// cardinals for Diamond and Cross. Members past the fourth wrap around.
var cardinals = [4]float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}

// StartAngle returns the spiral start angle in radians for member index of
// count in formation t. Unrecognized tags deliberately fall back to Line
// rather than failing — wave data with a typo'd shape still produces a
// playable wave.
func StartAngle(t Type, index, count int) float64 {
	if count < 1 {
		count = 1
	}
	if index < 0 {
		index = 0
	}
	switch t {
	case V:
		return spread(0.6*math.Pi, index, count)
	case Circle:
		return 2 * math.Pi * float64(index%count) / float64(count)
	case Diamond, Cross:
		return cardinals[index%4]
	case Line:
		return spread(0.8*math.Pi, index, count)
	default:
		// Explicit fallback: unknown tags behave as Line.
		return spread(0.8*math.Pi, index, count)
	}
}

// spread places count members linearly across an arc centered at angle 0.
// A single member sits exactly at the center of the arc.
func spread(arc float64, index, count int) float64 {
	if count == 1 {
		return 0
	}
	step := arc / float64(count-1)
	return -arc/2 + step*float64(index)
}
