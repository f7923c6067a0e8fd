// Package polar holds the pure coordinate math for the tube effect:
// polar↔screen conversion, depth from radius, and the derived scale/alpha
// band. Everything here is stateless and side-effect free.
//
// Depth polarity convention (applied uniformly across the engine): the
// screen center is FAR — depth 0 at radius 0, depth 1 at maxRadius. An
// enemy deep in the tube is small and faint; one at the rim is large and
// opaque.
package polar

import "math"

// Point is a position in polar coordinates around the screen center.
// Radius is in screen units, Angle in radians wrapped to [0, 2π).
type Point struct {
	Radius float64
	Angle  float64
}

// Center is the fixed world center plus the rim radius of the tube.
// Configuration, not runtime-discovered.
type Center struct {
	X         float64
	Y         float64
	MaxRadius float64
}

const twoPi = 2 * math.Pi

// NormalizeAngle wraps an angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}

// ToScreen converts a polar position around c into screen coordinates.
func ToScreen(radius, angle float64, c Center) (x, y float64) {
	return c.X + radius*math.Cos(angle), c.Y + radius*math.Sin(angle)
}

// FromScreen converts a screen position into (radius, angle) around c.
// The returned angle is wrapped to [0, 2π).
func FromScreen(x, y float64, c Center) (radius, angle float64) {
	dx := x - c.X
	dy := y - c.Y
	return math.Hypot(dx, dy), NormalizeAngle(math.Atan2(dy, dx))
}

// DepthFactor returns the normalized tube depth in [0, 1] for a radius:
// 0 at the center (far end of the tube), 1 at maxRadius (near the player).
// Inputs outside [0, maxRadius] clamp; a non-positive maxRadius yields 0.
func DepthFactor(radius, maxRadius float64) float64 {
	if maxRadius <= 0 {
		return 0
	}
	d := radius / maxRadius
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}

// ScaleFromDepth maps a depth factor onto the [minScale, maxScale] band by
// linear interpolation. The result never leaves the band, even for
// out-of-range depth inputs.
func ScaleFromDepth(depth, minScale, maxScale float64) float64 {
	if depth < 0 {
		depth = 0
	}
	if depth > 1 {
		depth = 1
	}
	return minScale + (maxScale-minScale)*depth
}

// AlphaFromDepth maps a depth factor onto the [minAlpha, maxAlpha] band.
// Same contract as ScaleFromDepth.
func AlphaFromDepth(depth, minAlpha, maxAlpha float64) float64 {
	return ScaleFromDepth(depth, minAlpha, maxAlpha)
}
