// Package path produces spiral entry trajectories: ordered polar samples
// from a start angle/radius out to a target radius, shaped by a named curve
// profile. Paths are immutable once generated; the state machine walks them
// with a fractional cursor.
package path

import (
	"fmt"
	"math"

	"github.com/sl4ppy/gyruss-tube-shooter/internal/polar"
)

// Profile names a (radiusCurve, angleCurve, rotations) triple. The set is
// closed; unknown names are rejected at generation time.
type Profile string

const (
	// Archimedean is the plain spiral: radius and angle both linear in t.
	Archimedean Profile = "archimedean"
	// GyrussClassic eases the radius out quadratically so enemies burst
	// from the center and settle onto the ring, angle linear.
	GyrussClassic Profile = "gyruss-classic"
	// EaseOutExpo is a sharper variant of GyrussClassic for boss entries.
	EaseOutExpo Profile = "ease-out-expo"
)

// curveShape holds the pure function pair for one profile plus how many
// full turns the angle sweeps over the path.
type curveShape struct {
	radius    func(t float64) float64
	angle     func(t float64) float64
	rotations float64
}

var shapes = map[Profile]curveShape{
	Archimedean: {
		radius:    func(t float64) float64 { return t },
		angle:     func(t float64) float64 { return t },
		rotations: 2,
	},
	GyrussClassic: {
		radius:    func(t float64) float64 { return 1 - (1-t)*(1-t) },
		angle:     func(t float64) float64 { return t },
		rotations: 3,
	},
	EaseOutExpo: {
		radius: func(t float64) float64 {
			if t >= 1 {
				return 1
			}
			return 1 - math.Pow(2, -10*t)
		},
		angle:     func(t float64) float64 { return t },
		rotations: 2,
	},
}

// Valid reports whether p names a known curve profile.
func Valid(p Profile) bool {
	_, ok := shapes[p]
	return ok
}

// Generate builds a spiral of durationFrames+1 samples. Sample i sits at
// t = i/durationFrames with
//
//	radius = startRadius + (endRadius-startRadius)*radiusCurve(t)
//	angle  = startAngle + angleCurve(t)*2π*rotations
//
// startRadius == endRadius is a valid degenerate spiral that only rotates.
// durationFrames <= 0 and unknown profiles are configuration errors.
func Generate(startAngle, startRadius, endRadius float64, durationFrames int, profile Profile) ([]polar.Point, error) {
	if durationFrames <= 0 {
		return nil, fmt.Errorf("spiral path: duration %d frames, must be positive", durationFrames)
	}
	shape, ok := shapes[profile]
	if !ok {
		return nil, fmt.Errorf("spiral path: unknown curve profile %q", profile)
	}
	if startRadius < 0 || endRadius < 0 {
		return nil, fmt.Errorf("spiral path: negative radius (start %.2f, end %.2f)", startRadius, endRadius)
	}

	out := make([]polar.Point, durationFrames+1)
	span := endRadius - startRadius
	for i := 0; i <= durationFrames; i++ {
		t := float64(i) / float64(durationFrames)
		out[i] = polar.Point{
			Radius: startRadius + span*shape.radius(t),
			Angle:  polar.NormalizeAngle(startAngle + shape.angle(t)*2*math.Pi*shape.rotations),
		}
	}
	return out, nil
}

// Interpolate samples a path at a fractional frame index, blending linearly
// between the two bracketing samples. The cursor clamps at both ends, so a
// cursor past the path holds the final sample.
func Interpolate(path []polar.Point, frac float64) polar.Point {
	if len(path) == 0 {
		return polar.Point{}
	}
	if frac <= 0 {
		return path[0]
	}
	last := float64(len(path) - 1)
	if frac >= last {
		return path[len(path)-1]
	}
	i := int(frac)
	t := frac - float64(i)
	a, b := path[i], path[i+1]

	// Blend the angle along the short way around so a wrap between two
	// samples does not spin the entity a full turn.
	da := b.Angle - a.Angle
	if da > math.Pi {
		da -= 2 * math.Pi
	} else if da < -math.Pi {
		da += 2 * math.Pi
	}
	return polar.Point{
		Radius: a.Radius + (b.Radius-a.Radius)*t,
		Angle:  polar.NormalizeAngle(a.Angle + da*t),
	}
}
