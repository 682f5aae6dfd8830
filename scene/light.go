package scene

import (
	"math"

	"github.com/ungerik/go3d/vec3"

	"github.com/maxkl/raytracer/internal/vecmath"
)

// LightKind distinguishes the two closed Light variants: a scene's
// light list is small and fixed in shape, so a tagged union needs no
// dynamic dispatch and deserializes from YAML without a registry.
type LightKind uint8

const (
	LightDirectional LightKind = iota
	LightPoint
)

// Light is either a directional light (parallel rays, e.g. the sun)
// or a point light (inverse-square falloff from a fixed position).
type Light struct {
	Kind LightKind

	// Directional
	Direction vec3.T // unit vector pointing FROM the light

	// Point
	Position vec3.T

	Color     Color
	Intensity float32
}

// DirectionFrom returns the unit vector from point towards the light.
func (l Light) DirectionFrom(point vec3.T) vec3.T {
	if l.Kind == LightDirectional {
		return vecmath.Negate(l.Direction)
	}
	d := vec3.Sub(&l.Position, &point)
	d.Normalize()
	return d
}

// IntensityAt returns the light's radiant intensity at point.
func (l Light) IntensityAt(point vec3.T) float32 {
	if l.Kind == LightDirectional {
		return l.Intensity
	}
	d := vec3.Sub(&l.Position, &point)
	distSq := vecmath.Dot(d, d)
	return l.Intensity / (4 * math.Pi * distSq)
}

// DistanceAt returns the distance from point to the light, or +Inf
// for a directional light (which has no position to be distant from).
func (l Light) DistanceAt(point vec3.T) float32 {
	if l.Kind == LightDirectional {
		return float32(math.Inf(1))
	}
	d := vec3.Sub(&l.Position, &point)
	return vecmath.Length(d)
}
