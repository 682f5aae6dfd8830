// Package vecmath supplies the handful of vec3 operations this module
// needs that were not directly attested anywhere in the retrieved
// go3d usage (Add/Sub/Cross/Min/Max/Scaled/Normalize are used exactly
// as github.com/ungerik/go3d/vec3 exposes them; a dot product, a
// negation and a length are not, so rather than guess at unseen go3d
// method names this package implements them directly against vec3.T's
// three float32 components).
package vecmath

import (
	"math"

	"github.com/ungerik/go3d/vec3"
)

// Dot returns the dot product of a and b.
func Dot(a, b vec3.T) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Negate returns the pointwise negation of v.
func Negate(v vec3.T) vec3.T {
	return vec3.T{-v[0], -v[1], -v[2]}
}

// Length returns the Euclidean length of v.
func Length(v vec3.T) float32 {
	return float32(math.Sqrt(float64(Dot(v, v))))
}
