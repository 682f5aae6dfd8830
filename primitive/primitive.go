// Package primitive implements the two canonical shapes every Object
// can wrap: a unit sphere centered at the origin and the infinite
// plane y=0 with normal (0,1,0). Both are intersected in object
// space; scene.Object applies the affine transform in each direction.
package primitive

import (
	"math"

	"github.com/ungerik/go3d/vec3"

	"github.com/maxkl/raytracer/internal/vecmath"
	"github.com/maxkl/raytracer/ray"
)

const epsilon = 1e-4

// Sphere is the unit sphere centered at the object-space origin.
type Sphere struct{}

// Intersect returns the nearest positive-distance hit of r against
// the unit sphere, if any.
func (Sphere) Intersect(r ray.Ray) (ray.Hit, bool) {
	l := vecmath.Negate(r.Origin)
	adj2 := vecmath.Dot(l, r.Direction)
	d2 := vecmath.Dot(l, l) - adj2*adj2
	if d2 > 1 {
		return ray.Hit{}, false
	}
	thc := float32(math.Sqrt(float64(1 - d2)))
	t0 := adj2 - thc
	t1 := adj2 + thc

	if t0 > t1 {
		t0, t1 = t1, t0
	}
	if t0 < epsilon {
		t0 = t1
		if t0 < epsilon {
			return ray.Hit{}, false
		}
	}

	dir := r.Direction.Scaled(t0)
	point := vec3.Add(&r.Origin, &dir)
	normal := point
	normal.Normalize()

	u := 0.5 + float32(math.Atan2(float64(normal[2]), float64(normal[0])))/(2*math.Pi)
	v := 0.5 - float32(math.Asin(float64(normal[1])))/math.Pi

	return ray.Hit{
		Point:     point,
		Distance:  t0,
		Normal:    normal,
		TexCoords: ray.TexCoords{U: u, V: v},
	}, true
}

// Plane is the infinite plane y=0 with upward normal (0, 1, 0).
type Plane struct{}

// Intersect returns the hit of r against the plane, if the ray travels
// downward onto its upper face and the hit lies ahead of the ray's
// origin. Rays parallel to the plane or travelling upward miss.
func (Plane) Intersect(r ray.Ray) (ray.Hit, bool) {
	normal := vec3.T{0, 1, 0}
	denom := vecmath.Dot(normal, r.Direction)
	if denom > -epsilon {
		return ray.Hit{}, false
	}

	t := -r.Origin[1] / r.Direction[1]
	if t < epsilon {
		return ray.Hit{}, false
	}

	dir := r.Direction.Scaled(t)
	point := vec3.Add(&r.Origin, &dir)

	return ray.Hit{
		Point:     point,
		Distance:  t,
		Normal:    normal,
		TexCoords: ray.TexCoords{U: point[0], V: point[2]},
	}, true
}
