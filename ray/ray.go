// Package ray implements camera/reflection/refraction ray construction
// and the Hit record produced by intersection tests.
package ray

import (
	"math"

	"github.com/ungerik/go3d/vec3"

	"github.com/maxkl/raytracer/internal/vecmath"
)

// Ray is a single ray cast through the scene. Lookups is a pointer to
// a counter shared by every ray descending from the same camera ray
// (reflections, refractions, shadow rays) so that a single debug
// figure can be attributed back to one pixel sample. Descendant rays
// of one camera ray are only ever traced sequentially (cast_ray
// recurses, it does not fan out concurrently), so a plain *int is
// safe without atomics.
type Ray struct {
	Origin    vec3.T
	Direction vec3.T
	Lookups   *int
}

// New constructs a ray with a fresh debug counter.
func New(origin, direction vec3.T) Ray {
	lookups := 0
	return Ray{Origin: origin, Direction: direction, Lookups: &lookups}
}

// Child constructs a derived ray that shares this ray's debug counter.
func (r Ray) Child(origin, direction vec3.T) Ray {
	return Ray{Origin: origin, Direction: direction, Lookups: r.Lookups}
}

// FromScreen builds a camera-space ray for pixel (x, y) in a width x
// height image with the given vertical field of view in degrees.
// Pixel centers are offset by +0.5, y is inverted because image rows
// grow downward while camera space grows upward.
func FromScreen(x, y float32, width, height int, fovDeg float32) Ray {
	fovFactor := float32(math.Tan(float64(fovDeg) * math.Pi / 180.0 / 2.0))
	aspect := float32(width) / float32(height)

	x01 := (x + 0.5) / float32(width)
	y01 := (y + 0.5) / float32(height)

	xRel := x01*2 - 1
	yRel := -(y01*2 - 1)

	rayX := xRel * aspect * fovFactor
	rayY := yRel * fovFactor

	dir := vec3.T{rayX, rayY, -1}
	dir.Normalize()

	return New(vec3.T{0, 0, 0}, dir)
}

// Reflect constructs the mirror-reflection ray of incident off a
// surface with the given normal at hitPoint, nudged off the surface
// to avoid immediate self-intersection.
func Reflect(normal, incident, hitPoint vec3.T, lookups *int) Ray {
	offset := normal.Scaled(1e-5)
	origin := vec3.Add(&hitPoint, &offset)

	d := normal.Scaled(2 * vecmath.Dot(incident, normal))
	direction := vec3.Sub(&incident, &d)

	return Ray{Origin: origin, Direction: direction, Lookups: lookups}
}

// Transmit constructs the Snell-refraction ray of incident through a
// surface of the given refractive index. The second return value is
// false on total internal reflection.
func Transmit(normal, incident, hitPoint vec3.T, refractiveIndex float32, lookups *int) (Ray, bool) {
	iDotN := vecmath.Dot(incident, normal)

	var refN vec3.T
	var etaI, etaT float32
	if iDotN < 0 {
		iDotN = -iDotN
		refN = normal
		etaI, etaT = 1.0, refractiveIndex
	} else {
		refN = vecmath.Negate(normal)
		etaI, etaT = refractiveIndex, 1.0
	}

	eta := etaI / etaT
	k := 1 - eta*eta*(1-iDotN*iDotN)
	if k < 0 {
		return Ray{}, false
	}

	offset := refN.Scaled(1e-5)
	origin := vec3.Sub(&hitPoint, &offset)

	a := incident.Scaled(eta)
	b := refN.Scaled(iDotN*eta - float32(math.Sqrt(float64(k))))
	direction := vec3.Add(&a, &b)

	return Ray{Origin: origin, Direction: direction, Lookups: lookups}, true
}

// TexCoords is a generic (u, v) coordinate pair used both for hit
// records and for texture sampling.
type TexCoords struct {
	U, V float32
}

// Hit describes where a ray struck a surface.
type Hit struct {
	Point     vec3.T
	Distance  float32
	Normal    vec3.T
	TexCoords TexCoords
}

// Nearer reports whether a is strictly closer than b. Distances must
// be finite and non-NaN by construction; a NaN distance reaching here
// indicates a programmer error upstream and is not handled gracefully.
func Nearer(a, b Hit) bool {
	if math.IsNaN(float64(a.Distance)) || math.IsNaN(float64(b.Distance)) {
		panic("ray: hit distance is NaN")
	}
	return a.Distance < b.Distance
}
