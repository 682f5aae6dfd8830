// Package aabb implements axis-aligned bounding boxes and the slab
// intersection test used throughout the KD-tree build and traversal.
package aabb

import (
	"math"

	"github.com/ungerik/go3d/vec3"
)

// Axis identifies one of the three coordinate axes. It doubles as the
// two-bit split-axis tag packed into a KD-tree inner node.
type Axis uint8

const (
	X Axis = iota
	Y
	Z
)

// AABB is an axis-aligned bounding box described by its minimum and
// maximum corner. The empty box uses +Inf/-Inf corners so that
// unioning it with any other box yields that other box unchanged.
type AABB struct {
	Min, Max vec3.T
}

// Empty returns a box with no volume that absorbs into any union.
func Empty() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: vec3.T{inf, inf, inf},
		Max: vec3.T{-inf, -inf, -inf},
	}
}

// FromTriangle returns the bounding box of a single triangle.
func FromTriangle(p0, p1, p2 *vec3.T) AABB {
	min := vec3.Min(p0, p1)
	min = vec3.Min(&min, p2)
	max := vec3.Max(p0, p1)
	max = vec3.Max(&max, p2)
	return AABB{Min: min, Max: max}
}

// Union returns the smallest box containing both a and b.
func Union(a, b AABB) AABB {
	min := vec3.Min(&a.Min, &b.Min)
	max := vec3.Max(&a.Max, &b.Max)
	return AABB{Min: min, Max: max}
}

// MaximumExtent returns the axis along which the box is longest.
// A tie between the longest axes goes to the later axis (Z before Y
// before X).
func (b AABB) MaximumExtent() Axis {
	extent := vec3.Sub(&b.Max, &b.Min)
	if extent[0] > extent[1] && extent[0] > extent[2] {
		return X
	} else if extent[1] > extent[2] {
		return Y
	}
	return Z
}

// Intersects performs the slab test against a ray given in terms of
// origin, direction and precomputed reciprocal direction. It returns
// the entry/exit distances and whether the ray hits the box at all.
func (b AABB) Intersects(origin, invDir vec3.T) (tMin, tMax float32, ok bool) {
	t1 := (b.Min[0] - origin[0]) * invDir[0]
	t2 := (b.Max[0] - origin[0]) * invDir[0]
	t3 := (b.Min[1] - origin[1]) * invDir[1]
	t4 := (b.Max[1] - origin[1]) * invDir[1]
	t5 := (b.Min[2] - origin[2]) * invDir[2]
	t6 := (b.Max[2] - origin[2]) * invDir[2]

	tMin = fmax(fmax(fmin(t1, t2), fmin(t3, t4)), fmin(t5, t6))
	tMax = fmin(fmin(fmax(t1, t2), fmax(t3, t4)), fmax(t5, t6))

	if tMax < 0 || tMin > tMax {
		return 0, 0, false
	}
	return tMin, tMax, true
}

func fmin(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func fmax(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
