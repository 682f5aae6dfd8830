// Package kdtree implements the triangle-mesh acceleration structure:
// indexed triangle storage, the Möller-Trumbore ray-triangle test, and
// the packed linear KD-tree that turns O(N) mesh intersection into
// roughly O(log N) per ray.
//
// The build recursion reserves an inner-node slot, recurses into the
// below child, patches the slot with the now-known above-child index,
// then recurses into the above child; per-depth scratch buffers let it
// do this without allocating on every node.
package kdtree

import (
	"github.com/ungerik/go3d/vec3"

	"github.com/maxkl/raytracer/internal/vecmath"
	"github.com/maxkl/raytracer/ray"
)

// IndexedTriangle references three vertex positions, and optionally
// three vertex normals and three texture coordinates. The "has
// normals"/"has UVs" flags are triangle-local: NormalIndices and
// TexCoordIndices are nil when absent.
type IndexedTriangle struct {
	PositionIndices [3]int
	NormalIndices   *[3]int
	TexCoordIndices *[3]int
}

// MeshData holds the parallel vertex arrays and triangle list for one
// mesh. Every index referenced by a triangle must be in bounds of its
// respective array; this is enforced by whatever produces a MeshData
// (the OBJ parser), not re-checked here.
type MeshData struct {
	VertexPositions []vec3.T
	VertexNormals   []vec3.T
	VertexTexCoords []ray.TexCoords
	Triangles       []IndexedTriangle
}

func (d *MeshData) position(i int) vec3.T {
	return d.VertexPositions[i]
}

func (d *MeshData) normal(i int) vec3.T {
	return d.VertexNormals[i]
}

func (d *MeshData) texCoord(i int) ray.TexCoords {
	return d.VertexTexCoords[i]
}

type triangleHit struct {
	distance, u, v float32
}

// intersectTriangle performs the Möller-Trumbore ray-triangle test.
// The second return value is false on a miss.
func intersectTriangle(r ray.Ray, v0, v1, v2 vec3.T) (triangleHit, bool) {
	const epsilon = 1.1920929e-7 // float32 machine epsilon

	v0v1 := vec3.Sub(&v1, &v0)
	v0v2 := vec3.Sub(&v2, &v0)
	pvec := vec3.Cross(&r.Direction, &v0v2)
	det := vecmath.Dot(v0v1, pvec)

	if det < epsilon && det > -epsilon {
		return triangleHit{}, false
	}
	invDet := 1.0 / det

	tvec := vec3.Sub(&r.Origin, &v0)
	u := vecmath.Dot(tvec, pvec) * invDet
	if u < 0 || u > 1 {
		return triangleHit{}, false
	}

	qvec := vec3.Cross(&tvec, &v0v1)
	v := vecmath.Dot(r.Direction, qvec) * invDet
	if v < 0 || u+v > 1 {
		return triangleHit{}, false
	}

	t := vecmath.Dot(v0v2, qvec) * invDet
	if t < 0 {
		return triangleHit{}, false
	}

	return triangleHit{distance: t, u: u, v: v}, true
}

// Mesh owns a built LinearKDTree and is the Shape variant that
// delegates intersection testing to it.
type Mesh struct {
	tree LinearKDTree
}

// NewMesh builds the KD-tree for data with opts; unset fields of opts
// take their defaults.
func NewMesh(data MeshData, opts Options) Mesh {
	return Mesh{tree: Build(data, opts)}
}

// Intersect finds the nearest triangle hit along ray r, or false if
// there is none.
func (m *Mesh) Intersect(r ray.Ray) (ray.Hit, bool) {
	return m.tree.Intersect(r)
}

// MaxDepth reports the tree's true maximum depth, for diagnostics.
func (m *Mesh) MaxDepth() int {
	return m.tree.MaxDepth()
}
