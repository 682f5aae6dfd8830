package kdtree

import (
	"github.com/ungerik/go3d/vec3"

	"github.com/maxkl/raytracer/ray"
)

// todoItem is a deferred far-child visit, pushed when a ray straddles
// a split plane and popped in last-in-first-out order once the near
// side has been exhausted without producing a close-enough hit.
type todoItem struct {
	node       int
	tMin, tMax float32
}

// Intersect walks the tree in near-to-far order, pruning any subtree
// whose entry distance is already farther than the best hit found so
// far. Lookups on the ray's shared counter are incremented once per
// leaf visited, giving the debug kd_tree_lookups figure described for
// the renderer's diagnostics.
func (t *LinearKDTree) Intersect(r ray.Ray) (ray.Hit, bool) {
	if len(t.nodes) == 0 {
		return ray.Hit{}, false
	}

	invDir := vec3.T{1 / r.Direction[0], 1 / r.Direction[1], 1 / r.Direction[2]}
	tMin, tMax, ok := t.bounds.Intersects(r.Origin, invDir)
	if !ok {
		return ray.Hit{}, false
	}

	stack := make([]todoItem, 0, t.intersectStackCapacity)
	nodeIndex := 0

	var best triangleHit
	var bestTri int = -1
	haveHit := false

	for {
		if haveHit && best.distance < tMin {
			break
		}

		node := &t.nodes[nodeIndex]

		if !node.isLeaf() {
			axis := int(node.tag())
			splitPos := node.splitPos()
			tPlane := (splitPos - r.Origin[axis]) * invDir[axis]

			var first, second int
			belowFirst := r.Origin[axis] < splitPos || (r.Origin[axis] == splitPos && r.Direction[axis] <= 0)
			if belowFirst {
				first, second = nodeIndex+1, node.aboveChild()
			} else {
				first, second = node.aboveChild(), nodeIndex+1
			}

			switch {
			case tPlane > tMax || tPlane <= 0:
				nodeIndex = first
			case tPlane < tMin:
				nodeIndex = second
			default:
				stack = append(stack, todoItem{node: second, tMin: tPlane, tMax: tMax})
				nodeIndex = first
				tMax = tPlane
			}
			continue
		}

		if r.Lookups != nil {
			*r.Lookups++
		}

		n := node.numTriangles()
		start := node.triangleStart()
		for i := 0; i < n; i++ {
			triIdx := t.triangleIndices[start+i]
			tri := t.data.Triangles[triIdx]
			p0 := t.data.position(tri.PositionIndices[0])
			p1 := t.data.position(tri.PositionIndices[1])
			p2 := t.data.position(tri.PositionIndices[2])

			h, ok := intersectTriangle(r, p0, p1, p2)
			if !ok {
				continue
			}
			if !haveHit || h.distance < best.distance {
				best = h
				bestTri = triIdx
				haveHit = true
			}
		}

		if len(stack) == 0 {
			break
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodeIndex = top.node
		tMin = top.tMin
		tMax = top.tMax
	}

	if !haveHit {
		return ray.Hit{}, false
	}
	return t.shadeHit(r, bestTri, best), true
}

// shadeHit turns a raw triangle hit into a world-space ray.Hit,
// barycentric-interpolating vertex normals and texture coordinates
// when the triangle has them and falling back to the flat face
// normal and zeroed coordinates otherwise.
func (t *LinearKDTree) shadeHit(r ray.Ray, triIdx int, h triangleHit) ray.Hit {
	tri := t.data.Triangles[triIdx]
	w := 1 - h.u - h.v

	offset := r.Direction.Scaled(h.distance)
	point := vec3.Add(&r.Origin, &offset)

	var normal vec3.T
	if tri.NormalIndices != nil {
		n0 := t.data.normal(tri.NormalIndices[0])
		n1 := t.data.normal(tri.NormalIndices[1])
		n2 := t.data.normal(tri.NormalIndices[2])
		a := n0.Scaled(w)
		b := n1.Scaled(h.u)
		c := n2.Scaled(h.v)
		ab := vec3.Add(&a, &b)
		normal = vec3.Add(&ab, &c)
		// Left un-normalized on purpose: the interpolated normal is a
		// weighted blend of unit vectors, not itself a unit vector,
		// and renormalizing it here changes shading results.
	} else {
		p0 := t.data.position(tri.PositionIndices[0])
		p1 := t.data.position(tri.PositionIndices[1])
		p2 := t.data.position(tri.PositionIndices[2])
		e1 := vec3.Sub(&p1, &p0)
		e2 := vec3.Sub(&p2, &p0)
		normal = vec3.Cross(&e1, &e2)
		normal.Normalize()
	}

	var tc ray.TexCoords
	if tri.TexCoordIndices != nil {
		t0 := t.data.texCoord(tri.TexCoordIndices[0])
		t1 := t.data.texCoord(tri.TexCoordIndices[1])
		t2 := t.data.texCoord(tri.TexCoordIndices[2])
		tc = ray.TexCoords{
			U: w*t0.U + h.u*t1.U + h.v*t2.U,
			V: w*t0.V + h.u*t1.V + h.v*t2.V,
		}
	}

	return ray.Hit{
		Point:     point,
		Distance:  h.distance,
		Normal:    normal,
		TexCoords: tc,
	}
}
