package kdtree

import (
	"log"
	"math"
	"sort"
	"time"

	"github.com/maxkl/raytracer/aabb"
)

// Options tunes the tree build. MaxTrianglesPerLeaf and MaxDepth both
// default, when left unset, to a leaf cutoff of 16 triangles and a
// depth cutoff of round(8 + 1.3 * log2(n)). Debug logs the build time
// and reached max depth once the tree is built.
type Options struct {
	MaxTrianglesPerLeaf int
	MaxDepth            int
	Debug               bool
}

func (o Options) withDefaults(numTriangles int) Options {
	if o.MaxTrianglesPerLeaf <= 0 {
		o.MaxTrianglesPerLeaf = 16
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = int(math.Round(8 + 1.3*math.Log2(float64(numTriangles))))
	}
	return o
}

// LinearKDTree is a flattened, pointer-free KD-tree over a mesh's
// triangles. Inner and leaf nodes are distinguished by the 2-bit tag
// packed into linearNode.word0; traversal never follows a pointer,
// only array indices, so the whole structure is one contiguous slice.
type LinearKDTree struct {
	data                   MeshData
	nodes                  []linearNode
	triangleIndices        []int
	bounds                 aabb.AABB
	maxDepthBuilt          int
	intersectStackCapacity int
}

// MaxDepth reports the tree's depth the way the recursive build would
// count it: a leaf counts as depth 1, and an inner node's depth is one
// more than the deeper of its two children. This is usually well under
// the configured cutoff.
func (t *LinearKDTree) MaxDepth() int {
	return t.maxDepthBuilt
}

// IntersectStackCapacity is the traversal stack's pre-sized capacity,
// round(0.65 * MaxDepth()). Intersect allocates its stack at this
// capacity up front; a traversal that pushes more entries than that
// grows it through append.
func (t *LinearKDTree) IntersectStackCapacity() int {
	return t.intersectStackCapacity
}

// boundEdge is one endpoint of a triangle's bounding box along the
// current split axis: either the box's entry (is_end=false) or its
// exit (is_end=true). Sorting these and taking the midpoint of the
// two central edges gives the median split plane.
type boundEdge struct {
	pos   float32
	tri   int
	isEnd bool
}

type buildState struct {
	data        MeshData
	triBounds   []aabb.AABB
	nodes       []linearNode
	triIndices  []int
	maxLeafSize int
	maxDepth    int

	// below is reused at every node: its contents are fully consumed
	// (copied into a leaf, or read into edges) before anything else
	// touches it, so one N-sized buffer suffices for the whole build.
	//
	// above must instead survive across an entire below-subtree
	// recursion, because that recursion carves its own nested above
	// prefixes out of the remaining tail of the same buffer before
	// this node's above-set is finally consumed. Worst case that
	// nesting goes (max_depth+1) levels deep, so above is sized
	// (max_depth+1)*N up front and sliced by offset, never reallocated.
	below []int
	above []int

	edges []boundEdge
}

// Build constructs a LinearKDTree over data's triangles.
func Build(data MeshData, opts Options) LinearKDTree {
	start := time.Now()
	n := len(data.Triangles)
	opts = opts.withDefaults(n)

	triBounds := make([]aabb.AABB, n)
	rootBounds := aabb.Empty()
	below := make([]int, n)
	for i, tri := range data.Triangles {
		p0 := data.position(tri.PositionIndices[0])
		p1 := data.position(tri.PositionIndices[1])
		p2 := data.position(tri.PositionIndices[2])
		b := aabb.FromTriangle(&p0, &p1, &p2)
		triBounds[i] = b
		rootBounds = aabb.Union(rootBounds, b)
		below[i] = i
	}

	st := &buildState{
		data:        data,
		triBounds:   triBounds,
		maxLeafSize: opts.MaxTrianglesPerLeaf,
		maxDepth:    opts.MaxDepth,
		below:       below,
		above:       make([]int, (opts.MaxDepth+1)*n),
		edges:       make([]boundEdge, 0, 2*n),
	}

	var depth int
	if n > 0 {
		depth = st.buildNode(rootBounds, st.below, st.above, false, n, opts.MaxDepth)
	}

	// Matches the original's max_depth_recursive: a leaf counts as
	// depth 1 and an inner node is one more than its deepest child, so
	// this is the stack depth traversal can actually reach.
	stackCapacity := int(math.Round(0.65 * float64(depth)))

	if opts.Debug {
		log.Printf("kdtree: built %d triangles in %s, max depth %d", n, time.Since(start), depth)
	}

	return LinearKDTree{
		data:                   data,
		nodes:                  st.nodes,
		triangleIndices:        st.triIndices,
		bounds:                 rootBounds,
		maxDepthBuilt:          depth,
		intersectStackCapacity: stackCapacity,
	}
}

func (st *buildState) makeLeaf(triangleIndices []int) {
	start := len(st.triIndices)
	st.triIndices = append(st.triIndices, triangleIndices...)
	st.nodes = append(st.nodes, makeLeafNode(start, len(triangleIndices)))
}

// buildNode mirrors the reserve-slot / recurse-below / patch-above /
// recurse-above sequence that lays the tree out as one depth-first
// slice (the below child always sits at nodeIndex+1). below and above
// are this call's view of the shared scratch buffers; which one holds
// this node's active triangle set is selected by isAbove. It returns
// the depth of the subtree just built, counted the way the original's
// max_depth_recursive does: a leaf is depth 1, an inner node is one
// more than the deeper of its two children.
func (st *buildState) buildNode(bounds aabb.AABB, below, above []int, isAbove bool, count, depthRemaining int) int {
	var triangleIndices []int
	if isAbove {
		triangleIndices = above[:count]
	} else {
		triangleIndices = below[:count]
	}

	if count <= st.maxLeafSize || depthRemaining == 0 {
		st.makeLeaf(triangleIndices)
		return 1
	}

	axis := bounds.MaximumExtent()

	st.edges = st.edges[:0]
	for _, idx := range triangleIndices {
		b := st.triBounds[idx]
		st.edges = append(st.edges, boundEdge{pos: b.Min[axis], tri: idx, isEnd: false})
		st.edges = append(st.edges, boundEdge{pos: b.Max[axis], tri: idx, isEnd: true})
	}
	sort.Slice(st.edges, func(i, j int) bool {
		return st.edges[i].pos < st.edges[j].pos
	})

	mid := len(st.edges) / 2
	splitPos := 0.5 * (st.edges[mid].pos + st.edges[mid+1].pos)

	// Edges are sorted by position: a triangle whose box straddles the
	// split plane contributes a begin-edge below and an end-edge
	// above, so it lands in both child sets, as it must.
	nBelow, nAbove := 0, 0
	i := 0
	for ; i < len(st.edges) && st.edges[i].pos <= splitPos; i++ {
		if !st.edges[i].isEnd {
			below[nBelow] = st.edges[i].tri
			nBelow++
		}
	}
	for ; i < len(st.edges); i++ {
		if st.edges[i].isEnd {
			above[nAbove] = st.edges[i].tri
			nAbove++
		}
	}

	nodeIndex := len(st.nodes)
	st.nodes = append(st.nodes, makeInnerNode(nodeTag(axis), splitPos))

	belowBounds := bounds
	belowBounds.Max[axis] = splitPos
	// The first nAbove slots of `above` hold this node's above-set;
	// the below recursion gets only the remaining tail to carve its
	// own nested above-prefixes out of, so it can never clobber ours.
	belowDepth := st.buildNode(belowBounds, below, above[nAbove:], false, nBelow, depthRemaining-1)

	aboveChildIndex := len(st.nodes)
	node := st.nodes[nodeIndex]
	node.setAboveChild(aboveChildIndex)
	st.nodes[nodeIndex] = node

	aboveBounds := bounds
	aboveBounds.Min[axis] = splitPos
	aboveDepth := st.buildNode(aboveBounds, below, above, true, nAbove, depthRemaining-1)

	if belowDepth > aboveDepth {
		return 1 + belowDepth
	}
	return 1 + aboveDepth
}
