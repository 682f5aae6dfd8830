package kdtree

import (
	"bytes"
	"log"
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/ungerik/go3d/vec3"

	"github.com/maxkl/raytracer/ray"
)

func gridMesh(n int) MeshData {
	var data MeshData
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x, z := float32(i), float32(j)
			base := len(data.VertexPositions)
			data.VertexPositions = append(data.VertexPositions,
				vec3.T{x, 0, z},
				vec3.T{x + 1, 0, z},
				vec3.T{x, 0, z + 1},
			)
			data.Triangles = append(data.Triangles, IndexedTriangle{
				PositionIndices: [3]int{base, base + 1, base + 2},
			})
		}
	}
	return data
}

func linearScan(data MeshData, r ray.Ray) (ray.Hit, bool) {
	var best ray.Hit
	found := false
	for _, tri := range data.Triangles {
		p0 := data.position(tri.PositionIndices[0])
		p1 := data.position(tri.PositionIndices[1])
		p2 := data.position(tri.PositionIndices[2])
		h, ok := intersectTriangle(r, p0, p1, p2)
		if !ok {
			continue
		}
		if !found || h.distance < best.Distance {
			best = ray.Hit{Distance: h.distance}
			found = true
		}
	}
	return best, found
}

func TestKDTreeMatchesLinearScan(t *testing.T) {
	data := gridMesh(10)
	tree := Build(data, Options{})

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		origin := vec3.T{
			float32(rng.Float64()) * 12,
			5,
			float32(rng.Float64()) * 12,
		}
		dir := vec3.T{0, -1, 0}
		r := ray.New(origin, dir)

		wantHit, wantOK := linearScan(data, r)
		gotHit, gotOK := tree.Intersect(r)

		if gotOK != wantOK {
			t.Fatalf("ray %d: got hit=%v, want hit=%v", i, gotOK, wantOK)
		}
		if gotOK && absf32(gotHit.Distance-wantHit.Distance) > 1e-3 {
			t.Fatalf("ray %d: got distance %v, want %v", i, gotHit.Distance, wantHit.Distance)
		}
	}
}

func TestKDTreeLookupsSublinear(t *testing.T) {
	data := gridMesh(32) // 1024 triangles
	tree := Build(data, Options{})

	origin := vec3.T{16, 5, 16}
	r := ray.New(origin, vec3.T{0, -1, 0})

	_, ok := tree.Intersect(r)
	if !ok {
		t.Fatal("expected a hit")
	}
	if *r.Lookups >= len(data.Triangles) {
		t.Fatalf("lookups %d not sublinear in %d triangles", *r.Lookups, len(data.Triangles))
	}
}

func TestBuildDebugLogsOnlyWhenEnabled(t *testing.T) {
	data := gridMesh(4)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	Build(data, Options{})
	if buf.Len() != 0 {
		t.Fatalf("expected no log output with Debug unset, got %q", buf.String())
	}

	Build(data, Options{Debug: true})
	if !strings.Contains(buf.String(), "kdtree: built") {
		t.Fatalf("expected a build summary line, got %q", buf.String())
	}
}

func TestEmptyMeshNoHit(t *testing.T) {
	tree := Build(MeshData{}, Options{})
	r := ray.New(vec3.T{0, 5, 0}, vec3.T{0, -1, 0})
	if _, ok := tree.Intersect(r); ok {
		t.Fatal("expected no hit on empty mesh")
	}
}

func absf32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
