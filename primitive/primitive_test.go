package primitive

import (
	"testing"

	"github.com/ungerik/go3d/vec3"

	"github.com/maxkl/raytracer/ray"
)

func TestSphereHitFromOutside(t *testing.T) {
	r := ray.New(vec3.T{0, 0, 5}, vec3.T{0, 0, -1})
	hit, ok := Sphere{}.Intersect(r)
	if !ok {
		t.Fatal("expected a hit")
	}
	if absf32(hit.Distance-4) > 1e-4 {
		t.Fatalf("got distance %v, want 4", hit.Distance)
	}
}

func TestSphereMiss(t *testing.T) {
	r := ray.New(vec3.T{5, 5, 5}, vec3.T{0, 0, -1})
	if _, ok := (Sphere{}.Intersect(r)); ok {
		t.Fatal("expected no hit")
	}
}

func TestPlaneHitFromAbove(t *testing.T) {
	r := ray.New(vec3.T{0, 5, 0}, vec3.T{0, -1, 0})
	hit, ok := Plane{}.Intersect(r)
	if !ok {
		t.Fatal("expected a hit")
	}
	if absf32(hit.Distance-5) > 1e-4 {
		t.Fatalf("got distance %v, want 5", hit.Distance)
	}
}

func TestPlaneParallelMiss(t *testing.T) {
	r := ray.New(vec3.T{0, 5, 0}, vec3.T{1, 0, 0})
	if _, ok := (Plane{}.Intersect(r)); ok {
		t.Fatal("expected no hit for ray parallel to plane")
	}
}

func absf32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
