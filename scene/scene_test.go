package scene

import (
	"testing"

	"github.com/ungerik/go3d/vec3"

	"github.com/maxkl/raytracer/primitive"
	"github.com/maxkl/raytracer/ray"
)

func TestObjectTransformTranslatesSphere(t *testing.T) {
	obj := NewObject(primitive.Sphere{}, 0, Transformation{
		Translation: vec3.T{0, 0, -5},
		Scale:       1,
	})

	r := ray.New(vec3.T{0, 0, 0}, vec3.T{0, 0, -1})
	hit, ok := obj.Intersect(r)
	if !ok {
		t.Fatal("expected a hit")
	}
	if absf32(hit.Distance-4) > 1e-3 {
		t.Fatalf("got distance %v, want 4", hit.Distance)
	}
}

func TestObjectTransformScalesSphere(t *testing.T) {
	obj := NewObject(primitive.Sphere{}, 0, Transformation{
		Translation: vec3.T{0, 0, -10},
		Scale:       2,
	})

	r := ray.New(vec3.T{0, 0, 0}, vec3.T{0, 0, -1})
	hit, ok := obj.Intersect(r)
	if !ok {
		t.Fatal("expected a hit")
	}
	// Sphere of radius 2 centered at z=-10: surface at z=-8.
	if absf32(hit.Distance-8) > 1e-3 {
		t.Fatalf("got distance %v, want 8", hit.Distance)
	}
}

func TestSceneTraceFindsNearestObject(t *testing.T) {
	s := &Scene{
		Objects: []Object{
			NewObject(primitive.Sphere{}, 0, Transformation{Translation: vec3.T{0, 0, -10}, Scale: 1}),
			NewObject(primitive.Sphere{}, 1, Transformation{Translation: vec3.T{0, 0, -5}, Scale: 1}),
		},
	}

	r := ray.New(vec3.T{0, 0, 0}, vec3.T{0, 0, -1})
	obj, hit, ok := s.Trace(r)
	if !ok {
		t.Fatal("expected a hit")
	}
	if obj.MaterialIndex != 1 {
		t.Fatalf("got nearest object material index %d, want 1", obj.MaterialIndex)
	}
	if absf32(hit.Distance-4) > 1e-3 {
		t.Fatalf("got distance %v, want 4", hit.Distance)
	}
}

func absf32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
