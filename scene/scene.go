package scene

import (
	"github.com/ungerik/go3d/vec3"

	"github.com/maxkl/raytracer/ray"
)

// Camera places the image plane in world space. The screen-space ray
// produced by ray.FromScreen looks down -Z with the camera at the
// origin; ToWorldRay reprojects that direction through the camera's
// basis and moves the origin to Position.
type Camera struct {
	Position    vec3.T
	LookAt      vec3.T
	Up          vec3.T
	FieldOfView float32
}

// DefaultCamera reproduces the original fixed camera: at the origin,
// looking down -Z, 45 degree vertical field of view.
func DefaultCamera() Camera {
	return Camera{
		Position:    vec3.T{0, 0, 0},
		LookAt:      vec3.T{0, 0, -1},
		Up:          vec3.T{0, 1, 0},
		FieldOfView: 45,
	}
}

func (c Camera) basis() (right, up, forward vec3.T) {
	forward = vec3.Sub(&c.LookAt, &c.Position)
	forward.Normalize()
	right = vec3.Cross(&forward, &c.Up)
	right.Normalize()
	up = vec3.Cross(&right, &forward)
	return right, up, forward
}

// ToWorldRay reprojects a camera-space ray (as built by
// ray.FromScreen) into world space.
func (c Camera) ToWorldRay(r ray.Ray) ray.Ray {
	right, up, forward := c.basis()

	rx := right.Scaled(r.Direction[0])
	ry := up.Scaled(r.Direction[1])
	rz := forward.Scaled(-r.Direction[2])

	dir := vec3.Add(&rx, &ry)
	dir = vec3.Add(&dir, &rz)
	dir.Normalize()

	return r.Child(c.Position, dir)
}

// Scene holds every renderable input: the object/material/light lists
// and the output image parameters.
type Scene struct {
	ImageWidth, ImageHeight int
	AASamples               int
	ClearColor              Color
	Materials               []Material
	Objects                 []Object
	AmbientLightColor       Color
	Lights                  []Light
	MaxRecursionDepth       int
	Camera                  Camera

	// DebugKDLookups tints each pixel's red channel by its KD-tree
	// traversal-step count (capped at 100), letting a render reveal
	// where mesh acceleration is doing the most work.
	DebugKDLookups bool
}

// Trace checks r against every object and returns the nearest hit and
// the object it struck, or ok=false if r misses everything.
func (s *Scene) Trace(r ray.Ray) (obj *Object, hit ray.Hit, ok bool) {
	for i := range s.Objects {
		h, hitOK := s.Objects[i].Intersect(r)
		if !hitOK {
			continue
		}
		if !ok || ray.Nearer(h, hit) {
			hit = h
			obj = &s.Objects[i]
			ok = true
		}
	}
	return obj, hit, ok
}
