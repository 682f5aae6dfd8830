package scene

import (
	"math"

	"github.com/ungerik/go3d/vec3"

	"github.com/maxkl/raytracer/internal/vecmath"
)

// mat3 is a row-major 3x3 rotation matrix. Object transforms only
// ever compose a rotation with a uniform scale and a translation, so
// a bare mat3 plus two scalars/vectors covers the whole affine map
// without reaching for a general 4x4 matrix type (go3d ships one, but
// its API surface was never observed in the retrieved corpus, so
// nothing here guesses at it).
type mat3 struct {
	rows [3]vec3.T
}

func (m mat3) mulVec(v vec3.T) vec3.T {
	return vec3.T{
		vecmath.Dot(m.rows[0], v),
		vecmath.Dot(m.rows[1], v),
		vecmath.Dot(m.rows[2], v),
	}
}

func (m mat3) transpose() mat3 {
	return mat3{rows: [3]vec3.T{
		{m.rows[0][0], m.rows[1][0], m.rows[2][0]},
		{m.rows[0][1], m.rows[1][1], m.rows[2][1]},
		{m.rows[0][2], m.rows[1][2], m.rows[2][2]},
	}}
}

func (m mat3) mul(o mat3) mat3 {
	ot := o.transpose()
	var out mat3
	for i := 0; i < 3; i++ {
		out.rows[i] = vec3.T{
			vecmath.Dot(m.rows[i], ot.rows[0]),
			vecmath.Dot(m.rows[i], ot.rows[1]),
			vecmath.Dot(m.rows[i], ot.rows[2]),
		}
	}
	return out
}

// eulerRotation builds the rotation matrix for Euler angles given in
// degrees, applied in X then Y then Z order (R = Rz * Ry * Rx),
// matching cgmath's Matrix4::from(Euler{x, y, z}) composition.
func eulerRotation(degX, degY, degZ float32) mat3 {
	rx := degX * math.Pi / 180
	ry := degY * math.Pi / 180
	rz := degZ * math.Pi / 180

	sx, cx := float32(math.Sin(float64(rx))), float32(math.Cos(float64(rx)))
	sy, cy := float32(math.Sin(float64(ry))), float32(math.Cos(float64(ry)))
	sz, cz := float32(math.Sin(float64(rz))), float32(math.Cos(float64(rz)))

	rX := mat3{rows: [3]vec3.T{
		{1, 0, 0},
		{0, cx, -sx},
		{0, sx, cx},
	}}
	rY := mat3{rows: [3]vec3.T{
		{cy, 0, sy},
		{0, 1, 0},
		{-sy, 0, cy},
	}}
	rZ := mat3{rows: [3]vec3.T{
		{cz, -sz, 0},
		{sz, cz, 0},
		{0, 0, 1},
	}}

	return rZ.mul(rY).mul(rX)
}

// Transformation describes an object's placement in the scene: a
// translation, an Euler rotation in degrees, and a uniform scale.
type Transformation struct {
	Translation vec3.T
	Rotation    vec3.T
	Scale       float32
}

// DefaultTransformation places an object at the origin, unrotated, at
// scale 1.
func DefaultTransformation() Transformation {
	return Transformation{Scale: 1}
}

type affine struct {
	rotation    mat3
	scale       float32
	translation vec3.T
}

func (t Transformation) toAffine() affine {
	rot := eulerRotation(t.Rotation[0], t.Rotation[1], t.Rotation[2])
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return affine{rotation: rot, scale: scale, translation: t.Translation}
}

func (a affine) transformPoint(p vec3.T) vec3.T {
	scaled := p.Scaled(a.scale)
	rotated := a.rotation.mulVec(scaled)
	return vec3.Add(&rotated, &a.translation)
}

func (a affine) transformVector(v vec3.T) vec3.T {
	scaled := v.Scaled(a.scale)
	return a.rotation.mulVec(scaled)
}

func (a affine) inverseTransformPoint(p vec3.T) vec3.T {
	centered := vec3.Sub(&p, &a.translation)
	unrotated := a.rotation.transpose().mulVec(centered)
	return unrotated.Scaled(1 / a.scale)
}

func (a affine) inverseTransformVector(v vec3.T) vec3.T {
	unrotated := a.rotation.transpose().mulVec(v)
	return unrotated.Scaled(1 / a.scale)
}
