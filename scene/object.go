package scene

import (
	"github.com/ungerik/go3d/vec3"

	"github.com/maxkl/raytracer/internal/vecmath"
	"github.com/maxkl/raytracer/ray"
)

// Shape is anything an Object can wrap: the two canonical primitives
// and a triangle mesh all satisfy it in object space.
type Shape interface {
	Intersect(r ray.Ray) (ray.Hit, bool)
}

// Object places a Shape in the scene via an affine Transformation and
// points it at one of the scene's materials by index.
type Object struct {
	Shape          Shape
	MaterialIndex  int
	Transformation Transformation

	transform affine
}

// NewObject builds an Object, precomputing its affine transform.
func NewObject(shape Shape, materialIndex int, t Transformation) Object {
	return Object{
		Shape:          shape,
		MaterialIndex:  materialIndex,
		Transformation: t,
		transform:      t.toAffine(),
	}
}

// Intersect transforms r into object space, tests it against the
// wrapped Shape, and transforms a hit back into world space,
// recomputing the distance from the original world-space ray origin
// (the object-space hit distance is in object-space units, which
// differ from world-space units under non-unit scale).
func (o *Object) Intersect(r ray.Ray) (ray.Hit, bool) {
	objOrigin := o.transform.inverseTransformPoint(r.Origin)
	objDir := o.transform.inverseTransformVector(r.Direction)
	objDir.Normalize()
	objRay := r.Child(objOrigin, objDir)

	hit, ok := o.Shape.Intersect(objRay)
	if !ok {
		return ray.Hit{}, false
	}

	worldPoint := o.transform.transformPoint(hit.Point)
	offset := vec3.Sub(&worldPoint, &r.Origin)
	worldDistance := vecmath.Length(offset)

	worldNormal := o.transform.transformVector(hit.Normal)
	worldNormal.Normalize()

	return ray.Hit{
		Point:     worldPoint,
		Distance:  worldDistance,
		Normal:    worldNormal,
		TexCoords: hit.TexCoords,
	}, true
}
