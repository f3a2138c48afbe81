package shapes

import (
	"render-engine/core"
	"render-engine/materials"
	"render-engine/math"
)

// Triangle is a single flat triangle in local space, with either a
// precomputed face normal (normalize((v1-v0) x (v2-v0))) or a
// caller-supplied normal, e.g. a mesh's per-vertex smoothed normal.
type Triangle struct {
	name     string
	material *materials.Material
	v0, v1, v2 math.Vec3
	normal   math.Vec3

	worldTransform    math.Mat4
	worldTransformInv math.Mat4
}

func NewTriangle(name string, v0, v1, v2 math.Vec3, mat *materials.Material) *Triangle {
	return newTriangle(name, v0, v1, v2, v1.Sub(v0).Cross(v2.Sub(v0)).Normalize(), mat)
}

// NewTriangleWithNormal builds a Triangle using the supplied normal
// instead of the computed face normal, for meshes that carry their own
// (typically smoothed, per-vertex) normals.
func NewTriangleWithNormal(name string, v0, v1, v2, normal math.Vec3, mat *materials.Material) *Triangle {
	return newTriangle(name, v0, v1, v2, normal.Normalize(), mat)
}

func newTriangle(name string, v0, v1, v2, normal math.Vec3, mat *materials.Material) *Triangle {
	return &Triangle{
		name:              name,
		material:          mat,
		v0:                v0,
		v1:                v1,
		v2:                v2,
		normal:            normal,
		worldTransform:    math.Mat4Identity(),
		worldTransformInv: math.Mat4Identity(),
	}
}

func (t *Triangle) Name() string                  { return t.name }
func (t *Triangle) Material() *materials.Material { return t.material }
func (t *Triangle) WorldTransform() math.Mat4     { return t.worldTransform }
func (t *Triangle) WorldTransformInv() math.Mat4  { return t.worldTransformInv }

func (t *Triangle) Area() float32 {
	return t.v1.Sub(t.v0).Cross(t.v2.Sub(t.v0)).Length() * 0.5
}

func (t *Triangle) Volume() float32 { return 0 }

func (t *Triangle) Min(outer math.Mat4) math.Vec3 {
	lo, _ := t.bounds(outer)
	return lo
}

func (t *Triangle) Max(outer math.Mat4) math.Vec3 {
	_, hi := t.bounds(outer)
	return hi
}

func (t *Triangle) bounds(outer math.Mat4) (math.Vec3, math.Vec3) {
	m := t.worldTransform.Mul(outer)
	p0 := transformPoint(t.v0, m)
	p1 := transformPoint(t.v1, m)
	p2 := transformPoint(t.v2, m)
	lo := minVec3(minVec3(p0, p1), p2)
	hi := maxVec3(maxVec3(p0, p1), p2)
	return lo, hi
}

// Intersect implements Möller–Trumbore in local space.
func (t *Triangle) Intersect(ray core.Ray) HitPoint {
	local := transformRay(ray, t.worldTransformInv)

	edge1 := t.v1.Sub(t.v0)
	edge2 := t.v2.Sub(t.v0)
	pvec := local.Direction.Cross(edge2)
	det := edge1.Dot(pvec)

	if det > -core.EPSILON && det < core.EPSILON {
		return HitPoint{}
	}
	invDet := 1 / det

	tvec := local.Origin.Sub(t.v0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return HitPoint{}
	}

	qvec := tvec.Cross(edge1)
	v := local.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return HitPoint{}
	}

	tt := edge2.Dot(qvec) * invDet
	if tt < core.EPSILON {
		return HitPoint{}
	}
	tt -= core.EPSILON

	localPos := local.Origin.Add(local.Direction.Mul(tt))
	worldPos := transformPoint(localPos, t.worldTransform)
	worldNormal := transformDirection(t.normal, t.worldTransform).Normalize()

	return HitPoint{
		DidHit:       true,
		T:            tt,
		ShapeName:    t.name,
		Material:     t.material,
		Position:     worldPos,
		RayDirection: ray.Direction,
		Normal:       worldNormal,
	}
}

func (t *Triangle) Scale(v math.Vec3) {
	t.worldTransform = t.worldTransform.Mul(math.Mat4Scale(v))
	t.recomputeInverse()
}

func (t *Triangle) Rotate(euler math.Vec3) {
	t.worldTransform = t.worldTransform.Mul(math.Mat4Rotation(euler))
	t.recomputeInverse()
}

func (t *Triangle) Translate(v math.Vec3) {
	t.worldTransform = t.worldTransform.Mul(math.Mat4Translation(v))
	t.recomputeInverse()
}

func (t *Triangle) Transform(m math.Mat4) {
	t.worldTransform = t.worldTransform.Mul(m)
	t.recomputeInverse()
}

func (t *Triangle) recomputeInverse() {
	t.worldTransformInv = t.worldTransform.Inverse()
}
