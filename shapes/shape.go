// Package shapes implements the geometric primitives, their affine
// transform lifecycle, and the octree-accelerated Composite that groups
// them.
package shapes

import (
	"render-engine/core"
	"render-engine/materials"
	"render-engine/math"
)

// HitPoint describes where (and whether) a ray met a surface. The zero
// value has DidHit == false; callers MUST check DidHit before reading any
// other field.
type HitPoint struct {
	DidHit       bool
	T            float32
	ShapeName    string
	Material     *materials.Material
	Position     math.Vec3
	RayDirection math.Vec3
	Normal       math.Vec3
}

// Shape is the common capability every primitive and Composite offers:
// bounds under an outer transform, intersection, and the mutation
// lifecycle that keeps world_transform / world_transform_inv in sync.
type Shape interface {
	Name() string
	Material() *materials.Material
	WorldTransform() math.Mat4
	WorldTransformInv() math.Mat4

	Area() float32
	Volume() float32

	// Min and Max return the axis-aligned world-space bounds of the shape
	// under the composed transform outer*world_transform.
	Min(outer math.Mat4) math.Vec3
	Max(outer math.Mat4) math.Vec3

	Intersect(ray core.Ray) HitPoint

	Scale(s math.Vec3)
	Rotate(eulerRadians math.Vec3)
	Translate(t math.Vec3)
	Transform(m math.Mat4)
}

// transformPoint maps a position through m (w=1): translation applies.
func transformPoint(v math.Vec3, m math.Mat4) math.Vec3 {
	return v.ToVec4(1).MulMat(m).ToVec3()
}

// transformDirection maps a direction through m (w=0): translation does
// not apply. The result is not normalized; callers normalize as needed.
func transformDirection(v math.Vec3, m math.Mat4) math.Vec3 {
	return v.ToVec4(0).MulMat(m).ToVec3()
}

// transformRay moves a ray into another frame via m, without normalizing
// the transformed direction — local-space intersection math expects the
// un-normalized direction so that the returned t stays in the ray's own
// parametrization.
func transformRay(ray core.Ray, m math.Mat4) core.Ray {
	return core.Ray{
		Origin:    transformPoint(ray.Origin, m),
		Direction: transformDirection(ray.Direction, m),
	}
}

func minVec3(a, b math.Vec3) math.Vec3 {
	return math.Vec3{X: minF(a.X, b.X), Y: minF(a.Y, b.Y), Z: minF(a.Z, b.Z)}
}

func maxVec3(a, b math.Vec3) math.Vec3 {
	return math.Vec3{X: maxF(a.X, b.X), Y: maxF(a.Y, b.Y), Z: maxF(a.Z, b.Z)}
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// boundsUnderOuter computes the eight-corner AABB of a local-space
// min/max box pushed through outer*world_transform — the pattern every
// primitive's Min/Max pair follows.
func boundsUnderOuter(localMin, localMax math.Vec3, outer, worldTransform math.Mat4) (math.Vec3, math.Vec3) {
	m := worldTransform.Mul(outer)
	corners := [8]math.Vec3{
		{X: localMin.X, Y: localMin.Y, Z: localMin.Z},
		{X: localMax.X, Y: localMin.Y, Z: localMin.Z},
		{X: localMin.X, Y: localMax.Y, Z: localMin.Z},
		{X: localMax.X, Y: localMax.Y, Z: localMin.Z},
		{X: localMin.X, Y: localMin.Y, Z: localMax.Z},
		{X: localMax.X, Y: localMin.Y, Z: localMax.Z},
		{X: localMin.X, Y: localMax.Y, Z: localMax.Z},
		{X: localMax.X, Y: localMax.Y, Z: localMax.Z},
	}
	lo := transformPoint(corners[0], m)
	hi := lo
	for _, c := range corners[1:] {
		p := transformPoint(c, m)
		lo = minVec3(lo, p)
		hi = maxVec3(hi, p)
	}
	return lo, hi
}
