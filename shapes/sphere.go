package shapes

import (
	mmath "math"

	"render-engine/core"
	"render-engine/materials"
	"render-engine/math"
)

// Sphere is an analytic sphere in local space, centered at Center with
// radius Radius. world_transform carries whatever scale/rotate/translate
// have been applied since construction.
type Sphere struct {
	name     string
	material *materials.Material
	center   math.Vec3
	radius   float32

	worldTransform    math.Mat4
	worldTransformInv math.Mat4
}

func NewSphere(name string, center math.Vec3, radius float32, mat *materials.Material) *Sphere {
	return &Sphere{
		name:              name,
		material:          mat,
		center:            center,
		radius:            radius,
		worldTransform:    math.Mat4Identity(),
		worldTransformInv: math.Mat4Identity(),
	}
}

func (s *Sphere) Name() string                      { return s.name }
func (s *Sphere) Material() *materials.Material     { return s.material }
func (s *Sphere) WorldTransform() math.Mat4         { return s.worldTransform }
func (s *Sphere) WorldTransformInv() math.Mat4      { return s.worldTransformInv }

func (s *Sphere) Area() float32 {
	return 4 * float32(mmath.Pi) * s.radius * s.radius
}

func (s *Sphere) Volume() float32 {
	r := s.radius
	if r < 0 {
		r = -r
	}
	return (4.0 / 3.0) * float32(mmath.Pi) * r * r * r
}

func (s *Sphere) Min(outer math.Mat4) math.Vec3 {
	lo, _ := s.bounds(outer)
	return lo
}

func (s *Sphere) Max(outer math.Mat4) math.Vec3 {
	_, hi := s.bounds(outer)
	return hi
}

func (s *Sphere) bounds(outer math.Mat4) (math.Vec3, math.Vec3) {
	r := math.Vec3{X: s.radius, Y: s.radius, Z: s.radius}
	localMin := s.center.Sub(r)
	localMax := s.center.Add(r)
	return boundsUnderOuter(localMin, localMax, outer, s.worldTransform)
}

// Intersect follows the common shape pattern: transform into local space,
// solve analytically, map the hit back to world space.
func (s *Sphere) Intersect(ray core.Ray) HitPoint {
	local := transformRay(ray, s.worldTransformInv)

	oc := local.Origin.Sub(s.center)
	dir := local.Direction
	a := dir.Dot(dir)
	b := 2 * oc.Dot(dir)
	c := oc.Dot(oc) - s.radius*s.radius
	disc := b*b - 4*a*c
	if disc < 0 || a == 0 {
		return HitPoint{}
	}

	sq := float32(mmath.Sqrt(float64(disc)))
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)

	t := t0
	if t < core.EPSILON {
		t = t1
	}
	if t < core.EPSILON {
		return HitPoint{}
	}
	t -= core.EPSILON

	localPos := local.Origin.Add(local.Direction.Mul(t))
	worldPos := transformPoint(localPos, s.worldTransform)
	worldCenter := transformPoint(s.center, s.worldTransform)
	normal := worldPos.Sub(worldCenter).Normalize()

	return HitPoint{
		DidHit:       true,
		T:            t,
		ShapeName:    s.name,
		Material:     s.material,
		Position:     worldPos,
		RayDirection: ray.Direction,
		Normal:       normal,
	}
}

func (s *Sphere) Scale(v math.Vec3) {
	s.worldTransform = s.worldTransform.Mul(math.Mat4Scale(v))
	s.recomputeInverse()
}

func (s *Sphere) Rotate(euler math.Vec3) {
	s.worldTransform = s.worldTransform.Mul(math.Mat4Rotation(euler))
	s.recomputeInverse()
}

func (s *Sphere) Translate(t math.Vec3) {
	s.worldTransform = s.worldTransform.Mul(math.Mat4Translation(t))
	s.recomputeInverse()
}

func (s *Sphere) Transform(m math.Mat4) {
	s.worldTransform = s.worldTransform.Mul(m)
	s.recomputeInverse()
}

func (s *Sphere) recomputeInverse() {
	s.worldTransformInv = s.worldTransform.Inverse()
}
