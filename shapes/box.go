package shapes

import (
	"render-engine/core"
	"render-engine/materials"
	"render-engine/math"
)

// Box is an axis-aligned box in local space, defined by Min/Max corners.
// It is used both as a standalone renderable primitive and, with a nil
// material, as the bounding volume of a Composite's octree node.
type Box struct {
	name     string
	material *materials.Material
	min, max math.Vec3

	worldTransform    math.Mat4
	worldTransformInv math.Mat4
}

func NewBox(name string, min, max math.Vec3, mat *materials.Material) *Box {
	return &Box{
		name:              name,
		material:          mat,
		min:               min,
		max:               max,
		worldTransform:    math.Mat4Identity(),
		worldTransformInv: math.Mat4Identity(),
	}
}

func (b *Box) Name() string                  { return b.name }
func (b *Box) Material() *materials.Material { return b.material }
func (b *Box) WorldTransform() math.Mat4     { return b.worldTransform }
func (b *Box) WorldTransformInv() math.Mat4  { return b.worldTransformInv }

func (b *Box) Area() float32 {
	d := b.max.Sub(b.min)
	return 2 * (d.X*d.Y + d.Y*d.Z + d.Z*d.X)
}

func (b *Box) Volume() float32 {
	d := b.max.Sub(b.min)
	return d.X * d.Y * d.Z
}

func (b *Box) Min(outer math.Mat4) math.Vec3 {
	lo, _ := boundsUnderOuter(b.min, b.max, outer, b.worldTransform)
	return lo
}

func (b *Box) Max(outer math.Mat4) math.Vec3 {
	_, hi := boundsUnderOuter(b.min, b.max, outer, b.worldTransform)
	return hi
}

// IntersectsLocal is the slab-method bounds test used internally by the
// octree builder and by Composite.Intersect's bounds early-out — it
// operates directly on a ray already in this box's local frame and
// returns only whether it hits, not a HitPoint.
func (b *Box) IntersectsLocal(ray core.Ray) bool {
	tmin := float32(-1e30)
	tmax := float32(1e30)

	for axis := 0; axis < 3; axis++ {
		origin, dir, lo, hi := axisComponents(axis, ray, b.min, b.max)
		if dir == 0 {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}
		invDir := 1 / dir
		t0 := (lo - origin) * invDir
		t1 := (hi - origin) * invDir
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tmin = maxF(tmin, t0)
		tmax = minF(tmax, t1)
		if tmin > tmax {
			return false
		}
	}
	return tmax >= maxF(tmin, 0)
}

func axisComponents(axis int, ray core.Ray, lo, hi math.Vec3) (origin, dir, min, max float32) {
	switch axis {
	case 0:
		return ray.Origin.X, ray.Direction.X, lo.X, hi.X
	case 1:
		return ray.Origin.Y, ray.Direction.Y, lo.Y, hi.Y
	default:
		return ray.Origin.Z, ray.Direction.Z, lo.Z, hi.Z
	}
}

// Intersect implements the full slab method, returning distance and the
// outward normal of the struck face.
func (b *Box) Intersect(ray core.Ray) HitPoint {
	local := transformRay(ray, b.worldTransformInv)

	tmin := float32(-1e30)
	tmax := float32(1e30)
	var hitAxis, exitAxis int
	var hitSign, exitSign float32

	for axis := 0; axis < 3; axis++ {
		origin, dir, lo, hi := axisComponents(axis, local, b.min, b.max)
		if dir == 0 {
			if origin < lo || origin > hi {
				return HitPoint{}
			}
			continue
		}
		invDir := 1 / dir
		t0 := (lo - origin) * invDir
		t1 := (hi - origin) * invDir
		sign := float32(-1)
		if t0 > t1 {
			t0, t1 = t1, t0
			sign = 1
		}
		if t0 > tmin {
			tmin = t0
			hitAxis = axis
			hitSign = sign
		}
		if t1 < tmax {
			tmax = t1
			exitAxis = axis
			exitSign = -sign
		}
		if tmin > tmax {
			return HitPoint{}
		}
	}

	t := tmin
	if t < core.EPSILON {
		t = tmax
		hitAxis, hitSign = exitAxis, exitSign
	}
	if t < core.EPSILON {
		return HitPoint{}
	}
	t -= core.EPSILON

	localPos := local.Origin.Add(local.Direction.Mul(t))
	localNormal := math.Vec3Zero
	switch hitAxis {
	case 0:
		localNormal = math.Vec3{X: hitSign}
	case 1:
		localNormal = math.Vec3{Y: hitSign}
	default:
		localNormal = math.Vec3{Z: hitSign}
	}

	worldPos := transformPoint(localPos, b.worldTransform)
	worldNormal := transformDirection(localNormal, b.worldTransform).Normalize()

	return HitPoint{
		DidHit:       true,
		T:            t,
		ShapeName:    b.name,
		Material:     b.material,
		Position:     worldPos,
		RayDirection: ray.Direction,
		Normal:       worldNormal,
	}
}

func (b *Box) Scale(v math.Vec3) {
	b.worldTransform = b.worldTransform.Mul(math.Mat4Scale(v))
	b.recomputeInverse()
}

func (b *Box) Rotate(euler math.Vec3) {
	b.worldTransform = b.worldTransform.Mul(math.Mat4Rotation(euler))
	b.recomputeInverse()
}

func (b *Box) Translate(v math.Vec3) {
	b.worldTransform = b.worldTransform.Mul(math.Mat4Translation(v))
	b.recomputeInverse()
}

func (b *Box) Transform(m math.Mat4) {
	b.worldTransform = b.worldTransform.Mul(m)
	b.recomputeInverse()
}

func (b *Box) recomputeInverse() {
	b.worldTransformInv = b.worldTransform.Inverse()
}

// AABBIntersects reports whether two world-space AABBs overlap — used by
// the octree builder to test a child's bounds against an octant's box.
func AABBIntersects(aMin, aMax, bMin, bMax math.Vec3) bool {
	return aMin.X <= bMax.X && aMax.X >= bMin.X &&
		aMin.Y <= bMax.Y && aMax.Y >= bMin.Y &&
		aMin.Z <= bMax.Z && aMax.Z >= bMin.Z
}
