package shapes

import (
	"math"
	"testing"

	"render-engine/core"
	"render-engine/materials"
	remath "render-engine/math"
)

func TestSphereIntersectLocality(t *testing.T) {
	mat := materials.Default()
	s := NewSphere("s", remath.Vec3Zero, 1, mat)

	ray := core.NewRay(remath.Vec3{X: 0, Y: 0, Z: 3}, remath.Vec3{X: 0, Y: 0, Z: -1})
	hit := s.Intersect(ray)

	if !hit.DidHit {
		t.Fatal("expected a hit on the unit sphere")
	}
	dist := math.Abs(float64(hit.Position.Length() - 1))
	if dist > 1e-2 {
		t.Errorf("intersection locality: expected position on unit sphere, got %v (r=%v)", hit.Position, hit.Position.Length())
	}
}

func TestSphereMissesBehind(t *testing.T) {
	mat := materials.Default()
	s := NewSphere("s", remath.Vec3Zero, 1, mat)
	ray := core.NewRay(remath.Vec3{X: 0, Y: 0, Z: 3}, remath.Vec3{X: 0, Y: 0, Z: 1})
	hit := s.Intersect(ray)
	if hit.DidHit {
		t.Error("expected no hit when sphere is behind the ray origin")
	}
}

func TestSphereTransformInvariance(t *testing.T) {
	mat := materials.Default()
	translation := remath.Vec3{X: 5, Y: 0, Z: 0}

	translated := NewSphere("s", remath.Vec3Zero, 1, mat)
	translated.Translate(translation)

	baseline := NewSphere("s", remath.Vec3Zero, 1, mat)

	ray := core.NewRay(remath.Vec3{X: 5, Y: 0, Z: 3}, remath.Vec3{X: 0, Y: 0, Z: -1})
	rayBaseline := core.NewRay(ray.Origin.Sub(translation), ray.Direction)

	hitA := translated.Intersect(ray)
	hitB := baseline.Intersect(rayBaseline)

	if hitA.DidHit != hitB.DidHit {
		t.Fatalf("transform invariance: hit mismatch %v vs %v", hitA.DidHit, hitB.DidHit)
	}
	if math.Abs(float64(hitA.T-hitB.T)) > 1e-4 {
		t.Errorf("transform invariance: t mismatch %v vs %v", hitA.T, hitB.T)
	}
}

func TestTriangleIntersect(t *testing.T) {
	mat := materials.Default()
	tri := NewTriangle("t",
		remath.Vec3{X: -1, Y: -1, Z: 0},
		remath.Vec3{X: 1, Y: -1, Z: 0},
		remath.Vec3{X: 0, Y: 1, Z: 0},
		mat)

	ray := core.NewRay(remath.Vec3{X: 0, Y: 0, Z: 3}, remath.Vec3{X: 0, Y: 0, Z: -1})
	hit := tri.Intersect(ray)
	if !hit.DidHit {
		t.Fatal("expected a hit on the triangle through its centroid-ish region")
	}
}

func TestTriangleParallelMiss(t *testing.T) {
	mat := materials.Default()
	tri := NewTriangle("t",
		remath.Vec3{X: -1, Y: -1, Z: 0},
		remath.Vec3{X: 1, Y: -1, Z: 0},
		remath.Vec3{X: 0, Y: 1, Z: 0},
		mat)

	ray := core.NewRay(remath.Vec3{X: 0, Y: 0, Z: 3}, remath.Vec3{X: 1, Y: 0, Z: 0})
	hit := tri.Intersect(ray)
	if hit.DidHit {
		t.Error("expected no hit for a ray parallel to the triangle's plane")
	}
}

func TestBoxIntersectNormal(t *testing.T) {
	mat := materials.Default()
	b := NewBox("b", remath.Vec3{X: -1, Y: -1, Z: -1}, remath.Vec3{X: 1, Y: 1, Z: 1}, mat)

	ray := core.NewRay(remath.Vec3{X: 0, Y: 0, Z: 3}, remath.Vec3{X: 0, Y: 0, Z: -1})
	hit := b.Intersect(ray)
	if !hit.DidHit {
		t.Fatal("expected a hit on the box")
	}
	if hit.Normal.Z <= 0 {
		t.Errorf("expected outward normal pointing toward +Z face struck first, got %v", hit.Normal)
	}
}

func TestCompositeOctreeConservativeness(t *testing.T) {
	mat := materials.Default()
	root := NewComposite("root")
	for i := 0; i < 200; i++ {
		x := float32(i%10) * 3
		y := float32((i / 10) % 10) * 3
		z := float32(i/100) * 3
		root.AddChild(NewSphere(sphereName(i), remath.Vec3{X: x, Y: y, Z: z}, 0.4, mat))
	}
	root.BuildOctree()

	// Pick a ray aimed straight at one sphere's center.
	target := remath.Vec3{X: 3, Y: 0, Z: 0}
	ray := core.NewRay(remath.Vec3{X: 3, Y: 0, Z: 10}, remath.Vec3{X: 0, Y: 0, Z: -1})
	hit := root.Intersect(ray)
	if !hit.DidHit {
		t.Fatal("octree conservativeness: expected the composite to report the leaf hit")
	}
	if math.Abs(float64(hit.Position.X-target.X)) > 0.5 {
		t.Errorf("expected hit near x=%v, got %v", target.X, hit.Position.X)
	}
}

func TestCompositeEmptyIsNoHit(t *testing.T) {
	root := NewComposite("root")
	ray := core.NewRay(remath.Vec3Zero, remath.Vec3{X: 0, Y: 0, Z: -1})
	hit := root.Intersect(ray)
	if hit.DidHit {
		t.Error("expected no hit on an empty composite")
	}
}

func sphereName(i int) string {
	return "s" + string(rune('a'+i%26)) + string(rune('0'+i/26))
}
