package render

import (
	"math"
	"testing"

	"render-engine/core"
	"render-engine/materials"
	remath "render-engine/math"
)

func TestDenoiseIdempotentOnConstantImage(t *testing.T) {
	r := New(Options{Width: 4, Height: 4, AASamples: 1, PixelSamples: 1, RayBounces: 1})
	c := core.Color{R: 0.5, G: 0.5, B: 0.5}
	mat := materials.Default()

	for i := range r.color {
		r.color[i] = c
		r.normal[i] = remath.Vec3{X: 0, Y: 0, Z: 1}
		r.distance[i] = 1
		r.material[i] = mat
	}

	r.denoise()

	const tolerance = 1e-5
	for i, got := range r.color {
		if math.Abs(float64(got.R-c.R)) > tolerance || math.Abs(float64(got.G-c.G)) > tolerance || math.Abs(float64(got.B-c.B)) > tolerance {
			t.Fatalf("pixel %d: expected constant color %v to survive denoise, got %v", i, c, got)
		}
	}
}
