package render

import (
	"math"
	"testing"

	remath "render-engine/math"
)

func TestSchlickNormalIncidence(t *testing.T) {
	tr := &tracer{}
	ior := float32(1.5)
	r := tr.schlickReflectance(remath.Vec3{X: 0, Y: 0, Z: -1}, remath.Vec3{X: 0, Y: 0, Z: 1}, ior)

	expected := float32((1 - ior) / (1 + ior))
	expected *= expected

	if math.Abs(float64(r-expected)) > 1e-4 {
		t.Errorf("Schlick at normal incidence: expected %v, got %v", expected, r)
	}
}

func TestSchlickGrazingIncidence(t *testing.T) {
	tr := &tracer{}
	// cos_in -> 0: ray direction nearly perpendicular to the normal.
	r := tr.schlickReflectance(remath.Vec3{X: 1, Y: 0, Z: 0.0001}, remath.Vec3{X: 0, Y: 0, Z: 1}, 1.5)
	if r < 0.9 {
		t.Errorf("Schlick at grazing incidence: expected near-total reflectance, got %v", r)
	}
}
