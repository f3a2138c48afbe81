package core

import (
	"math"
	"testing"

	remath "render-engine/math"
)

func TestColorToneMap(t *testing.T) {
	c := Color{R: 1, G: 3, B: 0}
	mapped := c.ToneMap()

	if mapped.R != 0.5 {
		t.Errorf("ToneMap: expected R=0.5, got %v", mapped.R)
	}
	if mapped.G != 0.75 {
		t.Errorf("ToneMap: expected G=0.75, got %v", mapped.G)
	}
	if mapped.B != 0 {
		t.Errorf("ToneMap: expected B=0, got %v", mapped.B)
	}
}

func TestColorToneMapSaturated(t *testing.T) {
	c := Color{R: 1e6, G: 1e6, B: 1e6}
	mapped := c.ToneMap()

	tolerance := float32(1e-4)
	if math.Abs(float64(mapped.R-1)) > float64(tolerance) {
		t.Errorf("ToneMap saturated: expected R near 1, got %v", mapped.R)
	}
}

func TestColorAddMulColor(t *testing.T) {
	a := Color{R: 1, G: 2, B: 3}
	b := Color{R: 2, G: 2, B: 2}

	sum := a.Add(b)
	if sum != (Color{R: 3, G: 4, B: 5}) {
		t.Errorf("Add: expected (3,4,5), got %v", sum)
	}

	prod := a.MulColor(b)
	if prod != (Color{R: 2, G: 4, B: 6}) {
		t.Errorf("MulColor: expected (2,4,6), got %v", prod)
	}
}

func TestRayAt(t *testing.T) {
	r := NewRay(remath.Vec3Zero, remath.Vec3Right)
	p := r.At(3)
	if p.X != 3 || p.Y != 0 || p.Z != 0 {
		t.Errorf("At: expected (3,0,0), got %v", p)
	}
}
