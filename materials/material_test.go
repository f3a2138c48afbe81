package materials

import (
	"testing"

	"render-engine/core"
)

func TestNewEmitColor(t *testing.T) {
	kd := core.Color{R: 0.2, G: 0.4, B: 0.6}
	m := New("light", core.Color{}, kd, core.Color{}, 0, 0, 1, 5, 1)

	expected := kd.Mul(5)
	if m.EmitColor != expected {
		t.Errorf("emit_color: expected %v, got %v", expected, m.EmitColor)
	}
}

func TestDefaultMaterial(t *testing.T) {
	m := Default()
	if m.Opacity != 1 {
		t.Errorf("Default: expected opacity 1, got %v", m.Opacity)
	}
	if m.Emittance != 0 {
		t.Errorf("Default: expected emittance 0, got %v", m.Emittance)
	}
}
