// Package materials defines surface reflectance parameters shared by
// reference across shapes.
package materials

import "render-engine/core"

// Material describes how a surface responds to incident light. Materials
// are immutable after construction and shared by reference: many shapes
// may point at the same *Material, and the renderer never mutates one
// mid-trace.
type Material struct {
	Name string

	Ka core.Color // ambient
	Kd core.Color // diffuse
	Ks core.Color // specular

	M       float32 // Phong specular exponent, >= 0
	Glossy  float32 // 0 = pure diffuse, 1 = mirror
	Opacity float32 // 1 = fully opaque
	IOR     float32 // index of refraction, >= 1

	Emittance float32
	EmitColor core.Color // kd * emittance, precomputed at construction
}

// New constructs a Material with emit_color derived from kd and emittance,
// per the invariant emit_color = kd * emittance.
func New(name string, ka, kd, ks core.Color, m, glossy, opacity, emittance, ior float32) *Material {
	return &Material{
		Name:      name,
		Ka:        ka,
		Kd:        kd,
		Ks:        ks,
		M:         m,
		Glossy:    glossy,
		Opacity:   opacity,
		IOR:       ior,
		Emittance: emittance,
		EmitColor: kd.Mul(emittance),
	}
}

// Default returns the scene's implicit material for shapes that reference
// an unknown or absent material name — a mid-grey, fully opaque diffuse
// surface.
func Default() *Material {
	grey := core.Color{R: 0.5, G: 0.5, B: 0.5}
	return New("default", core.Color{}, grey, core.Color{}, 0, 0, 1, 0, 1)
}
