// Package scene ties the root Composite, the named material table, the
// lights and the camera into the object the renderer consumes.
package scene

import "render-engine/math"

// Camera is the renderer's eye: a position, a unit look direction, a unit
// up vector orthogonal to it, and a horizontal field of view in radians.
// Unlike the teacher's rasterization Camera this carries no projection
// matrix — the renderer builds its own camera frame directly from these
// three vectors (see render.Renderer).
type Camera struct {
	Position  math.Vec3
	Direction math.Vec3
	Up        math.Vec3
	FovX      float32
}

func NewCamera(position, direction, up math.Vec3, fovX float32) *Camera {
	return &Camera{
		Position:  position,
		Direction: direction.Normalize(),
		Up:        up.Normalize(),
		FovX:      fovX,
	}
}
