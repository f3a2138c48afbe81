package core

import "render-engine/math"

// EPSILON is the single numeric tolerance used throughout the pipeline for
// self-intersection avoidance and parallel/degenerate guards.
const EPSILON = 1e-3

// Ray is an origin point and a direction. Callers are responsible for
// normalizing Direction before use where a unit vector is required.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

func NewRay(origin, direction math.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At evaluates the ray at parameter t.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
