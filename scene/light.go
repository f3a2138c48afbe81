package scene

import (
	"render-engine/core"
	"render-engine/math"
)

// Light is the directional ambient term: a color, a brightness scalar,
// and their product cached as Intensity.
type Light struct {
	Name       string
	Color      core.Color
	Brightness float32
	Intensity  core.Color
}

func NewLight(name string, color core.Color, brightness float32) Light {
	return Light{
		Name:       name,
		Color:      color,
		Brightness: brightness,
		Intensity:  color.Mul(brightness),
	}
}

// PointLight is a Light anchored at a world-space position.
type PointLight struct {
	Light
	Position math.Vec3
}

func NewPointLight(name string, position math.Vec3, color core.Color, brightness float32) PointLight {
	return PointLight{
		Light:    NewLight(name, color, brightness),
		Position: position,
	}
}
