package core

// Color is a linear RGB triple. No alpha channel: the renderer works
// entirely in linear radiance and only quantizes to 8-bit at the PPM/PNG
// writer boundary.
type Color struct {
	R, G, B float32
}

var (
	ColorBlack = Color{0, 0, 0}
	ColorWhite = Color{1, 1, 1}
)

func NewColor(r, g, b float32) Color {
	return Color{R: r, G: g, B: b}
}

func (c Color) Add(other Color) Color {
	return Color{R: c.R + other.R, G: c.G + other.G, B: c.B + other.B}
}

func (c Color) Sub(other Color) Color {
	return Color{R: c.R - other.R, G: c.G - other.G, B: c.B - other.B}
}

// Mul scales every channel by a scalar.
func (c Color) Mul(scalar float32) Color {
	return Color{R: c.R * scalar, G: c.G * scalar, B: c.B * scalar}
}

// MulColor multiplies component-wise, e.g. kd * incident_radiance.
func (c Color) MulColor(other Color) Color {
	return Color{R: c.R * other.R, G: c.G * other.G, B: c.B * other.B}
}

// ToneMap applies the c/(c+1) operator per channel, mapping unbounded
// linear radiance into [0,1).
func (c Color) ToneMap() Color {
	return Color{
		R: c.R / (c.R + 1),
		G: c.G / (c.G + 1),
		B: c.B / (c.B + 1),
	}
}

// Gray returns the perceptual luminance of the color.
func (c Color) Gray() float32 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}
