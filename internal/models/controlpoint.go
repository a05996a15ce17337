package models

import "math"

// RGBA is a normalized color sample. Every channel is expected in [0,1];
// A doubles as opacity.
type RGBA struct {
	R, G, B, A float64
}

// ControlPoint anchors the transfer function at one isovalue.
type ControlPoint struct {
	// IsoValue is the scalar intensity level in [0,255]
	IsoValue int

	// Color is the normalized color and opacity at IsoValue
	Color RGBA
}

// NewControlPoint builds a control point from 0-255 integer channels.
// Channels are clamped into [0,255] before normalization.
func NewControlPoint(r, g, b, alpha, isoValue int) ControlPoint {
	return ControlPoint{
		IsoValue: ClampByte(isoValue),
		Color: RGBA{
			R: float64(ClampByte(r)) / 255.0,
			G: float64(ClampByte(g)) / 255.0,
			B: float64(ClampByte(b)) / 255.0,
			A: float64(ClampByte(alpha)) / 255.0,
		},
	}
}

// Opacity returns the alpha channel scaled back to 0-255.
func (c ControlPoint) Opacity() int {
	return int(math.Round(c.Color.A * 255))
}

// ClampByte clamps v into [0,255].
func ClampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
