package transfer

import (
	"errors"
	"fmt"
	"slices"
)

const (
	// StyleCount is the number of litsphere materials in the style bank
	StyleCount = 34

	// DefaultStyle is assigned to every newly added control point
	DefaultStyle = 0
)

// ErrInvalidStyle is returned for a style outside [0, StyleCount-1]
var ErrInvalidStyle = errors.New("transfer: style index out of range")

// StyleNames lists the materials in bank order.
var StyleNames = [StyleCount]string{
	"Default", "Plastic Red", "Green Shin", "Ceramic Yellow", "Aniso Metal",
	"Sea Pebble", "Marble", "Yellow Wax", "Shin Orange", "Aniso Red",
	"Beige Ceramic", "Diffuse", "Crest", "Green Marble", "Pink Plastic",
	"Shin Aquamarine", "Blue Spec", "Green Pea", "Gray", "Brown",
	"Green", "Dark Glass", "Gray Metal", "Wax Yellow", "Shinny Green",
	"Ceramic Brown", "Polished Wood", "Fire", "Coral", "Rough Metal",
	"Shinny Marble", "Spec Grey", "Shinny Grey", "Border Grey",
}

// ValidStyle reports whether s names a material in the bank.
func ValidStyle(s int) bool {
	return s >= 0 && s < StyleCount
}

// Style returns the style of the control point at ordinal index.
func (e *Engine) Style(index int) (int, error) {
	if index < 0 || index >= len(e.styles) {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(e.styles))
	}
	return e.styles[index], nil
}

// SetStyle assigns a material to the control point at ordinal index.
func (e *Engine) SetStyle(index, style int) error {
	if index < 0 || index >= len(e.styles) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(e.styles))
	}
	if !ValidStyle(style) {
		return fmt.Errorf("%w: %d", ErrInvalidStyle, style)
	}
	e.styles[index] = style
	return nil
}

// Styles returns a copy of the per-ordinal style indices.
func (e *Engine) Styles() []int {
	return slices.Clone(e.styles)
}

// StyleIndexTable returns one entry per control point: its style scaled into
// [0,1] by StyleCount-1, ready for a single-channel float texture.
func (e *Engine) StyleIndexTable() []float32 {
	out := make([]float32, len(e.styles))
	for i, s := range e.styles {
		out[i] = float32(s) / float32(StyleCount-1)
	}
	return out
}
