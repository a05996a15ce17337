package render

import (
	"math"

	"stylevolume/pkg/transfer"
)

// Mode selects how the transfer function reaches the shader
type Mode int

const (
	// ModeStyle packs [style position, alpha] into an RG8 texture and colors
	// samples from the litsphere bank
	ModeStyle Mode = iota

	// ModeColor packs the interpolated RGBA into an RGBA8 texture
	ModeColor
)

// ParseMode maps "style" or "color" onto a Mode; anything else is ModeStyle.
func ParseMode(s string) Mode {
	if s == "color" {
		return ModeColor
	}
	return ModeStyle
}

func (m Mode) String() string {
	if m == ModeColor {
		return "color"
	}
	return "style"
}

// Channels returns the number of bytes per packed texel.
func (m Mode) Channels() int {
	if m == ModeColor {
		return 4
	}
	return 2
}

// unorm8 clamps v into [0,1] and quantizes it to a byte. Overshoot from the
// cubic fit is absorbed here.
func unorm8(v float64) byte {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(math.Round(v * 255))
}

// PackRGBA8 packs a lookup table into 256 RGBA texels.
func PackRGBA8(table *transfer.Table) []byte {
	out := make([]byte, 0, 4*transfer.TableSize)
	for _, c := range table {
		out = append(out, unorm8(c.R), unorm8(c.G), unorm8(c.B), unorm8(c.A))
	}
	return out
}

// PackRG8 packs 256 [style position, alpha] texels.
func PackRG8(style *transfer.StyleTable, table *transfer.Table) []byte {
	out := make([]byte, 0, 2*transfer.TableSize)
	for k := range table {
		out = append(out, unorm8(style[k]), unorm8(table[k].A))
	}
	return out
}

// Pack selects the packer for the mode.
func Pack(m Mode, style *transfer.StyleTable, table *transfer.Table) []byte {
	if m == ModeColor {
		return PackRGBA8(table)
	}
	return PackRG8(style, table)
}
