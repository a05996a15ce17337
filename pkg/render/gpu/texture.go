package gpu

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Texture wraps a GL texture name and its target.
type Texture struct {
	ID     uint32
	Target uint32
}

// NewTexture creates a texture with the given filter and wrap on every axis.
func NewTexture(target uint32, filter, wrap int32) *Texture {
	t := &Texture{Target: target}
	gl.GenTextures(1, &t.ID)
	gl.BindTexture(target, t.ID)
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, wrap)
	if target != gl.TEXTURE_1D {
		gl.TexParameteri(target, gl.TEXTURE_WRAP_T, wrap)
	}
	if target == gl.TEXTURE_3D {
		gl.TexParameteri(target, gl.TEXTURE_WRAP_R, wrap)
	}
	return t
}

// Bind attaches the texture to texture unit n.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(t.Target, t.ID)
}

// Image1D replaces the contents of a 1D texture.
func (t *Texture) Image1D(internal int32, width int, format, xtype uint32, pixels unsafe.Pointer) {
	gl.BindTexture(t.Target, t.ID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage1D(t.Target, 0, internal, int32(width), 0, format, xtype, pixels)
}

// Image2D replaces the contents of a 2D texture.
func (t *Texture) Image2D(internal int32, width, height int, format, xtype uint32, pixels unsafe.Pointer) {
	gl.BindTexture(t.Target, t.ID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(t.Target, 0, internal, int32(width), int32(height), 0, format, xtype, pixels)
}

// Image3D replaces the contents of a 3D or 2D-array texture.
func (t *Texture) Image3D(internal int32, width, height, depth int, format, xtype uint32, pixels unsafe.Pointer) {
	gl.BindTexture(t.Target, t.ID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage3D(t.Target, 0, internal, int32(width), int32(height), int32(depth), 0, format, xtype, pixels)
}

// Delete releases the texture.
func (t *Texture) Delete() {
	if t != nil && t.ID != 0 {
		gl.DeleteTextures(1, &t.ID)
		t.ID = 0
	}
}
