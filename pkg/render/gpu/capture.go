package gpu

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"stylevolume/pkg/render"
)

// BeginFrame binds and clears the default framebuffer.
func BeginFrame(width, height int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Capture reads back the default framebuffer as a top-down image.
func Capture(width, height int) (*image.NRGBA, error) {
	pix := make([]byte, max(width, 1)*max(height, 1)*4)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))

	return render.FlipRows(pix, width, height)
}
