package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Framebuffer renders into an RGBA32F color texture with a depth
// renderbuffer. The back-face pass stores exit points in it.
type Framebuffer struct {
	ID     uint32
	Color  *Texture
	depth  uint32
	width  int
	height int
}

// NewFramebuffer allocates the attachments and checks completeness.
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	fb := &Framebuffer{}
	if err := fb.allocate(width, height); err != nil {
		fb.Delete()
		return nil, err
	}
	return fb, nil
}

func (fb *Framebuffer) allocate(width, height int) error {
	fb.width, fb.height = max(width, 1), max(height, 1)

	fb.Color = NewTexture(gl.TEXTURE_2D, gl.NEAREST, gl.CLAMP_TO_EDGE)
	fb.Color.Image2D(gl.RGBA32F, fb.width, fb.height, gl.RGBA, gl.FLOAT, nil)

	gl.GenRenderbuffers(1, &fb.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(fb.width), int32(fb.height))

	gl.GenFramebuffers(1, &fb.ID)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.ID)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.Color.ID, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.depth)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer is not complete: status 0x%x", status)
	}
	return nil
}

// Resize reallocates the attachments for a new window size.
func (fb *Framebuffer) Resize(width, height int) error {
	if max(width, 1) == fb.width && max(height, 1) == fb.height {
		return nil
	}
	fb.release()
	return fb.allocate(width, height)
}

// Bind makes fb the draw target and sets the viewport to cover it.
func (fb *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fb.ID)
	gl.Viewport(0, 0, int32(fb.width), int32(fb.height))
}

func (fb *Framebuffer) release() {
	fb.Color.Delete()
	if fb.depth != 0 {
		gl.DeleteRenderbuffers(1, &fb.depth)
		fb.depth = 0
	}
	if fb.ID != 0 {
		gl.DeleteFramebuffers(1, &fb.ID)
		fb.ID = 0
	}
}

// Delete releases the framebuffer and its attachments.
func (fb *Framebuffer) Delete() {
	if fb != nil {
		fb.release()
	}
}
