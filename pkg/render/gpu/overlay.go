package gpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"stylevolume/internal/models"
)

// floats per vertex: x, y, r, g, b, a
const overlayStride = 6

// Overlay draws flat 2D primitives in window pixel coordinates over the
// rendered volume.
type Overlay struct {
	program  *Program
	vao, vbo uint32
	vertices []float32
}

// NewOverlay builds the overlay program and its streaming buffer.
func NewOverlay() (*Overlay, error) {
	p, err := NewProgram("overlay.vert", "overlay.frag", "Projection")
	if err != nil {
		return nil, err
	}

	o := &Overlay{program: p}
	gl.GenVertexArrays(1, &o.vao)
	gl.BindVertexArray(o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, overlayStride*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, overlayStride*4, 2*4)

	gl.BindVertexArray(0)
	return o, nil
}

func (o *Overlay) vertex(x, y float32, c models.Color) {
	o.vertices = append(o.vertices, x, y, c[0], c[1], c[2], c[3])
}

// Draw renders list into the current framebuffer of the given size.
func (o *Overlay) Draw(list *models.DrawList, width, height int) {
	if o == nil || list == nil {
		return
	}

	o.vertices = o.vertices[:0]
	for _, r := range list.Rects {
		o.vertex(r.X, r.Y, r.Color)
		o.vertex(r.X+r.W, r.Y, r.Color)
		o.vertex(r.X+r.W, r.Y+r.H, r.Color)
		o.vertex(r.X+r.W, r.Y+r.H, r.Color)
		o.vertex(r.X, r.Y+r.H, r.Color)
		o.vertex(r.X, r.Y, r.Color)
	}
	triangles := int32(len(o.vertices) / overlayStride)
	for _, l := range list.Lines {
		o.vertex(l.X0, l.Y0, l.Color)
		o.vertex(l.X1, l.Y1, l.Color)
	}
	total := int32(len(o.vertices) / overlayStride)
	if total == 0 {
		return
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	o.program.Use()
	o.program.SetMat4("Projection", mgl32.Ortho2D(0, float32(width), float32(height), 0))

	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(o.vertices)*4, gl.Ptr(o.vertices), gl.STREAM_DRAW)

	if triangles > 0 {
		gl.DrawArrays(gl.TRIANGLES, 0, triangles)
	}
	if total > triangles {
		gl.DrawArrays(gl.LINES, triangles, total-triangles)
	}

	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

// Delete releases the overlay resources.
func (o *Overlay) Delete() {
	if o == nil {
		return
	}
	o.program.Delete()
	gl.DeleteBuffers(1, &o.vbo)
	gl.DeleteVertexArrays(1, &o.vao)
}
