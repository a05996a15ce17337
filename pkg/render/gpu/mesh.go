package gpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"stylevolume/pkg/render"
)

// Mesh is the bounding cube of the volume. Attribute 0 is the position and
// attribute 1 the color; both read the same buffer.
type Mesh struct {
	vao, vbo, ebo uint32
	count         int32
}

// NewCubeMesh uploads the unit cube.
func NewCubeMesh() *Mesh {
	m := &Mesh{count: int32(len(render.CubeIndices))}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(render.CubeVertices)*4, gl.Ptr(&render.CubeVertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(render.CubeIndices)*4, gl.Ptr(&render.CubeIndices[0]), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 0, 0)

	gl.BindVertexArray(0)
	return m
}

// Draw renders the cube with the given face culled.
func (m *Mesh) Draw(cull uint32) {
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(cull)
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	gl.Disable(gl.CULL_FACE)
}

// Delete releases the buffers.
func (m *Mesh) Delete() {
	if m == nil {
		return
	}
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteVertexArrays(1, &m.vao)
}
