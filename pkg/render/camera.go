package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// FieldOfView is the vertical field of view in degrees
	FieldOfView = 45.0

	nearPlane = 0.1
	farPlane  = 500.0

	// zoomSpeed scales scroll delta times frame time into view translation
	zoomSpeed = 150.0
)

// Camera holds the matrices of the volume view. Every setter recomposes the
// derived matrices so they are always consistent.
type Camera struct {
	Model          mgl32.Mat4
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	ViewProjection mgl32.Mat4
	MVP            mgl32.Mat4
	NormalMatrix   mgl32.Mat4

	cube          mgl32.Vec3
	width, height int
}

// NewCamera looks at the origin from z=-1 through a viewport of the given size.
func NewCamera(width, height int) *Camera {
	c := &Camera{
		Model: mgl32.Ident4(),
		View:  mgl32.LookAtV(mgl32.Vec3{0, 0, -1}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
		cube:  mgl32.Vec3{1, 1, 1},
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the projection for a new framebuffer size.
func (c *Camera) SetViewport(width, height int) {
	c.width, c.height = max(width, 1), max(height, 1)
	aspect := float32(c.width) / float32(c.height)
	c.Projection = mgl32.Perspective(mgl32.DegToRad(FieldOfView), aspect, nearPlane, farPlane)
	c.update()
}

// Viewport returns the framebuffer size the projection was built for.
func (c *Camera) Viewport() (width, height int) {
	return c.width, c.height
}

// SetVolume scales the unit cube to the volume's proportions and centres it
// in x and y. Any accumulated rotation is discarded.
func (c *Camera) SetVolume(cubeSizes [3]float32) {
	c.cube = mgl32.Vec3{cubeSizes[0], cubeSizes[1], cubeSizes[2]}
	c.Model = mgl32.Translate3D(-c.cube[0]/2, -c.cube[1]/2, 0).
		Mul4(mgl32.Scale3D(c.cube[0], c.cube[1], c.cube[2]))
	c.update()
}

// Zoom moves the view along z by the scroll delta scaled with frame time.
func (c *Camera) Zoom(delta, dt float32) {
	c.View = c.View.Mul4(mgl32.Translate3D(0, 0, -delta*dt*zoomSpeed))
	c.update()
}

// Rotate applies an arc-ball rotation dragged from (x0,y0) to (x1,y1) in
// window pixels. The volume turns about its own centre.
func (c *Camera) Rotate(x0, y0, x1, y1 float32) {
	va := ArcBallVector(x0, y0, c.width, c.height)
	vb := ArcBallVector(x1, y1, c.width, c.height)

	angle := float32(math.Acos(float64(min(1, va.Dot(vb)))))
	axis := va.Cross(vb)
	if angle == 0 || axis.Len() < 1e-6 {
		return
	}

	// camera space to object space
	toObject := c.View.Mul4(c.Model).Mat3().Inv()
	axisObject := toObject.Mul3x1(axis)
	if axisObject.Len() < 1e-6 {
		return
	}

	// the model matrix already scales the unit cube, so its centre is at 0.5
	centre := mgl32.Vec3{0.5, 0.5, 0.5}
	c.Model = c.Model.
		Mul4(mgl32.Translate3D(centre[0], centre[1], centre[2])).
		Mul4(mgl32.HomogRotate3D(-angle*0.5, axisObject.Normalize())).
		Mul4(mgl32.Translate3D(-centre[0], -centre[1], -centre[2]))
	c.update()
}

func (c *Camera) update() {
	c.ViewProjection = c.Projection.Mul4(c.View)
	c.MVP = c.ViewProjection.Mul4(c.Model)
	c.NormalMatrix = c.View.Mul4(c.Model).Transpose().Inv()
}

// ArcBallVector maps a window pixel onto the unit arc-ball. Points outside
// the ball are projected onto its rim.
func ArcBallVector(x, y float32, width, height int) mgl32.Vec3 {
	p := mgl32.Vec3{
		x/float32(width)*2 - 1,
		-(y/float32(height)*2 - 1),
		0,
	}

	sq := p[0]*p[0] + p[1]*p[1]
	if sq <= 1 {
		p[2] = float32(math.Sqrt(float64(1 - sq)))
	} else {
		p = p.Normalize()
	}
	return p
}
