package models

// Color is a straight-alpha RGBA color in [0,1]
type Color [4]float32

// Rect is an axis aligned rectangle in window pixels, origin top left
type Rect struct {
	X, Y, W, H float32
	Color      Color
}

// Line is a one pixel segment in window pixels
type Line struct {
	X0, Y0, X1, Y1 float32
	Color          Color
}

// DrawList collects the 2D primitives of one overlay frame
type DrawList struct {
	Rects []Rect
	Lines []Line
}

// AddRect appends a filled rectangle.
func (d *DrawList) AddRect(x, y, w, h float32, c Color) {
	d.Rects = append(d.Rects, Rect{X: x, Y: y, W: w, H: h, Color: c})
}

// AddLine appends a segment.
func (d *DrawList) AddLine(x0, y0, x1, y1 float32, c Color) {
	d.Lines = append(d.Lines, Line{X0: x0, Y0: y0, X1: x1, Y1: y1, Color: c})
}

// Reset empties the list keeping its storage.
func (d *DrawList) Reset() {
	d.Rects = d.Rects[:0]
	d.Lines = d.Lines[:0]
}
