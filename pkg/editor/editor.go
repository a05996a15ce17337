// Package editor turns pointer input over the transfer function canvas into
// control point edits and lays out the canvas for drawing.
//
// The canvas is 775x285 pixels. Isovalues run along x at three pixels per
// step; opacity runs up y over 255 pixels.
package editor

import (
	"log/slog"
	"math"

	"stylevolume/internal/logging"
	"stylevolume/pkg/transfer"
)

const (
	// CanvasWidth and CanvasHeight give the canvas size in pixels
	CanvasWidth  = 775
	CanvasHeight = 285

	// MarkerRadius is the radius of a control point marker
	MarkerRadius = 4

	// DragTolerance widens the hover disc around a marker
	DragTolerance = 7.5

	// pixels per isovalue step
	isoScale = 3
)

// Input is the pointer state for one frame, in window pixels.
type Input struct {
	X, Y   float64
	Left   bool
	Right  bool
	Middle bool
}

// Editor edits an engine's control points. It keeps the hover target and
// the drag state between frames and must be updated once per frame.
type Editor struct {
	engine *transfer.Engine
	log    *slog.Logger

	originX, originY float64

	hover    int
	dragging bool

	prevLeft, prevRight, prevMiddle bool
}

// Option configures an Editor
type Option func(*Editor)

// WithOrigin places the canvas's top left corner in the window.
func WithOrigin(x, y float64) Option {
	return func(e *Editor) { e.originX, e.originY = x, y }
}

// WithLogger overrides the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an editor over engine.
func New(engine *transfer.Engine, opts ...Option) *Editor {
	e := &Editor{engine: engine, log: logging.Logger(), hover: -1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Hovered returns the ordinal under the pointer, or -1.
func (e *Editor) Hovered() int {
	return e.hover
}

// Dragging reports whether a marker is being dragged.
func (e *Editor) Dragging() bool {
	return e.dragging
}

// Contains reports whether the window point lies on the canvas.
func (e *Editor) Contains(x, y float64) bool {
	x, y = x-e.originX, y-e.originY
	return x >= 0 && x < CanvasWidth && y >= 0 && y < CanvasHeight
}

// markerCentre returns the canvas position of a control point's marker.
func markerCentre(iso int, alpha float64) (x, y float64) {
	return float64(iso*isoScale-isoScale) + MarkerRadius, 255 - alpha*255 + MarkerRadius
}

// hit returns the first ordinal whose marker disc contains the canvas point.
func (e *Editor) hit(x, y float64) int {
	const r = MarkerRadius + DragTolerance
	for i, cp := range e.engine.ControlPoints() {
		cx, cy := markerCentre(cp.IsoValue, cp.Color.A)
		if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r {
			return i
		}
	}
	return -1
}

// Update applies one frame of input and reports whether the control points
// changed.
//
// A left press on a marker arms a drag; while the button stays down each
// later frame moves the marker to the pointer. A right press deletes an
// interior marker. A middle press adds a white point under the pointer.
func (e *Editor) Update(in Input) bool {
	x, y := in.X-e.originX, in.Y-e.originY
	changed := false

	if !in.Left {
		e.dragging = false
	}

	if e.dragging {
		changed = e.drag(x, y)
	} else {
		e.hover = e.hit(x, y)
		switch {
		case e.hover < 0:
		case in.Left && !e.prevLeft:
			e.dragging = true
		case in.Right && !e.prevRight:
			changed = e.remove(e.hover)
		}
	}

	if in.Middle && !e.prevMiddle && x > 0 && x < 769 && y > 2 && y < 259 {
		changed = e.add(x, y) || changed
	}

	e.prevLeft, e.prevRight, e.prevMiddle = in.Left, in.Right, in.Middle
	return changed
}

// isoAt and alphaAt map a canvas position onto the control point axes.
// The engine clamps both into range.
func isoAt(x float64) int {
	return int(math.Floor(x)) / isoScale
}

func alphaAt(y float64) int {
	return 255 - int(math.Floor(y)) + 3
}

func (e *Editor) drag(x, y float64) bool {
	cp, err := e.engine.At(e.hover)
	if err != nil {
		e.dragging, e.hover = false, -1
		return false
	}

	iso := isoAt(x)
	switch e.hover {
	case 0:
		iso = 0
	case e.engine.Len() - 1:
		iso = transfer.MaxIsoValue
	}

	pos, err := e.engine.Reinsert(e.hover, channel(cp.Color.R), channel(cp.Color.G), channel(cp.Color.B), alphaAt(y), iso)
	if err != nil {
		e.log.Warn("drag failed", "ordinal", e.hover, "error", err)
		e.dragging, e.hover = false, -1
		return false
	}
	e.hover = pos
	return true
}

func (e *Editor) remove(ordinal int) bool {
	if ordinal <= 0 || ordinal >= e.engine.Len()-1 {
		return false
	}
	if err := e.engine.Delete(ordinal); err != nil {
		e.log.Warn("delete failed", "ordinal", ordinal, "error", err)
		return false
	}
	e.hover = -1
	return true
}

func (e *Editor) add(x, y float64) bool {
	if err := e.engine.Add(255, 255, 255, alphaAt(y), isoAt(x)); err != nil {
		e.log.Warn("add failed", "error", err)
		return false
	}
	return true
}

func channel(v float64) int {
	return int(math.Round(v * 255))
}
