// Package transfer maintains the control points of a style transfer function
// and derives the lookup tables the ray caster samples.
//
// An Engine keeps its control points strictly sorted by isovalue with no two
// points sharing an isovalue. A parallel slice assigns each point a material
// style from the litsphere bank. Tables are recomputed from scratch on every
// request.
package transfer

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"stylevolume/internal/logging"
	"stylevolume/internal/models"
	"stylevolume/pkg/interpolation"
)

const (
	// TableSize is the number of samples in a lookup table, one per isovalue
	TableSize = 256

	// MaxIsoValue is the largest isovalue a control point can anchor
	MaxIsoValue = TableSize - 1

	// MaxControlPoints is reached when every isovalue is taken
	MaxControlPoints = TableSize
)

var (
	// ErrIndexOutOfRange is returned for an ordinal outside [0, Len()-1]
	ErrIndexOutOfRange = errors.New("transfer: control point index out of range")

	// ErrBoundaryPoint is returned when deleting the first or last control point
	ErrBoundaryPoint = errors.New("transfer: boundary control points cannot be deleted")

	// ErrCollectionFull is returned when all 256 isovalues are already anchored
	ErrCollectionFull = errors.New("transfer: every isovalue already has a control point")

	// ErrTooFewPoints is returned when a table is requested from fewer than two points
	ErrTooFewPoints = errors.New("transfer: at least two control points are required")
)

// Table is a dense color/opacity lookup, indexed by isovalue
type Table [TableSize]models.RGBA

// StyleTable holds the interpolated style position for every isovalue.
// Values are nominally in [0,1]; 0 maps to the first control point and 1 to the last.
type StyleTable [TableSize]float64

// Engine owns an ordered collection of control points.
// It is not safe for concurrent use.
type Engine struct {
	points []models.ControlPoint
	styles []int

	method interpolation.Method
	log    *slog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithInterpolation selects the curve fitted through each channel.
func WithInterpolation(m interpolation.Method) Option {
	return func(e *Engine) { e.method = m }
}

// WithLogger overrides the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an empty engine. Callers must add at least the two boundary
// points before computing tables.
func New(opts ...Option) *Engine {
	e := &Engine{
		method: interpolation.NaturalCubic,
		log:    logging.Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewWithBoundaries creates an engine holding the startup pair: a transparent
// black point at isovalue 0 and an opaque white point at isovalue 255.
func NewWithBoundaries(opts ...Option) *Engine {
	e := New(opts...)
	e.mustAdd(0, 0, 0, 0, 0)
	e.mustAdd(255, 255, 255, 255, MaxIsoValue)
	return e
}

func (e *Engine) mustAdd(r, g, b, alpha, iso int) {
	if err := e.Add(r, g, b, alpha, iso); err != nil {
		panic(err)
	}
}

// Method returns the interpolation method used for the tables.
func (e *Engine) Method() interpolation.Method {
	return e.method
}

// Len returns the number of control points.
func (e *Engine) Len() int {
	return len(e.points)
}

// At returns the control point at ordinal i.
func (e *Engine) At(i int) (models.ControlPoint, error) {
	if i < 0 || i >= len(e.points) {
		return models.ControlPoint{}, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(e.points))
	}
	return e.points[i], nil
}

// ControlPoints returns a copy of the collection in ordinal order.
func (e *Engine) ControlPoints() []models.ControlPoint {
	return slices.Clone(e.points)
}

// Add inserts a control point. alpha and iso are clamped to [0,255]; r, g
// and b are 0-255 channel values.
//
// When iso is already taken the new point takes iso-1 (or the slot after the
// existing point when that would fall below 1). Neighbours are then pushed
// outward one step at a time until every isovalue is distinct again. The
// cascade never leaves [0,255]; it can move the boundary points only when the
// collection is nearly full.
//
// The only failure is ErrCollectionFull.
func (e *Engine) Add(r, g, b, alpha, iso int) error {
	_, err := e.insert(models.NewControlPoint(r, g, b, alpha, iso), DefaultStyle)
	return err
}

func (e *Engine) insert(cp models.ControlPoint, style int) (int, error) {
	if len(e.points) >= MaxControlPoints {
		return 0, ErrCollectionFull
	}

	pos := sort.Search(len(e.points), func(i int) bool {
		return e.points[i].IsoValue >= cp.IsoValue
	})

	if pos < len(e.points) && e.points[pos].IsoValue == cp.IsoValue {
		cp.IsoValue--
		if cp.IsoValue < 1 {
			cp.IsoValue = 1
			pos++
		}
	}

	e.points = slices.Insert(e.points, pos, cp)
	e.styles = slices.Insert(e.styles, pos, style)
	e.cascade(pos)

	return pos, nil
}

// cascade restores strictly increasing isovalues around the point just
// inserted at pos.
func (e *Engine) cascade(pos int) {
	p := e.points

	// push left neighbours down
	for j := pos - 1; j >= 0 && p[j].IsoValue >= p[j+1].IsoValue; j-- {
		p[j].IsoValue = p[j+1].IsoValue - 1
	}

	// push right neighbours up
	for j := pos + 1; j < len(p) && p[j].IsoValue <= p[j-1].IsoValue; j++ {
		p[j].IsoValue = p[j-1].IsoValue + 1
	}

	if p[0].IsoValue < 0 {
		p[0].IsoValue = 0
		for j := 1; j < len(p) && p[j].IsoValue <= p[j-1].IsoValue; j++ {
			p[j].IsoValue = p[j-1].IsoValue + 1
		}
	}

	if last := len(p) - 1; p[last].IsoValue > MaxIsoValue {
		p[last].IsoValue = MaxIsoValue
		for j := last - 1; j >= 0 && p[j].IsoValue >= p[j+1].IsoValue; j-- {
			p[j].IsoValue = p[j+1].IsoValue - 1
		}
	}
}

// Delete removes the control point at ordinal index. The first and last
// points anchor the ends of the table and are refused with ErrBoundaryPoint.
func (e *Engine) Delete(index int) error {
	if index < 0 || index >= len(e.points) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(e.points))
	}
	if index == 0 || index == len(e.points)-1 {
		return fmt.Errorf("%w: ordinal %d", ErrBoundaryPoint, index)
	}

	e.remove(index)
	return nil
}

func (e *Engine) remove(index int) {
	e.points = slices.Delete(e.points, index, index+1)
	e.styles = slices.Delete(e.styles, index, index+1)
}

// Reinsert moves the point at ordinal index by deleting it and adding a new
// point with the given channels through the same clamping and collision rules
// as Add. Boundary points may be reinserted; the collection size is unchanged.
// The point keeps its style. Reinsert returns the point's new ordinal.
func (e *Engine) Reinsert(index, r, g, b, alpha, iso int) (int, error) {
	if index < 0 || index >= len(e.points) {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(e.points))
	}

	style := e.styles[index]
	e.remove(index)
	return e.insert(models.NewControlPoint(r, g, b, alpha, iso), style)
}

// Clear removes every control point. It is only meant to precede a full
// reload of the collection.
func (e *Engine) Clear() {
	e.points = e.points[:0]
	e.styles = e.styles[:0]
}

// replace swaps in the collection of other.
func (e *Engine) replace(other *Engine) {
	e.points = other.points
	e.styles = other.styles
}

// ComputeLookupTable fits one curve per channel through the control points and
// samples it at every isovalue. Values are not clamped; the default cubic can
// overshoot [0,1] between points.
func (e *Engine) ComputeLookupTable() (Table, error) {
	var table Table
	if len(e.points) < 2 {
		return table, fmt.Errorf("%w: have %d", ErrTooFewPoints, len(e.points))
	}

	xs := make([]float64, len(e.points))
	channels := [4][]float64{}
	for c := range channels {
		channels[c] = make([]float64, len(e.points))
	}
	for i, cp := range e.points {
		xs[i] = float64(cp.IsoValue)
		channels[0][i] = cp.Color.R
		channels[1][i] = cp.Color.G
		channels[2][i] = cp.Color.B
		channels[3][i] = cp.Color.A
	}

	var samples [4][]float64
	for c := range channels {
		s, err := interpolation.Sample(e.method, xs, channels[c], TableSize)
		if err != nil {
			return table, fmt.Errorf("transfer: channel %d: %w", c, err)
		}
		samples[c] = s
	}

	for k := range table {
		table[k] = models.RGBA{R: samples[0][k], G: samples[1][k], B: samples[2][k], A: samples[3][k]}
	}
	return table, nil
}

// ComputeStyleTable interpolates each point's normalized ordinal across the
// isovalues. The shader reads it to find which control point, and so which
// style, governs a sample.
func (e *Engine) ComputeStyleTable() (StyleTable, error) {
	var table StyleTable
	n := len(e.points)
	if n < 2 {
		return table, fmt.Errorf("%w: have %d", ErrTooFewPoints, n)
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, cp := range e.points {
		xs[i] = float64(cp.IsoValue)
		ys[i] = float64(i) / float64(n-1)
	}

	s, err := interpolation.Sample(e.method, xs, ys, TableSize)
	if err != nil {
		return table, fmt.Errorf("transfer: style positions: %w", err)
	}
	copy(table[:], s)
	return table, nil
}

// greyPoint builds the point restored from a persisted entry: the opacity is
// copied into every channel.
func greyPoint(opacity, iso int) models.ControlPoint {
	return models.NewControlPoint(opacity, opacity, opacity, opacity, iso)
}
