package editor

import (
	"math"

	"stylevolume/internal/models"
	"stylevolume/pkg/transfer"
)

var (
	backgroundColor = models.Color{20.0 / 255, 20.0 / 255, 20.0 / 255, 0.9}
	histogramColor  = models.Color{1, 0, 0, 1}
	curveColor      = models.Color{1, 1, 1, 1}
	outlineColor    = models.Color{0, 1, 1, 1}
	hoverColor      = models.Color{0, 1, 0, 1}
)

const (
	barLeft   = 5
	barBase   = 260
	barWidth  = 2
	barScale  = 256
	stripTop  = 273
	stripSize = 10
)

func clamp01(v float64) float32 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return float32(v)
}

// Plot appends the canvas to list: background, histogram bars, isovalue
// indicators, the sampled opacity strip, the curve through the control
// points and one marker per point. histogram may be nil before a volume is
// loaded.
func (e *Editor) Plot(list *models.DrawList, table *transfer.Table, histogram *[transfer.TableSize]float64) {
	ox, oy := float32(e.originX), float32(e.originY)

	list.AddRect(ox, oy, CanvasWidth, CanvasHeight, backgroundColor)

	for i := 0; i < transfer.TableSize; i++ {
		x := ox + float32(barLeft+i*isoScale)

		if histogram != nil {
			h := float32(histogram[i] * barScale)
			list.AddRect(x, oy+barBase-h, barWidth, h, histogramColor)
		}

		if table != nil {
			a := clamp01(table[i].A)
			list.AddRect(x, oy+stripTop, isoScale, stripSize, models.Color{a, a, a, a})
		}

		g := float32(i) / transfer.MaxIsoValue
		list.AddRect(x, oy+barBase, barWidth, stripSize, models.Color{g, g, g, g})
	}

	points := e.engine.ControlPoints()
	for i := 0; i+1 < len(points); i++ {
		x0, y0 := markerCentre(points[i].IsoValue, points[i].Color.A)
		x1, y1 := markerCentre(points[i+1].IsoValue, points[i+1].Color.A)
		list.AddLine(ox+float32(x0), oy+float32(y0), ox+float32(x1), oy+float32(y1), curveColor)
	}

	for i, cp := range points {
		cx, cy := markerCentre(cp.IsoValue, cp.Color.A)
		outline := outlineColor
		if i == e.hover {
			outline = hoverColor
		}
		thickness := float32(1)
		if i == e.hover && e.dragging {
			thickness = 2
		}

		x, y := ox+float32(cx)-MarkerRadius, oy+float32(cy)-MarkerRadius
		list.AddRect(x-thickness, y-thickness, 2*MarkerRadius+2*thickness, 2*MarkerRadius+2*thickness, outline)
		list.AddRect(x, y, 2*MarkerRadius, 2*MarkerRadius, models.Color{
			clamp01(cp.Color.R), clamp01(cp.Color.G), clamp01(cp.Color.B), 1,
		})
	}
}
