package editor

import (
	"testing"

	"stylevolume/internal/models"
	"stylevolume/pkg/transfer"
)

func isoValues(e *transfer.Engine) []int {
	var out []int
	for _, cp := range e.ControlPoints() {
		out = append(out, cp.IsoValue)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestHover verifies the hover disc around the boundary markers
func TestHover(t *testing.T) {
	ed := New(transfer.NewWithBoundaries())

	tests := []struct {
		name string
		x, y float64
		want int
	}{
		{"first marker centre", 1, 259, 0},
		{"inside tolerance", 1 + 11, 259, 0},
		{"outside tolerance", 1 + 12, 259, -1},
		{"last marker centre", 766, 4, 1},
		{"empty canvas", 400, 150, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed.Update(Input{X: tt.x, Y: tt.y})
			if got := ed.Hovered(); got != tt.want {
				t.Errorf("Expected hover %d, got %d", tt.want, got)
			}
		})
	}
}

// TestMiddleClickAdds verifies a middle press adds one white point
func TestMiddleClickAdds(t *testing.T) {
	engine := transfer.NewWithBoundaries()
	ed := New(engine)

	if !ed.Update(Input{X: 300, Y: 100, Middle: true}) {
		t.Fatal("Expected middle press to change the transfer function")
	}
	if ed.Update(Input{X: 300, Y: 100, Middle: true}) {
		t.Error("Expected held middle button not to add again")
	}
	if engine.Len() != 3 {
		t.Fatalf("Expected 3 points, got %d", engine.Len())
	}

	cp, _ := engine.At(1)
	if cp.IsoValue != 100 || cp.Opacity() != 158 {
		t.Errorf("Expected iso 100 opacity 158, got iso %d opacity %d", cp.IsoValue, cp.Opacity())
	}
	if cp.Color.R != 1 || cp.Color.G != 1 || cp.Color.B != 1 {
		t.Errorf("Expected white point, got %+v", cp.Color)
	}

	ed.Update(Input{X: 300, Y: 100})
	for _, in := range []Input{
		{X: 770, Y: 100, Middle: true},
		{X: 300, Y: 1, Middle: true},
		{X: 0, Y: 100, Middle: true},
	} {
		if ed.Update(in) {
			t.Errorf("Expected press at (%v,%v) outside the plot to be ignored", in.X, in.Y)
		}
		ed.Update(Input{})
	}
	if engine.Len() != 3 {
		t.Errorf("Expected 3 points after ignored presses, got %d", engine.Len())
	}
}

// TestDragMovesPoint verifies press arms and later frames move the point
func TestDragMovesPoint(t *testing.T) {
	engine := transfer.NewWithBoundaries()
	ed := New(engine)
	ed.Update(Input{X: 300, Y: 100, Middle: true})
	ed.Update(Input{X: 300, Y: 100})

	if ed.Update(Input{X: 301, Y: 101, Left: true}) {
		t.Error("Expected arming frame not to change the transfer function")
	}
	if !ed.Dragging() {
		t.Fatal("Expected drag to be armed")
	}
	if got := isoValues(engine); !equalInts(got, []int{0, 100, 255}) {
		t.Errorf("Expected arming to leave points unchanged, got %v", got)
	}

	if !ed.Update(Input{X: 450, Y: 50, Left: true}) {
		t.Fatal("Expected drag frame to change the transfer function")
	}
	cp, _ := engine.At(1)
	if cp.IsoValue != 150 || cp.Opacity() != 208 {
		t.Errorf("Expected iso 150 opacity 208, got iso %d opacity %d", cp.IsoValue, cp.Opacity())
	}
	if engine.Len() != 3 {
		t.Errorf("Expected drag to keep 3 points, got %d", engine.Len())
	}

	ed.Update(Input{X: 450, Y: 50})
	if ed.Dragging() {
		t.Error("Expected release to end the drag")
	}
}

// TestDragKeepsStyle verifies a dragged point carries its style
func TestDragKeepsStyle(t *testing.T) {
	engine := transfer.NewWithBoundaries()
	engine.Add(255, 255, 255, 158, 100)
	engine.Add(255, 255, 255, 100, 200)
	engine.SetStyle(1, 9)

	ed := New(engine)
	ed.Update(Input{X: 301, Y: 101, Left: true})
	ed.Update(Input{X: 700, Y: 101, Left: true})

	if got := isoValues(engine); !equalInts(got, []int{0, 200, 233, 255}) {
		t.Fatalf("Expected [0 200 233 255], got %v", got)
	}
	if s, _ := engine.Style(2); s != 9 {
		t.Errorf("Expected style 9 to follow the point, got %d", s)
	}
	if ed.Hovered() != 2 {
		t.Errorf("Expected drag to follow the point to ordinal 2, got %d", ed.Hovered())
	}
}

// TestDragPinsBoundaries verifies boundary markers only move in opacity
func TestDragPinsBoundaries(t *testing.T) {
	engine := transfer.NewWithBoundaries()
	ed := New(engine)

	ed.Update(Input{X: 1, Y: 259, Left: true})
	ed.Update(Input{X: 200, Y: 100, Left: true})
	ed.Update(Input{})

	first, _ := engine.At(0)
	if first.IsoValue != 0 || first.Opacity() != 158 {
		t.Errorf("Expected first point at iso 0 opacity 158, got iso %d opacity %d", first.IsoValue, first.Opacity())
	}

	ed.Update(Input{X: 766, Y: 4, Left: true})
	ed.Update(Input{X: 10, Y: 200, Left: true})
	ed.Update(Input{})

	last, _ := engine.At(engine.Len() - 1)
	if last.IsoValue != 255 || last.Opacity() != 58 {
		t.Errorf("Expected last point at iso 255 opacity 58, got iso %d opacity %d", last.IsoValue, last.Opacity())
	}
}

// TestDragNeedsFreshPress verifies a held button sliding onto a marker does not grab it
func TestDragNeedsFreshPress(t *testing.T) {
	ed := New(transfer.NewWithBoundaries())

	ed.Update(Input{X: 400, Y: 150, Left: true})
	ed.Update(Input{X: 1, Y: 259, Left: true})
	if ed.Dragging() {
		t.Error("Expected no drag without a press on the marker")
	}
}

// TestRightClickDeletes verifies interior points are deleted and boundaries are immune
func TestRightClickDeletes(t *testing.T) {
	engine := transfer.NewWithBoundaries()
	engine.Add(255, 255, 255, 158, 100)
	ed := New(engine)

	if ed.Update(Input{X: 1, Y: 259, Right: true}) {
		t.Error("Expected right press on a boundary to be ignored")
	}
	ed.Update(Input{})

	if !ed.Update(Input{X: 301, Y: 101, Right: true}) {
		t.Fatal("Expected right press on an interior point to delete it")
	}
	if got := isoValues(engine); !equalInts(got, []int{0, 255}) {
		t.Errorf("Expected [0 255], got %v", got)
	}
}

// TestOrigin verifies input is made canvas local
func TestOrigin(t *testing.T) {
	ed := New(transfer.NewWithBoundaries(), WithOrigin(100, 50))

	ed.Update(Input{X: 101, Y: 309})
	if ed.Hovered() != 0 {
		t.Errorf("Expected hover 0 with offset canvas, got %d", ed.Hovered())
	}
	if !ed.Contains(100, 50) || ed.Contains(99, 50) || ed.Contains(100+CanvasWidth, 60) {
		t.Error("Expected Contains to follow the canvas rectangle")
	}
}

// TestPlot verifies the primitive counts and the hover highlight
func TestPlot(t *testing.T) {
	engine := transfer.NewWithBoundaries()
	engine.Add(255, 0, 0, 158, 100)
	ed := New(engine)
	ed.Update(Input{X: 301, Y: 101})

	table, err := engine.ComputeLookupTable()
	if err != nil {
		t.Fatalf("ComputeLookupTable returned error: %v", err)
	}
	var histogram [transfer.TableSize]float64
	histogram[10] = 0.5

	var list models.DrawList
	ed.Plot(&list, &table, &histogram)

	wantRects := 1 + 3*transfer.TableSize + 2*engine.Len()
	if len(list.Rects) != wantRects {
		t.Errorf("Expected %d rects, got %d", wantRects, len(list.Rects))
	}
	if len(list.Lines) != engine.Len()-1 {
		t.Errorf("Expected %d curve segments, got %d", engine.Len()-1, len(list.Lines))
	}

	bar := list.Rects[1+3*10]
	if bar.H != 128 || bar.Y != barBase-128 || bar.X != barLeft+30 {
		t.Errorf("Expected histogram bar at x 35 height 128, got %+v", bar)
	}

	outline := list.Rects[len(list.Rects)-4]
	if outline.Color != hoverColor {
		t.Errorf("Expected hovered marker outlined in green, got %v", outline.Color)
	}
	fill := list.Rects[len(list.Rects)-3]
	if fill.Color != (models.Color{1, 0, 0, 1}) {
		t.Errorf("Expected red marker fill, got %v", fill.Color)
	}

	list.Reset()
	ed.Plot(&list, nil, nil)
	if len(list.Rects) != 1+transfer.TableSize+2*engine.Len() {
		t.Errorf("Expected only background, indicators and markers without data, got %d rects", len(list.Rects))
	}
}
