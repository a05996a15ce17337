package render

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"stylevolume/internal/models"
	"stylevolume/pkg/transfer"
)

// TestCubeWinding verifies every triangle faces away from the cube centre
func TestCubeWinding(t *testing.T) {
	vertex := func(i uint32) mgl32.Vec3 {
		return mgl32.Vec3{CubeVertices[3*i], CubeVertices[3*i+1], CubeVertices[3*i+2]}
	}
	centre := mgl32.Vec3{0.5, 0.5, 0.5}

	used := make(map[uint32]bool)
	for tri := 0; tri < len(CubeIndices)/3; tri++ {
		a, b, c := vertex(CubeIndices[3*tri]), vertex(CubeIndices[3*tri+1]), vertex(CubeIndices[3*tri+2])
		normal := b.Sub(a).Cross(c.Sub(a))
		mid := a.Add(b).Add(c).Mul(1.0 / 3)
		if normal.Dot(mid.Sub(centre)) <= 0 {
			t.Errorf("Expected triangle %d to face outward, normal %v", tri, normal)
		}
		for k := 0; k < 3; k++ {
			used[CubeIndices[3*tri+k]] = true
		}
	}
	if len(used) != 8 {
		t.Errorf("Expected all 8 vertices referenced, got %d", len(used))
	}
}

// TestPackers verifies clamping and layout of the packed lookup textures
func TestPackers(t *testing.T) {
	var table transfer.Table
	var style transfer.StyleTable
	table[0] = models.RGBA{R: -0.2, G: 0.5, B: 1.3, A: 1}
	table[255] = models.RGBA{R: 1, G: 1, B: 1, A: math.NaN()}
	style[0] = 0.25
	style[255] = 1.1

	rgba := PackRGBA8(&table)
	if len(rgba) != 4*transfer.TableSize {
		t.Fatalf("Expected %d bytes, got %d", 4*transfer.TableSize, len(rgba))
	}
	if got := rgba[:4]; got[0] != 0 || got[1] != 128 || got[2] != 255 || got[3] != 255 {
		t.Errorf("Expected [0 128 255 255], got %v", got)
	}
	if rgba[4*255+3] != 0 {
		t.Errorf("Expected NaN alpha packed as 0, got %d", rgba[4*255+3])
	}

	rg := Pack(ModeStyle, &style, &table)
	if len(rg) != 2*transfer.TableSize {
		t.Fatalf("Expected %d bytes, got %d", 2*transfer.TableSize, len(rg))
	}
	if rg[0] != 64 || rg[1] != 255 {
		t.Errorf("Expected [64 255], got %v", rg[:2])
	}
	if rg[2*255] != 255 {
		t.Errorf("Expected clamped style position 255, got %d", rg[2*255])
	}

	if len(Pack(ModeColor, &style, &table)) != ModeColor.Channels()*transfer.TableSize {
		t.Error("Expected color mode to pack RGBA")
	}
	if ParseMode("color") != ModeColor || ParseMode("anything") != ModeStyle {
		t.Error("Expected ParseMode to default to style")
	}
}

// TestCameraVolumeTransform verifies the model matrix scales and centres the cube
func TestCameraVolumeTransform(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetVolume([3]float32{1, 0.5, 0.25})

	got := c.Model.Mul4x1(mgl32.Vec4{1, 1, 1, 1}).Vec3()
	want := mgl32.Vec3{0.5, 0.25, 0.25}
	if !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("Expected far corner at %v, got %v", want, got)
	}

	mvp := c.Projection.Mul4(c.View).Mul4(c.Model)
	if !c.MVP.ApproxEqualThreshold(mvp, 1e-5) {
		t.Error("Expected MVP to equal projection * view * model")
	}

	check := c.NormalMatrix.Mul4(c.View.Mul4(c.Model).Transpose())
	if !check.ApproxEqualThreshold(mgl32.Ident4(), 1e-4) {
		t.Errorf("Expected normal matrix to invert transposed model-view, got %v", check)
	}
}

// TestCameraRotateKeepsCentre verifies arc-ball rotation pivots about the cube centre
func TestCameraRotateKeepsCentre(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetVolume([3]float32{1, 1, 0.5})

	centre := mgl32.Vec4{0.5, 0.5, 0.5, 1}
	before := c.Model.Mul4x1(centre)
	model := c.Model

	c.Rotate(400, 300, 400, 300)
	if !c.Model.ApproxEqualThreshold(model, 1e-6) {
		t.Error("Expected zero-length drag to leave the model unchanged")
	}

	c.Rotate(400, 300, 520, 260)
	if c.Model.ApproxEqualThreshold(model, 1e-6) {
		t.Fatal("Expected drag to rotate the model")
	}
	after := c.Model.Mul4x1(centre)
	if !after.ApproxEqualThreshold(before, 1e-4) {
		t.Errorf("Expected centre to stay at %v, got %v", before, after)
	}
}

// TestCameraZoom verifies opposite scrolls cancel
func TestCameraZoom(t *testing.T) {
	c := NewCamera(640, 480)
	view := c.View

	c.Zoom(1, 0.016)
	if c.View.ApproxEqualThreshold(view, 1e-6) {
		t.Fatal("Expected zoom to move the view")
	}
	c.Zoom(-1, 0.016)
	if !c.View.ApproxEqualThreshold(view, 1e-4) {
		t.Errorf("Expected view restored, got %v", c.View)
	}
}

// TestCameraDegenerateViewport verifies a minimized window does not poison the matrices
func TestCameraDegenerateViewport(t *testing.T) {
	c := NewCamera(0, 0)
	for i, v := range c.MVP {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("Expected finite MVP, element %d is %v", i, v)
		}
	}
	if w, h := c.Viewport(); w != 1 || h != 1 {
		t.Errorf("Expected viewport clamped to 1x1, got %dx%d", w, h)
	}
}

// TestArcBallVector verifies pixel to sphere mapping
func TestArcBallVector(t *testing.T) {
	tests := []struct {
		x, y float32
		want mgl32.Vec3
	}{
		{400, 300, mgl32.Vec3{0, 0, 1}},
		{800, 300, mgl32.Vec3{1, 0, 0}},
		{400, 0, mgl32.Vec3{0, 1, 0}},
		{0, 0, mgl32.Vec3{-1, 1, 0}.Normalize()},
	}

	for _, tt := range tests {
		got := ArcBallVector(tt.x, tt.y, 800, 600)
		if !got.ApproxEqualThreshold(tt.want, 1e-5) {
			t.Errorf("ArcBallVector(%v, %v): expected %v, got %v", tt.x, tt.y, tt.want, got)
		}
		if l := got.Len(); math.Abs(float64(l)-1) > 1e-5 {
			t.Errorf("ArcBallVector(%v, %v): expected unit length, got %v", tt.x, tt.y, l)
		}
	}
}

func writeStylePNG(t *testing.T, dir string, i, size int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for p := 0; p < len(img.Pix); p += 4 {
		img.Pix[p], img.Pix[p+1], img.Pix[p+2], img.Pix[p+3] = c.R, c.G, c.B, c.A
	}
	f, err := os.Create(filepath.Join(dir, StyleFileName(i)+".png"))
	if err != nil {
		t.Fatalf("Failed to create style file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode style file: %v", err)
	}
}

// TestLoadStyleBank verifies layers are read in order and rescaled
func TestLoadStyleBank(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < transfer.StyleCount; i++ {
		size := 16
		if i == 0 {
			size = StyleSize
		}
		writeStylePNG(t, dir, i, size, color.RGBA{R: uint8(i * 7), G: 10, B: 200, A: 255})
	}

	bank, err := LoadStyleBank(dir)
	if err != nil {
		t.Fatalf("LoadStyleBank returned error: %v", err)
	}
	if bank.Layers != transfer.StyleCount || len(bank.Pix) != transfer.StyleCount*bank.LayerBytes() {
		t.Fatalf("Expected %d layers of %d bytes, got %d layers and %d bytes",
			transfer.StyleCount, bank.LayerBytes(), bank.Layers, len(bank.Pix))
	}

	centre := (StyleSize/2*StyleSize + StyleSize/2) * 4
	for _, i := range []int{0, 1, 17, transfer.StyleCount - 1} {
		px := bank.Layer(i)[centre : centre+4]
		if px[0] != uint8(i*7) || px[1] != 10 || px[2] != 200 || px[3] != 255 {
			t.Errorf("Layer %d: expected centre texel [%d 10 200 255], got %v", i, i*7, px)
		}
	}
}

// TestLoadStyleBankMissingFile verifies a gap in the bank is an error
func TestLoadStyleBankMissingFile(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < transfer.StyleCount-1; i++ {
		writeStylePNG(t, dir, i, 4, color.RGBA{A: 255})
	}
	if _, err := LoadStyleBank(dir); err == nil {
		t.Error("Expected error for missing material, got nil")
	}
}

// TestFallbackStyleBank verifies the grey bank is fully opaque
func TestFallbackStyleBank(t *testing.T) {
	bank := FallbackStyleBank()
	for i := 3; i < len(bank.Pix); i += 4 {
		if bank.Pix[i] != 255 {
			t.Fatalf("Expected opaque texel at byte %d, got %d", i, bank.Pix[i])
		}
	}
}

// TestFlipRows verifies the readback is turned upside down
func TestFlipRows(t *testing.T) {
	pix := []byte{
		1, 1, 1, 255, 2, 2, 2, 255,
		3, 3, 3, 255, 4, 4, 4, 255,
	}
	img, err := FlipRows(pix, 2, 2)
	if err != nil {
		t.Fatalf("FlipRows returned error: %v", err)
	}
	if img.Pix[0] != 3 || img.Pix[4] != 4 || img.Pix[8] != 1 || img.Pix[12] != 2 {
		t.Errorf("Expected rows swapped, got %v", img.Pix)
	}

	if _, err := FlipRows(pix[:8], 2, 2); err == nil {
		t.Error("Expected error for short readback, got nil")
	}
}

// TestSaveWebP verifies a screenshot file is written
func TestSaveWebP(t *testing.T) {
	img, err := FlipRows(make([]byte, 4*4*4), 4, 4)
	if err != nil {
		t.Fatalf("FlipRows returned error: %v", err)
	}

	dir := t.TempDir()
	path := ScreenshotPath(dir, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC))
	if filepath.Base(path) != "screenshot_20240301_123000.webp" {
		t.Errorf("Unexpected screenshot name %s", filepath.Base(path))
	}
	if err := SaveWebP(img, path); err != nil {
		t.Fatalf("SaveWebP returned error: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("Expected non-empty file at %s", path)
	}
}
