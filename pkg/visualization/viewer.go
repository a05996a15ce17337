// Package visualization runs the interactive application: one window showing
// the ray-cast volume with the transfer function editor drawn over it.
package visualization

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"stylevolume/internal/logging"
	"stylevolume/internal/models"
	"stylevolume/pkg/config"
	"stylevolume/pkg/editor"
	"stylevolume/pkg/interpolation"
	"stylevolume/pkg/render"
	"stylevolume/pkg/render/gpu"
	"stylevolume/pkg/transfer"
	"stylevolume/pkg/volume"
)

// keyRotateSpeed is the arrow key rotation in pixels of arc-ball drag per second
const keyRotateSpeed = 240.0

// Viewer owns the window and every component of the application. All methods
// must run on the main thread.
type Viewer struct {
	cfg *config.Config
	log *slog.Logger

	window    *glfw.Window
	store     *volume.Store
	engine    *transfer.Engine
	raycaster *gpu.Raycaster
	overlay   *gpu.Overlay
	editor    *editor.Editor

	table     transfer.Table
	histogram *[volume.HistogramBins]float64
	plot      models.DrawList

	showEditor bool
	rotating   bool
	lastX      float64
	lastY      float64
	scroll     float64
	lastFrame  float64
}

// NewViewer opens the window, creates the GL pipeline and loads the
// configured volume and transfer function. Missing inputs are logged; only
// window or context creation failures are returned.
func NewViewer(cfg *config.Config) (*Viewer, error) {
	method, err := interpolation.ParseMethod(cfg.TransferFunction.Interpolation)
	if err != nil {
		return nil, err
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log := logging.Logger()
	log.Info("OpenGL context ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	v := &Viewer{
		cfg:        cfg,
		log:        log,
		window:     window,
		store:      volume.NewStore(),
		engine:     transfer.NewWithBoundaries(transfer.WithInterpolation(method)),
		showEditor: cfg.Editor.Enabled,
		lastFrame:  glfw.GetTime(),
	}
	v.editor = editor.New(v.engine, editor.WithOrigin(float64(cfg.Editor.X), float64(cfg.Editor.Y)))

	bank, err := render.LoadStyleBank(cfg.Styles.Dir)
	if err != nil {
		log.Warn("style bank unavailable, using grey material", "dir", cfg.Styles.Dir, "error", err)
		bank = nil
	}

	fbWidth, fbHeight := window.GetFramebufferSize()
	v.raycaster, err = gpu.NewRaycaster(gpu.Config{
		Width:     fbWidth,
		Height:    fbHeight,
		StepSize:  float32(cfg.Render.StepSize),
		Threshold: float32(cfg.Render.Threshold),
		MaxSteps:  cfg.Render.MaxSteps,
		Mode:      render.ParseMode(cfg.Render.Mode),
		Styles:    bank,
		Logger:    log,
	})
	if err != nil {
		log.Warn("ray casting disabled", "error", err)
	}

	if v.overlay, err = gpu.NewOverlay(); err != nil {
		log.Warn("editor overlay disabled", "error", err)
	}

	gl.Enable(gl.DEPTH_TEST)

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		v.raycaster.Resize(width, height)
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		v.scroll += yoff
	})
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press {
			v.onKey(key)
		}
	})

	if cfg.Volume.Path != "" {
		if err := v.ReloadVolume(); err != nil {
			log.Error("failed to load volume", "path", cfg.Volume.Path, "error", err)
		}
	}
	if _, err := os.Stat(cfg.TransferFunction.Path); err == nil {
		if err := v.LoadTransferFunction(); err != nil {
			log.Error("failed to load transfer function", "path", cfg.TransferFunction.Path, "error", err)
		}
	}

	return v, nil
}

// Run executes the frame loop until the window is closed.
func (v *Viewer) Run() {
	for !v.window.ShouldClose() {
		v.frame()
	}
}

func (v *Viewer) frame() {
	glfw.PollEvents()

	now := glfw.GetTime()
	dt := now - v.lastFrame
	v.lastFrame = now

	input := v.pointer()
	if v.showEditor {
		v.editor.Update(input)
	}
	v.updateCamera(input, dt)
	v.pushTransferFunction()

	fbWidth, fbHeight := v.window.GetFramebufferSize()
	gpu.BeginFrame(fbWidth, fbHeight)
	v.raycaster.Render()

	if v.showEditor && v.overlay != nil {
		v.plot.Reset()
		v.editor.Plot(&v.plot, &v.table, v.histogram)
		winWidth, winHeight := v.window.GetSize()
		gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
		v.overlay.Draw(&v.plot, winWidth, winHeight)
	}

	v.window.SwapBuffers()
}

func (v *Viewer) pointer() editor.Input {
	x, y := v.window.GetCursorPos()
	return editor.Input{
		X:      x,
		Y:      y,
		Left:   v.window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press,
		Right:  v.window.GetMouseButton(glfw.MouseButtonRight) == glfw.Press,
		Middle: v.window.GetMouseButton(glfw.MouseButtonMiddle) == glfw.Press,
	}
}

// updateCamera applies scroll zoom, arrow key rotation and arc-ball drags
// that start outside the editor canvas.
func (v *Viewer) updateCamera(in editor.Input, dt float64) {
	cam := v.raycaster.Camera()

	if v.scroll != 0 {
		cam.Zoom(float32(v.scroll), float32(dt))
		v.scroll = 0
	}

	// cursor positions are in window units, the camera works in framebuffer pixels
	winWidth, _ := v.window.GetSize()
	fbWidth, fbHeight := cam.Viewport()
	scale := float64(fbWidth) / float64(max(winWidth, 1))
	x, y := in.X*scale, in.Y*scale

	var dx, dy float64
	step := keyRotateSpeed * dt
	if v.window.GetKey(glfw.KeyLeft) == glfw.Press {
		dx -= step
	}
	if v.window.GetKey(glfw.KeyRight) == glfw.Press {
		dx += step
	}
	if v.window.GetKey(glfw.KeyUp) == glfw.Press {
		dy -= step
	}
	if v.window.GetKey(glfw.KeyDown) == glfw.Press {
		dy += step
	}
	if dx != 0 || dy != 0 {
		cx, cy := float32(fbWidth)/2, float32(fbHeight)/2
		cam.Rotate(cx, cy, cx+float32(dx), cy+float32(dy))
	}

	switch {
	case !in.Left:
		v.rotating = false
	case v.rotating:
		cam.Rotate(float32(v.lastX), float32(v.lastY), float32(x), float32(y))
	case !v.editor.Dragging() && !(v.showEditor && v.editor.Contains(in.X, in.Y)):
		v.rotating = true
	}
	v.lastX, v.lastY = x, y
}

// pushTransferFunction recomputes both lookup tables and uploads them. It
// runs every frame whether or not the control points changed.
func (v *Viewer) pushTransferFunction() {
	table, err := v.engine.ComputeLookupTable()
	if err != nil {
		v.log.Warn("failed to compute lookup table", "error", err)
		return
	}
	styles, err := v.engine.ComputeStyleTable()
	if err != nil {
		v.log.Warn("failed to compute style table", "error", err)
		return
	}
	v.table = table
	v.raycaster.UpdateTransferFunction(&table, &styles, v.engine.StyleIndexTable())
}

func (v *Viewer) onKey(key glfw.Key) {
	var err error
	switch key {
	case glfw.KeyEscape:
		v.window.SetShouldClose(true)
	case glfw.KeyL:
		err = v.LoadTransferFunction()
	case glfw.KeyS:
		err = v.SaveTransferFunction()
	case glfw.KeyR:
		err = v.ReloadVolume()
	case glfw.KeyP:
		var path string
		if path, err = v.Screenshot(); err == nil {
			v.log.Info("screenshot saved", "path", path)
		}
	case glfw.KeyE:
		v.showEditor = !v.showEditor
	}
	if err != nil {
		v.log.Error("command failed", "key", glfw.GetKeyName(key, 0), "error", err)
	}
}

// LoadTransferFunction replaces the control points from the configured file.
func (v *Viewer) LoadTransferFunction() error {
	_, err := transfer.LoadFile(v.cfg.TransferFunction.Path, v.engine)
	return err
}

// SaveTransferFunction writes the control points to the configured file.
func (v *Viewer) SaveTransferFunction() error {
	return transfer.SaveFile(v.cfg.TransferFunction.Path, v.engine)
}

// ReloadVolume reads the configured volume again and uploads it. On failure
// the previous volume stays on screen.
func (v *Viewer) ReloadVolume() error {
	c := v.cfg.Volume
	err := v.store.Load(volume.Params{
		Path:          c.Path,
		Width:         c.Width,
		Height:        c.Height,
		Depth:         c.Depth,
		BitsPerSample: c.BitsPerSample,
	})
	if err != nil {
		return err
	}

	field := v.store.Field()
	if err := v.raycaster.SetVolume(field, v.store.CubeSizes()); err != nil {
		return err
	}
	h := volume.Histogram(field)
	v.histogram = &h
	return nil
}

// Screenshot writes the current frame as WebP into the screenshot directory.
func (v *Viewer) Screenshot() (string, error) {
	dir := v.cfg.Output.ScreenshotDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	width, height := v.window.GetFramebufferSize()
	img, err := gpu.Capture(width, height)
	if err != nil {
		return "", err
	}

	path := render.ScreenshotPath(dir, time.Now())
	return path, render.SaveWebP(img, path)
}

// Close releases the GL resources and the window.
func (v *Viewer) Close() {
	v.overlay.Delete()
	v.raycaster.Delete()
	v.window.Destroy()
	glfw.Terminate()
}
