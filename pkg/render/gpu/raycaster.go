package gpu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v4.1-core/gl"

	"stylevolume/internal/logging"
	"stylevolume/internal/models"
	"stylevolume/pkg/render"
	"stylevolume/pkg/transfer"
)

const (
	// DefaultStepSize is the ray advance per sample in cube units
	DefaultStepSize = 0.001

	// DefaultThreshold drops samples with a lower intensity
	DefaultThreshold = 0.15

	// DefaultMaxSteps bounds the march; the cube diagonal needs ~1732 steps at the default step size
	DefaultMaxSteps = 1800
)

// texture units, fixed for the lifetime of the composite program
const (
	unitTransfer   = 1
	unitStyleIndex = 2
	unitStyleBank  = 3
	unitExitPoints = 4
	unitVolume     = 5
)

// Config holds the tunables of the ray caster.
type Config struct {
	Width, Height int
	StepSize      float32
	Threshold     float32
	MaxSteps      int
	Mode          render.Mode

	// Styles is uploaded as the material bank; nil selects the grey fallback
	Styles *render.StyleBank

	Logger *slog.Logger
}

func (c *Config) setDefaults() {
	if c.StepSize <= 0 {
		c.StepSize = DefaultStepSize
	}
	if c.Threshold < 0 {
		c.Threshold = DefaultThreshold
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	if c.Logger == nil {
		c.Logger = logging.Logger()
	}
}

// Raycaster renders a volume in two passes: the cube's back faces into an
// exit-point texture, then its front faces marching from entry to exit.
type Raycaster struct {
	cfg    Config
	log    *slog.Logger
	camera *render.Camera

	cube     *Mesh
	backface *Program
	raycast  *Program
	exit     *Framebuffer

	volume     *Texture
	transfer   *Texture
	styleIndex *Texture
	styleBank  *Texture

	ready  bool
	loaded bool
}

// NewRaycaster creates every GL resource of the pipeline. A failing resource
// is logged and reported in the returned error, and the ray caster stays
// usable: Render does nothing until all passes are available.
func NewRaycaster(cfg Config) (*Raycaster, error) {
	cfg.setDefaults()
	r := &Raycaster{
		cfg:    cfg,
		log:    cfg.Logger,
		camera: render.NewCamera(cfg.Width, cfg.Height),
		cube:   NewCubeMesh(),
	}

	var errs []error
	fail := func(what string, err error) {
		r.log.Error("ray caster resource unavailable", "resource", what, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", what, err))
	}

	var err error
	if r.backface, err = NewProgram("backface.vert", "backface.frag", "MVP"); err != nil {
		fail("back-face program", err)
	}
	if r.raycast, err = NewProgram("raycasting.vert", "raycasting.frag",
		"MVP", "ViewMatrix", "NormalMatrix", "StepSize", "Threshold", "ScreenSize", "Mode", "MaxSteps",
		"StyleLayers", "transferFunctionTexture", "indexFunctionTexture", "styleTransferTexture",
		"ExitPoints", "VolumeTex"); err != nil {
		fail("ray-casting program", err)
	}
	if r.exit, err = NewFramebuffer(cfg.Width, cfg.Height); err != nil {
		fail("exit-point framebuffer", err)
	}

	r.volume = NewTexture(gl.TEXTURE_3D, gl.LINEAR, gl.CLAMP_TO_EDGE)
	r.transfer = NewTexture(gl.TEXTURE_1D, gl.NEAREST, gl.CLAMP_TO_EDGE)
	r.styleIndex = NewTexture(gl.TEXTURE_1D, gl.NEAREST, gl.CLAMP_TO_EDGE)
	r.styleBank = NewTexture(gl.TEXTURE_2D_ARRAY, gl.LINEAR, gl.CLAMP_TO_EDGE)

	bank := cfg.Styles
	if bank == nil {
		bank = render.FallbackStyleBank()
	}
	r.styleBank.Image3D(gl.RGBA8, bank.Size, bank.Size, bank.Layers, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(bank.Pix))

	r.ready = len(errs) == 0
	return r, errors.Join(errs...)
}

// Camera returns the camera whose matrices drive both passes.
func (r *Raycaster) Camera() *render.Camera {
	return r.camera
}

// Mode returns how the transfer texture is packed.
func (r *Raycaster) Mode() render.Mode {
	return r.cfg.Mode
}

// SetVolume uploads field as the 3D texture and fits the cube to its
// proportions.
func (r *Raycaster) SetVolume(field *models.VolumeField, cubeSizes [3]float32) error {
	if err := field.Validate(); err != nil {
		return err
	}
	r.volume.Image3D(gl.R32F, field.Width, field.Height, field.Depth, gl.RED, gl.FLOAT, gl.Ptr(field.Data))
	r.camera.SetVolume(cubeSizes)
	r.loaded = true
	r.log.Info("volume uploaded", "width", field.Width, "height", field.Height, "depth", field.Depth)
	return nil
}

// UpdateTransferFunction uploads the packed lookup table and the per-point
// style indices.
func (r *Raycaster) UpdateTransferFunction(table *transfer.Table, styles *transfer.StyleTable, styleIndex []float32) {
	packed := render.Pack(r.cfg.Mode, styles, table)
	if r.cfg.Mode == render.ModeColor {
		r.transfer.Image1D(gl.RGBA8, transfer.TableSize, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(packed))
	} else {
		r.transfer.Image1D(gl.RG8, transfer.TableSize, gl.RG, gl.UNSIGNED_BYTE, gl.Ptr(packed))
	}

	if len(styleIndex) > 0 {
		r.styleIndex.Image1D(gl.R32F, len(styleIndex), gl.RED, gl.FLOAT, gl.Ptr(styleIndex))
	}
}

// Resize follows a framebuffer size change.
func (r *Raycaster) Resize(width, height int) {
	r.cfg.Width, r.cfg.Height = width, height
	r.camera.SetViewport(width, height)
	if r.exit == nil {
		return
	}
	if err := r.exit.Resize(width, height); err != nil {
		r.log.Error("failed to resize exit-point framebuffer", "error", err)
		r.ready = false
	}
}

// Render draws the volume into the default framebuffer. Nothing is drawn
// before a volume is loaded.
func (r *Raycaster) Render() {
	if !r.ready || !r.loaded {
		return
	}
	r.renderBackFace()
	r.renderVolume()
}

func (r *Raycaster) renderBackFace() {
	r.exit.Bind()
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.backface.Use()
	r.backface.SetMat4("MVP", r.camera.MVP)
	r.cube.Draw(gl.FRONT)
}

func (r *Raycaster) renderVolume() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.cfg.Width), int32(r.cfg.Height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.raycast
	p.Use()
	p.SetMat4("MVP", r.camera.MVP)
	p.SetMat4("ViewMatrix", r.camera.View)
	p.SetMat4("NormalMatrix", r.camera.NormalMatrix)
	p.SetFloat("StepSize", r.cfg.StepSize)
	p.SetFloat("Threshold", r.cfg.Threshold)
	p.SetVec2("ScreenSize", float32(r.cfg.Width), float32(r.cfg.Height))
	p.SetInt("Mode", int32(r.cfg.Mode))
	p.SetInt("MaxSteps", int32(r.cfg.MaxSteps))
	p.SetInt("StyleLayers", transfer.StyleCount)

	r.transfer.Bind(unitTransfer)
	p.SetInt("transferFunctionTexture", unitTransfer)
	r.styleIndex.Bind(unitStyleIndex)
	p.SetInt("indexFunctionTexture", unitStyleIndex)
	r.styleBank.Bind(unitStyleBank)
	p.SetInt("styleTransferTexture", unitStyleBank)
	r.exit.Color.Bind(unitExitPoints)
	p.SetInt("ExitPoints", unitExitPoints)
	r.volume.Bind(unitVolume)
	p.SetInt("VolumeTex", unitVolume)

	r.cube.Draw(gl.BACK)
	gl.ActiveTexture(gl.TEXTURE0)
}

// Delete releases every GL resource.
func (r *Raycaster) Delete() {
	r.cube.Delete()
	if r.backface != nil {
		r.backface.Delete()
	}
	if r.raycast != nil {
		r.raycast.Delete()
	}
	r.exit.Delete()
	r.volume.Delete()
	r.transfer.Delete()
	r.styleIndex.Delete()
	r.styleBank.Delete()
	r.ready, r.loaded = false, false
}
