// Package volume owns the scalar field being rendered: loading raw scans,
// deriving the intensity histogram and extracting 2D slices.
package volume

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"stylevolume/internal/logging"
	"stylevolume/internal/models"
)

// ErrNotLoaded is returned when an operation needs a volume and none is loaded
var ErrNotLoaded = errors.New("volume: no volume loaded")

// Params describes a raw volume file. Raw files carry no header, so the
// dimensions and sample width must be supplied by the caller.
type Params struct {
	// Path is the file to read. Suffixes .gz, .zlib and .zst are decompressed on the fly.
	Path string

	// Width, Height, Depth are the voxel dimensions
	Width, Height, Depth int

	// BitsPerSample is 8 or 16 (little-endian)
	BitsPerSample int
}

func (p Params) validate() error {
	if p.Width <= 0 || p.Height <= 0 || p.Depth <= 0 {
		return fmt.Errorf("volume: invalid dimensions %dx%dx%d", p.Width, p.Height, p.Depth)
	}
	if p.BitsPerSample != 8 && p.BitsPerSample != 16 {
		return fmt.Errorf("volume: unsupported sample width %d bits", p.BitsPerSample)
	}
	return nil
}

// Store holds the currently loaded volume. A failed load keeps the previous one.
type Store struct {
	field  *models.VolumeField
	params Params
	log    *slog.Logger
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{log: logging.Logger()}
}

// Loaded reports whether a volume is available.
func (s *Store) Loaded() bool {
	return s.field != nil
}

// Field returns the loaded volume, or nil.
func (s *Store) Field() *models.VolumeField {
	return s.field
}

// Params returns the parameters of the loaded volume.
func (s *Store) Params() Params {
	return s.params
}

// CubeSizes returns the volume extent along each axis divided by the largest
// dimension, so the longest side of the bounding cube is 1.
func (s *Store) CubeSizes() [3]float32 {
	if s.field == nil {
		return [3]float32{1, 1, 1}
	}
	w, h, d := float32(s.field.Width), float32(s.field.Height), float32(s.field.Depth)
	m := max(w, h, d)
	return [3]float32{w / m, h / m, d / m}
}

// Load reads a raw volume and replaces the current one on success.
func (s *Store) Load(p Params) error {
	if err := p.validate(); err != nil {
		return err
	}

	f, err := os.Open(p.Path)
	if err != nil {
		return fmt.Errorf("volume: opening %s: %w", p.Path, err)
	}
	defer f.Close()

	r, closeFn, err := decompressor(p.Path, bufio.NewReader(f))
	if err != nil {
		return fmt.Errorf("volume: reading %s: %w", p.Path, err)
	}
	defer closeFn()

	field, err := Decode(r, p.Width, p.Height, p.Depth, p.BitsPerSample)
	if err != nil {
		return fmt.Errorf("volume: reading %s: %w", p.Path, err)
	}

	s.field = field
	s.params = p
	s.log.Info("volume loaded", "path", p.Path, "width", p.Width, "height", p.Height, "depth", p.Depth, "bits", p.BitsPerSample)
	return nil
}

// Decode reads width*height*depth samples from r and normalizes them to [0,1].
func Decode(r io.Reader, width, height, depth, bits int) (*models.VolumeField, error) {
	n := width * height * depth
	bytesPerSample := bits / 8

	raw := make([]byte, n*bytesPerSample)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("expected %d bytes: %w", len(raw), err)
	}

	data := make([]float32, n)
	switch bits {
	case 8:
		for i, b := range raw {
			data[i] = float32(b) / 255
		}
	case 16:
		for i := range data {
			data[i] = float32(binary.LittleEndian.Uint16(raw[2*i:])) / 65535
		}
	default:
		return nil, fmt.Errorf("unsupported sample width %d bits", bits)
	}

	return &models.VolumeField{
		Data:          data,
		Width:         width,
		Height:        height,
		Depth:         depth,
		BitsPerSample: bits,
	}, nil
}

// decompressor wraps r according to the file suffix.
func decompressor(path string, r io.Reader) (io.Reader, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { zr.Close() }, nil
	case ".zlib":
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { zr.Close() }, nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	}
	return r, func() {}, nil
}
