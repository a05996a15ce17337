package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"

	_ "github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"

	"stylevolume/pkg/transfer"
)

// StyleSize is the edge length of one litsphere layer in texels
const StyleSize = 256

// styleExtensions are tried in order for each material file
var styleExtensions = []string{".png", ".tga"}

// StyleBank is the flattened litsphere material stack: StyleCount layers of
// StyleSize x StyleSize RGBA texels, layer-major, rows top to bottom.
type StyleBank struct {
	Layers int
	Size   int
	Pix    []byte
}

// LayerBytes returns the slab size of a single layer.
func (b *StyleBank) LayerBytes() int {
	return b.Size * b.Size * 4
}

// Layer returns the texels of layer i.
func (b *StyleBank) Layer(i int) []byte {
	n := b.LayerBytes()
	return b.Pix[i*n : (i+1)*n]
}

// StyleFileName returns the base name of material i (zero based), without
// extension.
func StyleFileName(i int) string {
	return fmt.Sprintf("litsphere (%d)", i+1)
}

// LoadStyleBank reads every material from dir. Materials may be PNG or TGA of
// any size; they are rescaled to StyleSize when needed. A single missing or
// undecodable material fails the whole bank.
func LoadStyleBank(dir string) (*StyleBank, error) {
	bank := &StyleBank{
		Layers: transfer.StyleCount,
		Size:   StyleSize,
		Pix:    make([]byte, transfer.StyleCount*StyleSize*StyleSize*4),
	}

	for i := 0; i < bank.Layers; i++ {
		img, err := loadStyleImage(dir, StyleFileName(i))
		if err != nil {
			return nil, fmt.Errorf("style %d (%s): %w", i, transfer.StyleNames[i], err)
		}
		copy(bank.Layer(i), toLayer(img, bank.Size).Pix)
	}
	return bank, nil
}

func loadStyleImage(dir, base string) (image.Image, error) {
	var errs []error
	for _, ext := range styleExtensions {
		path := filepath.Join(dir, base+ext)
		f, err := os.Open(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return img, nil
	}
	return nil, errors.Join(errs...)
}

// toLayer converts img to a size x size RGBA image, scaling with CatmullRom
// when the source dimensions differ.
func toLayer(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// FallbackStyleBank returns a bank where every layer is a flat mid grey so
// style mode still renders without material files.
func FallbackStyleBank() *StyleBank {
	bank := &StyleBank{
		Layers: transfer.StyleCount,
		Size:   StyleSize,
		Pix:    make([]byte, transfer.StyleCount*StyleSize*StyleSize*4),
	}
	grey := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	for i := 0; i < len(bank.Pix); i += 4 {
		bank.Pix[i] = grey.R
		bank.Pix[i+1] = grey.G
		bank.Pix[i+2] = grey.B
		bank.Pix[i+3] = grey.A
	}
	return bank
}
