package volume

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"

	"stylevolume/internal/models"
)

// ExtractSlice extracts a 2D slice from the volume along the specified axis.
// X slices are laid out depth by height, Y slices width by depth, Z slices
// width by height.
func ExtractSlice(v *models.VolumeField, axis models.Axis, position int) (*image.Gray, error) {
	if v == nil {
		return nil, ErrNotLoaded
	}
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	var img *image.Gray

	switch axis {
	case models.AxisX:
		// Extract slice along YZ plane
		if position >= v.Width {
			return nil, fmt.Errorf("position %d exceeds width %d", position, v.Width)
		}

		img = image.NewGray(image.Rect(0, 0, v.Depth, v.Height))
		for y := 0; y < v.Height; y++ {
			for z := 0; z < v.Depth; z++ {
				img.SetGray(z, y, toGray(v.At(position, y, z)))
			}
		}

	case models.AxisY:
		// Extract slice along XZ plane
		if position >= v.Height {
			return nil, fmt.Errorf("position %d exceeds height %d", position, v.Height)
		}

		img = image.NewGray(image.Rect(0, 0, v.Width, v.Depth))
		for z := 0; z < v.Depth; z++ {
			for x := 0; x < v.Width; x++ {
				img.SetGray(x, z, toGray(v.At(x, position, z)))
			}
		}

	case models.AxisZ:
		// Extract slice along XY plane
		if position >= v.Depth {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, v.Depth)
		}

		img = image.NewGray(image.Rect(0, 0, v.Width, v.Height))
		for y := 0; y < v.Height; y++ {
			for x := 0; x < v.Width; x++ {
				img.SetGray(x, y, toGray(v.At(x, y, position)))
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %v", axis)
	}

	return img, nil
}

func toGray(s float32) color.Gray {
	return color.Gray{Y: uint8(min(max(s, 0), 1)*255 + 0.5)}
}

// SaveSlice writes an extracted slice as a lossless WebP image
func SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return nativewebp.Encode(file, img, nil)
}

// SaveSliceSequence extracts and saves every slice along the specified axis
func SaveSliceSequence(v *models.VolumeField, axis models.Axis, outputDir string) error {
	if v == nil {
		return ErrNotLoaded
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case models.AxisX:
		maxPos = v.Width
	case models.AxisY:
		maxPos = v.Height
	case models.AxisZ:
		maxPos = v.Depth
	default:
		return fmt.Errorf("invalid axis: %v", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := ExtractSlice(v, axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.webp", axis, pos))
		if err := SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
