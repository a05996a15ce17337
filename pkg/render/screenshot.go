package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// FlipRows turns a bottom-up RGBA framebuffer readback into a top-down image.
func FlipRows(pix []byte, width, height int) (*image.NRGBA, error) {
	stride := width * 4
	if width <= 0 || height <= 0 || len(pix) < stride*height {
		return nil, fmt.Errorf("framebuffer readback of %d bytes does not hold %dx%d pixels", len(pix), width, height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := pix[(height-1-y)*stride : (height-y)*stride]
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], src)
	}
	return img, nil
}

// SaveWebP writes img losslessly to path.
func SaveWebP(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// ScreenshotPath names a screenshot in dir by the capture time.
func ScreenshotPath(dir string, t time.Time) string {
	return filepath.Join(dir, "screenshot_"+t.Format("20060102_150405")+".webp")
}
