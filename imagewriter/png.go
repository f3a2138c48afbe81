package imagewriter

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"render-engine/core"
)

// WritePNGPreview is the non-interactive substitute for an on-screen
// preview window: it downsamples the rendered frame to a small thumbnail
// and writes it alongside the requested PPM. Not part of the core
// pipeline — a convenience for quick-look inspection.
func WritePNGPreview(path string, width, height int, buf []core.Color, maxDim int) error {
	if len(buf) != width*height {
		return fmt.Errorf("png preview: buffer length %d does not match %dx%d", len(buf), width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcY := height - 1 - y
		for x := 0; x < width; x++ {
			c := buf[srcY*width+x]
			img.Set(x, y, color.NRGBA{
				R: quantize(c.R),
				G: quantize(c.G),
				B: quantize(c.B),
				A: 255,
			})
		}
	}

	thumbW, thumbH := fitDims(width, height, maxDim)
	thumb := image.NewRGBA(image.Rect(0, 0, thumbW, thumbH))
	draw.CatmullRom.Scale(thumb, thumb.Bounds(), img, img.Bounds(), draw.Over, nil)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create PNG preview: %w", err)
	}
	defer f.Close()

	if err := imaging.Encode(f, thumb, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode PNG preview: %w", err)
	}
	return nil
}

func fitDims(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w >= h {
		return maxDim, h * maxDim / w
	}
	return w * maxDim / h, maxDim
}
