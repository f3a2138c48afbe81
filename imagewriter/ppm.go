// Package imagewriter writes the rendered color buffer to disk: the
// spec-mandated PPM (binary P6) format, plus a supplemental PNG preview.
package imagewriter

import (
	"bufio"
	"fmt"
	"os"

	"render-engine/core"
	"render-engine/diag"
)

// WritePPM writes buf (row-major, row 0 at the bottom of the image,
// width*height long) as a binary (P6) PPM file, flipping the rows to
// screen order and quantizing each tone-mapped linear channel to 8 bits.
func WritePPM(path string, width, height int, buf []core.Color) error {
	if len(buf) != width*height {
		return fmt.Errorf("ppm: buffer length %d does not match %dx%d", len(buf), width, height)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create PPM file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	fmt.Fprintf(w, "P6\n%d %d\n255\n", width, height)

	// PPM scans top-to-bottom; the renderer's y grows upward from the
	// image plane construction, so row 0 written here is row height-1 of
	// the render buffer — inverted to match screen conventions.
	row := make([]byte, width*3)
	for y := 0; y < height; y++ {
		srcY := height - 1 - y
		for x := 0; x < width; x++ {
			idx := srcY*width + x
			if idx < 0 || idx >= len(buf) {
				diag.Warn(diag.PixelOutOfRange, "ppm write: index %d out of range for %dx%d image", idx, width, height)
				continue
			}
			c := buf[idx]
			row[x*3+0] = quantize(c.R)
			row[x*3+1] = quantize(c.G)
			row[x*3+2] = quantize(c.B)
		}
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write PPM scanline: %w", err)
		}
	}
	return nil
}

func quantize(c float32) byte {
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return byte(c*255 + 0.5)
}
