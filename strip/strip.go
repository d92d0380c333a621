// Package strip lays a 3D LUT out as a 2D image for inspection in ordinary
// image viewers.
//
// The cube is unrolled into N blue slices placed side by side, giving an
// image N² pixels wide and N pixels tall: pixel (r + b·N, g) holds the
// sample at grid point (r, g, b). The table is only rearranged, never
// applied to anything.
package strip

import (
	"image"
	"image/color"
	"io"

	"golang.org/x/image/tiff"

	"github.com/gogpu/lutconv/lut"
)

// Image returns the strip layout of t with samples clamped to [0, 1] and
// quantized to 16 bits per channel.
func Image(t *lut.Table) (*image.RGBA64, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	n := t.Size
	img := image.NewRGBA64(image.Rect(0, 0, n*n, n))
	for b := 0; b < n; b++ {
		for g := 0; g < n; g++ {
			for r := 0; r < n; r++ {
				cr, cg, cb, _ := lut.Clamp(t.At(r, g, b)).RGBA()
				img.SetRGBA64(r+b*n, g, color.RGBA64{
					R: uint16(cr),
					G: uint16(cg),
					B: uint16(cb),
					A: 0xFFFF,
				})
			}
		}
	}
	return img, nil
}

// Encode writes the strip layout of t to w as a Deflate-compressed TIFF.
func Encode(w io.Writer, t *lut.Table) error {
	img, err := Image(t)
	if err != nil {
		return err
	}
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}
