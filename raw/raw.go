// Package raw reads the vendor LUT dump: a header-less stream of
// little-endian half-float RGBA pixels, 8 bytes each, in CUBE traversal
// order. The dump does not record its edge length; callers supply it.
package raw

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/lutconv/half"
	"github.com/gogpu/lutconv/internal/byteio"
	"github.com/gogpu/lutconv/lut"
)

// PixelSize is the number of bytes per RGBA pixel.
const PixelSize = 8

// Pixel is one decoded RGBA sample. Values are not clamped and may lie
// outside [0, 1].
type Pixel [4]float32

// RGB returns the color channels, dropping alpha.
func (p Pixel) RGB() colorful.Color {
	return colorful.Color{R: float64(p[0]), G: float64(p[1]), B: float64(p[2])}
}

// Alpha returns the alpha channel.
func (p Pixel) Alpha() float32 {
	return p[3]
}

// Result is the outcome of Read.
type Result struct {
	Size     int
	Pixels   []Pixel
	Expected int // Size³
	Decoded  int // len(Pixels)
}

// Complete reports whether every expected pixel was decoded.
func (r *Result) Complete() bool {
	return r.Decoded == r.Expected
}

// Table returns the RGB table with alpha discarded. It fails with
// lut.ErrIncompleteRead if the read was short.
func (r *Result) Table() (*lut.Table, error) {
	if !r.Complete() {
		return nil, &lut.Error{Kind: lut.KindIncompleteRead, Expected: r.Expected, Actual: r.Decoded}
	}
	samples := make([]colorful.Color, len(r.Pixels))
	for i, p := range r.Pixels {
		samples[i] = p.RGB()
	}
	return lut.New(r.Size, samples)
}

// Read decodes size³ pixels from data. Bytes past the last expected pixel
// are ignored.
//
// If data holds fewer than size³ whole pixels, Read returns the pixels it
// could decode together with a *lut.Error of kind lut.KindIncompleteRead, so
// a short dump is never mistaken for a complete one.
func Read(data []byte, size int) (*Result, error) {
	if err := lut.CheckSize(size); err != nil {
		return nil, err
	}
	expected := lut.Volume(size)
	n := min(len(data)/PixelSize, expected)

	pixels := make([]Pixel, n)
	r := byteio.NewReader(binary.LittleEndian, data)
	for i := range pixels {
		for c := range pixels[i] {
			pixels[i][c] = half.Float32(r.Uint16())
		}
	}

	res := &Result{Size: size, Pixels: pixels, Expected: expected, Decoded: n}
	if n < expected {
		return res, &lut.Error{Kind: lut.KindIncompleteRead, Expected: expected, Actual: n}
	}
	return res, nil
}

// Write encodes pixels into the vendor layout, rounding each channel to the
// nearest half. It fails with lut.ErrCountMismatch unless len(pixels) is
// size³.
func Write(size int, pixels []Pixel) ([]byte, error) {
	if err := lut.CheckSize(size); err != nil {
		return nil, err
	}
	if err := lut.CheckCount(size, len(pixels)); err != nil {
		return nil, err
	}
	out := make([]byte, len(pixels)*PixelSize)
	w := byteio.NewWriter(binary.LittleEndian, out)
	for _, p := range pixels {
		for _, v := range p {
			w.Uint16(half.FromFloat32(v))
		}
	}
	return out, nil
}

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// IsCompressed reports whether data starts with a zstd frame header.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// decompressSlack is the room Decompress allows past a full dump. It covers
// trailing bytes, which Read ignores, and the default zstd window.
const decompressSlack = 8 << 20

// MaxDecompressed returns the largest output Decompress accepts for a dump of
// the given edge length.
func MaxDecompressed(size int) uint64 {
	return uint64(lut.Volume(size))*PixelSize + decompressSlack
}

// Decompress inflates a zstd-compressed dump of the given edge length. Data
// without a zstd frame header is returned unchanged. Output larger than
// MaxDecompressed(size) is an error.
func Decompress(data []byte, size int) ([]byte, error) {
	if !IsCompressed(data) {
		return data, nil
	}
	if err := lut.CheckSize(size); err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(MaxDecompressed(size)),
	)
	if err != nil {
		return nil, fmt.Errorf("raw: zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("raw: decompress: %w", err)
	}
	return out, nil
}
