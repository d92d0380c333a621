package strip

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/tiff"

	"github.com/gogpu/lutconv/lut"
)

func identity(size int) *lut.Table {
	samples := make([]colorful.Color, 0, lut.Volume(size))
	d := float64(size - 1)
	for b := 0; b < size; b++ {
		for g := 0; g < size; g++ {
			for r := 0; r < size; r++ {
				samples = append(samples, colorful.Color{R: float64(r) / d, G: float64(g) / d, B: float64(b) / d})
			}
		}
	}
	return &lut.Table{Size: size, Samples: samples}
}

func TestImageLayout(t *testing.T) {
	img, err := Image(identity(3))
	if err != nil {
		t.Fatalf("Image() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 9 || b.Dy() != 3 {
		t.Fatalf("Bounds() = %v, want 9x3", b)
	}

	tests := []struct {
		x, y int
		want color.RGBA64
	}{
		{0, 0, color.RGBA64{0, 0, 0, 0xFFFF}},
		{2, 0, color.RGBA64{0xFFFF, 0, 0, 0xFFFF}},
		{0, 2, color.RGBA64{0, 0xFFFF, 0, 0xFFFF}},
		{6, 0, color.RGBA64{0, 0, 0xFFFF, 0xFFFF}},
		{8, 2, color.RGBA64{0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF}},
	}
	for _, tt := range tests {
		if got := img.RGBA64At(tt.x, tt.y); got != tt.want {
			t.Errorf("RGBA64At(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestImageClamps(t *testing.T) {
	tbl := &lut.Table{Size: 1, Samples: []colorful.Color{{R: -1, G: 2, B: 0.5}}}
	img, err := Image(tbl)
	if err != nil {
		t.Fatal(err)
	}
	got := img.RGBA64At(0, 0)
	if got.R != 0 || got.G != 0xFFFF || got.B != 0x8000 {
		t.Errorf("RGBA64At(0, 0) = %v, want {0 65535 32768}", got)
	}
}

func TestEncodeDecodes(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, identity(4)); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	img, err := tiff.Decode(&buf)
	if err != nil {
		t.Fatalf("tiff.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 4 {
		t.Errorf("Bounds() = %v, want 16x4", b)
	}
}

func TestImageRejectsBadTable(t *testing.T) {
	_, err := Image(&lut.Table{Size: 2})
	if !errors.Is(err, lut.ErrCountMismatch) {
		t.Errorf("Image() error = %v, want ErrCountMismatch", err)
	}
}
