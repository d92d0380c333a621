package raw

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/lutconv/lut"
)

// identityPixels returns an identity cube with alpha fixed at 1.
func identityPixels(size int) []Pixel {
	pixels := make([]Pixel, 0, lut.Volume(size))
	d := float32(max(size-1, 1))
	for b := 0; b < size; b++ {
		for g := 0; g < size; g++ {
			for r := 0; r < size; r++ {
				pixels = append(pixels, Pixel{float32(r) / d, float32(g) / d, float32(b) / d, 1})
			}
		}
	}
	return pixels
}

func TestReadDecodesHalfRGBA(t *testing.T) {
	data := make([]byte, PixelSize)
	binary.LittleEndian.PutUint16(data[0:], 0x3C00) // 1.0
	binary.LittleEndian.PutUint16(data[2:], 0x3800) // 0.5
	binary.LittleEndian.PutUint16(data[4:], 0xC000) // -2.0
	binary.LittleEndian.PutUint16(data[6:], 0x7C00) // +Inf

	res, err := Read(data, 1)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !res.Complete() || res.Decoded != 1 || res.Expected != 1 {
		t.Fatalf("Read() = %+v, want one complete pixel", res)
	}
	p := res.Pixels[0]
	if p[0] != 1 || p[1] != 0.5 || p[2] != -2 || !math.IsInf(float64(p.Alpha()), 1) {
		t.Errorf("pixel = %v, want [1 0.5 -2 +Inf]", p)
	}
}

func TestReadRoundTrip(t *testing.T) {
	const size = 3
	want := identityPixels(size)
	data, err := Write(size, want)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(data) != PixelSize*lut.Volume(size) {
		t.Fatalf("len(Write()) = %d, want %d", len(data), PixelSize*lut.Volume(size))
	}

	res, err := Read(data, size)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	for i := range want {
		// 0, 0.5 and 1 are exact halves.
		if res.Pixels[i] != want[i] {
			t.Fatalf("pixel %d = %v, want %v", i, res.Pixels[i], want[i])
		}
	}

	tbl, err := res.Table()
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if got := tbl.At(2, 1, 0); got.R != 1 || got.G != 0.5 || got.B != 0 {
		t.Errorf("At(2, 1, 0) = %v, want {1 0.5 0}", got)
	}
}

func TestReadOnePixelShort(t *testing.T) {
	const size = 2
	data, err := Write(size, identityPixels(size))
	if err != nil {
		t.Fatal(err)
	}
	data = data[:len(data)-PixelSize]

	res, err := Read(data, size)
	if !errors.Is(err, lut.ErrIncompleteRead) {
		t.Fatalf("Read() error = %v, want ErrIncompleteRead", err)
	}
	var e *lut.Error
	if !errors.As(err, &e) || e.Expected != 8 || e.Actual != 7 {
		t.Errorf("error = %v, want expected 8 actual 7", err)
	}
	if res == nil || res.Complete() || res.Decoded != 7 || len(res.Pixels) != 7 {
		t.Fatalf("Read() result = %+v, want 7 of 8 pixels", res)
	}
	if _, err := res.Table(); !errors.Is(err, lut.ErrIncompleteRead) {
		t.Errorf("Table() error = %v, want ErrIncompleteRead", err)
	}
}

func TestReadIgnoresPartialAndTrailingBytes(t *testing.T) {
	data, err := Write(1, []Pixel{{0.25, 0.5, 0.75, 1}})
	if err != nil {
		t.Fatal(err)
	}

	// Half a pixel is not a pixel.
	if _, err := Read(data[:4], 1); !errors.Is(err, lut.ErrIncompleteRead) {
		t.Errorf("Read(4 bytes) error = %v, want ErrIncompleteRead", err)
	}

	extra := append(append([]byte{}, data...), 0xFF, 0xFF, 0xFF)
	res, err := Read(extra, 1)
	if err != nil {
		t.Fatalf("Read(trailing) error = %v", err)
	}
	if res.Decoded != 1 {
		t.Errorf("Decoded = %d, want 1", res.Decoded)
	}
}

func TestReadInvalidSize(t *testing.T) {
	data := make([]byte, 64)
	for _, size := range []int{0, -1, lut.MaxSize + 1, 1 << 21, 1 << 22} {
		res, err := Read(data, size)
		if !errors.Is(err, lut.ErrInvalidSize) {
			t.Errorf("Read(%d) error = %v, want ErrInvalidSize", size, err)
		}
		if res != nil {
			t.Errorf("Read(%d) result = %+v, want nil", size, res)
		}
	}
}

func TestWriteInvalidSize(t *testing.T) {
	for _, size := range []int{0, lut.MaxSize + 1, 1 << 22} {
		if _, err := Write(size, nil); !errors.Is(err, lut.ErrInvalidSize) {
			t.Errorf("Write(%d) error = %v, want ErrInvalidSize", size, err)
		}
	}
}

func TestWriteCountMismatch(t *testing.T) {
	if _, err := Write(2, identityPixels(1)); !errors.Is(err, lut.ErrCountMismatch) {
		t.Errorf("Write() error = %v, want ErrCountMismatch", err)
	}
}

func TestDecompress(t *testing.T) {
	data, err := Write(2, identityPixels(2))
	if err != nil {
		t.Fatal(err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	compressed := enc.EncodeAll(data, nil)
	enc.Close()

	if !IsCompressed(compressed) {
		t.Fatal("IsCompressed(zstd frame) = false, want true")
	}
	got, err := Decompress(compressed, 2)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("Decompress() did not restore the original dump")
	}

	plain, err := Decompress(data, 2)
	if err != nil || !bytes.Equal(plain, data) {
		t.Errorf("Decompress(plain) = (%d bytes, %v), want input unchanged", len(plain), err)
	}
}

func TestDecompressRejectsOversizedStream(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	// Zeros compress to a few bytes but inflate past the limit for a 1³ dump.
	compressed := enc.EncodeAll(make([]byte, MaxDecompressed(1)+1), nil)
	enc.Close()

	if _, err := Decompress(compressed, 1); err == nil {
		t.Error("Decompress(oversized) error = nil, want error")
	}
	if _, err := Decompress(compressed, 0); !errors.Is(err, lut.ErrInvalidSize) {
		t.Errorf("Decompress(size 0) error = %v, want ErrInvalidSize", err)
	}
}

func BenchmarkRead64(b *testing.B) {
	data, err := Write(lut.DefaultSize, identityPixels(lut.DefaultSize))
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Read(data, lut.DefaultSize); err != nil {
			b.Fatal(err)
		}
	}
}
