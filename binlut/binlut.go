// Package binlut writes and reads the application binary LUT format.
//
// Layout (all integers little-endian):
//
//	0x00  8  magic ".MS-LUT "
//	0x08  4  version (1)
//	0x0C  4  edge length N
//	0x10  1  sample format (3 = float32 RGB)
//	0x11     zero
//	0x28  8  data offset (0x40 when written by this package)
//	0x30     zero up to the data offset
//	data     N³ × {R, G, B float32}
//
// Readers must honor the stored data offset; later versions may grow the
// header.
package binlut

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/lutconv/internal/byteio"
	"github.com/gogpu/lutconv/lut"
)

var magic = [8]byte{'.', 'M', 'S', '-', 'L', 'U', 'T', ' '}

const (
	// Version is the format version written by this package.
	Version = 1

	// HeaderSize is the header length and the data offset this package writes.
	HeaderSize = 0x40

	// SampleSize is the byte length of one RGB float32 triple.
	SampleSize = 12

	offVersion    = 0x08
	offSize       = 0x0C
	offFormat     = 0x10
	offDataOffset = 0x28
)

// Format is the sample-format tag stored at offset 0x10.
type Format uint8

// FormatFloat32RGB is three little-endian float32 values per sample.
const FormatFloat32RGB Format = 3

func (f Format) String() string {
	if f == FormatFloat32RGB {
		return "float32 RGB"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Header is the fixed part of a binary LUT file.
type Header struct {
	Version    uint32
	Size       uint32
	Format     Format
	DataOffset uint64
}

func (h Header) String() string {
	return fmt.Sprintf("MS-LUT v%d %dx%dx%d, %s, data at %#x",
		h.Version, h.Size, h.Size, h.Size, h.Format, h.DataOffset)
}

// DataSize returns the byte length of the sample section.
func (h Header) DataSize() int {
	return lut.Volume(int(h.Size)) * SampleSize
}

func (h Header) validate() error {
	if h.Version != Version {
		return fmt.Errorf("binlut: unsupported version %d", h.Version)
	}
	if h.Format != FormatFloat32RGB {
		return fmt.Errorf("binlut: unsupported sample format %d", uint8(h.Format))
	}
	if h.Size == 0 {
		return &lut.Error{Kind: lut.KindInvalidSize, Actual: 0}
	}
	if h.DataOffset < HeaderSize {
		return fmt.Errorf("binlut: data offset %#x inside header", h.DataOffset)
	}
	return nil
}

// MarshalHeader returns the 64-byte header encoding for h.
func MarshalHeader(h Header) ([HeaderSize]byte, error) {
	var out [HeaderSize]byte
	if err := h.validate(); err != nil {
		return out, err
	}
	putHeader(out[:], h)
	return out, nil
}

func putHeader(dst []byte, h Header) {
	w := byteio.NewWriter(binary.LittleEndian, dst)
	w.Bytes(magic[:])
	w.Uint32(h.Version)
	w.Uint32(h.Size)
	w.Uint8(uint8(h.Format))
	w.Zero(offDataOffset)
	w.Uint64(h.DataOffset)
	w.Zero(HeaderSize)
}

// ErrBadMagic is returned when data does not start with the format magic.
var ErrBadMagic = errors.New("binlut: invalid magic")

// ParseHeader parses the header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("binlut: header: need %d bytes, got %d: %w", HeaderSize, len(data), io.ErrUnexpectedEOF)
	}
	if !bytes.Equal(data[:len(magic)], magic[:]) {
		return Header{}, ErrBadMagic
	}
	r := byteio.NewReader(binary.LittleEndian, data)
	r.Seek(offVersion)
	h := Header{Version: r.Uint32()}
	r.Seek(offSize)
	h.Size = r.Uint32()
	r.Seek(offFormat)
	h.Format = Format(r.Uint8())
	r.Seek(offDataOffset)
	h.DataOffset = r.Uint64()
	if err := h.validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// Marshal encodes t. Samples are written as float32 without clamping.
func Marshal(t *lut.Table) ([]byte, error) {
	return marshal(t.Size, t.Samples)
}

// Encode writes size and samples to w. It fails with lut.ErrCountMismatch
// unless len(samples) is size³.
func Encode(w io.Writer, size int, samples []colorful.Color) error {
	data, err := marshal(size, samples)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func marshal(size int, samples []colorful.Color) ([]byte, error) {
	if size <= 0 || uint64(size) > 0xFFFFFFFF {
		return nil, &lut.Error{Kind: lut.KindInvalidSize, Actual: size}
	}
	if err := lut.CheckCount(size, len(samples)); err != nil {
		return nil, err
	}

	out := make([]byte, HeaderSize+len(samples)*SampleSize)
	putHeader(out, Header{
		Version:    Version,
		Size:       uint32(size),
		Format:     FormatFloat32RGB,
		DataOffset: HeaderSize,
	})
	w := byteio.NewWriter(binary.LittleEndian, out[HeaderSize:])
	for _, s := range samples {
		w.Float32(float32(s.R))
		w.Float32(float32(s.G))
		w.Float32(float32(s.B))
	}
	return out, nil
}

// Decode parses a complete binary LUT, reading samples from the stored data
// offset. Bytes after the sample section are ignored.
func Decode(data []byte) (Header, *lut.Table, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return Header{}, nil, err
	}
	if h.Size > lut.MaxSize {
		return Header{}, nil, &lut.Error{Kind: lut.KindInvalidSize, Actual: int(h.Size)}
	}
	// Compare against the bytes remaining after the offset; adding the offset
	// to the data size can wrap for a crafted header.
	if h.DataOffset > uint64(len(data)) || uint64(len(data))-h.DataOffset < uint64(h.DataSize()) {
		return Header{}, nil, fmt.Errorf("binlut: data: need %d bytes at offset %d, got %d: %w",
			h.DataSize(), h.DataOffset, len(data), io.ErrUnexpectedEOF)
	}
	end := h.DataOffset + uint64(h.DataSize())

	samples := make([]colorful.Color, lut.Volume(int(h.Size)))
	r := byteio.NewReader(binary.LittleEndian, data[h.DataOffset:end])
	for i := range samples {
		samples[i] = colorful.Color{
			R: float64(r.Float32()),
			G: float64(r.Float32()),
			B: float64(r.Float32()),
		}
	}
	t, err := lut.New(int(h.Size), samples)
	if err != nil {
		return Header{}, nil, err
	}
	return h, t, nil
}
