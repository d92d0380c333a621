// Package byteio provides cursor-style readers and writers over a byte slice
// with a fixed byte order.
//
// The caller sizes the slice up front; reads and writes past the end panic
// like any slice access, so callers check lengths before starting.
package byteio

import (
	"encoding/binary"
	"math"
)

// Writer writes fixed-size values into a pre-allocated buffer.
type Writer struct {
	ord  binary.ByteOrder
	data []byte
	i    int
}

// NewWriter returns a Writer positioned at the start of data.
func NewWriter(ord binary.ByteOrder, data []byte) *Writer {
	return &Writer{ord: ord, data: data}
}

func (w *Writer) Uint8(v uint8) {
	w.data[w.i] = v
	w.i++
}

func (w *Writer) Uint16(v uint16) {
	w.ord.PutUint16(w.data[w.i:], v)
	w.i += 2
}

func (w *Writer) Uint32(v uint32) {
	w.ord.PutUint32(w.data[w.i:], v)
	w.i += 4
}

func (w *Writer) Uint64(v uint64) {
	w.ord.PutUint64(w.data[w.i:], v)
	w.i += 8
}

func (w *Writer) Float32(v float32) {
	w.Uint32(math.Float32bits(v))
}

func (w *Writer) Bytes(bs []byte) {
	copy(w.data[w.i:w.i+len(bs)], bs)
	w.i += len(bs)
}

// Zero writes zero bytes until the cursor reaches off. It does nothing if the
// cursor is already at or past off.
func (w *Writer) Zero(off int) {
	for w.i < off {
		w.data[w.i] = 0
		w.i++
	}
}

// Offset returns the cursor position.
func (w *Writer) Offset() int {
	return w.i
}

// Reader reads fixed-size values from a buffer.
type Reader struct {
	ord  binary.ByteOrder
	data []byte
	i    int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(ord binary.ByteOrder, data []byte) *Reader {
	return &Reader{ord: ord, data: data}
}

func (r *Reader) Uint8() uint8 {
	v := r.data[r.i]
	r.i++
	return v
}

func (r *Reader) Uint16() uint16 {
	v := r.ord.Uint16(r.data[r.i:])
	r.i += 2
	return v
}

func (r *Reader) Uint32() uint32 {
	v := r.ord.Uint32(r.data[r.i:])
	r.i += 4
	return v
}

func (r *Reader) Uint64() uint64 {
	v := r.ord.Uint64(r.data[r.i:])
	r.i += 8
	return v
}

func (r *Reader) Float32() float32 {
	return math.Float32frombits(r.Uint32())
}

func (r *Reader) Bytes(n int) []byte {
	v := r.data[r.i : r.i+n]
	r.i += n
	return v
}

// Seek moves the cursor to off.
func (r *Reader) Seek(off int) {
	r.i = off
}

// Offset returns the cursor position.
func (r *Reader) Offset() int {
	return r.i
}

// Remain returns the number of unread bytes.
func (r *Reader) Remain() int {
	return len(r.data) - r.i
}
