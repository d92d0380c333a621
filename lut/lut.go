// Package lut holds the data model shared by the LUT codecs: a cubic table of
// RGB samples and the error kinds every codec reports.
//
// Samples are stored in CUBE traversal order: red varies fastest, then green,
// then blue. The sample at grid position (r, g, b) lives at Index(r, g, b, N).
package lut

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultSize is the edge length of the vendor LUT dumps.
const DefaultSize = 64

// MaxSize is the largest edge length any codec accepts. MaxSize³ fits in a
// 64-bit int with room to spare for byte counts.
const MaxSize = 1 << 16

// Table is a 3D lookup table of edge length Size holding exactly Size³
// samples.
type Table struct {
	Size    int
	Samples []colorful.Color
}

// New returns a Table after checking that samples holds exactly size³ entries.
// The samples slice is used as is, not copied.
func New(size int, samples []colorful.Color) (*Table, error) {
	t := &Table{Size: size, Samples: samples}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate reports whether the table satisfies the N³ invariant.
func (t *Table) Validate() error {
	if err := CheckSize(t.Size); err != nil {
		return err
	}
	return CheckCount(t.Size, len(t.Samples))
}

// Len returns the number of samples.
func (t *Table) Len() int {
	return len(t.Samples)
}

// At returns the sample at grid position (r, g, b).
func (t *Table) At(r, g, b int) colorful.Color {
	return t.Samples[Index(r, g, b, t.Size)]
}

func (t *Table) String() string {
	return fmt.Sprintf("LUT %dx%dx%d, %d samples", t.Size, t.Size, t.Size, len(t.Samples))
}

// CheckSize returns a KindInvalidSize error unless 0 < size <= MaxSize.
func CheckSize(size int) error {
	if size <= 0 || size > MaxSize {
		return &Error{Kind: KindInvalidSize, Actual: size}
	}
	return nil
}

// CheckCount returns a KindCountMismatch error unless count == size³.
func CheckCount(size, count int) error {
	if want := Volume(size); count != want {
		return &Error{Kind: KindCountMismatch, Expected: want, Actual: count}
	}
	return nil
}

// Volume returns size³.
func Volume(size int) int {
	return size * size * size
}

// Index returns the position of grid point (r, g, b) in traversal order.
func Index(r, g, b, size int) int {
	return r + g*size + b*size*size
}

// CubeRoot returns the integer n with n³ == count, and false if no such
// integer exists.
func CubeRoot(count int) (int, bool) {
	if count < 0 {
		return 0, false
	}
	// Binary search keeps the check exact for any int; float cbrt can be off
	// by one near large perfect cubes.
	lo, hi := 0, 1
	for hi*hi*hi < count {
		hi <<= 1
	}
	for lo < hi {
		mid := lo + (hi-lo)/2
		if mid*mid*mid < count {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, lo*lo*lo == count
}

// Clamp limits each channel of c to [0, 1]. NaN channels become 1.
func Clamp(c colorful.Color) colorful.Color {
	if math.IsNaN(c.R) {
		c.R = 1
	}
	if math.IsNaN(c.G) {
		c.G = 1
	}
	if math.IsNaN(c.B) {
		c.B = 1
	}
	return c.Clamped()
}
