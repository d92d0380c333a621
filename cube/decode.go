// Package cube reads and writes the Adobe CUBE 3D LUT text format.
//
// The decoder is tolerant the way most grading tools are: unknown keywords
// and malformed data lines are skipped and counted, never fatal. The only
// hard failures are an unreadable LUT_3D_SIZE value and a sample count that
// does not form a cube.
package cube

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/gogpu/lutconv/lut"
)

const (
	keyTitle  = "TITLE"
	keySize3D = "LUT_3D_SIZE"
	keyDomain = "DOMAIN_"
)

const (
	// maxLineSize bounds a single line; real files never come close.
	maxLineSize = 1 << 20
)

// File is a decoded CUBE document.
type File struct {
	Title string
	Table lut.Table

	// Declared reports whether the size came from LUT_3D_SIZE rather than
	// being inferred from the sample count.
	Declared bool

	// Skipped counts non-empty lines that were neither keywords, comments,
	// nor valid RGB triples.
	Skipped int
}

// SyntaxError reports a LUT_3D_SIZE line whose value is unusable.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("cube: line %d: %s", e.Line, e.Msg)
}

// Decode parses CUBE text from r.
//
// A leading UTF-8 byte order mark is dropped and invalid UTF-8 is replaced
// rather than rejected. When LUT_3D_SIZE is present the sample count must be
// its cube; otherwise the size is inferred as the exact integer cube root of
// the sample count. Both failures are lut.KindSizeMismatch errors.
func Decode(r io.Reader) (*File, error) {
	sc := bufio.NewScanner(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	f := &File{}
	size := 0
	var samples []colorful.Color

	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch key := fields[0]; {
		case key == keyTitle:
			f.Title = parseTitle(line)
			continue
		case strings.HasPrefix(key, keyDomain):
			continue
		case key == keySize3D:
			if len(fields) < 2 {
				f.Skipped++
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, &SyntaxError{Line: lineNo, Msg: fmt.Sprintf("invalid %s value %q", keySize3D, fields[1])}
			}
			if n <= 0 || n > lut.MaxSize {
				return nil, &SyntaxError{Line: lineNo, Msg: fmt.Sprintf("%s out of range: %d", keySize3D, n)}
			}
			size = n
			f.Declared = true
			continue
		}

		c, ok := parseTriple(fields)
		if !ok {
			f.Skipped++
			continue
		}
		samples = append(samples, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cube: read: %w", err)
	}

	if f.Declared {
		if want := lut.Volume(size); len(samples) != want {
			return nil, &lut.Error{Kind: lut.KindSizeMismatch, Expected: want, Actual: len(samples)}
		}
	} else {
		n, ok := lut.CubeRoot(len(samples))
		if !ok || n == 0 {
			return nil, &lut.Error{
				Kind:   lut.KindSizeMismatch,
				Actual: len(samples),
				Msg:    fmt.Sprintf("no %s and %d samples do not form a cube", keySize3D, len(samples)),
			}
		}
		size = n
	}

	f.Table = lut.Table{Size: size, Samples: samples}
	return f, nil
}

// parseTitle returns the text after the TITLE keyword without quotes.
func parseTitle(line string) string {
	s := strings.TrimSpace(strings.TrimPrefix(line, keyTitle))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return s
}

func parseTriple(fields []string) (colorful.Color, bool) {
	if len(fields) != 3 {
		return colorful.Color{}, false
	}
	var v [3]float64
	for i, s := range fields {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return colorful.Color{}, false
		}
		v[i] = f
	}
	return colorful.Color{R: v[0], G: v[1], B: v[2]}, true
}
