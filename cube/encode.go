package cube

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/gogpu/lutconv/lut"
)

// DefaultComment is the generator line written when no comment is set.
const DefaultComment = "Generated by lutconv"

// Option configures Encode.
type Option func(*encodeOptions)

type encodeOptions struct {
	comment string
}

func defaultEncodeOptions() encodeOptions {
	return encodeOptions{comment: DefaultComment}
}

// WithComment sets the text of the generator comment line.
func WithComment(s string) Option {
	return func(o *encodeOptions) {
		o.comment = s
	}
}

// Encode writes t as CUBE text: a TITLE line, one comment line, LUT_3D_SIZE,
// then one "R G B" line per sample in table order with six fractional
// digits.
//
// Every component is clamped to [0, 1] first; NaN becomes 1. The clamp is
// lossy for out-of-range samples, which the CUBE domain cannot express.
func Encode(w io.Writer, title string, t *lut.Table, opts ...Option) error {
	if err := t.Validate(); err != nil {
		return err
	}
	o := defaultEncodeOptions()
	for _, opt := range opts {
		opt(&o)
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(keyTitle + " \"" + sanitize(title, true) + "\"\n")
	bw.WriteString("# " + sanitize(o.comment, false) + "\n")
	bw.WriteString(keySize3D + " " + strconv.Itoa(t.Size) + "\n")

	// Each line is at most "1.000000 1.000000 1.000000\n".
	line := make([]byte, 0, 32)
	for _, s := range t.Samples {
		c := lut.Clamp(s)
		line = strconv.AppendFloat(line[:0], c.R, 'f', 6, 64)
		line = append(line, ' ')
		line = strconv.AppendFloat(line, c.G, 'f', 6, 64)
		line = append(line, ' ')
		line = strconv.AppendFloat(line, c.B, 'f', 6, 64)
		line = append(line, '\n')
		bw.Write(line)
	}
	return bw.Flush()
}

// sanitize keeps header text on one line and, for titles, free of quotes.
func sanitize(s string, title bool) string {
	s = strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
	if title {
		s = strings.ReplaceAll(s, "\"", "'")
	}
	return s
}
