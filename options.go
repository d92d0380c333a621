package lutconv

import (
	"github.com/gogpu/lutconv/cube"
	"github.com/gogpu/lutconv/lut"
)

// Option configures a Converter.
//
// Example:
//
//	c := lutconv.NewConverter(
//	    lutconv.WithWorkers(4),
//	    lutconv.WithRawSize(33),
//	)
type Option func(*options)

type options struct {
	workers  int
	rawSize  int
	comment  string
	observer func(Outcome)
}

func defaultOptions() options {
	return options{
		workers: 1,
		rawSize: lut.DefaultSize,
		comment: cube.DefaultComment,
	}
}

// WithWorkers sets how many files are converted at once. Values below 2 keep
// the batch sequential.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = max(n, 1)
	}
}

// WithRawSize sets the edge length assumed for vendor dumps, which carry no
// header. The default is lut.DefaultSize (64). Sizes outside
// [1, lut.MaxSize] make RawToCube and RawToStrip fail with
// lut.ErrInvalidSize before any file is read.
func WithRawSize(n int) Option {
	return func(o *options) {
		o.rawSize = n
	}
}

// WithComment sets the generator comment written into CUBE output.
func WithComment(s string) Option {
	return func(o *options) {
		o.comment = s
	}
}

// WithObserver registers a callback invoked once per finished file, in
// completion order. Calls are serialized even when WithWorkers is above 1.
func WithObserver(fn func(Outcome)) Option {
	return func(o *options) {
		o.observer = fn
	}
}
