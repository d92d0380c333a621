package lutconv

import (
	"errors"
	"fmt"
	"time"
)

// Outcome describes the conversion of one input file.
type Outcome struct {
	Input  string
	Output string

	// Size is the edge length of the converted table, 0 if decoding failed.
	Size int

	// Skipped counts CUBE lines dropped as unparseable.
	Skipped int

	// Inferred reports that a CUBE size came from the sample count rather
	// than LUT_3D_SIZE.
	Inferred bool

	Elapsed time.Duration
	Err     error
}

// OK reports whether the file converted successfully.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Report is the result of a batch.
type Report struct {
	Attempted int
	Succeeded int

	// Outcomes holds one entry per attempted file, in discovery order.
	Outcomes []Outcome
}

// Failed returns the number of attempted files that did not convert.
func (r *Report) Failed() int {
	return r.Attempted - r.Succeeded
}

// Err joins the per-file errors, each prefixed with its input path.
// It returns nil when every attempted file converted.
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Input, o.Err))
		}
	}
	return errors.Join(errs...)
}

func (r *Report) String() string {
	return fmt.Sprintf("converted %d/%d files", r.Succeeded, r.Attempted)
}
