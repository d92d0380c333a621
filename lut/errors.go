package lut

import (
	"errors"
	"fmt"
)

// ErrorKind classifies codec failures.
type ErrorKind uint8

const (
	// KindNone is reported by KindOf for nil or unclassified errors.
	KindNone ErrorKind = iota

	// KindSizeMismatch means the declared or inferred edge length does not
	// match the number of samples, or no integer edge length exists.
	KindSizeMismatch

	// KindCountMismatch means a writer was handed a sample count other
	// than N³.
	KindCountMismatch

	// KindIncompleteRead means a raw buffer held fewer pixels than expected.
	KindIncompleteRead

	// KindInvalidSize means the edge length itself is not positive.
	KindInvalidSize
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSizeMismatch:
		return "size mismatch"
	case KindCountMismatch:
		return "count mismatch"
	case KindIncompleteRead:
		return "incomplete read"
	case KindInvalidSize:
		return "invalid size"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrSizeMismatch   = &Error{Kind: KindSizeMismatch}
	ErrCountMismatch  = &Error{Kind: KindCountMismatch}
	ErrIncompleteRead = &Error{Kind: KindIncompleteRead}
	ErrInvalidSize    = &Error{Kind: KindInvalidSize}
)

// Error is a codec failure carrying expected and actual counts.
type Error struct {
	Kind     ErrorKind
	Expected int
	Actual   int
	Msg      string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" {
		return "lut: " + e.Kind.String() + ": " + e.Msg
	}
	switch e.Kind {
	case KindSizeMismatch, KindCountMismatch:
		return fmt.Sprintf("lut: %s: expected %d samples, got %d", e.Kind, e.Expected, e.Actual)
	case KindIncompleteRead:
		return fmt.Sprintf("lut: %s: expected %d pixels, decoded %d", e.Kind, e.Expected, e.Actual)
	case KindInvalidSize:
		return fmt.Sprintf("lut: %s: edge length %d", e.Kind, e.Actual)
	default:
		return "lut: " + e.Kind.String()
	}
}

// Is matches any *Error with the same kind, so the package sentinels work
// with errors.Is regardless of the counts carried.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t != nil && e.Kind == t.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or KindNone.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}
