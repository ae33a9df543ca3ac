package series

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedSample indicates a row that is short, non-numeric or out of time order.
	ErrMalformedSample = errors.New("series: malformed sample")

	// ErrMissingInputFile indicates the coordinate file could not be opened.
	ErrMissingInputFile = errors.New("series: missing input file")

	// ErrEmptySeries indicates a file without a single sample row.
	ErrEmptySeries = errors.New("series: no samples")
)

// SampleError wraps a load failure with the offending line.
type SampleError struct {
	Line    int
	Field   int
	Reason  string
	Wrapped error
}

func (e *SampleError) Error() string {
	if e.Field > 0 {
		return fmt.Sprintf("line %d, field %d: %s: %v", e.Line, e.Field, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Reason, e.Wrapped)
}

func (e *SampleError) Unwrap() error {
	return e.Wrapped
}
