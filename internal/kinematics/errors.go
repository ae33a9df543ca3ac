package kinematics

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange indicates a sample index outside [0, Len).
var ErrIndexOutOfRange = errors.New("kinematics: sample index out of range")

// IndexError carries the rejected index.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%v: %d not in [0, %d)", ErrIndexOutOfRange, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
