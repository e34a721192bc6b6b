package waveform

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldCount is returned when a row holds a different number of fields than the first row
	ErrFieldCount = errors.New("inconsistent field count")

	// ErrTooFewSamples is returned when a capture holds less than two rows
	ErrTooFewSamples = errors.New("capture must hold at least two samples")
)

// ParseError reports a row of the capture file that could not be converted into samples.
type ParseError struct {
	Line   int   // 1-based line number in the raw input
	Column int   // 1-based column, 0 if the whole row is at fault
	Err    error // Underlying cause
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("parsing line %d, column %d: %s", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parsing line %d: %s", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
