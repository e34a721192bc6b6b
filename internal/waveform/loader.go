package waveform

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Delimiter separates the fields of a capture row.
const Delimiter = ','

// Capture is a multi-trace waveform: one time axis shared by every amplitude trace.
// Every trace has the same length as Time.
type Capture struct {
	Time   []float64   // Seconds, strictly increasing
	Traces [][]float64 // Volts or amps, one slice per scope channel
}

// Len returns the number of samples in the capture.
func (c *Capture) Len() int {
	return len(c.Time)
}

// LoadFile opens path, loads the capture and closes the file before returning.
func LoadFile(path string, delimiter rune) (capture *Capture, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening capture: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing capture: %w", cErr)
		}
	}()

	return Load(f, delimiter)
}

// Load parses a delimited capture from r. Lines rejected by the line filter are ignored,
// every other line must hold the same number of numeric fields as the first one.
// Column 0 becomes the time axis, the remaining columns become traces.
func Load(r io.Reader, delimiter rune) (*Capture, error) {
	sep := []byte(string(delimiter))
	lines := NewLineReader(r)

	var columns [][]float64
	for lines.Next() {
		fields := bytes.Split(lines.Current(), sep)

		if columns == nil {
			columns = make([][]float64, len(fields))
		} else if len(fields) != len(columns) {
			return nil, &ParseError{
				Line: lines.LineNumber(),
				Err:  fmt.Errorf("%w: expected %d fields, got %d", ErrFieldCount, len(columns), len(fields)),
			}
		}

		for i, field := range fields {
			value, err := strconv.ParseFloat(string(bytes.TrimSpace(field)), 64)
			if err != nil {
				return nil, &ParseError{Line: lines.LineNumber(), Column: i + 1, Err: err}
			}
			columns[i] = append(columns[i], value)
		}
	}
	if err := lines.Error(); err != nil {
		return nil, fmt.Errorf("reading capture: %w", err)
	}

	if len(columns) == 0 || len(columns[0]) < 2 {
		return nil, ErrTooFewSamples
	}

	return &Capture{
		Time:   columns[0],
		Traces: columns[1:],
	}, nil
}
