package waveform

import (
	"bufio"
	"io"
	"regexp"
)

// maxLineLength bounds a single raw line; wide multi-trace exports fit comfortably.
const maxLineLength = 1024 * 1024

// dataLine matches lines that look like "value,value,...". Header, comment and blank
// lines usually do not carry a comma surrounded by content and are skipped.
var dataLine = regexp.MustCompile(`^.+,.+`)

// IsDataLine reports whether line has a comma with at least one character on each side.
// It does not check that the fields are numeric.
func IsDataLine(line []byte) bool {
	return dataLine.Match(line)
}

// LineReader is a single-pass filter over raw input lines that yields only data lines.
// It is not restartable: once Next returns false the reader is exhausted.
type LineReader struct {
	scanner *bufio.Scanner
	line    []byte
	lineNo  int
	err     error
}

// NewLineReader creates a LineReader consuming r.
func NewLineReader(r io.Reader) *LineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	return &LineReader{scanner: scanner}
}

// Next advances to the next data line, skipping anything IsDataLine rejects.
// It returns false at the end of the input or on a read error.
func (lr *LineReader) Next() bool {
	for lr.scanner.Scan() {
		lr.lineNo++

		line := lr.scanner.Bytes()
		if !IsDataLine(line) {
			continue
		}

		lr.line = line
		return true
	}

	lr.line = nil
	lr.err = lr.scanner.Err()
	return false
}

// Current returns the current data line. The slice is only valid until the next call to Next.
func (lr *LineReader) Current() []byte {
	return lr.line
}

// LineNumber returns the 1-based raw line number of the current data line.
func (lr *LineReader) LineNumber() int {
	return lr.lineNo
}

// Error returns the read error that stopped the iteration, if any.
func (lr *LineReader) Error() error {
	return lr.err
}
