package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/roman-kulish/wavescope/internal/waveform"
)

const (
	// CarrierFrequency is the assumed carrier of the captured signal in Hz.
	// It is not derived from the data and only sizes the analysis windows.
	CarrierFrequency = 10.6625e6

	plotSymbols       = 5  // Symbols covered by the plotted window
	statsWindowFactor = 20 // Stats window length relative to the plotted window
)

var (
	// ErrInvalidSampleInterval is returned when the first two timestamps are not increasing
	ErrInvalidSampleInterval = errors.New("first sample interval must be positive")

	// ErrInvalidSymbolRate is returned for a zero, negative or non-finite symbol rate
	ErrInvalidSymbolRate = errors.New("symbol rate must be positive")
)

// Window is the index range [Min, Max) of a capture.
type Window struct {
	Min int
	Max int
}

// Len returns the number of samples in the window.
func (w Window) Len() int {
	return w.Max - w.Min
}

func (w Window) String() string {
	return fmt.Sprintf("[%d, %d)", w.Min, w.Max)
}

// Timing describes the sampling of a capture and the windows derived from it.
type Timing struct {
	Samples           int     // Number of samples in the capture
	Duration          float64 // Seconds between the first and the last sample
	SampleRate        float64 // Samples per second, from the first interval only
	CarrierFrequency  float64 // Hz
	SymbolRate        float64 // Hz
	SamplesPerCarrier int     // Samples per carrier cycle
	SamplesPerSymbol  int     // Samples per symbol
	PlotWindow        Window  // About five symbols, presented to the operator
	StatsWindow       Window  // Twenty times the plot window, used for RMS and mean
}

// ComputeTiming derives the sample rate and the analysis windows of the time axis t.
// Only the first sample interval is used; uniform sampling is assumed, not validated.
func ComputeTiming(t []float64, symbolRate float64) (Timing, error) {
	if len(t) < 2 {
		return Timing{}, waveform.ErrTooFewSamples
	}
	if !(symbolRate > 0) || math.IsInf(symbolRate, 0) {
		return Timing{}, fmt.Errorf("%w: %g", ErrInvalidSymbolRate, symbolRate)
	}

	interval := t[1] - t[0]
	if !(interval > 0) {
		return Timing{}, fmt.Errorf("%w: %g", ErrInvalidSampleInterval, interval)
	}

	n := len(t)
	fsam := 1 / interval

	// computed in floating point so that huge rates clamp instead of overflowing int
	plotMax := math.Round(plotSymbols * fsam / symbolRate)
	statsMax := statsWindowFactor * plotMax

	return Timing{
		Samples:           n,
		Duration:          t[n-1] - t[0],
		SampleRate:        fsam,
		CarrierFrequency:  CarrierFrequency,
		SymbolRate:        symbolRate,
		SamplesPerCarrier: int(fsam / CarrierFrequency),
		SamplesPerSymbol:  int(fsam / symbolRate),
		PlotWindow:        Window{Min: 0, Max: clampIndex(plotMax, n)},
		StatsWindow:       Window{Min: 0, Max: clampIndex(statsMax, n)},
	}, nil
}

func clampIndex(v float64, n int) int {
	if v >= float64(n) {
		return n
	}
	return int(v)
}
