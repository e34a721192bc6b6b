package analysis

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/wavescope/internal/logging"
	"github.com/roman-kulish/wavescope/internal/measure"
	"github.com/roman-kulish/wavescope/internal/waveform"
)

// ErrNoTraces is returned when a capture carries a time axis only
var ErrNoTraces = errors.New("capture has no traces")

// TraceResult holds the statistics and the presentation slices of one trace.
type TraceResult struct {
	Index int     // 1-based position of the trace in the capture
	Label string  // Resolved by Classify
	RMS   float64 // Over the stats window
	Mean  float64 // Over the stats window

	Tone      Tone // Dominant component in the stats window, valid if HasTone
	HasTone   bool
	Time      []float64 // Time axis over the plot window
	Amplitude []float64 // Trace values over the plot window
}

// Report is the outcome of analyzing a single capture.
type Report struct {
	Timing
	Traces []TraceResult
}

// WithLogger sets the logger used to report analysis progress
func WithLogger(logger *slog.Logger) func(*Analyzer) {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithToneEstimation enables or disables dominant tone estimation, enabled by default
func WithToneEstimation(enabled bool) func(*Analyzer) {
	return func(a *Analyzer) {
		a.estimateTones = enabled
	}
}

// Analyzer computes per-trace statistics and labels of a capture.
type Analyzer struct {
	logger        *slog.Logger
	estimateTones bool
}

// New creates an Analyzer with a discard logger
func New(options ...func(*Analyzer)) *Analyzer {
	a := Analyzer{
		logger:        logging.Discard(),
		estimateTones: true,
	}

	for _, option := range options {
		option(&a)
	}

	return &a
}

// Analyze windows the capture from its sample rate and symbolRate (Hz), computes RMS and
// mean of every trace over the stats window and labels each trace by its mean.
// The plotted slices cover the shorter plot window.
func (a *Analyzer) Analyze(capture *waveform.Capture, symbolRate float64) (*Report, error) {
	if len(capture.Traces) == 0 {
		return nil, ErrNoTraces
	}

	timing, err := ComputeTiming(capture.Time, symbolRate)
	if err != nil {
		return nil, fmt.Errorf("computing timing: %w", err)
	}

	a.logger.Info(fmt.Sprintf("recovered %s samples at %s over %s",
		humanize.Comma(int64(timing.Samples)),
		humanize.SIWithDigits(timing.SampleRate, 2, "S/s"),
		humanize.SIWithDigits(timing.Duration, 2, "s")))

	a.logger.Info(fmt.Sprintf("%d %s, expecting %s carrier and %s symbol rate",
		len(capture.Traces), pluralize(len(capture.Traces), "waveform", "waveforms"),
		humanize.SIWithDigits(timing.CarrierFrequency, 4, "Hz"),
		humanize.SIWithDigits(timing.SymbolRate, 2, "Hz")))

	a.logger.Debug("analysis windows",
		slog.Int("samplesPerCarrier", timing.SamplesPerCarrier),
		slog.Int("samplesPerSymbol", timing.SamplesPerSymbol),
		slog.String("plotWindow", timing.PlotWindow.String()),
		slog.String("statsWindow", timing.StatsWindow.String()))

	stats := timing.StatsWindow
	if stats.Len() < 2 {
		return nil, fmt.Errorf("%w: stats window %s holds %d samples", measure.ErrDegenerateWindow, stats, stats.Len())
	}

	plot := timing.PlotWindow
	x := capture.Time[stats.Min:stats.Max]

	results := make([]TraceResult, len(capture.Traces))
	for i, trace := range capture.Traces {
		num := i + 1
		if len(trace) != len(capture.Time) {
			return nil, fmt.Errorf("trace %d: %w", num, measure.ErrLengthMismatch)
		}

		y := trace[stats.Min:stats.Max]

		rms, err := measure.RMS(y, x)
		if err != nil {
			return nil, fmt.Errorf("trace %d: computing RMS: %w", num, err)
		}

		mean, err := measure.Mean(y, x)
		if err != nil {
			return nil, fmt.Errorf("trace %d: computing mean: %w", num, err)
		}

		a.logger.Info(fmt.Sprintf("Waveform %d: RMS %s, MEAN %s", num, engineering(rms), engineering(mean)))

		result := TraceResult{
			Index:     num,
			Label:     Classify(mean, num),
			RMS:       rms,
			Mean:      mean,
			Time:      capture.Time[plot.Min:plot.Max:plot.Max],
			Amplitude: trace[plot.Min:plot.Max:plot.Max],
		}

		if a.estimateTones {
			result.Tone, result.HasTone = EstimateTone(y, timing.SampleRate)
			if result.HasTone {
				a.logger.Debug(fmt.Sprintf("Waveform %d: dominant tone %s", num, humanize.SIWithDigits(result.Tone.Frequency, 3, "Hz")),
					slog.String("amplitude", engineering(result.Tone.Amplitude)))
			}
		}

		results[i] = result
	}

	return &Report{
		Timing: timing,
		Traces: results,
	}, nil
}

func engineering(v float64) string {
	return humanize.SIWithDigits(v, 3, "")
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
