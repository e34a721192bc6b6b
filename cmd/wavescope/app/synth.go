package app

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roman-kulish/wavescope/internal/analysis"
)

const (
	defaultSynthSamples    = 30_000
	defaultSynthSampleRate = 100e6
	defaultSynthAmplitude  = 0.5
	defaultSynthOutput     = "synthetic.csv"
)

// Sine describes a periodic source, DcLevel + Amplitude*sin(2*pi*Freq*t + Phase)
type Sine struct {
	DcLevel,
	Amplitude,
	Freq,
	Phase float64
}

// At evaluates the source at t seconds
func (s Sine) At(t float64) float64 {
	return s.DcLevel + s.Amplitude*math.Sin(2*math.Pi*s.Freq*t+s.Phase)
}

// SynthConfig describes a synthetic capture
type SynthConfig struct {
	Samples    int
	SampleRate float64 // Samples per second
	Amplitude  float64 // Peak of the RF current trace
}

// SyntheticSources returns the traces written by WriteSynthetic: RF current on the
// carrier, a 5V logic rail with a little ripple and a 12V bias.
func SyntheticSources(amplitude float64) []Sine {
	return []Sine{
		{Amplitude: amplitude, Freq: analysis.CarrierFrequency},
		{DcLevel: 5, Amplitude: 0.05, Freq: 100e3},
		{DcLevel: 12},
	}
}

// WriteSynthetic writes a capture in the input format, preceded by a comment line
// and a blank line.
func WriteSynthetic(w io.Writer, config SynthConfig) error {
	if config.Samples < 2 {
		return fmt.Errorf("%w: %d samples, at least 2 required", ErrValueOutOfRange, config.Samples)
	}
	if !(config.SampleRate > 0) || math.IsInf(config.SampleRate, 0) {
		return fmt.Errorf("%w: sample rate %g", ErrValueOutOfRange, config.SampleRate)
	}

	sources := SyntheticSources(config.Amplitude)

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "# synthetic capture: %d traces at %s\n\n",
		len(sources), humanize.SIWithDigits(config.SampleRate, 2, "S/s")); err != nil {
		return err
	}

	cw := csv.NewWriter(bw)
	record := make([]string, len(sources)+1)
	for i := 0; i < config.Samples; i++ {
		t := float64(i) / config.SampleRate

		record[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for j, src := range sources {
			record[j+1] = strconv.FormatFloat(src.At(t), 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing sample %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

// parseSampleRate accepts plain or SI-prefixed rates, optionally in S/s or Hz
func parseSampleRate(s string) (float64, error) {
	v, unit, err := humanize.ParseSI(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parsing sample rate '%s': %w", s, err)
	}
	switch unit {
	case "", "S/s", "Hz":
		return v, nil
	}
	return 0, fmt.Errorf("parsing sample rate '%s': unexpected unit '%s'", s, unit)
}

func newSynthCommand(logger *slog.Logger) *cobra.Command {
	config := SynthConfig{
		Samples:   defaultSynthSamples,
		Amplitude: defaultSynthAmplitude,
	}

	var (
		outputFile string
		sampleRate string
	)

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write a synthetic capture with RF current, logic rail and bias traces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if config.SampleRate, err = parseSampleRate(sampleRate); err != nil {
				return err
			}

			out, err := os.Create(outputFile)
			if err != nil {
				return err
			}
			defer func() {
				if cErr := out.Close(); cErr != nil && err == nil {
					err = cErr
				}
			}()

			if err = WriteSynthetic(out, config); err != nil {
				return errors.Join(err, os.Remove(outputFile))
			}

			logger.Info(fmt.Sprintf("wrote %s samples to %s", humanize.Comma(int64(config.Samples)), outputFile))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&outputFile, "output", "o", defaultSynthOutput, "Path to the capture file")
	flags.IntVar(&config.Samples, "samples", defaultSynthSamples, "Number of samples")
	flags.StringVar(&sampleRate, "sample-rate", humanize.SIWithDigits(defaultSynthSampleRate, 0, "S/s"), "Sample rate, SI prefixes allowed")
	flags.Float64Var(&config.Amplitude, "amplitude", defaultSynthAmplitude, "Peak amplitude of the RF current trace")

	return cmd
}
