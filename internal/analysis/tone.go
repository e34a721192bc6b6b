package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
)

const (
	minToneSamples = 4
	toneFloor      = 1e-12 // Peaks below this amplitude are treated as silence
)

// Tone is the strongest non-DC spectral component of a trace.
type Tone struct {
	Frequency float64 // Hz, resolution is sampleRate / len(samples)
	Amplitude float64 // Peak amplitude, corrected for the window gain
}

// EstimateTone finds the dominant frequency of samples taken at sampleRate.
// The DC component is removed and a Hann window applied before a real FFT.
// It returns false for short inputs or flat signals.
func EstimateTone(samples []float64, sampleRate float64) (Tone, bool) {
	n := len(samples)
	if n < minToneSamples || !(sampleRate > 0) {
		return Tone{}, false
	}

	buf := make([]float64, n)
	copy(buf, samples)
	floats.AddConst(-floats.Sum(buf)/float64(n), buf)

	hann := window.Hann(n)
	floats.Mul(buf, hann)
	gain := floats.Sum(hann)

	spectrum := fft.FFTReal(buf)

	var peak int
	var peakMag float64
	for i := 1; i <= n/2; i++ {
		if m := cmplx.Abs(spectrum[i]); m > peakMag {
			peak, peakMag = i, m
		}
	}

	amplitude := 2 * peakMag / gain
	if peak == 0 || amplitude < toneFloor {
		return Tone{}, false
	}

	return Tone{
		Frequency: float64(peak) * sampleRate / float64(n),
		Amplitude: amplitude,
	}, true
}
