package analysis

import (
	"math"
	"testing"
)

func TestEstimateTone(t *testing.T) {
	const (
		sampleRate = 64e3
		freq       = 1e3
		n          = 640 // ten periods, 100 Hz bins
	)

	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 2.5 + 0.8*math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}

	tone, ok := EstimateTone(samples, sampleRate)
	if !ok {
		t.Fatal("Expected a tone")
	}
	if math.Abs(tone.Frequency-freq) > sampleRate/n {
		t.Errorf("Expected %g Hz, got %g Hz", freq, tone.Frequency)
	}
	if math.Abs(tone.Amplitude-0.8) > 0.08 {
		t.Errorf("Expected amplitude ~0.8, got %g", tone.Amplitude)
	}
}

func TestEstimateTone_NoTone(t *testing.T) {
	testCases := []struct {
		name       string
		samples    []float64
		sampleRate float64
	}{
		{"flat", []float64{3, 3, 3, 3, 3, 3, 3, 3}, 1e3},
		{"too short", []float64{1, -1, 1}, 1e3},
		{"zero rate", []float64{1, -1, 1, -1, 1, -1}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tone, ok := EstimateTone(tc.samples, tc.sampleRate); ok {
				t.Errorf("Expected no tone, got %+v", tone)
			}
		})
	}
}
