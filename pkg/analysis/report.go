// Package analysis computes diagnostic measurements for a single-cycle
// waveform. It runs a full FFT over the cycle, which makes it an independent
// cross-check of the direct harmonic transform used by the editor.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	"github.com/RyanBlaney/sonido-sonar/algorithms/spectral"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

// Report holds the measurements of one waveform cycle
type Report struct {
	SampleCount   int       `json:"sample_count" yaml:"sample_count"`
	Peak          float64   `json:"peak" yaml:"peak"`
	RMS           float64   `json:"rms" yaml:"rms"`
	DCOffset      float64   `json:"dc_offset" yaml:"dc_offset"`
	CrestFactor   float64   `json:"crest_factor" yaml:"crest_factor"`
	THD           float64   `json:"thd" yaml:"thd"`                       // total harmonic distortion relative to the fundamental
	ZeroCrossings int       `json:"zero_crossings" yaml:"zero_crossings"` // sign changes per cycle, wrap included
	Centroid      float64   `json:"centroid" yaml:"centroid"`             // magnitude-weighted mean harmonic number
	Harmonics     []float64 `json:"harmonics" yaml:"harmonics"`           // FFT amplitude per harmonic number 1..n
}

// Analyze measures w, reporting FFT amplitudes for the first harmonicCount
// harmonics. Harmonics above the Nyquist bin are reported as zero.
func Analyze(w *wave.Waveform, harmonicCount int) (*Report, error) {
	if harmonicCount <= 0 {
		return nil, fmt.Errorf("harmonic count must be positive, got %d", harmonicCount)
	}

	signal := Float64s(w)
	n := len(signal)

	peak := math.Max(math.Abs(floats.Max(signal)), math.Abs(floats.Min(signal)))
	mean := stat.Mean(signal, nil)
	rms := math.Sqrt(floats.Dot(signal, signal) / float64(n))

	report := &Report{
		SampleCount:   n,
		Peak:          peak,
		RMS:           rms,
		DCOffset:      mean,
		ZeroCrossings: zeroCrossings(signal),
		Harmonics:     make([]float64, harmonicCount),
	}
	if rms > 0 {
		report.CrestFactor = peak / rms
	}

	spectrum := spectral.NewFFT().Compute(signal)
	nyquist := n / 2

	magnitudes := make([]float64, nyquist+1)
	for bin := range magnitudes {
		magnitudes[bin] = cmplx.Abs(spectrum[bin])
	}
	// with the cycle length as sample rate, bin frequencies are harmonic numbers
	report.Centroid = spectral.NewSpectralCentroid(n).Compute(magnitudes)

	for k := range harmonicCount {
		bin := k + 1
		if bin > nyquist {
			break
		}
		amplitude := 2 * magnitudes[bin] / float64(n)
		if bin == nyquist {
			// the Nyquist bin has no mirrored negative frequency
			amplitude /= 2
		}
		report.Harmonics[k] = amplitude
	}

	if fundamental := report.Harmonics[0]; fundamental > 0 && len(report.Harmonics) > 1 {
		overtones := report.Harmonics[1:]
		report.THD = math.Sqrt(floats.Dot(overtones, overtones)) / fundamental
	}

	return report, nil
}

// Correlation returns the normalized (Pearson) correlation of two waveforms
// of equal length.
func Correlation(a, b *wave.Waveform) (float64, error) {
	if a.Len() != b.Len() {
		return 0, fmt.Errorf("waveform lengths differ: %d != %d", a.Len(), b.Len())
	}
	return stat.Correlation(Float64s(a), Float64s(b), nil), nil
}

// Float64s widens the samples of w to float64.
func Float64s(w *wave.Waveform) []float64 {
	samples := w.Samples()
	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = float64(v)
	}
	return out
}

// zeroCrossings counts sign changes around the loop, including the step from
// the last sample back to the first.
func zeroCrossings(signal []float64) int {
	n := len(signal)
	if n < 2 {
		return 0
	}
	loop := append(slices.Clone(signal), signal[0])
	rate := spectral.NewZeroCrossingRate(n).ComputeNormalized(loop)
	return int(math.Round(rate * float64(n)))
}
