// Package transform converts a single-cycle waveform to and from its harmonic
// series. The analysis is a direct discrete transform evaluated only at the
// harmonic bins, so its cost is O(N·H) for N samples and H harmonics. H is
// small (tens of harmonics) for an editor, which keeps the direct form cheap.
package transform

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

// The correlation against exp(-iθ) yields cosine phases. Synthesis sums
// sines, so analysis shifts every phase by a quarter turn: a partial
// a·sin(kθ+φ) analyzes back to exactly (a, φ).
const sinePhaseOffset = math.Pi / 2

// ToFrequencyDomain analyzes w into harmonicCount harmonics. Harmonic index k
// is harmonic number k+1 of the cycle.
//
// Phases are sine phases, atan2(imag, real) + π/2, so ToTimeDomain inverts
// the analysis. A pure sine reads phase 0 and a cosine reads π/2.
func ToFrequencyDomain(w *wave.Waveform, harmonicCount int, fundamental float64) (*wave.Spectrum, error) {
	spectrum, err := wave.NewSpectrum(harmonicCount, fundamental)
	if err != nil {
		return nil, err
	}

	samples := w.Samples()
	n := float64(len(samples))

	for k := range harmonicCount {
		harmonic := float64(k + 1)

		var re, im float64
		for i, s := range samples {
			angle := -wave.TwoPi * harmonic * float64(i) / n
			re += float64(s) * math.Cos(angle)
			im += float64(s) * math.Sin(angle)
		}
		re /= n
		im /= n

		amplitude := 2 * math.Sqrt(re*re+im*im)
		phase := math.Atan2(im, re) + sinePhaseOffset

		if err := spectrum.SetHarmonic(k, amplitude, phase); err != nil {
			return nil, fmt.Errorf("failed to store harmonic %d: %w", k, err)
		}
	}

	return spectrum, nil
}

// ToTimeDomain synthesizes one cycle of sampleCount samples from s by summing
// a sine per nonzero harmonic. The result is peak normalized so that
// constructive sums never clip.
func ToTimeDomain(s *wave.Spectrum, sampleCount int) (*wave.Waveform, error) {
	if !wave.IsPowerOfTwo(sampleCount) {
		return nil, fmt.Errorf("cannot synthesize waveform: %w", &wave.Error{
			Code:   wave.ErrCodeInvalidLength,
			Op:     "transform.ToTimeDomain",
			Index:  -1,
			Length: sampleCount,
		})
	}

	harmonics := s.Harmonics()
	n := float64(sampleCount)
	buf := make([]float64, sampleCount)

	for k, h := range harmonics {
		if h.Amplitude == 0 {
			continue
		}
		harmonic := float64(k + 1)
		for i := range buf {
			angle := wave.TwoPi*harmonic*float64(i)/n + h.Phase
			buf[i] += h.Amplitude * math.Sin(angle)
		}
	}

	// Normalize before narrowing to float32 so that sums above 1 survive the
	// waveform's clamp.
	var peak float64
	for _, v := range buf {
		peak = math.Max(peak, math.Abs(v))
	}

	samples := make([]float32, sampleCount)
	for i, v := range buf {
		if peak > 0 {
			v /= peak
		}
		samples[i] = float32(v)
	}

	return wave.NewFromSamples(samples)
}

// ApplySmoothing returns a smoothed copy of w. The input is not modified.
func ApplySmoothing(w *wave.Waveform, amount float32) *wave.Waveform {
	out := w.Clone()
	out.Smooth(amount)
	return out
}

// BandLimit returns a copy of s with every harmonic at index cutoff and above
// silenced.
func BandLimit(s *wave.Spectrum, cutoff int) *wave.Spectrum {
	out := s.Clone()
	for i := max(cutoff, 0); i < out.Len(); i++ {
		// index is in range by construction
		_ = out.SetHarmonic(i, 0, 0)
	}
	return out
}
