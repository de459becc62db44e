package presets

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

// Generator produces a fresh single-cycle waveform of sampleCount samples
type Generator func(sampleCount int) (*wave.Waveform, error)

var generators = map[string]Generator{
	"sine":     Sine,
	"saw":      Saw,
	"square":   Square,
	"triangle": Triangle,
}

// Names returns the registered preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Generate builds the named preset.
func Generate(name string, sampleCount int) (*wave.Waveform, error) {
	gen, ok := generators[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (valid: %s)", name, strings.Join(Names(), ", "))
	}
	return gen(sampleCount)
}

// Sine is one cycle of sin(2πi/N).
func Sine(sampleCount int) (*wave.Waveform, error) {
	return fill(sampleCount, func(i, n int) float64 {
		return math.Sin(wave.TwoPi * float64(i) / float64(n))
	})
}

// Saw ramps linearly from -1 toward 1. The last sample is pulled back to the
// first so the cycle wraps without a jump.
func Saw(sampleCount int) (*wave.Waveform, error) {
	w, err := fill(sampleCount, func(i, n int) float64 {
		return float64(i)/float64(n)*2 - 1
	})
	if err != nil {
		return nil, err
	}
	w.EnsureContinuity()
	return w, nil
}

// Square holds +1 for the first half of the cycle and -1 for the second.
func Square(sampleCount int) (*wave.Waveform, error) {
	return fill(sampleCount, func(i, n int) float64 {
		if i < n/2 {
			return 1
		}
		return -1
	})
}

// Triangle rises 0→1 over the first quarter, falls 1→-1 over the middle
// half and rises -1→0 over the last quarter.
func Triangle(sampleCount int) (*wave.Waveform, error) {
	return fill(sampleCount, func(i, n int) float64 {
		phase := float64(i) / float64(n)
		switch {
		case phase < 0.25:
			return 4 * phase
		case phase < 0.75:
			return 2 - 4*phase
		default:
			return 4*phase - 4
		}
	})
}

// Custom sums sine partials where amplitudes[h] weights harmonic number h+1,
// then peak normalizes the result.
func Custom(sampleCount int, amplitudes []float64) (*wave.Waveform, error) {
	if !wave.IsPowerOfTwo(sampleCount) {
		return nil, invalidLength(sampleCount)
	}

	n := float64(sampleCount)
	values := make([]float64, sampleCount)
	var peak float64
	for i := range values {
		var v float64
		for h, a := range amplitudes {
			v += a * math.Sin(wave.TwoPi*float64(h+1)*float64(i)/n)
		}
		values[i] = v
		peak = math.Max(peak, math.Abs(v))
	}

	samples := make([]float32, sampleCount)
	for i, v := range values {
		if peak > 0 {
			v /= peak
		}
		samples[i] = float32(v)
	}
	return wave.NewFromSamples(samples)
}

func fill(sampleCount int, f func(i, n int) float64) (*wave.Waveform, error) {
	if !wave.IsPowerOfTwo(sampleCount) {
		return nil, invalidLength(sampleCount)
	}
	samples := make([]float32, sampleCount)
	for i := range samples {
		samples[i] = float32(f(i, sampleCount))
	}
	return wave.NewFromSamples(samples)
}

func invalidLength(sampleCount int) error {
	return fmt.Errorf("cannot generate preset: %w", &wave.Error{
		Code:   wave.ErrCodeInvalidLength,
		Op:     "presets.Generate",
		Index:  -1,
		Length: sampleCount,
	})
}
