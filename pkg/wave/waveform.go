package wave

import (
	"math"
	"math/bits"
)

// Waveform is a single cycle of audio samples. The sample count is a power of
// two and never changes; every stored value lies within [-1, 1].
type Waveform struct {
	samples []float32
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

// New creates a silent waveform of sampleCount samples.
func New(sampleCount int) (*Waveform, error) {
	if !IsPowerOfTwo(sampleCount) {
		return nil, newInvalidLength("wave.New", sampleCount)
	}
	return &Waveform{samples: make([]float32, sampleCount)}, nil
}

// NewFromSamples creates a waveform holding a clamped copy of samples.
func NewFromSamples(samples []float32) (*Waveform, error) {
	if !IsPowerOfTwo(len(samples)) {
		return nil, newInvalidLength("wave.NewFromSamples", len(samples))
	}
	w := &Waveform{samples: make([]float32, len(samples))}
	for i, v := range samples {
		w.samples[i] = clampSample(v)
	}
	return w, nil
}

// Len returns the number of samples in the cycle.
func (w *Waveform) Len() int {
	return len(w.samples)
}

// Sample returns the sample at index i.
func (w *Waveform) Sample(i int) (float32, error) {
	if i < 0 || i >= len(w.samples) {
		return 0, newOutOfRange("Waveform.Sample", i, len(w.samples))
	}
	return w.samples[i], nil
}

// SetSample stores v at index i, clamping it into [-1, 1].
func (w *Waveform) SetSample(i int, v float32) error {
	if i < 0 || i >= len(w.samples) {
		return newOutOfRange("Waveform.SetSample", i, len(w.samples))
	}
	w.samples[i] = clampSample(v)
	return nil
}

// Samples returns a copy of the sample buffer.
func (w *Waveform) Samples() []float32 {
	out := make([]float32, len(w.samples))
	copy(out, w.samples)
	return out
}

// Interpolate reads the cycle at a continuous position. The position wraps
// modulo the sample count and the value is linearly interpolated between the
// two bracketing samples, wrapping from the last sample back to the first.
func (w *Waveform) Interpolate(position float64) float32 {
	n := float64(len(w.samples))
	p := math.Mod(position, n)
	if p < 0 {
		p += n
	}
	// math.Mod can round a tiny negative up to exactly n
	if p >= n {
		p = 0
	}

	i0 := int(p)
	i1 := (i0 + 1) % len(w.samples)
	frac := float32(p - float64(i0))

	return w.samples[i0]*(1-frac) + w.samples[i1]*frac
}

// EnsureContinuity makes the last sample equal the first so the cycle loops
// without a step.
func (w *Waveform) EnsureContinuity() {
	w.samples[len(w.samples)-1] = w.samples[0]
}

// Smooth blends each sample toward the average of its circular neighbours.
// Amounts outside (0, 1] leave the waveform unchanged.
func (w *Waveform) Smooth(amount float32) {
	if amount <= 0 || amount > 1 {
		return
	}

	n := len(w.samples)
	src := make([]float32, n)
	copy(src, w.samples)

	for i := range n {
		prev := src[(i-1+n)%n]
		next := src[(i+1)%n]
		avg := (prev + next) / 2
		w.samples[i] = clampSample(src[i]*(1-amount) + avg*amount)
	}
}

// Peak returns the largest absolute sample value.
func (w *Waveform) Peak() float32 {
	var peak float32
	for _, v := range w.samples {
		if a := float32(math.Abs(float64(v))); a > peak {
			peak = a
		}
	}
	return peak
}

// Normalize scales the waveform so its peak absolute value is 1. Silent
// waveforms and waveforms already at unit peak are left alone.
func (w *Waveform) Normalize() {
	peak := w.Peak()
	if peak == 0 || peak == 1 {
		return
	}
	for i, v := range w.samples {
		w.samples[i] = clampSample(v / peak)
	}
}

// Clone returns an independent deep copy.
func (w *Waveform) Clone() *Waveform {
	return &Waveform{samples: w.Samples()}
}

// CopyFrom overwrites w with the samples of src. Both waveforms must have the
// same length.
func (w *Waveform) CopyFrom(src *Waveform) error {
	if len(src.samples) != len(w.samples) {
		return newInvalidLength("Waveform.CopyFrom", len(src.samples))
	}
	copy(w.samples, src.samples)
	return nil
}

func clampSample(v float32) float32 {
	if math.IsNaN(float64(v)) {
		return 0
	}
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
