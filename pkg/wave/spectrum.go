package wave

import "math"

// TwoPi is one full cycle in radians.
const TwoPi = 2 * math.Pi

// Harmonic is the amplitude and phase of one harmonic partial
type Harmonic struct {
	Amplitude float64 `json:"amplitude" yaml:"amplitude"`
	Phase     float64 `json:"phase" yaml:"phase"`
}

// Spectrum is a fixed-length harmonic series. Index i holds harmonic number
// i+1, so index 0 is the fundamental.
type Spectrum struct {
	harmonics   []Harmonic
	fundamental float64
}

// NewSpectrum creates a silent spectrum. The fundamental frequency is kept for
// reference only and plays no part in the transform math.
func NewSpectrum(harmonicCount int, fundamental float64) (*Spectrum, error) {
	if harmonicCount <= 0 {
		return nil, newInvalidLength("wave.NewSpectrum", harmonicCount)
	}
	return &Spectrum{
		harmonics:   make([]Harmonic, harmonicCount),
		fundamental: fundamental,
	}, nil
}

// Len returns the number of harmonics.
func (s *Spectrum) Len() int {
	return len(s.harmonics)
}

// Fundamental returns the reference fundamental frequency in Hz.
func (s *Spectrum) Fundamental() float64 {
	return s.fundamental
}

// SetFundamental updates the reference fundamental frequency.
func (s *Spectrum) SetFundamental(hz float64) {
	s.fundamental = hz
}

// Harmonic returns the harmonic at index i.
func (s *Spectrum) Harmonic(i int) (Harmonic, error) {
	if i < 0 || i >= len(s.harmonics) {
		return Harmonic{}, newOutOfRange("Spectrum.Harmonic", i, len(s.harmonics))
	}
	return s.harmonics[i], nil
}

// SetHarmonic stores a harmonic. Amplitude is clamped into [0, 1]. Phase is
// reduced with math.Mod, which keeps the sign of its input: a negative phase
// stays negative and lands in (-2π, 0].
func (s *Spectrum) SetHarmonic(i int, amplitude, phase float64) error {
	if i < 0 || i >= len(s.harmonics) {
		return newOutOfRange("Spectrum.SetHarmonic", i, len(s.harmonics))
	}
	s.harmonics[i] = Harmonic{
		Amplitude: clampAmplitude(amplitude),
		Phase:     wrapPhase(phase),
	}
	return nil
}

// Harmonics returns a copy of the harmonic series.
func (s *Spectrum) Harmonics() []Harmonic {
	out := make([]Harmonic, len(s.harmonics))
	copy(out, s.harmonics)
	return out
}

// Clear silences every harmonic.
func (s *Spectrum) Clear() {
	for i := range s.harmonics {
		s.harmonics[i] = Harmonic{}
	}
}

// Normalize scales amplitudes so they sum to 1.
func (s *Spectrum) Normalize() {
	var sum float64
	for _, h := range s.harmonics {
		sum += h.Amplitude
	}
	if sum == 0 || sum == 1 {
		return
	}
	for i := range s.harmonics {
		s.harmonics[i].Amplitude /= sum
	}
}

// Clone returns an independent deep copy.
func (s *Spectrum) Clone() *Spectrum {
	return &Spectrum{
		harmonics:   s.Harmonics(),
		fundamental: s.fundamental,
	}
}

// CopyFrom overwrites s with the contents of src. Both spectra must have the
// same harmonic count.
func (s *Spectrum) CopyFrom(src *Spectrum) error {
	if len(src.harmonics) != len(s.harmonics) {
		return newInvalidLength("Spectrum.CopyFrom", len(src.harmonics))
	}
	copy(s.harmonics, src.harmonics)
	s.fundamental = src.fundamental
	return nil
}

func clampAmplitude(a float64) float64 {
	if math.IsNaN(a) || a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

func wrapPhase(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return math.Mod(p, TwoPi)
}
