package wave

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSpectrum(t *testing.T) {
	s, err := NewSpectrum(16, 440)
	require.NoError(t, err)
	assert.Equal(t, 16, s.Len())
	assert.Equal(t, 440.0, s.Fundamental())

	_, err = NewSpectrum(0, 440)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestSetHarmonicClampsAndWraps(t *testing.T) {
	s, _ := NewSpectrum(4, 440)

	require.NoError(t, s.SetHarmonic(0, 1.7, 3*math.Pi))
	h, err := s.Harmonic(0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, h.Amplitude)
	assert.InDelta(t, math.Pi, h.Phase, 1e-12)

	require.NoError(t, s.SetHarmonic(1, -0.2, 0))
	h, _ = s.Harmonic(1)
	assert.Equal(t, 0.0, h.Amplitude)

	// negative phases keep their sign
	require.NoError(t, s.SetHarmonic(2, 0.5, -math.Pi/2))
	h, _ = s.Harmonic(2)
	assert.InDelta(t, -math.Pi/2, h.Phase, 1e-12)

	require.NoError(t, s.SetHarmonic(3, 0.5, -5*math.Pi/2))
	h, _ = s.Harmonic(3)
	assert.InDelta(t, -math.Pi/2, h.Phase, 1e-12)
}

func TestHarmonicOutOfRange(t *testing.T) {
	s, _ := NewSpectrum(4, 440)
	for _, i := range []int{-1, 4} {
		_, err := s.Harmonic(i)
		assert.ErrorIs(t, err, ErrOutOfRange)
		assert.ErrorIs(t, s.SetHarmonic(i, 0.5, 0), ErrOutOfRange)
	}
}

func TestSpectrumClear(t *testing.T) {
	s, _ := NewSpectrum(3, 440)
	_ = s.SetHarmonic(0, 0.5, 1)
	_ = s.SetHarmonic(2, 0.3, 2)
	s.Clear()
	for _, h := range s.Harmonics() {
		assert.Equal(t, Harmonic{}, h)
	}
}

func TestSpectrumNormalize(t *testing.T) {
	s, _ := NewSpectrum(3, 440)
	_ = s.SetHarmonic(0, 0.5, 0.1)
	_ = s.SetHarmonic(1, 0.25, 0.2)
	_ = s.SetHarmonic(2, 0.25, 0.3)
	s.Normalize()
	h, _ := s.Harmonic(0)
	assert.Equal(t, 0.5, h.Amplitude, "already summing to 1")

	_ = s.SetHarmonic(0, 1, 0.1)
	s.Normalize()
	var sum float64
	for _, h := range s.Harmonics() {
		sum += h.Amplitude
	}
	assert.InDelta(t, 1, sum, 1e-12)
	h, _ = s.Harmonic(0)
	assert.InDelta(t, 1.0/1.5, h.Amplitude, 1e-12)
	assert.InDelta(t, 0.1, h.Phase, 1e-12, "phase untouched")

	silent, _ := NewSpectrum(3, 440)
	silent.Normalize()
	for _, h := range silent.Harmonics() {
		assert.Equal(t, 0.0, h.Amplitude)
	}
}

func TestSpectrumCloneIsIndependent(t *testing.T) {
	s, _ := NewSpectrum(2, 220)
	_ = s.SetHarmonic(0, 0.8, 1)
	c := s.Clone()
	_ = c.SetHarmonic(0, 0.1, 2)
	c.SetFundamental(880)

	h, _ := s.Harmonic(0)
	assert.Equal(t, 0.8, h.Amplitude)
	assert.Equal(t, 220.0, s.Fundamental())
}
