package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/wavesmith/pkg/presets"
	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

func toFloat64(w *wave.Waveform) []float64 {
	samples := w.Samples()
	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = float64(v)
	}
	return out
}

func TestAnalyzeSine(t *testing.T) {
	for _, n := range []int{8, 64, 1024} {
		sine, err := presets.Sine(n)
		require.NoError(t, err)

		spectrum, err := ToFrequencyDomain(sine, 4, 440)
		require.NoError(t, err)
		require.Equal(t, 4, spectrum.Len())
		assert.Equal(t, 440.0, spectrum.Fundamental())

		fundamental, _ := spectrum.Harmonic(0)
		assert.InDelta(t, 1, fundamental.Amplitude, 1e-3, "N=%d", n)
		assert.InDelta(t, 0, fundamental.Phase, 1e-2, "N=%d", n)

		for k := 1; k < spectrum.Len(); k++ {
			h, _ := spectrum.Harmonic(k)
			assert.InDelta(t, 0, h.Amplitude, 1e-3, "N=%d harmonic %d", n, k)
		}
	}
}

func TestAnalyzeRecoversPartialPhase(t *testing.T) {
	const n = 256
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(0.5 * math.Sin(2*math.Pi*3*float64(i)/n+math.Pi/2))
	}
	w, err := wave.NewFromSamples(samples)
	require.NoError(t, err)

	spectrum, err := ToFrequencyDomain(w, 8, 440)
	require.NoError(t, err)

	third, _ := spectrum.Harmonic(2)
	assert.InDelta(t, 0.5, third.Amplitude, 1e-3)
	assert.InDelta(t, math.Pi/2, third.Phase, 1e-2)
}

func TestRoundTripSine(t *testing.T) {
	sine, err := presets.Sine(1024)
	require.NoError(t, err)

	spectrum, err := ToFrequencyDomain(sine, 64, 440)
	require.NoError(t, err)

	rebuilt, err := ToTimeDomain(spectrum, 1024)
	require.NoError(t, err)

	corr := stat.Correlation(toFloat64(sine), toFloat64(rebuilt), nil)
	assert.GreaterOrEqual(t, corr, 0.99)
	assert.InDeltaSlice(t, sine.Samples(), rebuilt.Samples(), 1e-3)
}

func TestRoundTripSquareIsBandLimited(t *testing.T) {
	square, err := presets.Square(512)
	require.NoError(t, err)

	spectrum, err := ToFrequencyDomain(square, 32, 440)
	require.NoError(t, err)

	// odd harmonics only, falling off as 1/h. The fundamental (4/π) is
	// clamped to unit amplitude.
	first, _ := spectrum.Harmonic(0)
	second, _ := spectrum.Harmonic(1)
	third, _ := spectrum.Harmonic(2)
	fifth, _ := spectrum.Harmonic(4)
	assert.Equal(t, 1.0, first.Amplitude)
	assert.InDelta(t, 0, second.Amplitude, 1e-3)
	assert.InDelta(t, 4/(3*math.Pi), third.Amplitude, 1e-2)
	assert.InDelta(t, third.Amplitude*3/5, fifth.Amplitude, 1e-2)

	rebuilt, err := ToTimeDomain(spectrum, 512)
	require.NoError(t, err)

	corr := stat.Correlation(toFloat64(square), toFloat64(rebuilt), nil)
	assert.Greater(t, corr, 0.95)
	assert.Less(t, corr, 1.0, "reconstruction from 32 harmonics is lossy")
}

func TestToTimeDomainNormalizes(t *testing.T) {
	spectrum, err := wave.NewSpectrum(4, 440)
	require.NoError(t, err)
	require.NoError(t, spectrum.SetHarmonic(0, 1, 0))
	require.NoError(t, spectrum.SetHarmonic(2, 1, 0))

	w, err := ToTimeDomain(spectrum, 256)
	require.NoError(t, err)
	assert.InDelta(t, 1, w.Peak(), 1e-6)

	silent, _ := wave.NewSpectrum(4, 440)
	w, err = ToTimeDomain(silent, 16)
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 16), w.Samples())
}

func TestToTimeDomainRejectsBadLength(t *testing.T) {
	spectrum, _ := wave.NewSpectrum(4, 440)
	_, err := ToTimeDomain(spectrum, 100)
	assert.ErrorIs(t, err, wave.ErrInvalidLength)
}

func TestApplySmoothingDoesNotMutateInput(t *testing.T) {
	square, _ := presets.Square(8)
	before := square.Samples()

	smoothed := ApplySmoothing(square, 1)
	assert.Equal(t, before, square.Samples())
	assert.NotEqual(t, before, smoothed.Samples())
}

func TestBandLimit(t *testing.T) {
	spectrum, _ := wave.NewSpectrum(6, 440)
	for i := range 6 {
		require.NoError(t, spectrum.SetHarmonic(i, 0.5, 1))
	}

	limited := BandLimit(spectrum, 3)
	for i, h := range limited.Harmonics() {
		if i < 3 {
			assert.Equal(t, wave.Harmonic{Amplitude: 0.5, Phase: 1}, h, "harmonic %d", i)
		} else {
			assert.Equal(t, wave.Harmonic{}, h, "harmonic %d", i)
		}
	}

	original, _ := spectrum.Harmonic(5)
	assert.Equal(t, 0.5, original.Amplitude, "input must be untouched")

	all := BandLimit(spectrum, 0)
	for _, h := range all.Harmonics() {
		assert.Equal(t, wave.Harmonic{}, h)
	}
}
