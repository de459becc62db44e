package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/wavesmith/pkg/presets"
	"github.com/RyanBlaney/wavesmith/pkg/transform"
	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

func TestAnalyzeSine(t *testing.T) {
	sine, err := presets.Sine(1024)
	require.NoError(t, err)

	report, err := Analyze(sine, 8)
	require.NoError(t, err)

	assert.Equal(t, 1024, report.SampleCount)
	assert.InDelta(t, 1, report.Peak, 1e-6)
	assert.InDelta(t, 1/math.Sqrt2, report.RMS, 1e-4)
	assert.InDelta(t, math.Sqrt2, report.CrestFactor, 1e-3)
	assert.InDelta(t, 0, report.DCOffset, 1e-6)
	assert.InDelta(t, 0, report.THD, 1e-4)
	assert.InDelta(t, 1, report.Harmonics[0], 1e-4)
	assert.Len(t, report.Harmonics, 8)
	assert.Equal(t, 2, report.ZeroCrossings)
	assert.InDelta(t, 1, report.Centroid, 1e-2)
}

func TestAnalyzeSquare(t *testing.T) {
	square, err := presets.Square(256)
	require.NoError(t, err)

	report, err := Analyze(square, 5)
	require.NoError(t, err)

	assert.InDelta(t, 1, report.RMS, 1e-9)
	assert.InDelta(t, 1, report.CrestFactor, 1e-9)
	assert.Equal(t, 2, report.ZeroCrossings)
	assert.InDelta(t, 4/math.Pi, report.Harmonics[0], 1e-2)
	assert.InDelta(t, 0, report.Harmonics[1], 1e-9)
	assert.Greater(t, report.THD, 0.3)
	// odd harmonics pull the centroid above the fundamental
	assert.Greater(t, report.Centroid, 2.0)
}

func TestZeroCrossingsCountTheWrap(t *testing.T) {
	assert.Equal(t, 0, zeroCrossings([]float64{0.5}))
	assert.Equal(t, 0, zeroCrossings([]float64{0.5, 0.25, 1}))
	// one crossing inside the buffer, one across the loop point
	assert.Equal(t, 2, zeroCrossings([]float64{0.5, 0.25, -1, -0.5}))
	assert.Equal(t, 4, zeroCrossings([]float64{1, -1, 1, -1}))
}

// The FFT and the direct transform must agree wherever the direct transform
// does not clamp.
func TestAnalyzeMatchesDirectTransform(t *testing.T) {
	w, err := presets.Custom(512, []float64{0.6, 0.3, 0.2, 0.1})
	require.NoError(t, err)

	report, err := Analyze(w, 6)
	require.NoError(t, err)

	spectrum, err := transform.ToFrequencyDomain(w, 6, 440)
	require.NoError(t, err)

	for k, h := range spectrum.Harmonics() {
		assert.InDelta(t, h.Amplitude, report.Harmonics[k], 1e-4, "harmonic %d", k+1)
	}
}

func TestAnalyzeHarmonicsAboveNyquist(t *testing.T) {
	sine, err := presets.Sine(8)
	require.NoError(t, err)

	report, err := Analyze(sine, 10)
	require.NoError(t, err)
	for k := 4; k < 10; k++ {
		assert.Equal(t, 0.0, report.Harmonics[k], "harmonic %d", k+1)
	}
}

func TestAnalyzeRejectsZeroHarmonics(t *testing.T) {
	sine, _ := presets.Sine(8)
	_, err := Analyze(sine, 0)
	assert.Error(t, err)
}

func TestAnalyzeSilence(t *testing.T) {
	silent, _ := wave.New(16)
	report, err := Analyze(silent, 4)
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.CrestFactor)
	assert.Equal(t, 0.0, report.THD)
}

func TestCorrelation(t *testing.T) {
	sine, _ := presets.Sine(64)
	inverted := sine.Clone()
	for i := range inverted.Len() {
		v, _ := inverted.Sample(i)
		require.NoError(t, inverted.SetSample(i, -v))
	}

	c, err := Correlation(sine, sine)
	require.NoError(t, err)
	assert.InDelta(t, 1, c, 1e-9)

	c, err = Correlation(sine, inverted)
	require.NoError(t, err)
	assert.InDelta(t, -1, c, 1e-9)

	short, _ := presets.Sine(32)
	_, err = Correlation(sine, short)
	assert.Error(t, err)
}
