package editor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/wavesmith/pkg/presets"
	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

func TestDeriveControlPoints(t *testing.T) {
	sine, err := presets.Sine(1024)
	require.NoError(t, err)

	cp := DeriveControlPoints(sine, 0)
	require.Equal(t, DefaultControlPoints, cp.Len())

	points := cp.Points()
	for i, p := range points {
		assert.Equal(t, i*16, p.SampleIndex)
		want, _ := sine.Sample(p.SampleIndex)
		assert.Equal(t, want, p.Value)
	}
}

func TestDeriveControlPointsCapsAtLength(t *testing.T) {
	square, _ := presets.Square(16)
	cp := DeriveControlPoints(square, 64)
	assert.Equal(t, 16, cp.Len())

	for i, p := range cp.Points() {
		assert.Equal(t, i, p.SampleIndex)
	}
}

func TestDragClamps(t *testing.T) {
	sine, _ := presets.Sine(64)
	cp := DeriveControlPoints(sine, 8)

	require.NoError(t, cp.Drag(3, 4))
	p, err := cp.Point(3)
	require.NoError(t, err)
	assert.Equal(t, float32(1), p.Value)

	assert.Error(t, cp.Drag(8, 0))
	assert.Error(t, cp.Drag(-1, 0))
}

func TestRebuildInterpolatesBetweenAnchors(t *testing.T) {
	w, err := wave.New(8)
	require.NoError(t, err)

	cp := DeriveControlPoints(w, 4) // anchors at 0, 2, 4, 6
	require.NoError(t, cp.Drag(1, 1))
	require.NoError(t, cp.Drag(2, -1))
	require.NoError(t, cp.Drag(3, 0.5))

	require.NoError(t, cp.Rebuild(w))
	assert.InDeltaSlice(t, []float32{0, 0.5, 1, 0, -1, -0.25, 0.5, 0.5}, w.Samples(), 1e-6)
}

func TestRebuildPreservesUndraggedPiecewiseLinear(t *testing.T) {
	tri, _ := presets.Triangle(64)
	before := tri.Samples()

	cp := DeriveControlPoints(tri, 16)
	require.NoError(t, cp.Rebuild(tri))

	// anchors every 4 samples land on the triangle's corners, so a linear
	// rebuild reproduces it everywhere except past the last anchor
	after := tri.Samples()
	for i := 0; i <= 60; i++ {
		assert.InDelta(t, before[i], after[i], 1e-5, "index %d", i)
	}
	for i := 61; i < 64; i++ {
		assert.Equal(t, after[60], after[i], "index %d clamps to the last anchor", i)
	}
}

func TestNearest(t *testing.T) {
	w, _ := wave.New(64)
	cp := DeriveControlPoints(w, 8) // every 8 samples

	assert.Equal(t, 2, cp.Nearest(17, 2))
	assert.Equal(t, 2, cp.Nearest(16, 0))
	assert.Equal(t, -1, cp.Nearest(20, 2))
	assert.Equal(t, 7, cp.Nearest(63, 8))
}

func TestDraw(t *testing.T) {
	w, _ := wave.New(16)

	require.NoError(t, Draw(w, 8, 0.9, 2))
	samples := w.Samples()
	assert.InDelta(t, 0.9, samples[8], 1e-6)
	assert.InDelta(t, 0.6, samples[7], 1e-6)
	assert.InDelta(t, 0.6, samples[9], 1e-6)
	assert.InDelta(t, 0.3, samples[6], 1e-6)
	assert.InDelta(t, 0.3, samples[10], 1e-6)
	assert.Equal(t, float32(0), samples[5])
	assert.Equal(t, float32(0), samples[11])
}

func TestDrawBlendsIntoExisting(t *testing.T) {
	w, _ := wave.NewFromSamples([]float32{-1, -1, -1, -1, -1, -1, -1, -1})

	require.NoError(t, Draw(w, 0, 1, 2))
	samples := w.Samples()
	assert.InDelta(t, 1, samples[0], 1e-6)
	assert.InDelta(t, 1.0/3, samples[1], 1e-6)
	assert.InDelta(t, -1.0/3, samples[2], 1e-6)
	assert.Equal(t, float32(-1), samples[7], "no wrap past the start")

	assert.ErrorIs(t, Draw(w, 8, 0, 2), wave.ErrOutOfRange)
}

func TestSetHarmonicAmplitudeKeepsPhase(t *testing.T) {
	s, _ := wave.NewSpectrum(4, 440)
	require.NoError(t, s.SetHarmonic(2, 0.2, math.Pi/3))

	require.NoError(t, SetHarmonicAmplitude(s, 2, 0.8))
	h, _ := s.Harmonic(2)
	assert.Equal(t, 0.8, h.Amplitude)
	assert.InDelta(t, math.Pi/3, h.Phase, 1e-12)

	require.NoError(t, SetHarmonicAmplitude(s, 2, 7))
	h, _ = s.Harmonic(2)
	assert.Equal(t, 1.0, h.Amplitude)

	assert.ErrorIs(t, SetHarmonicAmplitude(s, 4, 0.5), wave.ErrOutOfRange)
}
