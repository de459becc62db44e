package editor

import (
	"fmt"
	"math"
	"slices"

	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

// DefaultControlPoints is the number of anchors derived from a waveform when
// none is configured
const DefaultControlPoints = 64

// ControlPoint is a sparse anchor over the waveform used for freeform editing
type ControlPoint struct {
	SampleIndex int     `json:"sample_index" yaml:"sample_index"`
	Value       float32 `json:"value" yaml:"value"`
}

// ControlPoints is an ordered set of anchors, sorted by sample index
type ControlPoints struct {
	points []ControlPoint
}

// DeriveControlPoints samples count evenly spaced anchors from w. The count is
// capped at the waveform length; a non-positive count selects
// DefaultControlPoints.
func DeriveControlPoints(w *wave.Waveform, count int) *ControlPoints {
	if count <= 0 {
		count = DefaultControlPoints
	}
	n := w.Len()
	count = min(count, n)

	samples := w.Samples()
	points := make([]ControlPoint, 0, count)
	for i := range count {
		idx := int(math.Round(float64(i) * float64(n) / float64(count)))
		idx = min(idx, n-1)
		if len(points) > 0 && points[len(points)-1].SampleIndex == idx {
			continue
		}
		points = append(points, ControlPoint{SampleIndex: idx, Value: samples[idx]})
	}

	return &ControlPoints{points: points}
}

// Len returns the number of anchors.
func (c *ControlPoints) Len() int {
	return len(c.points)
}

// Points returns a copy of the anchors.
func (c *ControlPoints) Points() []ControlPoint {
	return slices.Clone(c.points)
}

// Point returns the anchor at index i.
func (c *ControlPoints) Point(i int) (ControlPoint, error) {
	if i < 0 || i >= len(c.points) {
		return ControlPoint{}, fmt.Errorf("control point %d out of range [0, %d)", i, len(c.points))
	}
	return c.points[i], nil
}

// Drag moves the anchor at index i to value v, clamped into [-1, 1].
func (c *ControlPoints) Drag(i int, v float32) error {
	if i < 0 || i >= len(c.points) {
		return fmt.Errorf("control point %d out of range [0, %d)", i, len(c.points))
	}
	c.points[i].Value = max(-1, min(1, v))
	return nil
}

// Nearest returns the index of the anchor closest to sampleIndex, provided
// it lies within tolerance samples. It returns -1 when no anchor is close
// enough, which callers treat as a freehand stroke.
func (c *ControlPoints) Nearest(sampleIndex, tolerance int) int {
	best := -1
	bestDist := tolerance + 1
	for i, p := range c.points {
		d := p.SampleIndex - sampleIndex
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Rebuild rewrites every sample of w by linear interpolation between the
// anchors that bracket it. Samples before the first anchor take its value, as
// do samples after the last.
func (c *ControlPoints) Rebuild(w *wave.Waveform) error {
	if len(c.points) == 0 {
		return nil
	}

	first := c.points[0]
	last := c.points[len(c.points)-1]
	seg := 0

	for i := range w.Len() {
		var v float32
		switch {
		case i <= first.SampleIndex:
			v = first.Value
		case i >= last.SampleIndex:
			v = last.Value
		default:
			for c.points[seg+1].SampleIndex < i {
				seg++
			}
			a, b := c.points[seg], c.points[seg+1]
			t := float32(i-a.SampleIndex) / float32(b.SampleIndex-a.SampleIndex)
			v = a.Value + (b.Value-a.Value)*t
		}
		if err := w.SetSample(i, v); err != nil {
			return fmt.Errorf("failed to rebuild sample %d: %w", i, err)
		}
	}

	return nil
}
