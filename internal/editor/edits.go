package editor

import (
	"fmt"

	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

// DefaultDrawRadius is the neighbourhood, in samples, touched by a freehand stroke
const DefaultDrawRadius = 2

// Draw blends value into w around index. The sample at index takes the value
// outright; neighbours up to radius samples away are blended with a weight
// that falls off linearly, 1 - |offset|/(radius+1). Neighbours past either
// end of the buffer are skipped.
func Draw(w *wave.Waveform, index int, value float32, radius int) error {
	if index < 0 || index >= w.Len() {
		return fmt.Errorf("cannot draw: %w", &wave.Error{
			Code:   wave.ErrCodeOutOfRange,
			Op:     "editor.Draw",
			Index:  index,
			Length: w.Len(),
		})
	}
	radius = max(radius, 0)
	value = max(-1, min(1, value))

	for offset := -radius; offset <= radius; offset++ {
		i := index + offset
		if i < 0 || i >= w.Len() {
			continue
		}
		d := offset
		if d < 0 {
			d = -d
		}
		weight := 1 - float32(d)/float32(radius+1)

		current, err := w.Sample(i)
		if err != nil {
			return err
		}
		if err := w.SetSample(i, current*(1-weight)+value*weight); err != nil {
			return err
		}
	}

	return nil
}

// SetHarmonicAmplitude changes the amplitude of harmonic index i and keeps
// its phase.
func SetHarmonicAmplitude(s *wave.Spectrum, i int, amplitude float64) error {
	h, err := s.Harmonic(i)
	if err != nil {
		return err
	}
	return s.SetHarmonic(i, amplitude, h.Phase)
}
