package store

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

// WaveformRecord is the persisted form of a waveform
type WaveformRecord struct {
	SampleRate int       `json:"sampleRate"`
	Samples    []float32 `json:"samples"`
}

// HarmonicRecord is the persisted form of one harmonic
type HarmonicRecord struct {
	Amplitude float64 `json:"amplitude"`
	Phase     float64 `json:"phase"`
}

// SpectrumRecord is the persisted form of a spectrum
type SpectrumRecord struct {
	HarmonicCount int              `json:"harmonicCount"`
	Harmonics     []HarmonicRecord `json:"harmonics"`
}

// Store persists the live waveform and spectrum. Load methods return nil and
// no error when nothing has been stored yet.
type Store interface {
	SaveWaveform(ctx context.Context, rec *WaveformRecord) error
	LoadWaveform(ctx context.Context) (*WaveformRecord, error)
	SaveSpectrum(ctx context.Context, rec *SpectrumRecord) error
	LoadSpectrum(ctx context.Context) (*SpectrumRecord, error)
}

// NewWaveformRecord captures w for storage.
func NewWaveformRecord(w *wave.Waveform, sampleRate int) *WaveformRecord {
	return &WaveformRecord{SampleRate: sampleRate, Samples: w.Samples()}
}

// Waveform rebuilds a waveform from the record.
func (r *WaveformRecord) Waveform() (*wave.Waveform, error) {
	w, err := wave.NewFromSamples(r.Samples)
	if err != nil {
		return nil, fmt.Errorf("invalid stored waveform: %w", err)
	}
	return w, nil
}

// NewSpectrumRecord captures s for storage.
func NewSpectrumRecord(s *wave.Spectrum) *SpectrumRecord {
	harmonics := s.Harmonics()
	rec := &SpectrumRecord{
		HarmonicCount: len(harmonics),
		Harmonics:     make([]HarmonicRecord, len(harmonics)),
	}
	for i, h := range harmonics {
		rec.Harmonics[i] = HarmonicRecord{Amplitude: h.Amplitude, Phase: h.Phase}
	}
	return rec
}

// Spectrum rebuilds a spectrum from the record.
func (r *SpectrumRecord) Spectrum(fundamental float64) (*wave.Spectrum, error) {
	if r.HarmonicCount != len(r.Harmonics) {
		return nil, fmt.Errorf("invalid stored spectrum: harmonic count %d does not match %d harmonics",
			r.HarmonicCount, len(r.Harmonics))
	}
	s, err := wave.NewSpectrum(r.HarmonicCount, fundamental)
	if err != nil {
		return nil, fmt.Errorf("invalid stored spectrum: %w", err)
	}
	for i, h := range r.Harmonics {
		if err := s.SetHarmonic(i, h.Amplitude, h.Phase); err != nil {
			return nil, err
		}
	}
	return s, nil
}
