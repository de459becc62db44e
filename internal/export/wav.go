package export

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

const (
	bitDepth     = 16
	pcmFormat    = 1
	channelCount = 1
)

// WAVOptions controls how a waveform cycle is rendered to PCM
type WAVOptions struct {
	SampleRate int
	Frequency  float64
	Duration   time.Duration
}

// Validate checks that the options describe a renderable clip.
func (o WAVOptions) Validate() error {
	if o.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive")
	}
	if o.Frequency <= 0 {
		return fmt.Errorf("frequency must be positive")
	}
	if o.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	return nil
}

// RenderPCM loops w at the requested frequency for the requested duration
// and returns 16-bit sample values.
func RenderPCM(w *wave.Waveform, opts WAVOptions) ([]int, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	frames := int(math.Round(opts.Duration.Seconds() * float64(opts.SampleRate)))
	step := opts.Frequency * float64(w.Len()) / float64(opts.SampleRate)
	maxValue := float64(int(1)<<(bitDepth-1) - 1)

	data := make([]int, frames)
	for i := range data {
		v := float64(w.Interpolate(float64(i) * step))
		data[i] = int(math.Round(v * maxValue))
	}
	return data, nil
}

// WriteWAV renders w and writes it as a mono 16-bit PCM WAV file.
func WriteWAV(out io.WriteSeeker, w *wave.Waveform, opts WAVOptions) error {
	data, err := RenderPCM(w, opts)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(out, opts.SampleRate, bitDepth, channelCount, pcmFormat)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channelCount,
			SampleRate:  opts.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write PCM data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV header: %w", err)
	}
	return nil
}
