//go:build !playback

package playback

import (
	"sync/atomic"

	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

// Available reports whether this build can drive an audio device.
const Available = false

// HeadlessPlayer tracks playback state and feeds an oscillator without an
// audio device behind it
type HeadlessPlayer struct {
	osc     *Oscillator
	playing atomic.Bool
}

// NewPlayer returns a headless player.
func NewPlayer(sampleRate int, frequency, volume float64) (Player, error) {
	return &HeadlessPlayer{osc: NewOscillator(sampleRate, frequency, volume)}, nil
}

func (p *HeadlessPlayer) Start() error {
	return ErrNoAudioDevice
}

func (p *HeadlessPlayer) Stop() error {
	p.playing.Store(false)
	return nil
}

func (p *HeadlessPlayer) IsPlaying() bool {
	return p.playing.Load()
}

func (p *HeadlessPlayer) UpdateWaveform(w *wave.Waveform) {
	p.osc.UpdateWaveform(w)
}

func (p *HeadlessPlayer) SetFrequency(hz float64) {
	p.osc.SetFrequency(hz)
}

func (p *HeadlessPlayer) Close() error {
	return p.Stop()
}
