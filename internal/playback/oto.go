//go:build playback

package playback

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

// Available reports whether this build can drive an audio device.
const Available = true

// OtoPlayer plays the oscillator through the system audio device
type OtoPlayer struct {
	ctx    *oto.Context
	player *oto.Player
	osc    *Oscillator
	mu     sync.Mutex
}

// NewPlayer opens the default audio device.
func NewPlayer(sampleRate int, frequency, volume float64) (Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	osc := NewOscillator(sampleRate, frequency, volume)
	return &OtoPlayer{
		ctx:    ctx,
		osc:    osc,
		player: ctx.NewPlayer(osc),
	}, nil
}

func (p *OtoPlayer) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.player.Play()
	return nil
}

func (p *OtoPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.player.Pause()
	return nil
}

func (p *OtoPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player.IsPlaying()
}

func (p *OtoPlayer) UpdateWaveform(w *wave.Waveform) {
	p.osc.UpdateWaveform(w)
}

func (p *OtoPlayer) SetFrequency(hz float64) {
	p.osc.SetFrequency(hz)
}

func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player.Close()
}
