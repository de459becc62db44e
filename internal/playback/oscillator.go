package playback

import (
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

// ErrNoAudioDevice is returned by Start when no audio device can be driven
var ErrNoAudioDevice = errors.New("audio playback not available")

// Player is the audio output collaborator of the editor. The editor only
// pushes new waveforms and frequencies while playback is running.
type Player interface {
	Start() error
	Stop() error
	IsPlaying() bool
	UpdateWaveform(w *wave.Waveform)
	SetFrequency(hz float64)
	Close() error
}

// Oscillator loops a single-cycle waveform at a given frequency. It is an
// io.Reader of little-endian float32 mono frames, suitable as a pull source
// for an audio device. The waveform is swapped atomically so that the
// editor never blocks the audio callback.
type Oscillator struct {
	waveform   atomic.Pointer[wave.Waveform]
	frequency  atomic.Uint64 // math.Float64bits
	volume     atomic.Uint64
	sampleRate float64

	mu    sync.Mutex // guards phase, touched only by the reading goroutine
	phase float64    // position within the cycle, in samples
}

// NewOscillator creates an oscillator rendering at sampleRate.
func NewOscillator(sampleRate int, frequency, volume float64) *Oscillator {
	o := &Oscillator{sampleRate: float64(sampleRate)}
	o.SetFrequency(frequency)
	o.SetVolume(volume)
	return o
}

// UpdateWaveform installs a private copy of w.
func (o *Oscillator) UpdateWaveform(w *wave.Waveform) {
	if w == nil {
		o.waveform.Store(nil)
		return
	}
	o.waveform.Store(w.Clone())
}

// SetFrequency sets the playback frequency in Hz.
func (o *Oscillator) SetFrequency(hz float64) {
	o.frequency.Store(math.Float64bits(math.Max(hz, 0)))
}

// Frequency returns the playback frequency in Hz.
func (o *Oscillator) Frequency() float64 {
	return math.Float64frombits(o.frequency.Load())
}

// SetVolume sets the output gain, clamped into [0, 1].
func (o *Oscillator) SetVolume(v float64) {
	o.volume.Store(math.Float64bits(math.Max(0, math.Min(1, v))))
}

// Render fills out with consecutive samples. Silence is rendered when no
// waveform is installed.
func (o *Oscillator) Render(out []float32) {
	w := o.waveform.Load()
	if w == nil {
		clear(out)
		return
	}

	gain := float32(math.Float64frombits(o.volume.Load()))
	n := float64(w.Len())
	step := o.Frequency() * n / o.sampleRate

	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range out {
		out[i] = w.Interpolate(o.phase) * gain
		o.phase = math.Mod(o.phase+step, n)
	}
}

// Read implements io.Reader, emitting float32 little-endian frames.
func (o *Oscillator) Read(p []byte) (int, error) {
	frames := len(p) / 4
	buf := make([]float32, frames)
	o.Render(buf)
	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return frames * 4, nil
}
