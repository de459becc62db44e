package editor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/RyanBlaney/wavesmith/internal/history"
	"github.com/RyanBlaney/wavesmith/internal/playback"
	"github.com/RyanBlaney/wavesmith/internal/store"
	"github.com/RyanBlaney/wavesmith/pkg/presets"
	"github.com/RyanBlaney/wavesmith/pkg/transform"
	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

// SessionConfig sizes the live buffers of a session
type SessionConfig struct {
	SampleCount   int
	HarmonicCount int
	ControlPoints int
	DrawRadius    int
	HistorySize   int
	Fundamental   float64
	SampleRate    int
	DefaultPreset string
}

// DefaultSessionConfig returns the sizes used when nothing is configured.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SampleCount:   2048,
		HarmonicCount: 64,
		ControlPoints: DefaultControlPoints,
		DrawRadius:    DefaultDrawRadius,
		HistorySize:   history.DefaultMaxLength,
		Fundamental:   440,
		SampleRate:    44100,
		DefaultPreset: "sine",
	}
}

// Validate checks that the buffers can be allocated.
func (c SessionConfig) Validate() error {
	if !wave.IsPowerOfTwo(c.SampleCount) {
		return fmt.Errorf("sample count must be a power of two, got %d", c.SampleCount)
	}
	if c.HarmonicCount <= 0 {
		return fmt.Errorf("harmonic count must be positive, got %d", c.HarmonicCount)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.DrawRadius < 0 {
		return fmt.Errorf("draw radius cannot be negative")
	}
	return nil
}

// Session owns the one live waveform/spectrum pair and keeps the two in
// step. Live edits (dragging an anchor, a freehand stroke) touch only the
// waveform; CommitWaveform closes the gesture. Every committed change
// re-derives the other representation, is pushed to history, persisted,
// sent to the player when it is running and announced to listeners.
//
// A Session is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	cfg       SessionConfig
	waveform  *wave.Waveform
	spectrum  *wave.Spectrum
	points    *ControlPoints
	history   *history.Manager
	restoring bool
	dragging  bool // an anchor moved since the last commit

	store  store.Store
	player playback.Player
	logger logging.Logger

	pendingStatus *history.Status // set by history, drained on unlock

	listenerMu        sync.Mutex
	waveformListeners []func(*wave.Waveform)
	spectrumListeners []func(*wave.Spectrum)
	historyListeners  []func(history.Status)
}

// NewSession creates a session. st and player may be nil, in which case
// nothing is persisted or played.
func NewSession(cfg SessionConfig, st store.Store, player playback.Player, logger logging.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session configuration: %w", err)
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	s := &Session{
		cfg:     cfg,
		history: history.New(cfg.HistorySize),
		store:   st,
		player:  player,
		logger:  logger.WithFields(logging.Fields{"component": "session"}),
	}
	// history is only mutated with s.mu held
	s.history.OnChange(func(status history.Status) {
		s.pendingStatus = &status
	})
	return s, nil
}

// OnWaveformChange registers fn to receive a copy of the waveform after every
// change.
func (s *Session) OnWaveformChange(fn func(*wave.Waveform)) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.waveformListeners = append(s.waveformListeners, fn)
}

// OnSpectrumChange registers fn to receive a copy of the spectrum after every
// committed change.
func (s *Session) OnSpectrumChange(fn func(*wave.Spectrum)) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.spectrumListeners = append(s.spectrumListeners, fn)
}

// OnHistoryChange registers fn to receive the undo/redo status after every
// history change.
func (s *Session) OnHistoryChange(fn func(history.Status)) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.historyListeners = append(s.historyListeners, fn)
}

// Load restores the last persisted state. When nothing is stored, or there
// is no store, the default preset is loaded instead. History restarts with
// the loaded state as its only entry.
func (s *Session) Load(ctx context.Context) error {
	w, spec, err := s.loadStored(ctx)
	if err != nil {
		return err
	}
	if w == nil {
		s.mu.Lock()
		s.history.Clear()
		s.unlockAndNotify(nil, nil)
		return s.LoadPreset(ctx, s.cfg.DefaultPreset)
	}

	s.mu.Lock()
	if spec == nil {
		spec, err = transform.ToFrequencyDomain(w, s.cfg.HarmonicCount, s.cfg.Fundamental)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to analyze stored waveform: %w", err)
		}
	}
	s.waveform, s.spectrum = w, spec
	s.points = DeriveControlPoints(w, s.cfg.ControlPoints)
	s.dragging = false
	s.history.Clear()
	s.history.Push(w, spec)
	s.updatePlayer()
	s.logger.Info("Loaded stored waveform", logging.Fields{
		"sample_count":   w.Len(),
		"harmonic_count": spec.Len(),
	})
	s.unlockAndNotify(s.waveform.Clone(), s.spectrum.Clone())
	return nil
}

func (s *Session) loadStored(ctx context.Context) (*wave.Waveform, *wave.Spectrum, error) {
	if s.store == nil {
		return nil, nil, nil
	}

	wrec, err := s.store.LoadWaveform(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load waveform: %w", err)
	}
	if wrec == nil {
		return nil, nil, nil
	}
	w, err := wrec.Waveform()
	if err != nil {
		return nil, nil, err
	}

	srec, err := s.store.LoadSpectrum(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load spectrum: %w", err)
	}
	if srec == nil || srec.HarmonicCount != s.cfg.HarmonicCount {
		return w, nil, nil
	}
	spec, err := srec.Spectrum(s.cfg.Fundamental)
	if err != nil {
		s.logger.Warn("Ignoring stored spectrum", logging.Fields{"error": err.Error()})
		return w, nil, nil
	}
	return w, spec, nil
}

// LoadPreset replaces the live waveform with a generated one.
func (s *Session) LoadPreset(ctx context.Context, name string) error {
	w, err := presets.Generate(name, s.cfg.SampleCount)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.waveform = w
	s.logger.Debug("Loading preset", logging.Fields{"preset": name})
	return s.commitWaveformLocked(ctx)
}

// DragPoint moves anchor i to value and rebuilds the waveform from the
// anchors. The change is live only; call CommitWaveform when the gesture
// ends.
func (s *Session) DragPoint(i int, value float32) error {
	s.mu.Lock()
	if err := s.requireLoaded(); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.dragLocked(i, value); err != nil {
		s.mu.Unlock()
		return err
	}
	s.unlockAndNotify(s.waveform.Clone(), nil)
	return nil
}

// Draw applies a freehand stroke at sample index. Like DragPoint it is a
// live edit awaiting CommitWaveform.
func (s *Session) Draw(index int, value float32) error {
	s.mu.Lock()
	if err := s.requireLoaded(); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.drawLocked(index, value); err != nil {
		s.mu.Unlock()
		return err
	}
	s.unlockAndNotify(s.waveform.Clone(), nil)
	return nil
}

// Press handles a pointer press at sampleIndex. An anchor within DrawRadius
// samples is dragged to value; anywhere else the press starts a freehand
// stroke. It returns the dragged anchor, or -1 for a stroke. The change is
// live until CommitWaveform.
func (s *Session) Press(sampleIndex int, value float32) (int, error) {
	s.mu.Lock()
	if err := s.requireLoaded(); err != nil {
		s.mu.Unlock()
		return -1, err
	}

	anchor := s.points.Nearest(sampleIndex, s.cfg.DrawRadius)
	var err error
	if anchor >= 0 {
		err = s.dragLocked(anchor, value)
	} else {
		err = s.drawLocked(sampleIndex, value)
	}
	if err != nil {
		s.mu.Unlock()
		return -1, err
	}
	s.unlockAndNotify(s.waveform.Clone(), nil)
	return anchor, nil
}

func (s *Session) dragLocked(i int, value float32) error {
	if err := s.points.Drag(i, value); err != nil {
		return err
	}
	if err := s.points.Rebuild(s.waveform); err != nil {
		return err
	}
	s.dragging = true
	s.updatePlayer()
	return nil
}

func (s *Session) drawLocked(index int, value float32) error {
	if err := Draw(s.waveform, index, value, s.cfg.DrawRadius); err != nil {
		return err
	}
	s.points = DeriveControlPoints(s.waveform, s.cfg.ControlPoints)
	s.updatePlayer()
	return nil
}

// CommitWaveform completes a time-domain edit. A finished drag closes the
// loop first, so the last sample meets the first.
func (s *Session) CommitWaveform(ctx context.Context) error {
	s.mu.Lock()
	if err := s.requireLoaded(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.dragging {
		s.waveform.EnsureContinuity()
	}
	return s.commitWaveformLocked(ctx)
}

// SetHarmonicAmplitude changes one harmonic bar, keeping its phase, and
// commits the resynthesized waveform.
func (s *Session) SetHarmonicAmplitude(ctx context.Context, i int, amplitude float64) error {
	s.mu.Lock()
	if err := s.requireLoaded(); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := SetHarmonicAmplitude(s.spectrum, i, amplitude); err != nil {
		s.mu.Unlock()
		return err
	}
	return s.commitSpectrumLocked(ctx)
}

// Smooth applies one smoothing pass to the waveform and commits it.
func (s *Session) Smooth(ctx context.Context, amount float32) error {
	s.mu.Lock()
	if err := s.requireLoaded(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.waveform = transform.ApplySmoothing(s.waveform, amount)
	return s.commitWaveformLocked(ctx)
}

// Normalize peak-normalizes the waveform and commits it.
func (s *Session) Normalize(ctx context.Context) error {
	s.mu.Lock()
	if err := s.requireLoaded(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.waveform.Normalize()
	return s.commitWaveformLocked(ctx)
}

// BandLimit silences every harmonic from cutoff upwards and commits the
// resynthesized waveform.
func (s *Session) BandLimit(ctx context.Context, cutoff int) error {
	s.mu.Lock()
	if err := s.requireLoaded(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.spectrum = transform.BandLimit(s.spectrum, cutoff)
	return s.commitSpectrumLocked(ctx)
}

// Undo steps back one history entry. It reports false when there is
// nothing to undo.
func (s *Session) Undo(ctx context.Context) (bool, error) {
	s.mu.Lock()
	snap, ok := s.history.Undo()
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	return true, s.restoreLocked(ctx, snap)
}

// Redo steps forward one history entry. It reports false when there is
// nothing to redo.
func (s *Session) Redo(ctx context.Context) (bool, error) {
	s.mu.Lock()
	snap, ok := s.history.Redo()
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	return true, s.restoreLocked(ctx, snap)
}

// restoreLocked installs a history snapshot as the live pair. The restoring
// flag keeps the replay out of history. It expects s.mu held and releases it.
func (s *Session) restoreLocked(ctx context.Context, snap history.Snapshot) error {
	s.restoring = true
	s.dragging = false
	s.waveform, s.spectrum = snap.Waveform, snap.Spectrum
	s.points = DeriveControlPoints(s.waveform, s.cfg.ControlPoints)
	err := s.finishLocked(ctx)
	s.restoring = false

	s.unlockAndNotify(s.waveform.Clone(), s.spectrum.Clone())
	return err
}

// commitWaveformLocked re-derives the spectrum from the waveform. It expects
// s.mu held and releases it.
func (s *Session) commitWaveformLocked(ctx context.Context) error {
	spec, err := transform.ToFrequencyDomain(s.waveform, s.cfg.HarmonicCount, s.cfg.Fundamental)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to analyze waveform: %w", err)
	}
	s.spectrum = spec
	s.points = DeriveControlPoints(s.waveform, s.cfg.ControlPoints)
	return s.commitLocked(ctx)
}

// commitSpectrumLocked resynthesizes the waveform from the spectrum. It
// expects s.mu held and releases it.
func (s *Session) commitSpectrumLocked(ctx context.Context) error {
	w, err := transform.ToTimeDomain(s.spectrum, s.waveform.Len())
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to synthesize waveform: %w", err)
	}
	s.waveform = w
	s.points = DeriveControlPoints(w, s.cfg.ControlPoints)
	return s.commitLocked(ctx)
}

func (s *Session) commitLocked(ctx context.Context) error {
	s.dragging = false
	if !s.restoring {
		s.history.Push(s.waveform, s.spectrum)
	}
	err := s.finishLocked(ctx)
	s.unlockAndNotify(s.waveform.Clone(), s.spectrum.Clone())
	return err
}

// finishLocked persists the live pair and forwards the waveform to the
// player. Failures are logged and returned; the edit itself stands.
func (s *Session) finishLocked(ctx context.Context) error {
	s.updatePlayer()
	if s.store == nil {
		return nil
	}

	var errs []error
	if err := s.store.SaveWaveform(ctx, store.NewWaveformRecord(s.waveform, s.cfg.SampleRate)); err != nil {
		s.logger.Error(err, "Failed to persist waveform")
		errs = append(errs, fmt.Errorf("failed to persist waveform: %w", err))
	}
	if err := s.store.SaveSpectrum(ctx, store.NewSpectrumRecord(s.spectrum)); err != nil {
		s.logger.Error(err, "Failed to persist spectrum")
		errs = append(errs, fmt.Errorf("failed to persist spectrum: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Session) updatePlayer() {
	if s.player != nil && s.player.IsPlaying() {
		s.player.UpdateWaveform(s.waveform)
	}
}

func (s *Session) requireLoaded() error {
	if s.waveform == nil {
		return fmt.Errorf("session has no waveform loaded")
	}
	return nil
}

// unlockAndNotify releases s.mu and then delivers the given copies and any
// pending history status to listeners, so listeners may call back into the
// session.
func (s *Session) unlockAndNotify(w *wave.Waveform, spec *wave.Spectrum) {
	status := s.pendingStatus
	s.pendingStatus = nil
	s.mu.Unlock()

	s.listenerMu.Lock()
	wl := slices.Clone(s.waveformListeners)
	sl := slices.Clone(s.spectrumListeners)
	hl := slices.Clone(s.historyListeners)
	s.listenerMu.Unlock()

	if status != nil {
		for _, fn := range hl {
			fn(*status)
		}
	}

	if w != nil {
		for _, fn := range wl {
			fn(w)
		}
	}
	if spec != nil {
		for _, fn := range sl {
			fn(spec)
		}
	}
}

// Play starts the player on the live waveform at hz.
func (s *Session) Play(hz float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return fmt.Errorf("no player configured")
	}
	if err := s.requireLoaded(); err != nil {
		return err
	}
	s.player.UpdateWaveform(s.waveform)
	s.player.SetFrequency(hz)
	if err := s.player.Start(); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}
	s.logger.Info("Playback started", logging.Fields{"frequency": hz})
	return nil
}

// Stop halts playback. It is a no-op without a player.
func (s *Session) Stop() error {
	if s.player == nil {
		return nil
	}
	return s.player.Stop()
}

// Waveform returns a copy of the live waveform, or nil before Load.
func (s *Session) Waveform() *wave.Waveform {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waveform == nil {
		return nil
	}
	return s.waveform.Clone()
}

// Spectrum returns a copy of the live spectrum, or nil before Load.
func (s *Session) Spectrum() *wave.Spectrum {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spectrum == nil {
		return nil
	}
	return s.spectrum.Clone()
}

// ControlPoints returns the current anchors.
func (s *Session) ControlPoints() []ControlPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.points == nil {
		return nil
	}
	return s.points.Points()
}

// History reports the undo/redo position.
func (s *Session) History() history.Status {
	return s.history.Status()
}

// Config returns the session sizing.
func (s *Session) Config() SessionConfig {
	return s.cfg
}
