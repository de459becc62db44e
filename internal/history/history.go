package history

import (
	"sync"
	"time"

	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

// DefaultMaxLength is the number of snapshots kept when none is configured
const DefaultMaxLength = 50

// Snapshot is an independently owned copy of the full edit state
type Snapshot struct {
	Waveform  *wave.Waveform
	Spectrum  *wave.Spectrum
	Timestamp time.Time
}

// Status describes the undo/redo position, as delivered to change listeners
type Status struct {
	CanUndo      bool `json:"can_undo" yaml:"can_undo"`
	CanRedo      bool `json:"can_redo" yaml:"can_redo"`
	HistorySize  int  `json:"history_size" yaml:"history_size"`
	CurrentIndex int  `json:"current_index" yaml:"current_index"`
}

type slot struct {
	waveform  *wave.Waveform
	spectrum  *wave.Spectrum
	timestamp time.Time
}

// Manager is a bounded undo/redo history. Snapshots live in a ring of slots
// that is allocated up to maxLength and then reused, so steady-state pushes
// copy into existing buffers instead of allocating.
//
// Pushing while the cursor is behind the newest snapshot abandons the redo
// branch. When the history is full the oldest snapshot is evicted. The
// cursor always ends on the snapshot just pushed.
type Manager struct {
	mu        sync.Mutex
	slots     []slot
	head      int // ring index of the oldest snapshot
	length    int
	cursor    int // logical index, -1 when empty
	maxLength int
	listeners []func(Status)
	now       func() time.Time
}

// New creates an empty history holding at most maxLength snapshots. A
// non-positive maxLength selects DefaultMaxLength.
func New(maxLength int) *Manager {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Manager{
		slots:     make([]slot, 0, maxLength),
		cursor:    -1,
		maxLength: maxLength,
		now:       time.Now,
	}
}

// OnChange registers a listener called after every push, undo, redo and
// clear that changes the history. Listeners run synchronously without the
// history lock held.
func (m *Manager) OnChange(fn func(Status)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Push records a deep copy of the given state.
func (m *Manager) Push(w *wave.Waveform, s *wave.Spectrum) {
	m.mu.Lock()
	m.length = m.cursor + 1

	if m.length == m.maxLength {
		m.head = (m.head + 1) % m.maxLength
		m.length--
	}

	m.store(m.ring(m.length), w, s)
	m.length++
	m.cursor = m.length - 1

	status := m.statusLocked()
	listeners := m.listeners
	m.mu.Unlock()

	notify(listeners, status)
}

// CanUndo reports whether an older snapshot exists.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor > 0
}

// CanRedo reports whether a newer snapshot exists.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor < m.length-1
}

// Undo steps back one snapshot and returns a copy of it. It returns false and
// changes nothing when there is nothing to undo.
func (m *Manager) Undo() (Snapshot, bool) {
	return m.step(-1)
}

// Redo steps forward one snapshot and returns a copy of it. It returns false
// and changes nothing when there is nothing to redo.
func (m *Manager) Redo() (Snapshot, bool) {
	return m.step(1)
}

func (m *Manager) step(delta int) (Snapshot, bool) {
	m.mu.Lock()
	next := m.cursor + delta
	if m.cursor < 0 || next < 0 || next >= m.length {
		m.mu.Unlock()
		return Snapshot{}, false
	}
	m.cursor = next
	snap := m.snapshotLocked(next)
	status := m.statusLocked()
	listeners := m.listeners
	m.mu.Unlock()

	notify(listeners, status)
	return snap, true
}

// Current returns a copy of the snapshot at the cursor, or false when the
// history is empty.
func (m *Manager) Current() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor < 0 || m.cursor >= m.length {
		return Snapshot{}, false
	}
	return m.snapshotLocked(m.cursor), true
}

// Clear empties the history. Slot buffers are kept for reuse.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.head = 0
	m.length = 0
	m.cursor = -1
	status := m.statusLocked()
	listeners := m.listeners
	m.mu.Unlock()

	notify(listeners, status)
}

// Status returns the current undo/redo position.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

// Len returns the number of stored snapshots.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.length
}

// MaxLength returns the capacity of the history.
func (m *Manager) MaxLength() int {
	return m.maxLength
}

func (m *Manager) statusLocked() Status {
	return Status{
		CanUndo:      m.cursor > 0,
		CanRedo:      m.cursor < m.length-1,
		HistorySize:  m.length,
		CurrentIndex: m.cursor,
	}
}

// ring maps a logical index to a ring position.
func (m *Manager) ring(logical int) int {
	return (m.head + logical) % m.maxLength
}

// store copies the state into the slot at ring position pos, reusing the
// slot's buffers when their sizes match.
func (m *Manager) store(pos int, w *wave.Waveform, s *wave.Spectrum) {
	for len(m.slots) <= pos {
		m.slots = append(m.slots, slot{})
	}
	sl := &m.slots[pos]

	if sl.waveform == nil || sl.waveform.CopyFrom(w) != nil {
		sl.waveform = w.Clone()
	}
	if sl.spectrum == nil || sl.spectrum.CopyFrom(s) != nil {
		sl.spectrum = s.Clone()
	}
	sl.timestamp = m.now()
}

func (m *Manager) snapshotLocked(logical int) Snapshot {
	sl := m.slots[m.ring(logical)]
	return Snapshot{
		Waveform:  sl.waveform.Clone(),
		Spectrum:  sl.spectrum.Clone(),
		Timestamp: sl.timestamp,
	}
}

func notify(listeners []func(Status), status Status) {
	for _, fn := range listeners {
		fn(status)
	}
}
