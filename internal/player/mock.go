// internal/player/mock.go
package player

import "sync"

// Mock is a scriptable test double for Device.
type Mock struct {
	mu sync.Mutex

	media    Media
	listener Listener

	currentTime float64
	duration    float64
	hasDuration bool
	seekable    Range
	hasSeekable bool
	paused      bool
	closed      bool

	ignorePause bool
	ignoreSeek  bool

	playErr  error
	pauseErr error
	seekErr  error
	stopErr  error

	calls     []string
	seekCalls []float64
	created   int
}

// NewMock creates a new mock device for testing.
// A fresh mock starts paused at time zero with no metadata.
func NewMock() *Mock {
	return &Mock{paused: true}
}

// Factory returns a Factory that hands out this mock.
func (m *Mock) Factory() Factory {
	return func(media Media, l Listener) (Device, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.media = media
		m.listener = l
		m.closed = false
		m.created++
		return m, nil
	}
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "play")
	if m.playErr != nil {
		return m.playErr
	}
	m.paused = false
	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "pause")
	if m.pauseErr != nil {
		return m.pauseErr
	}
	if !m.ignorePause {
		m.paused = true
	}
	return nil
}

func (m *Mock) Seek(seconds float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "seek")
	m.seekCalls = append(m.seekCalls, seconds)
	if m.seekErr != nil {
		return m.seekErr
	}
	if !m.ignoreSeek {
		m.currentTime = seconds
	}
	return nil
}

func (m *Mock) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "stop")
	if m.stopErr != nil {
		return m.stopErr
	}
	m.paused = true
	return nil
}

func (m *Mock) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

func (m *Mock) Duration() (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration, m.hasDuration
}

func (m *Mock) SeekableRange() (Range, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seekable, m.hasSeekable
}

func (m *Mock) IsPaused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetCurrentTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = seconds
}

// AdvanceTime moves the reported position forward by delta seconds.
func (m *Mock) AdvanceTime(delta float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime += delta
}

func (m *Mock) SetDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = seconds
	m.hasDuration = true
}

func (m *Mock) SetSeekableRange(r Range) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekable = r
	m.hasSeekable = true
}

func (m *Mock) ClearSeekableRange() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasSeekable = false
}

func (m *Mock) SetPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = paused
}

// SetIgnorePause makes Pause a silent no-op, as on some set-top boxes.
func (m *Mock) SetIgnorePause(ignore bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ignorePause = ignore
}

// SetIgnoreSeek makes Seek a silent no-op.
func (m *Mock) SetIgnoreSeek(ignore bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ignoreSeek = ignore
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetPauseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseErr = err
}

func (m *Mock) SetSeekError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekErr = err
}

func (m *Mock) SetStopError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopErr = err
}

// Calls returns the commands received, in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns how many times the named command was received.
func (m *Mock) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *Mock) SeekCalls() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.seekCalls...)
}

// ResetCalls forgets recorded commands.
func (m *Mock) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.seekCalls = nil
}

func (m *Mock) Media() Media {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.media
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Created returns how many times the factory was invoked.
func (m *Mock) Created() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created
}

func (m *Mock) currentListener() Listener {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listener
}

// SimulateFinishedBuffering simulates the device reporting it can play.
func (m *Mock) SimulateFinishedBuffering() {
	if l := m.currentListener(); l != nil {
		l.FinishedBuffering()
	}
}

// SimulateWaiting simulates the device stalling for data.
func (m *Mock) SimulateWaiting() {
	if l := m.currentListener(); l != nil {
		l.Waiting()
	}
}

// SimulateMetadata simulates the device loading media metadata.
func (m *Mock) SimulateMetadata() {
	if l := m.currentListener(); l != nil {
		l.LoadedMetadata()
	}
}

// SimulateEnded simulates the media reaching its end.
func (m *Mock) SimulateEnded() {
	if l := m.currentListener(); l != nil {
		l.Ended()
	}
}

// SimulateProgress simulates a time update from the device.
func (m *Mock) SimulateProgress() {
	if l := m.currentListener(); l != nil {
		l.Progress()
	}
}

// SimulatePaused simulates the device raising a pause event.
func (m *Mock) SimulatePaused() {
	if l := m.currentListener(); l != nil {
		l.DevicePaused()
	}
}

// SimulateError simulates a native device failure.
func (m *Mock) SimulateError(code int, message string) {
	if l := m.currentListener(); l != nil {
		l.Error(code, message)
	}
}

// Verify Mock implements Device at compile time.
var _ Device = (*Mock)(nil)
