// internal/player/mock.go
package player

import (
	"context"
	"sync"
	"time"
)

// Mock is a test double for Handle.
type Mock struct {
	mu        sync.Mutex
	url       string
	state     State
	position  time.Duration
	duration  time.Duration
	startErr  error
	pauseErr  error
	seekCalls []time.Duration
	closed    bool
}

// NewMock creates a stopped mock handle with the given duration.
func NewMock(url string, duration time.Duration) *Mock {
	return &Mock{url: url, duration: duration}
}

func (m *Mock) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrReleased
	}
	if m.startErr != nil {
		return m.startErr
	}
	m.state = Playing
	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrReleased
	}
	if m.pauseErr != nil {
		return m.pauseErr
	}
	if !m.state.CanPause() {
		return ErrInvalidState
	}
	m.state = Paused
	return nil
}

func (m *Mock) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == Playing
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) SeekTo(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrReleased
	}
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.state = Stopped
	return nil
}

// Test helpers

func (m *Mock) URL() string { return m.url }

func (m *Mock) SetStartError(err error) {
	m.mu.Lock()
	m.startErr = err
	m.mu.Unlock()
}

func (m *Mock) SetPauseError(err error) {
	m.mu.Lock()
	m.pauseErr = err
	m.mu.Unlock()
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	m.position = d
	m.mu.Unlock()
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// SimulateFinished moves a playing mock back to Stopped, as reaching the end
// of the stream does.
func (m *Mock) SimulateFinished() {
	m.mu.Lock()
	m.state = Stopped
	m.position = m.duration
	m.mu.Unlock()
}

// MockOpener is a test double for Opener. Each Open returns a new Mock.
type MockOpener struct {
	mu        sync.Mutex
	durations map[string]time.Duration
	errs      map[string]error
	gates     map[string]chan struct{}
	opened    []*Mock
}

// NewMockOpener creates an opener whose tracks have the given durations.
// Unknown URLs open with a zero duration.
func NewMockOpener(durations map[string]time.Duration) *MockOpener {
	if durations == nil {
		durations = map[string]time.Duration{}
	}
	return &MockOpener{
		durations: durations,
		errs:      map[string]error{},
		gates:     map[string]chan struct{}{},
	}
}

func (o *MockOpener) Open(ctx context.Context, url string) (Handle, error) {
	o.mu.Lock()
	gate := o.gates[url]
	o.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.errs[url]; err != nil {
		return nil, err
	}
	m := NewMock(url, o.durations[url])
	o.opened = append(o.opened, m)
	return m, nil
}

// SetError makes Open fail for url.
func (o *MockOpener) SetError(url string, err error) {
	o.mu.Lock()
	o.errs[url] = err
	o.mu.Unlock()
}

// Hold makes Open for url block until the returned release func is called
// or the context is cancelled.
func (o *MockOpener) Hold(url string) (release func()) {
	ch := make(chan struct{})
	o.mu.Lock()
	o.gates[url] = ch
	o.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.gates, url)
			o.mu.Unlock()
			close(ch)
		})
	}
}

// Opened returns every handle opened so far, in order.
func (o *MockOpener) Opened() []*Mock {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*Mock(nil), o.opened...)
}

// Last returns the most recently opened handle, or nil.
func (o *MockOpener) Last() *Mock {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.opened) == 0 {
		return nil
	}
	return o.opened[len(o.opened)-1]
}

// Verify Mock implementations at compile time.
var (
	_ Handle = (*Mock)(nil)
	_ Opener = (*MockOpener)(nil)
)
