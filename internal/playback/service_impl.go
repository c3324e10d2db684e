// internal/playback/service_impl.go
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/catalog"
	"github.com/llehouerou/wavecast/internal/metrics"
	"github.com/llehouerou/wavecast/internal/player"
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

// serviceImpl serialises every state mutation and event emission under mu.
// Track loads run in their own goroutine and re-enter mu to complete; a load
// whose generation is no longer current is discarded.
type serviceImpl struct {
	mu sync.Mutex

	opener    player.Opener
	presenter Presenter
	interval  time.Duration
	log       zerolog.Logger

	catalog     catalog.Catalog
	index       int
	playing     bool
	pendingPlay bool
	handle      player.Handle
	view        TrackView
	hasView     bool

	gen        uint64
	cancelLoad context.CancelFunc
	loads      sync.WaitGroup
	presenting sync.WaitGroup

	poll *poller

	subs       []*Subscription
	subsMu     sync.RWMutex
	subsClosed bool

	closed bool
}

// New creates a new playback service. The catalog is bound later with
// SetCatalog.
func New(opener player.Opener, opts Options) Service {
	opts = opts.withDefaults()
	return &serviceImpl{
		opener:    opener,
		presenter: opts.Presenter,
		interval:  opts.PollInterval,
		log:       opts.Logger,
	}
}

// SetCatalog replaces the catalog, resets the index to 0 and loads the first
// track. Playback of the previous track stops immediately.
func (s *serviceImpl) SetCatalog(c catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.catalog = c
	s.index = 0
	s.pendingPlay = false
	s.hasView = false
	s.loadLocked(false)
}

// loadLocked releases the current handle and opens the track at the current
// index in the background. autoplay starts it once loaded.
func (s *serviceImpl) loadLocked(autoplay bool) {
	s.releaseHandleLocked()

	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}

	track, ok := s.catalog.At(s.index)
	if !ok {
		return
	}

	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelLoad = cancel
	s.pendingPlay = autoplay

	metrics.PlaybackTransitionsTotal.WithLabelValues("load").Inc()
	s.log.Debug().Int("index", s.index).Str("url", track.URL).Msg("loading track")

	s.loads.Add(1)
	go func() {
		defer s.loads.Done()
		h, err := s.opener.Open(ctx, track.URL)
		s.completeLoad(gen, track, h, err)
	}()
}

func (s *serviceImpl) completeLoad(gen uint64, track catalog.Track, h player.Handle, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.gen {
		if h != nil {
			_ = h.Close()
		}
		s.log.Debug().Str("url", track.URL).Msg("discarding stale track load")
		return
	}

	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}

	if err != nil {
		s.pendingPlay = false
		s.failLocked("load", track.URL, err)
		return
	}

	s.handle = h
	s.view = s.viewLocked(track, h)
	s.hasView = true
	s.broadcastTrack(TrackChange{Track: track, View: s.view, Index: s.index})

	if s.pendingPlay {
		s.pendingPlay = false
		s.startLocked("load")
	}
}

func (s *serviceImpl) viewLocked(track catalog.Track, h player.Handle) TrackView {
	durationSeconds := 0
	if ms := h.Duration().Milliseconds(); ms > 0 {
		durationSeconds = int(ms / 1000)
	}
	return TrackView{
		Name:            track.Name,
		DurationSeconds: durationSeconds,
		HasPrevious:     s.index > 0,
		HasNext:         s.index < s.catalog.Len()-1,
	}
}

// releaseHandleLocked stops the poller, then closes the handle.
func (s *serviceImpl) releaseHandleLocked() {
	s.stopPollerLocked()
	if s.handle == nil {
		return
	}
	if err := s.handle.Close(); err != nil {
		s.log.Warn().Err(err).Msg("failed to release player")
	}
	s.handle = nil
	if s.playing {
		s.playing = false
		s.broadcastState(StateChange{Playing: false})
	}
}

// Toggle pauses when playing and starts playback otherwise. While a track is
// still loading, the request is remembered and applied on completion.
func (s *serviceImpl) Toggle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.catalog.IsEmpty() {
		return ErrEmptyCatalog
	}
	metrics.PlaybackTransitionsTotal.WithLabelValues("toggle").Inc()

	if s.handle == nil {
		if s.cancelLoad == nil {
			// Previous load failed: try again.
			s.loadLocked(true)
			return nil
		}
		s.pendingPlay = !s.pendingPlay
		return nil
	}

	if s.playing {
		s.pauseLocked()
	} else {
		s.startLocked("toggle")
	}
	return nil
}

func (s *serviceImpl) pauseLocked() {
	if err := s.handle.Pause(); err != nil {
		s.failLocked("toggle", "", err)
		return
	}
	s.stopPollerLocked()
	s.playing = false
	s.broadcastState(StateChange{Playing: false})
}

func (s *serviceImpl) startLocked(op string) {
	if err := s.handle.Start(); err != nil {
		s.failLocked(op, "", err)
		return
	}
	s.playing = true
	s.startPollerLocked()
	s.broadcastState(StateChange{Playing: true})

	if s.presenter != nil {
		if track, ok := s.catalog.At(s.index); ok {
			s.presenting.Add(1)
			go func() {
				defer s.presenting.Done()
				s.presenter.NowPlaying(track)
			}()
		}
	}
}

// failLocked logs and publishes a swallowed error. A failed load also
// clears the playing flag since there is nothing left to play.
func (s *serviceImpl) failLocked(op, url string, err error) {
	if url == "" {
		if track, ok := s.catalog.At(s.index); ok {
			url = track.URL
		}
	}
	metrics.PlaybackErrorsTotal.WithLabelValues(op).Inc()
	s.log.Error().Err(err).Str("op", op).Str("url", url).Msg("playback operation failed")
	s.broadcastError(ErrorEvent{Operation: op, URL: url, Err: err})

	if op == "load" && s.playing {
		s.playing = false
		s.broadcastState(StateChange{Playing: false})
	}
}

// Next moves to the following track and starts playing it.
func (s *serviceImpl) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.index >= s.catalog.Len()-1 {
		return ErrNoNextTrack
	}
	metrics.PlaybackTransitionsTotal.WithLabelValues("next").Inc()
	s.index++
	s.loadLocked(true)
	return nil
}

// Previous moves to the preceding track and starts playing it.
func (s *serviceImpl) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.index <= 0 || s.catalog.IsEmpty() {
		return ErrNoPreviousTrack
	}
	metrics.PlaybackTransitionsTotal.WithLabelValues("previous").Inc()
	s.index--
	s.loadLocked(true)
	return nil
}

// Seek moves playback to an absolute position in seconds. The value is not
// validated against the track duration.
func (s *serviceImpl) Seek(seconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.handle == nil {
		return ErrNotLoaded
	}
	metrics.PlaybackTransitionsTotal.WithLabelValues("seek").Inc()
	pos := time.Duration(seconds*1000) * time.Millisecond
	if err := s.handle.SeekTo(pos); err != nil {
		s.failLocked("seek", "", err)
	}
	return nil
}

// CurrentTrack returns the track at the current index.
func (s *serviceImpl) CurrentTrack() (catalog.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.At(s.index)
}

// View returns the view of the loaded track.
func (s *serviceImpl) View() (TrackView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view, s.hasView
}

// Index returns the current catalog index.
func (s *serviceImpl) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Len returns the catalog length.
func (s *serviceImpl) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Len()
}

// IsPlaying reports whether playback is running.
func (s *serviceImpl) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Position returns the playback position of the loaded track.
func (s *serviceImpl) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return 0
	}
	return s.handle.Position()
}

// Duration returns the duration of the loaded track.
func (s *serviceImpl) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return 0
	}
	return s.handle.Duration()
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	if s.subsClosed {
		sub.close()
		return sub
	}
	s.subs = append(s.subs, sub)
	return sub
}

// Close stops the poller, cancels any pending load, releases the player and
// closes all subscriptions. It waits for background work to exit.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	poll := s.poll
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
	s.releaseHandleLocked()
	s.mu.Unlock()

	if poll != nil {
		<-poll.done
	}
	s.loads.Wait()
	s.presenting.Wait()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsClosed = true
	s.subsMu.Unlock()

	return nil
}

func (s *serviceImpl) broadcastTrack(e TrackChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTrack(e)
	}
}

func (s *serviceImpl) broadcastState(e StateChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendState(e)
	}
}

func (s *serviceImpl) broadcastPosition(e PositionChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendPosition(e)
	}
}

func (s *serviceImpl) broadcastError(e ErrorEvent) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendError(e)
	}
}
