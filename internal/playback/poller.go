package playback

import (
	"context"
	"time"
)

// poller is the handle of a running progress polling goroutine.
type poller struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// startPollerLocked replaces any running poller with a fresh one.
func (s *serviceImpl) startPollerLocked() {
	s.stopPollerLocked()
	ctx, cancel := context.WithCancel(context.Background())
	p := &poller{cancel: cancel, done: make(chan struct{})}
	s.poll = p
	go s.pollLoop(ctx, p)
}

// stopPollerLocked cancels the running poller, if any. Since every tick
// re-checks the context under mu, no position event can be emitted once
// this returns. Stopping twice is a no-op.
func (s *serviceImpl) stopPollerLocked() {
	if s.poll == nil {
		return
	}
	s.poll.cancel()
	s.poll = nil
}

func (s *serviceImpl) pollLoop(ctx context.Context, p *poller) {
	defer close(p.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if !s.pollOnce(ctx) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// pollOnce emits the current position. It returns false when the poller
// should exit: cancelled, no handle, or the track stopped on its own.
func (s *serviceImpl) pollOnce(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil || s.handle == nil {
		return false
	}

	if !s.handle.IsPlaying() {
		// Reached the end of the track.
		s.stopPollerLocked()
		if s.playing {
			s.playing = false
			s.broadcastState(StateChange{Playing: false})
		}
		return false
	}

	s.broadcastPosition(PositionChange{
		Index:           s.index,
		Seconds:         toSeconds(s.handle.Position()),
		DurationSeconds: s.view.DurationSeconds,
	})
	return true
}

// toSeconds truncates a position to whole seconds; non-positive positions
// report 0.
func toSeconds(pos time.Duration) int {
	if pos <= 0 {
		return 0
	}
	return int(pos / time.Second)
}
