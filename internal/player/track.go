package player

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Track is a decoded track ready to play on the speaker.
//
// Lock order is t.mu then the speaker lock. The end-of-stream callback runs
// under the speaker lock and therefore only touches the atomic flag.
type Track struct {
	mu       sync.Mutex
	url      string
	state    State
	streamer beep.StreamSeekCloser
	format   beep.Format
	duration time.Duration
	ctrl     *beep.Ctrl
	queued   bool
	released bool
	finished atomic.Bool
}

func newTrack(url string, s beep.StreamSeekCloser, format beep.Format) *Track {
	return &Track{
		url:      url,
		streamer: s,
		format:   format,
		duration: format.SampleRate.D(s.Len()),
	}
}

// Start begins or resumes playback. Starting a playing track is a no-op.
func (t *Track) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return ErrReleased
	}
	t.syncFinishedLocked()

	switch t.state {
	case Playing:
		return nil
	case Paused:
		speaker.Lock()
		t.ctrl.Paused = false
		speaker.Unlock()
		t.state = Playing
		return nil
	case Stopped:
		return t.playLocked()
	}
	return ErrInvalidState
}

func (t *Track) playLocked() error {
	rate, err := ensureSpeaker(t.format.SampleRate)
	if err != nil {
		return err
	}
	if t.queued {
		if err := t.rewindIfFinishedLocked(); err != nil {
			return err
		}
	}
	t.finished.Store(false)
	t.ctrl = &beep.Ctrl{Streamer: adapt(t.streamer, t.format.SampleRate, rate)}
	t.queued = true
	t.state = Playing
	speaker.Play(beep.Seq(t.ctrl, beep.Callback(func() {
		t.finished.Store(true)
	})))
	return nil
}

// rewindIfFinishedLocked seeks back to the start when the stream sits at its
// end. A position set with SeekTo after the track finished is kept.
func (t *Track) rewindIfFinishedLocked() error {
	speaker.Lock()
	defer speaker.Unlock()
	if t.streamer.Position() < t.streamer.Len() {
		return nil
	}
	return t.streamer.Seek(0)
}

// syncFinishedLocked moves a track that played to the end back to Stopped.
func (t *Track) syncFinishedLocked() {
	if t.state == Playing && t.finished.Load() {
		t.state = Stopped
	}
}

// Pause pauses a playing track.
func (t *Track) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return ErrReleased
	}
	t.syncFinishedLocked()
	if !t.state.CanPause() {
		return ErrInvalidState
	}
	speaker.Lock()
	t.ctrl.Paused = true
	speaker.Unlock()
	t.state = Paused
	return nil
}

// IsPlaying reports whether the track is currently audible.
func (t *Track) IsPlaying() bool {
	return t.State() == Playing
}

// State returns the current state.
func (t *Track) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.syncFinishedLocked()
	return t.state
}

// Position returns the current playback position.
func (t *Track) Position() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return 0
	}
	speaker.Lock()
	pos := t.streamer.Position()
	speaker.Unlock()
	return t.format.SampleRate.D(pos)
}

// Duration returns the total length of the track, computed once when the
// track was decoded.
func (t *Track) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return 0
	}
	return t.duration
}

// SeekTo moves playback to an absolute position. The decoder clamps the
// position to the track bounds.
func (t *Track) SeekTo(pos time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return ErrReleased
	}
	speaker.Lock()
	err := t.streamer.Seek(t.format.SampleRate.N(pos))
	speaker.Unlock()
	return err
}

// Close stops playback and releases the decoder. Closing twice is a no-op.
func (t *Track) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return nil
	}
	t.released = true
	t.state = Stopped
	if t.ctrl != nil {
		speaker.Lock()
		t.ctrl.Paused = true
		t.ctrl.Streamer = nil
		speaker.Unlock()
	}
	return t.streamer.Close()
}

// URL returns the source URL of the track.
func (t *Track) URL() string { return t.url }
