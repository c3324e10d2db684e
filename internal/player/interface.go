// Package player opens remote audio tracks and plays them through the
// system audio device.
package player

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidState is returned when an operation is not allowed in the
	// handle's current state (e.g. pausing a stopped track).
	ErrInvalidState = errors.New("player: invalid state")
	// ErrReleased is returned by every operation on a closed handle.
	ErrReleased = errors.New("player: handle released")
	// ErrUnsupportedFormat is returned when a track cannot be decoded.
	ErrUnsupportedFormat = errors.New("player: unsupported format")
)

// Opener opens tracks for playback. Open blocks while the track is fetched
// and decoded; callers run it off their event loop.
type Opener interface {
	Open(ctx context.Context, url string) (Handle, error)
}

// Handle is a single opened track. A handle is exclusively owned by whoever
// opened it and must be closed to release the audio resources.
type Handle interface {
	Start() error
	Pause() error
	IsPlaying() bool
	State() State
	Position() time.Duration
	Duration() time.Duration
	SeekTo(pos time.Duration) error
	Close() error
}

// Verify implementations at compile time.
var (
	_ Opener = (*RemoteOpener)(nil)
	_ Handle = (*Track)(nil)
)
