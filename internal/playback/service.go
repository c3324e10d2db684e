// Package playback coordinates playback of a catalog: it owns the current
// index, the player handle and the progress poller, and publishes track,
// state and position events to subscribers.
package playback

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/catalog"
)

var (
	ErrClosed          = errors.New("playback: service closed")
	ErrEmptyCatalog    = errors.New("playback: catalog is empty")
	ErrNoNextTrack     = errors.New("playback: no next track")
	ErrNoPreviousTrack = errors.New("playback: no previous track")
	ErrNotLoaded       = errors.New("playback: no track loaded")
)

// DefaultPollInterval is the cadence of position events while playing.
const DefaultPollInterval = time.Second

// Service defines the playback coordinator contract.
type Service interface {
	// Catalog binding
	SetCatalog(c catalog.Catalog)

	// Transport
	Toggle() error
	Next() error
	Previous() error
	Seek(seconds int) error

	// State queries
	CurrentTrack() (catalog.Track, bool)
	View() (TrackView, bool)
	Index() int
	Len() int
	IsPlaying() bool
	Position() time.Duration
	Duration() time.Duration

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}

// Presenter is told when playback starts so it can surface a
// "now playing" indicator. Calls are made off the coordinator lock.
type Presenter interface {
	NowPlaying(track catalog.Track)
}

// Options configures a Service.
type Options struct {
	PollInterval time.Duration
	Logger       zerolog.Logger
	Presenter    Presenter
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	return o
}
