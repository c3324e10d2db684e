package notify

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/catalog"
	"github.com/llehouerou/wavecast/internal/download"
	"github.com/llehouerou/wavecast/internal/playback"
)

// Verify Presenter implementations at compile time.
var (
	_ download.Reporter  = (*Presenter)(nil)
	_ playback.Presenter = (*Presenter)(nil)
)

const (
	titleDownloading = "Downloading"
	titleNowPlaying  = "Now playing"

	doneTimeout       = 5000
	nowPlayingTimeout = 3000
)

// Presenter renders download progress and "now playing" as desktop
// notifications. Each download job owns one notification that is updated
// in place until it finishes.
type Presenter struct {
	notifier Notifier
	log      zerolog.Logger

	mu         sync.Mutex
	jobs       map[string]uint32
	nowPlaying uint32
}

// NewPresenter creates a presenter sending through n.
func NewPresenter(n Notifier, log zerolog.Logger) *Presenter {
	return &Presenter{
		notifier: n,
		log:      log,
		jobs:     make(map[string]uint32),
	}
}

// Report implements download.Reporter.
func (p *Presenter) Report(e download.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := downloadNotification(e)
	n.ReplacesID = p.jobs[e.JobID]

	id, err := p.notifier.Notify(n)
	if err != nil {
		p.log.Warn().Err(err).Str("job", e.JobID).Msg("failed to send download notification")
		return
	}

	if e.Type.Terminal() {
		delete(p.jobs, e.JobID)
		return
	}
	if id != 0 {
		p.jobs[e.JobID] = id
	}
}

// NowPlaying shows the track that just started, replacing the previous
// "now playing" notification.
func (p *Presenter) NowPlaying(track catalog.Track) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, err := p.notifier.Notify(Notification{
		Title:      titleNowPlaying,
		Body:       track.Name,
		Icon:       "audio-x-generic",
		Timeout:    nowPlayingTimeout,
		ReplacesID: p.nowPlaying,
		Urgency:    UrgencyLow,
	})
	if err != nil {
		p.log.Warn().Err(err).Str("track", track.Name).Msg("failed to send now playing notification")
		return
	}
	p.nowPlaying = id
}

func downloadNotification(e download.Event) Notification {
	name := e.Request.Filename
	switch e.Type {
	case download.EventStarted:
		return Notification{
			Title:         titleDownloading,
			Body:          name,
			Icon:          "folder-download",
			Timeout:       0,
			Urgency:       UrgencyLow,
			Indeterminate: true,
		}
	case download.EventProgress:
		percent := e.Percent
		return Notification{
			Title:    titleDownloading,
			Body:     progressBody(name, e.Bytes, e.Total),
			Icon:     "folder-download",
			Timeout:  0,
			Urgency:  UrgencyLow,
			Progress: &percent,
		}
	case download.EventCompleted:
		return Notification{
			Title:   download.StatusCompleted,
			Body:    fmt.Sprintf("%s (%s)", name, humanize.Bytes(uint64(max(e.Bytes, 0)))),
			Icon:    "emblem-ok",
			Timeout: doneTimeout,
			Urgency: UrgencyNormal,
		}
	default:
		body := name
		if e.Err != nil {
			body = fmt.Sprintf("%s: %v", name, e.Err)
		}
		return Notification{
			Title:   download.StatusFailed,
			Body:    body,
			Icon:    "dialog-error",
			Timeout: doneTimeout,
			Urgency: UrgencyCritical,
		}
	}
}

func progressBody(name string, bytes, total int64) string {
	if total <= 0 {
		return fmt.Sprintf("%s\n%s", name, humanize.Bytes(uint64(max(bytes, 0))))
	}
	return fmt.Sprintf("%s\n%s of %s",
		name,
		humanize.Bytes(uint64(max(bytes, 0))),
		humanize.Bytes(uint64(total)),
	)
}
