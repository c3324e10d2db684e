package notify

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavecast/internal/catalog"
	"github.com/llehouerou/wavecast/internal/download"
)

type recordingNotifier struct {
	sent   []Notification
	nextID uint32
	err    error
}

func (r *recordingNotifier) Notify(n Notification) (uint32, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.sent = append(r.sent, n)
	if n.ReplacesID != 0 {
		return n.ReplacesID, nil
	}
	r.nextID++
	return r.nextID, nil
}

func (r *recordingNotifier) Close(uint32) error { return nil }

func jobEvents(job string) []download.Event {
	req := download.Request{URL: "https://x.test/a.mp3", Filename: "a.mp3"}
	return []download.Event{
		{JobID: job, Type: download.EventStarted, Request: req, Total: -1},
		{JobID: job, Type: download.EventProgress, Request: req, Percent: 50, Bytes: 2048, Total: 4096},
		{JobID: job, Type: download.EventProgress, Request: req, Percent: 100, Bytes: 4096, Total: 4096},
		{JobID: job, Type: download.EventCompleted, Request: req, Percent: download.TerminalPercent,
			Bytes: 4096, Status: download.StatusCompleted},
	}
}

func TestPresenter_DownloadUpdatesInPlace(t *testing.T) {
	rec := &recordingNotifier{}
	p := NewPresenter(rec, zerolog.Nop())

	for _, e := range jobEvents("job-1") {
		p.Report(e)
	}

	require.Len(t, rec.sent, 4)

	started := rec.sent[0]
	assert.Equal(t, titleDownloading, started.Title)
	assert.True(t, started.Indeterminate)
	assert.Nil(t, started.Progress)
	assert.Zero(t, started.ReplacesID)

	half := rec.sent[1]
	require.NotNil(t, half.Progress)
	assert.Equal(t, 50, *half.Progress)
	assert.Equal(t, uint32(1), half.ReplacesID)
	assert.Contains(t, half.Body, "2.0 kB of 4.1 kB")

	done := rec.sent[3]
	assert.Equal(t, download.StatusCompleted, done.Title)
	assert.Nil(t, done.Progress, "terminal marker must not be rendered as progress")
	assert.Equal(t, uint32(1), done.ReplacesID)

	assert.Empty(t, p.jobs, "finished jobs are forgotten")
}

func TestPresenter_FailedDownload(t *testing.T) {
	rec := &recordingNotifier{}
	p := NewPresenter(rec, zerolog.Nop())

	req := download.Request{URL: "https://x.test/a.mp3", Filename: "a.mp3"}
	p.Report(download.Event{JobID: "j", Type: download.EventStarted, Request: req})
	p.Report(download.Event{
		JobID:   "j",
		Type:    download.EventFailed,
		Request: req,
		Percent: download.TerminalPercent,
		Status:  download.StatusFailed,
		Err:     errors.New("unexpected status: 404 Not Found"),
	})

	require.Len(t, rec.sent, 2)
	failed := rec.sent[1]
	assert.Equal(t, download.StatusFailed, failed.Title)
	assert.Equal(t, UrgencyCritical, failed.Urgency)
	assert.True(t, strings.HasPrefix(failed.Body, "a.mp3: "))
	assert.Equal(t, uint32(1), failed.ReplacesID)
}

func TestPresenter_SeparateJobs(t *testing.T) {
	rec := &recordingNotifier{}
	p := NewPresenter(rec, zerolog.Nop())

	req := download.Request{Filename: "a.mp3"}
	p.Report(download.Event{JobID: "a", Type: download.EventStarted, Request: req})
	p.Report(download.Event{JobID: "b", Type: download.EventStarted, Request: req})
	p.Report(download.Event{JobID: "a", Type: download.EventProgress, Request: req, Percent: 10, Total: 100})
	p.Report(download.Event{JobID: "b", Type: download.EventProgress, Request: req, Percent: 20, Total: 100})

	require.Len(t, rec.sent, 4)
	assert.Equal(t, uint32(1), rec.sent[2].ReplacesID)
	assert.Equal(t, uint32(2), rec.sent[3].ReplacesID)
}

func TestPresenter_NotifierErrorIsLogged(t *testing.T) {
	rec := &recordingNotifier{err: errors.New("no bus")}
	p := NewPresenter(rec, zerolog.Nop())

	p.Report(jobEvents("j")[0])
	p.NowPlaying(catalog.Track{Name: "Blue Skies"})

	assert.Empty(t, p.jobs)
	assert.Zero(t, p.nowPlaying)
}

func TestPresenter_NowPlayingReplacesPrevious(t *testing.T) {
	rec := &recordingNotifier{}
	p := NewPresenter(rec, zerolog.Nop())

	p.NowPlaying(catalog.Track{Name: "Blue Skies"})
	p.NowPlaying(catalog.Track{Name: "Ambient Chill"})

	require.Len(t, rec.sent, 2)
	assert.Equal(t, titleNowPlaying, rec.sent[0].Title)
	assert.Equal(t, "Blue Skies", rec.sent[0].Body)
	assert.Zero(t, rec.sent[0].ReplacesID)
	assert.Equal(t, "Ambient Chill", rec.sent[1].Body)
	assert.Equal(t, uint32(1), rec.sent[1].ReplacesID)
}
