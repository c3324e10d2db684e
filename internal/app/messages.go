// Package app contains the terminal UI model tying playback and downloads
// together.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavecast/internal/catalog"
	"github.com/llehouerou/wavecast/internal/download"
	"github.com/llehouerou/wavecast/internal/downloads"
	"github.com/llehouerou/wavecast/internal/playback"
)

// Message category interfaces for type-based routing in Update().

// PlaybackMessage is implemented by messages coming from the playback service.
type PlaybackMessage interface {
	tea.Msg
	playbackMessage()
}

// DownloadMessage is implemented by messages about downloads and their
// history.
type DownloadMessage interface {
	tea.Msg
	downloadMessage()
}

// ServiceTrackChangedMsg is sent when a new track finished loading.
type ServiceTrackChangedMsg playback.TrackChange

func (ServiceTrackChangedMsg) playbackMessage() {}

// ServiceStateChangedMsg is sent when playback starts or pauses.
type ServiceStateChangedMsg playback.StateChange

func (ServiceStateChangedMsg) playbackMessage() {}

// ServicePositionMsg carries the poller's position updates.
type ServicePositionMsg playback.PositionChange

func (ServicePositionMsg) playbackMessage() {}

// ServiceErrorMsg is sent when the service reports an error.
type ServiceErrorMsg playback.ErrorEvent

func (ServiceErrorMsg) playbackMessage() {}

// ServiceClosedMsg is sent when the service shuts down.
type ServiceClosedMsg struct{}

func (ServiceClosedMsg) playbackMessage() {}

// DownloadEventMsg wraps progress reported by a running download.
type DownloadEventMsg download.Event

func (DownloadEventMsg) downloadMessage() {}

// DownloadStartedMsg is the result of asking the downloader for a new job.
type DownloadStartedMsg struct {
	JobID string
	Track catalog.Track
	Err   error
}

func (DownloadStartedMsg) downloadMessage() {}

// HistoryLoadedMsg carries the download history, newest first.
type HistoryLoadedMsg struct {
	Records []downloads.Record
	Err     error
}

func (HistoryLoadedMsg) downloadMessage() {}

// HistoryClearedMsg reports how many finished records were removed.
type HistoryClearedMsg struct {
	Removed int64
	Err     error
}

func (HistoryClearedMsg) downloadMessage() {}
