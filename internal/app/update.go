// internal/app/update.go
package app

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavecast/internal/download"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/keymap"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/ui/seekprompt"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case seekprompt.Result:
		return m.handleSeekResult(msg)
	case PlaybackMessage:
		return m.handlePlaybackMsg(msg)
	case DownloadMessage:
		return m.handleDownloadMsg(msg)
	}

	// Cursor blink and other input internals.
	if m.seek.Active() {
		var cmd tea.Cmd
		m.seek, cmd = m.seek.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.seek.Active() {
		var cmd tea.Cmd
		m.seek, cmd = m.seek.Update(msg)
		return m, cmd
	}

	m.errorMsg = ""
	m.status = ""

	switch keymap.Resolve(msg.String()) {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionPlayPause:
		if err := m.svc.Toggle(); err != nil {
			m.errorMsg = errmsg.Format(errmsg.OpPlaybackToggle, err)
		}
	case keymap.ActionNextTrack:
		m.skip(m.svc.Next, playback.ErrNoNextTrack, "Already at the last track")
	case keymap.ActionPrevTrack:
		m.skip(m.svc.Previous, playback.ErrNoPreviousTrack, "Already at the first track")
	case keymap.ActionSeekForward:
		m.seekTo(m.position + seekStep)
	case keymap.ActionSeekBack:
		m.seekTo(m.position - seekStep)
	case keymap.ActionSeekTo:
		if !m.loaded {
			m.status = "No track loaded"
			return m, nil
		}
		return m, m.seek.Open()
	case keymap.ActionDownload:
		track, ok := m.svc.CurrentTrack()
		if !ok {
			m.status = "Nothing to download"
			return m, nil
		}
		return m, StartDownloadCmd(m.downloader, track)
	case keymap.ActionClearHistory:
		return m, ClearHistoryCmd(m.history)
	}
	return m, nil
}

// skip moves to an adjacent track. Hitting either end of the playlist is
// not an error for the user.
func (m *Model) skip(move func() error, boundErr error, boundMsg string) {
	err := move()
	switch {
	case errors.Is(err, boundErr):
		m.status = boundMsg
	case err != nil:
		m.errorMsg = errmsg.Format(errmsg.OpPlaybackSkip, err)
	default:
		m.loaded = false
		m.position = 0
		m.index = m.svc.Index()
		m.playlist.SetCurrent(m.index, m.playing)
	}
}

func (m *Model) seekTo(seconds int) {
	seconds = max(seconds, 0)
	if err := m.svc.Seek(seconds); err != nil {
		if !errors.Is(err, playback.ErrNotLoaded) {
			m.errorMsg = errmsg.Format(errmsg.OpPlaybackSeek, err)
		}
		return
	}
	m.position = seconds
}

func (m Model) handleSeekResult(msg seekprompt.Result) (tea.Model, tea.Cmd) {
	switch {
	case msg.Canceled:
	case msg.Err != nil:
		m.errorMsg = errmsg.Format(errmsg.OpPlaybackSeek, msg.Err)
	default:
		m.seekTo(msg.Seconds)
	}
	return m, nil
}

// handlePlaybackMsg routes playback-related messages. Every message except
// ServiceClosedMsg re-arms the event watcher.
func (m Model) handlePlaybackMsg(msg PlaybackMessage) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ServiceTrackChangedMsg:
		m.view = msg.View
		m.loaded = true
		m.index = msg.Index
		m.position = 0
		m.playlist.SetCurrent(m.index, m.playing)
	case ServiceStateChangedMsg:
		m.playing = msg.Playing
		m.playlist.SetCurrent(m.index, m.playing)
	case ServicePositionMsg:
		// Positions queued before a track change belong to the old track.
		if msg.Index == m.index {
			m.position = msg.Seconds
		}
	case ServiceErrorMsg:
		m.errorMsg = errmsg.Format(errmsg.ForPlayback(msg.Operation), msg.Err)
	case ServiceClosedMsg:
		return m, nil
	}
	return m, m.WatchServiceEvents()
}

func (m Model) handleDownloadMsg(msg DownloadMessage) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DownloadStartedMsg:
		if msg.Err != nil {
			m.errorMsg = errmsg.FormatWith(errmsg.OpDownloadStart, msg.Track.Name, msg.Err)
			return m, nil
		}
		m.status = "Downloading " + msg.Track.Name
		return m, LoadHistoryCmd(m.history)

	case DownloadEventMsg:
		e := download.Event(msg)
		m.jobs.Apply(e)
		switch e.Type {
		case download.EventCompleted:
			m.status = "Saved " + e.Path
		case download.EventFailed:
			m.errorMsg = errmsg.FormatWith(errmsg.OpDownloadFinish, e.Request.Filename, e.Err)
		case download.EventStarted, download.EventProgress:
			return m, nil
		}
		return m, LoadHistoryCmd(m.history)

	case HistoryLoadedMsg:
		if msg.Err != nil {
			m.errorMsg = errmsg.Format(errmsg.OpDownloadHistory, msg.Err)
			return m, nil
		}
		m.historyPanel.SetRecords(msg.Records)

	case HistoryClearedMsg:
		if msg.Err != nil {
			m.errorMsg = errmsg.Format(errmsg.OpDownloadClear, msg.Err)
			return m, nil
		}
		m.status = fmt.Sprintf("Cleared %d finished downloads", msg.Removed)
		return m, LoadHistoryCmd(m.history)
	}
	return m, nil
}
