package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavecast/internal/catalog"
)

// historyTimeout bounds history database queries issued from the UI.
const historyTimeout = 5 * time.Second

// WatchServiceEvents returns a command that waits for playback service events.
// It listens on all subscription channels and converts events to tea.Msg.
func (m Model) WatchServiceEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		select {
		case e := <-sub.TrackChanged:
			return ServiceTrackChangedMsg(e)
		case e := <-sub.StateChanged:
			return ServiceStateChangedMsg(e)
		case e := <-sub.PositionChanged:
			return ServicePositionMsg(e)
		case e := <-sub.Error:
			return ServiceErrorMsg(e)
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// StartDownloadCmd asks d to download track in the background.
func StartDownloadCmd(d Downloader, track catalog.Track) tea.Cmd {
	if d == nil {
		return nil
	}
	return func() tea.Msg {
		id, err := d.StartDownload(track)
		return DownloadStartedMsg{JobID: id, Track: track, Err: err}
	}
}

// LoadHistoryCmd reads the download history. Without a history store it
// does nothing.
func LoadHistoryCmd(h History) tea.Cmd {
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		records, err := h.List(ctx)
		return HistoryLoadedMsg{Records: records, Err: err}
	}
}

// ClearHistoryCmd removes finished downloads from the history.
func ClearHistoryCmd(h History) tea.Cmd {
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		n, err := h.DeleteFinished(ctx)
		return HistoryClearedMsg{Removed: n, Err: err}
	}
}
