// internal/app/app_test.go
package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/catalog"
	"github.com/llehouerou/wavecast/internal/download"
	"github.com/llehouerou/wavecast/internal/downloads"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/player"
	"github.com/llehouerou/wavecast/internal/ui/seekprompt"
)

var (
	trackA = catalog.Track{Name: "Blue Skies", URL: "https://tracks.test/a.mp3"}
	trackB = catalog.Track{Name: "Ambient Chill", URL: "https://tracks.test/b.mp3"}

	errBoom = errors.New("boom")
)

type fakeDownloader struct {
	mu     sync.Mutex
	tracks []catalog.Track
	err    error
}

func (d *fakeDownloader) StartDownload(track catalog.Track) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return "", d.err
	}
	d.tracks = append(d.tracks, track)
	return "job-1", nil
}

type fakeHistory struct {
	records []downloads.Record
	removed int64
	err     error
}

func (h *fakeHistory) List(context.Context) ([]downloads.Record, error) {
	return h.records, h.err
}

func (h *fakeHistory) DeleteFinished(context.Context) (int64, error) {
	return h.removed, h.err
}

type testEnv struct {
	opener     *player.MockOpener
	svc        playback.Service
	downloader *fakeDownloader
	history    *fakeHistory
}

// newTestModel must run inside a synctest bubble.
func newTestModel(t *testing.T, tracks ...catalog.Track) (Model, *testEnv) {
	t.Helper()
	env := &testEnv{
		opener: player.NewMockOpener(map[string]time.Duration{
			trackA.URL: 3 * time.Minute,
			trackB.URL: 90 * time.Second,
		}),
		downloader: &fakeDownloader{},
		history:    &fakeHistory{},
	}
	env.svc = playback.New(env.opener, playback.Options{Logger: zerolog.Nop()})
	t.Cleanup(func() { _ = env.svc.Close() })

	m := New(Options{
		Playback:   env.svc,
		Catalog:    catalog.New(tracks...),
		Downloader: env.downloader,
		History:    env.history,
		Logger:     zerolog.Nop(),
	})
	return m, env
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return mm, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// pump waits for the service to settle and feeds every pending event to
// the model.
func pump(t *testing.T, m Model) Model {
	t.Helper()
	synctest.Wait()
	for {
		select {
		case e := <-m.sub.TrackChanged:
			m, _ = update(t, m, ServiceTrackChangedMsg(e))
		case e := <-m.sub.StateChanged:
			m, _ = update(t, m, ServiceStateChangedMsg(e))
		case e := <-m.sub.PositionChanged:
			m, _ = update(t, m, ServicePositionMsg(e))
		case e := <-m.sub.Error:
			m, _ = update(t, m, ServiceErrorMsg(e))
		default:
			return m
		}
	}
}

func TestNew_LoadsFirstTrack(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, _ := newTestModel(t, trackA, trackB)
		synctest.Wait()

		msg := m.WatchServiceEvents()()
		changed, ok := msg.(ServiceTrackChangedMsg)
		if !ok {
			t.Fatalf("expected ServiceTrackChangedMsg, got %T", msg)
		}
		if changed.Index != 0 || changed.View.Name != trackA.Name {
			t.Errorf("track change = %+v", changed)
		}

		m, cmd := update(t, m, msg)
		if !m.loaded || m.view.DurationSeconds != 180 {
			t.Errorf("model not updated: loaded=%v view=%+v", m.loaded, m.view)
		}
		if cmd == nil {
			t.Error("expected watcher to be re-armed")
		}
	})
}

func TestSpace_TogglesPlayback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, env := newTestModel(t, trackA, trackB)
		m = pump(t, m)

		m, _ = update(t, m, key(" "))
		m = pump(t, m)
		if !env.svc.IsPlaying() || !m.playing {
			t.Fatalf("expected playing: service=%v model=%v", env.svc.IsPlaying(), m.playing)
		}

		m, _ = update(t, m, key(" "))
		m = pump(t, m)
		if env.svc.IsPlaying() || m.playing {
			t.Error("expected paused after second toggle")
		}
	})
}

func TestNext_MovesAndResumes(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, env := newTestModel(t, trackA, trackB)
		m = pump(t, m)

		m, _ = update(t, m, key("n"))
		if m.loaded || m.index != 1 {
			t.Errorf("expected loading track 1, got loaded=%v index=%d", m.loaded, m.index)
		}

		m = pump(t, m)
		if !m.loaded || m.view.Name != trackB.Name || !m.playing {
			t.Errorf("after load: loaded=%v view=%+v playing=%v", m.loaded, m.view, m.playing)
		}
		if !env.svc.IsPlaying() {
			t.Error("skip should resume playback")
		}
	})
}

func TestNext_AtEndShowsStatus(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, _ := newTestModel(t, trackA)
		m = pump(t, m)

		m, _ = update(t, m, key("n"))
		if m.status != "Already at the last track" || m.errorMsg != "" {
			t.Errorf("status=%q error=%q", m.status, m.errorMsg)
		}

		m, _ = update(t, m, key("p"))
		if m.status != "Already at the first track" {
			t.Errorf("status=%q", m.status)
		}
	})
}

func TestSeekKeys(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, env := newTestModel(t, trackA)
		m = pump(t, m)

		m, _ = update(t, m, key("right"))
		m, _ = update(t, m, key("left"))
		m, _ = update(t, m, key("left"))

		got := env.opener.Last().SeekCalls()
		want := []time.Duration{10 * time.Second, 0, 0}
		if len(got) != len(want) {
			t.Fatalf("seek calls = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("seek call %d = %v, want %v", i, got[i], want[i])
			}
		}
		if m.position != 0 {
			t.Errorf("position = %d, want 0", m.position)
		}
	})
}

func TestSeekPrompt(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, env := newTestModel(t, trackA)
		m = pump(t, m)

		m, _ = update(t, m, key("g"))
		if !m.seek.Active() {
			t.Fatal("expected seek prompt to open")
		}
		for _, r := range "1:23" {
			m, _ = update(t, m, key(string(r)))
		}
		m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		if m.seek.Active() || cmd == nil {
			t.Fatalf("expected prompt to close with a result, active=%v", m.seek.Active())
		}

		m, _ = update(t, m, cmd())
		calls := env.opener.Last().SeekCalls()
		if len(calls) != 1 || calls[0] != 83*time.Second {
			t.Errorf("seek calls = %v, want [1m23s]", calls)
		}
		if m.position != 83 {
			t.Errorf("position = %d, want 83", m.position)
		}

		m, _ = update(t, m, seekprompt.Result{Err: seekprompt.ErrInvalidPosition})
		if !strings.HasPrefix(m.errorMsg, "Failed to seek") {
			t.Errorf("errorMsg = %q", m.errorMsg)
		}
	})
}

func TestSeekPrompt_RequiresLoadedTrack(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, _ := newTestModel(t, trackA)

		// No track change has reached the model yet.
		m, _ = update(t, m, key("g"))
		if m.seek.Active() || m.status != "No track loaded" {
			t.Errorf("active=%v status=%q", m.seek.Active(), m.status)
		}
	})
}

func TestDownloadKey(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, env := newTestModel(t, trackA, trackB)
		m = pump(t, m)

		_, cmd := update(t, m, key("d"))
		if cmd == nil {
			t.Fatal("expected download command")
		}
		msg := cmd()
		started, ok := msg.(DownloadStartedMsg)
		if !ok || started.Err != nil || started.JobID != "job-1" {
			t.Fatalf("unexpected message %#v", msg)
		}
		if len(env.downloader.tracks) != 1 || env.downloader.tracks[0] != trackA {
			t.Errorf("downloaded %v, want [%v]", env.downloader.tracks, trackA)
		}

		m, cmd = update(t, m, started)
		if m.status != "Downloading "+trackA.Name {
			t.Errorf("status = %q", m.status)
		}
		if cmd == nil {
			t.Error("expected history refresh")
		}
	})
}

func TestDownloadStartError(t *testing.T) {
	m := Model{}
	m, _ = update(t, m, DownloadStartedMsg{Track: trackA, Err: download.ErrManagerClosed})
	want := "Failed to start download 'Blue Skies': " + download.ErrManagerClosed.Error()
	if m.errorMsg != want {
		t.Errorf("errorMsg = %q, want %q", m.errorMsg, want)
	}
}

func TestDownloadEvents_UpdateJobBar(t *testing.T) {
	m := Model{history: &fakeHistory{}}
	req := download.Request{URL: trackA.URL, Filename: "blue-skies.mp3"}

	m, cmd := update(t, m, DownloadEventMsg{JobID: "j", Type: download.EventStarted, Request: req, Total: -1})
	if m.jobs.ActiveCount() != 1 || cmd != nil {
		t.Fatalf("after start: jobs=%d cmd=%v", m.jobs.ActiveCount(), cmd != nil)
	}

	m, _ = update(t, m, DownloadEventMsg{JobID: "j", Type: download.EventProgress, Request: req, Percent: 50, Bytes: 5, Total: 10})
	if m.jobs.Jobs[0].Percent != 50 {
		t.Errorf("percent = %d", m.jobs.Jobs[0].Percent)
	}

	m, cmd = update(t, m, DownloadEventMsg{
		JobID: "j", Type: download.EventFailed, Request: req,
		Percent: download.TerminalPercent, Err: errBoom,
	})
	if m.jobs.ActiveCount() != 0 {
		t.Error("failed job should leave the bar")
	}
	if m.errorMsg != "Failed to download track 'blue-skies.mp3': boom" {
		t.Errorf("errorMsg = %q", m.errorMsg)
	}
	if cmd == nil {
		t.Error("expected history refresh after terminal event")
	}
}

func TestDownloadCompleted_ShowsPath(t *testing.T) {
	m := Model{}
	m, _ = update(t, m, DownloadEventMsg{JobID: "j", Type: download.EventCompleted, Path: "/music/blue-skies.mp3"})
	if m.status != "Saved /music/blue-skies.mp3" {
		t.Errorf("status = %q", m.status)
	}
}

func TestHistoryMessages(t *testing.T) {
	h := &fakeHistory{records: []downloads.Record{{ID: "1", Filename: "a.mp3", Status: downloads.StatusCompleted}}, removed: 1}
	m := Model{history: h}

	msg := LoadHistoryCmd(h)()
	m, _ = update(t, m, msg)
	if len(m.historyPanel.Records()) != 1 {
		t.Fatalf("records = %v", m.historyPanel.Records())
	}

	m, cmd := update(t, m, key("c"))
	if cmd == nil {
		t.Fatal("expected clear command")
	}
	m, cmd = update(t, m, cmd())
	if m.status != "Cleared 1 finished downloads" || cmd == nil {
		t.Errorf("status=%q refresh=%v", m.status, cmd != nil)
	}

	m, _ = update(t, m, HistoryLoadedMsg{Err: errBoom})
	if m.errorMsg != "Failed to load download history: boom" {
		t.Errorf("errorMsg = %q", m.errorMsg)
	}
}

func TestHistoryCommands_WithoutStore(t *testing.T) {
	if LoadHistoryCmd(nil) != nil || ClearHistoryCmd(nil) != nil {
		t.Error("commands without a store should be nil")
	}
	if StartDownloadCmd(nil, trackA) != nil {
		t.Error("download command without a downloader should be nil")
	}
}

func TestPosition_IgnoresPreviousTrack(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, _ := newTestModel(t, trackA, trackB)
		m = pump(t, m)

		m, _ = update(t, m, ServiceTrackChangedMsg{Index: 1, Track: trackB, View: playback.TrackView{Name: trackB.Name}})
		m, _ = update(t, m, ServicePositionMsg{Index: 0, Seconds: 42})
		if m.position != 0 {
			t.Errorf("position = %d after stale update, want 0", m.position)
		}

		m, _ = update(t, m, ServicePositionMsg{Index: 1, Seconds: 5})
		if m.position != 5 {
			t.Errorf("position = %d, want 5", m.position)
		}
	})
}

func TestServiceError(t *testing.T) {
	m := Model{}
	m, _ = update(t, m, ServiceErrorMsg{Operation: "toggle", Err: errBoom})
	if m.errorMsg != "Failed to toggle playback: boom" {
		t.Errorf("errorMsg = %q", m.errorMsg)
	}

	// A key press clears the error.
	m, _ = update(t, m, key("x"))
	if m.errorMsg != "" {
		t.Errorf("errorMsg not cleared: %q", m.errorMsg)
	}
}

func TestServiceClosed_StopsWatching(t *testing.T) {
	m := Model{}
	_, cmd := update(t, m, ServiceClosedMsg{})
	if cmd != nil {
		t.Error("closed service should not be watched again")
	}
}

func TestQuit(t *testing.T) {
	_, cmd := update(t, Model{}, key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestView(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, _ := newTestModel(t, trackA, trackB)
		m = pump(t, m)
		if m.View() != "" {
			t.Error("view before the first resize should be empty")
		}

		m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})
		out := ansi.Strip(m.View())
		for _, want := range []string{"Playlist (1/2)", "Downloads", trackA.Name, "0:00 / 3:00", "space play/pause"} {
			if !strings.Contains(out, want) {
				t.Errorf("view missing %q:\n%s", want, out)
			}
		}
		if got := strings.Count(m.View(), "\n") + 1; got != 20 {
			t.Errorf("view height = %d, want 20", got)
		}
	})
}

func TestDownloadRelay(t *testing.T) {
	r := NewDownloadRelay()
	r.Report(download.Event{JobID: "dropped"})

	var got []tea.Msg
	r.Attach(func(msg tea.Msg) { got = append(got, msg) })
	r.Report(download.Event{JobID: "j", Type: download.EventProgress})

	if len(got) != 1 {
		t.Fatalf("got %d messages, want 1", len(got))
	}
	if e, ok := got[0].(DownloadEventMsg); !ok || e.JobID != "j" {
		t.Errorf("unexpected message %#v", got[0])
	}
}
