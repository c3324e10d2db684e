package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavecast/internal/catalog"
	"github.com/llehouerou/wavecast/internal/downloads"
)

func newTestManager(t *testing.T, reporters ...Reporter) (*Manager, *downloads.Store) {
	t.Helper()
	store, err := downloads.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	task := NewTask(TaskOptions{Dir: t.TempDir(), Logger: zerolog.Nop()})
	m := NewManager(task, ManagerOptions{History: store, Reporters: reporters, Logger: zerolog.Nop()})
	t.Cleanup(func() { _ = m.Close() })
	return m, store
}

func TestManager_StartDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("track bytes"))
	}))
	defer srv.Close()

	rec := &recorder{}
	m, store := newTestManager(t, rec)

	track := catalog.Track{Name: "Blue Skies", URL: srv.URL + "/song.mp3"}
	id, err := m.StartDownload(track)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	m.Wait()

	events := rec.all()
	require.NotEmpty(t, events)
	for _, e := range events {
		assert.Equal(t, id, e.JobID)
		assert.Equal(t, "blue-skies.mp3", e.Request.Filename)
	}
	final := events[len(events)-1]
	assert.Equal(t, EventCompleted, final.Type)

	got, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, downloads.StatusCompleted, got.Status)
	assert.Equal(t, int64(len("track bytes")), got.Bytes)
	assert.Equal(t, final.Path, got.Path)
}

func TestManager_FailedDownloadRecorded(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	m, store := newTestManager(t)

	id, err := m.Start(Request{URL: srv.URL, Filename: "x.mp3"})
	require.NoError(t, err)
	m.Wait()

	got, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, downloads.StatusFailed, got.Status)
	assert.Contains(t, got.Error, "404")
}

func TestManager_ConcurrentJobs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	m, store := newTestManager(t)

	ids := make([]string, 0, 5)
	for i := range 5 {
		id, err := m.Start(Request{URL: srv.URL + "/t", Filename: string(rune('a'+i)) + ".mp3"})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	m.Wait()

	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 5)
	for _, r := range records {
		assert.Equal(t, downloads.StatusCompleted, r.Status)
		assert.Contains(t, ids, r.ID)
	}
}

func TestManager_StartAfterClose(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.Close())

	_, err := m.Start(Request{URL: "http://example.invalid", Filename: "a.mp3"})
	assert.ErrorIs(t, err, ErrManagerClosed)
	assert.NoError(t, m.Close())
}

func TestManager_WithoutHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	rec := &recorder{}
	task := NewTask(TaskOptions{Dir: t.TempDir()})
	m := NewManager(task, ManagerOptions{Reporters: []Reporter{rec}})
	defer m.Close()

	_, err := m.Start(Request{URL: srv.URL, Filename: "a.mp3"})
	require.NoError(t, err)
	m.Wait()

	assert.Equal(t, EventCompleted, rec.all()[len(rec.all())-1].Type)
}
