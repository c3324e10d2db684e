package player

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectExt(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		contentType string
		want        string
	}{
		{"mp3 extension", "https://h/a/Song-1.mp3", "", extMP3},
		{"uppercase flac", "https://h/a/b.FLAC", "", extFLAC},
		{"content type fallback", "https://h/stream", "audio/mpeg", extMP3},
		{"content type with params", "https://h/stream", "audio/flac; charset=binary", extFLAC},
		{"unknown", "https://h/stream", "text/html", ""},
		{"url wins over header", "https://h/a.mp3", "audio/flac", extMP3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectExt(tt.url, tt.contentType))
		})
	}
}

func TestRemoteOpener_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	o := NewRemoteOpener(time.Second, zerolog.Nop()).WithClient(srv.Client())
	_, err := o.Open(context.Background(), srv.URL+"/missing.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestRemoteOpener_UnsupportedFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("not audio"))
	}))
	defer srv.Close()

	o := NewRemoteOpener(time.Second, zerolog.Nop())
	_, err := o.Open(context.Background(), srv.URL+"/track.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestRemoteOpener_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	o := NewRemoteOpener(time.Second, zerolog.Nop())
	o.maxSize = 16
	_, err := o.Open(context.Background(), srv.URL+"/big.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "larger than")
}

func TestRemoteOpener_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := NewRemoteOpener(time.Second, zerolog.Nop())
	_, err := o.Open(ctx, srv.URL+"/a.mp3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMockOpener_HoldAndError(t *testing.T) {
	o := NewMockOpener(map[string]time.Duration{"a": 30 * time.Second})
	release := o.Hold("a")

	done := make(chan Handle)
	go func() {
		h, _ := o.Open(context.Background(), "a")
		done <- h
	}()

	select {
	case <-done:
		t.Fatal("Open returned before release")
	case <-time.After(20 * time.Millisecond):
	}
	release()
	h := <-done
	require.NotNil(t, h)
	assert.Equal(t, 30*time.Second, h.Duration())

	boom := errors.New("boom")
	o.SetError("b", boom)
	_, err := o.Open(context.Background(), "b")
	assert.ErrorIs(t, err, boom)
}
