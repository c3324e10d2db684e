package player

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/rs/zerolog"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"

	// DefaultMaxTrackSize bounds the in-memory buffer of a single track.
	DefaultMaxTrackSize = 256 << 20

	userAgent = "wavecast/1.0 (https://github.com/llehouerou/wavecast)"
)

// RemoteOpener fetches tracks over HTTP, buffers them in memory so they are
// seekable, and decodes them.
type RemoteOpener struct {
	client  *http.Client
	maxSize int64
	log     zerolog.Logger
}

// NewRemoteOpener creates an opener using the given request timeout.
func NewRemoteOpener(timeout time.Duration, log zerolog.Logger) *RemoteOpener {
	return &RemoteOpener{
		client:  &http.Client{Timeout: timeout},
		maxSize: DefaultMaxTrackSize,
		log:     log,
	}
}

// WithClient replaces the HTTP client.
func (o *RemoteOpener) WithClient(c *http.Client) *RemoteOpener {
	o.client = c
	return o
}

// Open fetches and decodes the track at rawURL.
func (o *RemoteOpener) Open(ctx context.Context, rawURL string) (Handle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, o.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > o.maxSize {
		return nil, fmt.Errorf("track larger than %d bytes", o.maxSize)
	}

	ext := detectExt(rawURL, resp.Header.Get("Content-Type"))
	streamer, format, err := decode(ext, data)
	if err != nil {
		return nil, err
	}

	o.log.Debug().
		Str("url", rawURL).
		Str("format", strings.TrimPrefix(ext, ".")).
		Int("sample_rate", int(format.SampleRate)).
		Int("bytes", len(data)).
		Msg("track decoded")

	return newTrack(rawURL, streamer, format), nil
}

type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }

func decode(ext string, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	src := readSeekNopCloser{bytes.NewReader(data)}
	switch ext {
	case extMP3:
		return decodeMP3(src)
	case extFLAC:
		return flac.Decode(src)
	}
	return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// detectExt prefers the URL extension and falls back to the content type.
func detectExt(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		switch ext := strings.ToLower(path.Ext(u.Path)); ext {
		case extMP3, extFLAC:
			return ext
		}
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "audio/mpeg", "audio/mp3":
		return extMP3
	case "audio/flac", "audio/x-flac":
		return extFLAC
	}
	return ""
}
