package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/metrics"
)

const (
	// DefaultChunkSize is the read buffer size of a transfer.
	DefaultChunkSize = 4096

	// DefaultTimeout bounds a whole transfer when no client is supplied.
	DefaultTimeout = 60 * time.Second

	partSuffix = ".part"
	userAgent  = "wavecast/1.0 (https://github.com/llehouerou/wavecast)"
)

// Tagger post-processes a finished transfer at path before it is moved to
// its destination. Tagging failures are logged and do not fail the
// download.
type Tagger interface {
	Tag(path string, req Request) error
}

// TaskOptions configures a Task.
type TaskOptions struct {
	Dir       string
	Client    *http.Client
	Timeout   time.Duration
	ChunkSize int
	Tagger    Tagger // optional
	Logger    zerolog.Logger
}

// Task executes downloads into a single directory. A Task holds no
// per-download state and may run any number of downloads concurrently.
type Task struct {
	dir       string
	client    *http.Client
	chunkSize int
	tagger    Tagger
	log       zerolog.Logger
}

// NewTask creates a download task.
func NewTask(opts TaskOptions) *Task {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	return &Task{
		dir:       opts.Dir,
		client:    opts.Client,
		chunkSize: opts.ChunkSize,
		tagger:    opts.Tagger,
		log:       opts.Logger,
	}
}

// Dir returns the destination directory.
func (t *Task) Dir() string {
	return t.dir
}

// Execute downloads req.URL into Dir()/req.Filename, overwriting any
// existing file. It never panics or returns early without a terminal
// event: every path ends with exactly one Completed or Failed event.
//
// On failure the destination is left untouched: data is written to a
// temporary ".part" file that is only renamed once the transfer succeeded.
func (t *Task) Execute(ctx context.Context, req Request, r Reporter) Outcome {
	if r == nil {
		r = nopReporter{}
	}

	if err := req.Validate(); err != nil {
		return t.fail(req, r, 0, invalidError("validate", err))
	}

	r.Report(Event{Type: EventStarted, Request: req, Total: -1})

	path, written, err := t.transfer(ctx, req, r)
	metrics.DownloadBytesTotal.Add(float64(written))
	if err != nil {
		return t.fail(req, r, written, err)
	}

	t.log.Info().
		Str("url", req.URL).
		Str("path", path).
		Int64("bytes", written).
		Msg("download completed")
	r.Report(Event{
		Type:    EventCompleted,
		Request: req,
		Percent: TerminalPercent,
		Bytes:   written,
		Total:   written,
		Status:  StatusCompleted,
		Path:    path,
	})
	return Outcome{Success: true, Path: path, Bytes: written}
}

func (t *Task) fail(req Request, r Reporter, written int64, err error) Outcome {
	t.log.Error().Err(err).Str("url", req.URL).Str("filename", req.Filename).Msg("download failed")
	r.Report(Event{
		Type:    EventFailed,
		Request: req,
		Percent: TerminalPercent,
		Bytes:   written,
		Total:   -1,
		Status:  StatusFailed,
		Err:     err,
	})
	return Outcome{Bytes: written, Err: err}
}

func (t *Task) transfer(ctx context.Context, req Request, r Reporter) (path string, written int64, err error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, http.NoBody)
	if err != nil {
		return "", 0, invalidError("create request", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", 0, networkError("http request", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			t.log.Warn().Err(cerr).Str("url", req.URL).Msg("close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", 0, networkError("http request", fmt.Errorf("unexpected status: %s", resp.Status))
	}
	total := resp.ContentLength

	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return "", 0, ioError("create directory", err)
	}
	dest := filepath.Join(t.dir, req.Filename)
	part := dest + partSuffix

	f, err := os.Create(part)
	if err != nil {
		return "", 0, ioError("create file", err)
	}
	committed := false
	defer func() {
		if f != nil {
			if cerr := f.Close(); cerr != nil {
				t.log.Warn().Err(cerr).Str("path", part).Msg("close partial file")
			}
		}
		if !committed {
			if rerr := os.Remove(part); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
				t.log.Warn().Err(rerr).Str("path", part).Msg("remove partial file")
			}
		}
	}()

	buf := make([]byte, t.chunkSize)
	last := -1
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return "", written, ioError("write", werr)
			}
			written += int64(n)

			if total > 0 {
				percent := int(written * 100 / total)
				if percent <= 100 && percent != last {
					last = percent
					r.Report(Event{
						Type:    EventProgress,
						Request: req,
						Percent: percent,
						Bytes:   written,
						Total:   total,
					})
				}
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return "", written, networkError("read", rerr)
		}
	}

	if err := f.Sync(); err != nil {
		return "", written, ioError("sync", err)
	}
	cerr := f.Close()
	f = nil
	if cerr != nil {
		t.log.Warn().Err(cerr).Str("path", part).Msg("close partial file")
	}

	if t.tagger != nil {
		if err := t.tagger.Tag(part, req); err != nil {
			t.log.Warn().Err(err).Str("path", part).Msg("tag download")
		}
	}

	if err := os.Rename(part, dest); err != nil {
		return "", written, ioError("rename", err)
	}
	committed = true
	return dest, written, nil
}
