package download

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/catalog"
	"github.com/llehouerou/wavecast/internal/downloads"
	"github.com/llehouerou/wavecast/internal/metrics"
)

// ErrManagerClosed is returned by Start after Close.
var ErrManagerClosed = errors.New("download: manager closed")

// History records download jobs. *downloads.Store implements it.
type History interface {
	Create(ctx context.Context, rec downloads.Record) error
	MarkDownloading(ctx context.Context, id string) error
	Finish(ctx context.Context, id, status, path string, bytes int64, errMsg string) error
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	History   History // optional
	Reporters []Reporter
	Logger    zerolog.Logger
}

// Manager runs downloads as independent background jobs. Jobs share no
// state with each other or with playback.
type Manager struct {
	task      *Task
	history   History
	reporters []Reporter
	log       zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	jobs   sync.WaitGroup
}

// Verify *downloads.Store satisfies History at compile time.
var _ History = (*downloads.Store)(nil)

// NewManager creates a manager executing jobs with task.
func NewManager(task *Task, opts ManagerOptions) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		task:      task,
		history:   opts.History,
		reporters: opts.Reporters,
		log:       opts.Logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// StartDownload downloads track under its local filename. Callers are
// responsible for any permission check before calling it.
func (m *Manager) StartDownload(track catalog.Track) (string, error) {
	return m.Start(Request{URL: track.URL, Filename: track.Filename(), Title: track.Name})
}

// Start launches req in the background and returns its job ID.
func (m *Manager) Start(req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrManagerClosed
	}

	id := uuid.NewString()
	if m.history != nil {
		err := m.history.Create(m.ctx, downloads.Record{ID: id, URL: req.URL, Filename: req.Filename})
		if err != nil {
			m.log.Warn().Err(err).Str("job", id).Msg("failed to record download")
		}
	}

	m.log.Info().Str("job", id).Str("url", req.URL).Str("filename", req.Filename).Msg("download queued")

	m.jobs.Add(1)
	go m.run(id, req)
	return id, nil
}

func (m *Manager) run(id string, req Request) {
	defer m.jobs.Done()

	metrics.DownloadsInFlight.Inc()
	defer metrics.DownloadsInFlight.Dec()

	if m.history != nil {
		if err := m.history.MarkDownloading(m.ctx, id); err != nil {
			m.log.Warn().Err(err).Str("job", id).Msg("failed to update download")
		}
	}

	outcome := m.task.Execute(m.ctx, req, ReporterFunc(func(e Event) {
		e.JobID = id
		for _, r := range m.reporters {
			r.Report(e)
		}
	}))

	status := downloads.StatusCompleted
	errMsg := ""
	if !outcome.Success {
		status = downloads.StatusFailed
		if outcome.Err != nil {
			errMsg = outcome.Err.Error()
		}
	}
	metrics.DownloadsTotal.WithLabelValues(status).Inc()

	if m.history != nil {
		// The job context may be cancelled by Close; still record the result.
		err := m.history.Finish(context.WithoutCancel(m.ctx), id, status, outcome.Path, outcome.Bytes, errMsg)
		if err != nil {
			m.log.Warn().Err(err).Str("job", id).Msg("failed to finish download record")
		}
	}
}

// Wait blocks until every started job has finished.
func (m *Manager) Wait() {
	m.jobs.Wait()
}

// Close cancels running jobs and waits for them to exit. Further calls to
// Start fail with ErrManagerClosed.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.cancel()
	m.jobs.Wait()
	return nil
}
