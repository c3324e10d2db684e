package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/app"
	"github.com/llehouerou/wavecast/internal/config"
	"github.com/llehouerou/wavecast/internal/download"
	"github.com/llehouerou/wavecast/internal/downloads"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/logging"
	"github.com/llehouerou/wavecast/internal/metrics"
	"github.com/llehouerou/wavecast/internal/mpris"
	"github.com/llehouerou/wavecast/internal/notify"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/player"
	"github.com/llehouerou/wavecast/internal/stderr"
	"github.com/llehouerou/wavecast/internal/tags"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpInitialize, err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logPath, err := cfg.GetLogFile()
	if err != nil {
		return fmt.Errorf("resolve log file: %w", err)
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	log, ok := logging.New(logFile, cfg.GetLogLevel())
	if !ok {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
	}
	log.Info().Msg("starting wavecast")

	// Must precede the first track load, which initialises the speaker.
	capture, err := stderr.Start(func(line string) {
		log.Warn().Str("source", "stderr").Msg(line)
	})
	if err != nil {
		log.Warn().Err(err).Msg("stderr capture unavailable")
	} else {
		defer capture.Restore()
	}

	if cfg.HasMetrics() {
		srv := metrics.NewHTTPServer(cfg.MetricsAddress)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("address", cfg.MetricsAddress).Msg("metrics server failed")
			}
		}()
		defer srv.Close()
	}

	presenter := notify.NewPresenter(newNotifier(cfg, log), log)

	svc := playback.New(
		player.NewRemoteOpener(cfg.GetHTTPTimeout(), log),
		playback.Options{
			PollInterval: cfg.GetPollInterval(),
			Logger:       log,
			Presenter:    presenter,
		},
	)
	defer svc.Close()

	relay := app.NewDownloadRelay()
	task := download.NewTask(download.TaskOptions{
		Dir:       cfg.GetDownloadDir(),
		Timeout:   cfg.GetHTTPTimeout(),
		ChunkSize: cfg.GetChunkSize(),
		Tagger:    tags.Downloads{},
		Logger:    log,
	})
	managerOpts := download.ManagerOptions{
		Reporters: []download.Reporter{presenter, relay},
		Logger:    log,
	}
	appOpts := app.Options{
		Playback: svc,
		Catalog:  cfg.Catalog(),
		Logger:   log,
	}

	store, err := downloads.Open(cfg.HistoryDB)
	if err != nil {
		log.Warn().Err(err).Msg("download history disabled")
	} else {
		defer store.Close()
		managerOpts.History = store
		appOpts.History = store
	}

	manager := download.NewManager(task, managerOpts)
	defer manager.Close()
	appOpts.Downloader = manager

	model := app.New(appOpts)

	if cfg.MPRISEnabled() {
		adapter, err := mpris.New(svc)
		if err != nil {
			log.Warn().Err(err).Msg("mpris unavailable")
		} else {
			defer adapter.Close()
		}
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	relay.Attach(p.Send)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	log.Info().Msg("exiting")
	return nil
}

func newNotifier(cfg *config.Config, log zerolog.Logger) notify.Notifier {
	if !cfg.NotificationsEnabled() {
		return notify.Disabled()
	}
	n, err := notify.New()
	if err != nil {
		log.Warn().Err(err).Msg("desktop notifications unavailable")
		return notify.Disabled()
	}
	return n
}
