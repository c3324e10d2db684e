package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/wavecast/internal/catalog"
)

const (
	appName = "wavecast"

	DefaultHTTPTimeout  = 60 * time.Second
	DefaultChunkSize    = 4096
	DefaultPollInterval = time.Second
	DefaultLogLevel     = "info"
)

type Config struct {
	DownloadDir  string `koanf:"download_dir"`  // defaults to the XDG download dir
	HTTPTimeout  string `koanf:"http_timeout"`  // Go duration, e.g. "30s"
	ChunkSize    int    `koanf:"chunk_size"`    // download read buffer in bytes
	PollInterval string `koanf:"poll_interval"` // position refresh while playing

	LogLevel string `koanf:"log_level"` // "debug", "info", "warn", "error"
	LogFile  string `koanf:"log_file"`  // defaults to the XDG state dir

	Notifications *bool `koanf:"notifications"` // desktop notifications (default: true)
	MPRIS         *bool `koanf:"mpris"`         // media key integration (default: true)

	MetricsAddress string `koanf:"metrics_address"` // e.g. "127.0.0.1:9090", empty disables
	HistoryDB      string `koanf:"history_db"`      // download history database path

	// Catalog entries; the built-in catalog is used when empty.
	Tracks []TrackConfig `koanf:"tracks"`
}

// TrackConfig is a catalog entry.
type TrackConfig struct {
	Name string `koanf:"name"`
	URL  string `koanf:"url"`
}

func Load() (*Config, error) {
	return loadFiles(getConfigPaths())
}

func loadFiles(paths []string) (*Config, error) {
	k := koanf.New(".")

	// Last wins
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.DownloadDir = expandPath(cfg.DownloadDir)
	cfg.LogFile = expandPath(cfg.LogFile)
	cfg.HistoryDB = expandPath(cfg.HistoryDB)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/wavecast/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetDownloadDir returns the directory downloads are written to.
func (c *Config) GetDownloadDir() string {
	if c.DownloadDir != "" {
		return c.DownloadDir
	}
	return xdg.UserDirs.Download
}

// GetHTTPTimeout returns the timeout for track loading and downloads.
func (c *Config) GetHTTPTimeout() time.Duration {
	return parseDuration(c.HTTPTimeout, DefaultHTTPTimeout)
}

// GetPollInterval returns the position refresh interval.
func (c *Config) GetPollInterval() time.Duration {
	return parseDuration(c.PollInterval, DefaultPollInterval)
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// GetChunkSize returns the download buffer size.
func (c *Config) GetChunkSize() int {
	if c.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return c.ChunkSize
}

// GetLogLevel returns the configured log level name.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

// GetLogFile returns the log file path, creating its directory under the
// XDG state dir when not configured.
func (c *Config) GetLogFile() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	return xdg.StateFile(filepath.Join(appName, appName+".log"))
}

// NotificationsEnabled reports whether desktop notifications are on.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}

// MPRISEnabled reports whether the MPRIS adapter should be started.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS == nil || *c.MPRIS
}

// HasMetrics returns true if the metrics endpoint is configured.
func (c *Config) HasMetrics() bool {
	return c.MetricsAddress != ""
}

// Catalog returns the configured tracks, or the built-in catalog when none
// are valid.
func (c *Config) Catalog() catalog.Catalog {
	tracks := make([]catalog.Track, 0, len(c.Tracks))
	for _, t := range c.Tracks {
		url := strings.TrimSpace(t.URL)
		if url == "" {
			continue
		}
		name := strings.TrimSpace(t.Name)
		if name == "" {
			name = url
		}
		tracks = append(tracks, catalog.Track{Name: name, URL: url})
	}
	return catalog.OrDefault(tracks)
}
