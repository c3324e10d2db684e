// Package metrics exposes Prometheus counters for downloads and playback.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Download metrics
var (
	DownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wavecast_downloads_total",
			Help: "Total number of finished downloads.",
		},
		[]string{"status"},
	)

	DownloadBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wavecast_download_bytes_total",
			Help: "Total number of bytes written by downloads.",
		},
	)

	DownloadsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wavecast_downloads_in_flight",
			Help: "Number of downloads currently running.",
		},
	)
)

// Playback metrics
var (
	PlaybackTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wavecast_playback_transitions_total",
			Help: "Total number of transport operations, by operation.",
		},
		[]string{"op"},
	)

	PlaybackErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wavecast_playback_errors_total",
			Help: "Total number of swallowed player errors, by operation.",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(
		DownloadsTotal,
		DownloadBytesTotal,
		DownloadsInFlight,
		PlaybackTransitionsTotal,
		PlaybackErrorsTotal,
	)
}
