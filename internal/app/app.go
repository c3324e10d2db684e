// internal/app/app.go
package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/catalog"
	"github.com/llehouerou/wavecast/internal/playback"
	dlview "github.com/llehouerou/wavecast/internal/ui/downloads"
	"github.com/llehouerou/wavecast/internal/ui/jobbar"
	"github.com/llehouerou/wavecast/internal/ui/playlistpanel"
	"github.com/llehouerou/wavecast/internal/ui/seekprompt"
)

// seekStep is the jump applied by the left/right keys, in seconds.
const seekStep = 10

// Options wires the model to its collaborators.
type Options struct {
	Playback   playback.Service
	Catalog    catalog.Catalog
	Downloader Downloader
	History    History // optional
	Logger     zerolog.Logger
}

// Model is the root application model.
type Model struct {
	svc        playback.Service
	sub        *playback.Subscription
	downloader Downloader
	history    History
	log        zerolog.Logger

	playlist     playlistpanel.Model
	historyPanel dlview.Model
	jobs         jobbar.State
	seek         seekprompt.Model

	// Last state reported by the playback service.
	view     playback.TrackView
	loaded   bool
	index    int
	playing  bool
	position int

	status   string
	errorMsg string
	width    int
	height   int
}

// New subscribes to the playback service and binds it to opts.Catalog.
// Subscribing first guarantees the first track change reaches the model.
func New(opts Options) Model {
	m := Model{
		svc:          opts.Playback,
		downloader:   opts.Downloader,
		history:      opts.History,
		log:          opts.Logger,
		playlist:     playlistpanel.New(opts.Catalog),
		historyPanel: dlview.New(),
		seek:         seekprompt.New(),
	}
	m.sub = m.svc.Subscribe()
	m.svc.SetCatalog(opts.Catalog)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.WatchServiceEvents(), LoadHistoryCmd(m.history))
}
