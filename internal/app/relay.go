package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavecast/internal/download"
)

// DownloadRelay forwards download events into the running program. Events
// reported before Attach are dropped.
type DownloadRelay struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewDownloadRelay creates a detached relay.
func NewDownloadRelay() *DownloadRelay {
	return &DownloadRelay{}
}

// Attach routes future events to send, typically (*tea.Program).Send.
func (r *DownloadRelay) Attach(send func(tea.Msg)) {
	r.mu.Lock()
	r.send = send
	r.mu.Unlock()
}

// Report implements download.Reporter.
func (r *DownloadRelay) Report(e download.Event) {
	r.mu.Lock()
	send := r.send
	r.mu.Unlock()
	if send != nil {
		send(DownloadEventMsg(e))
	}
}

var _ download.Reporter = (*DownloadRelay)(nil)
