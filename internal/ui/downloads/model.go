// Package downloads renders the download history panel.
package downloads

import (
	"github.com/llehouerou/wavecast/internal/downloads"
)

// Model holds the history records shown by the panel, newest first.
type Model struct {
	records []downloads.Record
	width   int
	height  int
}

// New creates an empty history panel.
func New() Model {
	return Model{}
}

// SetRecords replaces the displayed records.
func (m *Model) SetRecords(records []downloads.Record) {
	m.records = records
}

// Records returns the displayed records.
func (m Model) Records() []downloads.Record {
	return m.records
}

// SetSize sets the outer size of the panel, borders included.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsEmpty reports whether there is nothing to show.
func (m Model) IsEmpty() bool {
	return len(m.records) == 0
}

// FinishedCount returns how many records reached a terminal status.
func (m Model) FinishedCount() int {
	n := 0
	for _, r := range m.records {
		if r.IsFinished() {
			n++
		}
	}
	return n
}
