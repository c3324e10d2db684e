// Package playlistpanel renders the track list with the current track
// highlighted.
package playlistpanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavecast/internal/catalog"
	"github.com/llehouerou/wavecast/internal/ui/render"
	"github.com/llehouerou/wavecast/internal/ui/styles"
)

// headerHeight covers the header line and its separator.
const headerHeight = 2

const (
	playingSymbol = "▶"
	pausedSymbol  = "⏸"
)

// Model is the playlist panel. It is read-only: the track order never
// changes while the program runs.
type Model struct {
	tracks  []catalog.Track
	current int
	playing bool
	width   int
	height  int
}

// New creates a panel showing c.
func New(c catalog.Catalog) Model {
	return Model{tracks: c.Tracks()}
}

// SetSize sets the outer size of the panel, borders included.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetCurrent marks the track at index as the current one.
func (m *Model) SetCurrent(index int, playing bool) {
	m.current = index
	m.playing = playing
}

// Len returns the number of tracks.
func (m Model) Len() int {
	return len(m.tracks)
}

func headerStyle() lipgloss.Style { return styles.T().S().Title }
func trackStyle() lipgloss.Style  { return styles.T().S().Base }
func playingStyle() lipgloss.Style {
	return styles.T().S().Playing
}
func emptyStyle() lipgloss.Style { return styles.T().S().Muted.Italic(true) }

// View renders the panel.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	innerWidth := m.width - 2
	listHeight := max(m.height-2-headerHeight, 0)

	header := headerStyle().Render(render.TruncateAndPad(m.headerText(), innerWidth))
	content := header + "\n" + render.Separator(innerWidth) + "\n" + m.renderTrackList(innerWidth, listHeight)

	return styles.T().S().Panel.
		Width(innerWidth).
		Height(m.height - 2).
		Render(content)
}

func (m Model) headerText() string {
	if len(m.tracks) == 0 {
		return "Playlist"
	}
	return fmt.Sprintf("Playlist (%d/%d)", m.current+1, len(m.tracks))
}

func (m Model) renderTrackList(width, height int) string {
	if len(m.tracks) == 0 {
		return emptyStyle().Render(render.TruncateAndPad("No tracks configured", width))
	}
	if height <= 0 {
		return ""
	}

	start, end := window(len(m.tracks), m.current, height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderTrackLine(i, width))
	}
	return strings.Join(lines, "\n")
}

// renderTrackLine renders "▶  3. Name".
func (m Model) renderTrackLine(idx, width int) string {
	marker := " "
	if idx == m.current {
		marker = pausedSymbol
		if m.playing {
			marker = playingSymbol
		}
	}
	text := fmt.Sprintf("%s %2d. %s", marker, idx+1, m.tracks[idx].Name)
	text = render.TruncateAndPad(text, width)
	if idx == m.current {
		return playingStyle().Render(text)
	}
	return trackStyle().Render(text)
}

// window returns the [start, end) range of height rows that keeps current
// visible, centred when possible.
func window(total, current, height int) (start, end int) {
	if total <= height {
		return 0, total
	}
	start = max(current-height/2, 0)
	start = min(start, total-height)
	return start, start + height
}
