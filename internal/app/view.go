// internal/app/view.go
package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavecast/internal/keymap"
	"github.com/llehouerou/wavecast/internal/ui/jobbar"
	"github.com/llehouerou/wavecast/internal/ui/playerbar"
	"github.com/llehouerou/wavecast/internal/ui/render"
	"github.com/llehouerou/wavecast/internal/ui/styles"
)

// statusHeight is the single status/help line under the player bar.
const statusHeight = 1

// View renders the application UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	jobsView := jobbar.Render(m.jobs, m.width)
	mainHeight := max(m.height-playerbar.Height-jobbar.Height(m.jobs.ActiveCount())-statusHeight, 0)

	leftWidth := m.width / 2
	playlist := m.playlist
	playlist.SetSize(leftWidth, mainHeight)
	history := m.historyPanel
	history.SetSize(m.width-leftWidth, mainHeight)

	sections := []string{lipgloss.JoinHorizontal(lipgloss.Top, playlist.View(), history.View())}
	if jobsView != "" {
		sections = append(sections, jobsView)
	}
	sections = append(sections,
		playerbar.Render(m.playerState(), m.width),
		m.renderStatusLine(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) playerState() playerbar.State {
	s := playerbar.State{
		Index:   m.index,
		Total:   m.playlist.Len(),
		Playing: m.playing,
		Loaded:  m.loaded,
	}
	if m.loaded {
		s.Name = m.view.Name
		s.PositionSeconds = m.position
		s.DurationSeconds = m.view.DurationSeconds
		s.HasPrevious = m.view.HasPrevious
		s.HasNext = m.view.HasNext
	}
	return s
}

func (m Model) renderStatusLine() string {
	st := styles.T().S()
	switch {
	case m.seek.Active():
		return render.Fit(m.seek.View(), m.width)
	case m.errorMsg != "":
		return st.Error.Render(render.Truncate(m.errorMsg, m.width))
	case m.status != "":
		return st.Base.Render(render.Truncate(m.status, m.width))
	default:
		return st.Muted.Render(render.Truncate(keymap.Help(keymap.All), m.width))
	}
}
