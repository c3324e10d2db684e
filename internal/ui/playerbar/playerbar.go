// Package playerbar renders the now-playing bar.
package playerbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavecast/internal/ui/render"
	"github.com/llehouerou/wavecast/internal/ui/styles"
)

// Height is the rendered height: top border, content, bottom border.
const Height = 3

// State holds everything needed to render the player bar.
type State struct {
	Name            string
	Index           int
	Total           int
	Playing         bool
	Loaded          bool
	PositionSeconds int
	DurationSeconds int
	HasPrevious     bool
	HasNext         bool
}

// Render returns the player bar for the given width.
//
// Layout: ◀ ▶ ▶  Name   2/5   ━━━━────   1:23 / 6:12
func Render(s State, width int) string {
	innerWidth := max(width-6, 0)

	if s.Total == 0 {
		content := metaStyle().Render("No tracks")
		return barStyle().Padding(0, 2).Width(width - 2).Render(content)
	}

	status := pauseSymbol
	switch {
	case !s.Loaded:
		status = loadSymbol
	case s.Playing:
		status = playSymbol
	}

	name := s.Name
	if name == "" {
		name = "Loading"
	}

	nav := navStyle(s.HasPrevious).Render("⏮") + " " +
		statusStyle().Render(status) + " " +
		navStyle(s.HasNext).Render("⏭")
	counter := fmt.Sprintf("%d/%d", s.Index+1, s.Total)
	timeStr := fmt.Sprintf("%s / %s", formatSeconds(s.PositionSeconds), formatSeconds(s.DurationSeconds))

	const sep = "   "
	fixed := lipgloss.Width(nav) + lipgloss.Width(counter) + lipgloss.Width(timeStr) + 4*len(sep)
	minBarWidth := 10
	nameWidth := min(lipgloss.Width(render.Sanitize(name)), max(innerWidth-fixed-minBarWidth, 5))
	barWidth := max(innerWidth-fixed-nameWidth, 5)

	var filled int
	if s.DurationSeconds > 0 {
		filled = min(barWidth*s.PositionSeconds/s.DurationSeconds, barWidth)
	}
	t := styles.T()
	bar := styles.GradientBar(barWidth, filled, "━", "─", t.Primary, t.Secondary)

	var content strings.Builder
	content.WriteString(nav)
	content.WriteString(sep)
	content.WriteString(titleStyle().Render(render.Truncate(name, nameWidth)))
	content.WriteString(sep)
	content.WriteString(metaStyle().Render(counter))
	content.WriteString(sep)
	content.WriteString(bar)
	content.WriteString(sep)
	content.WriteString(metaStyle().Render(timeStr))

	return barStyle().Padding(0, 2).Width(width - 2).Render(content.String())
}

// formatSeconds renders m:ss, or h:mm:ss past an hour.
func formatSeconds(secs int) string {
	secs = max(secs, 0)
	h, m, s := secs/3600, (secs/60)%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
