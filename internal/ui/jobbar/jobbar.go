// Package jobbar displays download progress at the bottom of the screen.
package jobbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/wavecast/internal/download"
	"github.com/llehouerou/wavecast/internal/ui/render"
	"github.com/llehouerou/wavecast/internal/ui/styles"
)

// BorderHeight is the height of borders around the job bar.
const BorderHeight = 2

// Height returns the total height for the given number of active jobs.
func Height(activeCount int) int {
	if activeCount == 0 {
		return 0
	}
	return activeCount + BorderHeight
}

// Job is a single download as seen by the bar.
type Job struct {
	ID            string
	Label         string
	Percent       int
	Indeterminate bool
	Bytes         int64
	Done          bool
	Failed        bool
}

// State holds the jobs to display, in start order.
type State struct {
	Jobs []Job
}

// Apply folds a download event into the state. Terminal events remove the
// job from the bar.
func (s *State) Apply(e download.Event) {
	i := s.index(e.JobID)
	if e.Type.Terminal() {
		if i >= 0 {
			s.Jobs = append(s.Jobs[:i], s.Jobs[i+1:]...)
		}
		return
	}
	if i < 0 {
		s.Jobs = append(s.Jobs, Job{ID: e.JobID, Label: e.Request.Filename})
		i = len(s.Jobs) - 1
	}
	j := &s.Jobs[i]
	j.Bytes = e.Bytes
	j.Indeterminate = e.Indeterminate() || e.Total <= 0
	if e.Type == download.EventProgress {
		j.Percent = e.Percent
	}
}

func (s *State) index(id string) int {
	for i := range s.Jobs {
		if s.Jobs[i].ID == id {
			return i
		}
	}
	return -1
}

// ActiveCount returns the number of unfinished jobs.
func (s State) ActiveCount() int {
	count := 0
	for _, j := range s.Jobs {
		if !j.Done && !j.Failed {
			count++
		}
	}
	return count
}

func labelStyle() lipgloss.Style {
	return styles.T().S().Title
}

func progressStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func markerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().Primary)
}

// Render renders the job bar with the given width.
// Returns empty string if there are no active jobs.
func Render(state State, width int) string {
	if state.ActiveCount() == 0 {
		return ""
	}

	innerWidth := width - 2

	var lines []string
	for _, j := range state.Jobs {
		if !j.Done && !j.Failed {
			lines = append(lines, renderJobLine(j, innerWidth))
		}
	}

	return styles.T().S().Panel.
		Width(innerWidth).
		Render(strings.Join(lines, "\n"))
}

// renderJobLine renders "◦ Label  [━━━━────] 42%  1.2 MB", or the label and
// byte count alone when the total size is unknown.
func renderJobLine(job Job, width int) string {
	size := humanize.Bytes(uint64(max(job.Bytes, 0)))

	if job.Indeterminate {
		labelWidth := max(width-2-2-lipgloss.Width(size), 10)
		return markerStyle().Render("◦") + " " +
			labelStyle().Render(render.TruncateAndPad(job.Label, labelWidth)) + "  " +
			progressStyle().Render(size)
	}

	info := fmt.Sprintf("%3d%%  %s", job.Percent, size)
	infoWidth := lipgloss.Width(info)

	// marker(2) + brackets(2) + spacing(3)
	fixedWidth := 2 + 2 + 3 + infoWidth
	minBarWidth := 10
	labelWidth := max(width-fixedWidth-minBarWidth, 10)
	barWidth := max(width-labelWidth-fixedWidth, minBarWidth)
	filled := min(barWidth*job.Percent/100, barWidth)

	t := styles.T()
	var b strings.Builder
	b.WriteString(markerStyle().Render("◦"))
	b.WriteString(" ")
	b.WriteString(labelStyle().Render(render.TruncateAndPad(job.Label, labelWidth)))
	b.WriteString("  [")
	b.WriteString(styles.GradientBar(barWidth, filled, "━", "─", t.Primary, t.Secondary))
	b.WriteString("] ")
	b.WriteString(progressStyle().Render(info))
	return b.String()
}
