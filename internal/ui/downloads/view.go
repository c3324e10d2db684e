package downloads

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/wavecast/internal/downloads"
	"github.com/llehouerou/wavecast/internal/ui/render"
	"github.com/llehouerou/wavecast/internal/ui/styles"
)

const (
	completedSymbol = "\u2713" // ✓
	failedSymbol    = "\u2717" // ✗
	downloadingIcon = "\u21E9" // ⇩
	pendingIcon     = "\u25CB" // ○

	sepBullet = " • "
)

// headerHeight covers the header line and its separator.
const headerHeight = 2

func headerStyle() lipgloss.Style { return styles.T().S().Title }
func rowStyle() lipgloss.Style    { return styles.T().S().Base }
func metaStyle() lipgloss.Style   { return styles.T().S().Muted }
func emptyStyle() lipgloss.Style  { return styles.T().S().Muted.Italic(true) }

// now is replaced in tests.
var now = time.Now

// View renders the history panel.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	innerWidth := m.width - 2
	listHeight := max(m.height-2-headerHeight, 0)

	header := headerStyle().Render(render.TruncateAndPad(m.headerText(), innerWidth))
	content := header + "\n" + render.Separator(innerWidth) + "\n" + m.renderList(innerWidth, listHeight)

	return styles.T().S().Panel.
		Width(innerWidth).
		Height(m.height - 2).
		Render(content)
}

// headerText builds "Downloads (1 active, 2 done, 1 failed)".
func (m Model) headerText() string {
	if len(m.records) == 0 {
		return "Downloads"
	}

	var active, completed, failed int
	for _, r := range m.records {
		switch r.Status {
		case downloads.StatusPending, downloads.StatusDownloading:
			active++
		case downloads.StatusCompleted:
			completed++
		case downloads.StatusFailed:
			failed++
		}
	}

	var parts []string
	if active > 0 {
		parts = append(parts, fmt.Sprintf("%d active", active))
	}
	if completed > 0 {
		parts = append(parts, fmt.Sprintf("%d done", completed))
	}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	return fmt.Sprintf("Downloads (%s)", strings.Join(parts, ", "))
}

func (m Model) renderList(width, height int) string {
	if height <= 0 {
		return ""
	}
	if len(m.records) == 0 {
		return emptyStyle().Render(render.TruncateAndPad("No downloads yet", width))
	}

	n := min(len(m.records), height)
	lines := make([]string, 0, n)
	for i := range n {
		lines = append(lines, renderRecord(m.records[i], width))
	}
	return strings.Join(lines, "\n")
}

// renderRecord renders "✓ name.mp3 • 9.2 MB • 3 minutes ago".
func renderRecord(r downloads.Record, width int) string {
	symbol, style := statusSymbol(r.Status)

	var details []string
	switch r.Status {
	case downloads.StatusCompleted:
		details = append(details, humanize.Bytes(uint64(max(r.Bytes, 0))))
	case downloads.StatusFailed:
		if r.Error != "" {
			details = append(details, r.Error)
		}
	default:
		details = append(details, r.Status)
	}
	if !r.UpdatedAt.IsZero() {
		details = append(details, humanize.RelTime(r.UpdatedAt, now(), "ago", "from now"))
	}

	left := style.Render(symbol) + " " + rowStyle().Render(render.Sanitize(r.Filename))
	right := metaStyle().Render(render.Sanitize(strings.Join(details, sepBullet)))
	if lipgloss.Width(left)+1+lipgloss.Width(right) > width {
		return render.Fit(left+sepBullet+right, width)
	}
	return render.Row(left, right, width)
}

func statusSymbol(status string) (string, lipgloss.Style) {
	s := styles.T().S()
	switch status {
	case downloads.StatusCompleted:
		return completedSymbol, s.Success
	case downloads.StatusFailed:
		return failedSymbol, s.Error
	case downloads.StatusDownloading:
		return downloadingIcon, s.Playing
	default:
		return pendingIcon, s.Muted
	}
}
