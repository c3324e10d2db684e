// Package render provides text layout helpers for TUI components.
package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/wavecast/internal/ui/styles"
)

// Sanitize drops control characters (except tab) so remote track names
// cannot break the terminal.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' {
			return ' '
		}
		if r != '\t' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.ToValidUTF8(s, ""))
}

// Truncate shortens plain text to maxWidth cells, ending with "…" when cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(Sanitize(s), maxWidth, "…")
}

// TruncateAndPad truncates plain text, then pads it to exactly width cells.
func TruncateAndPad(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// Fit cuts already styled text to width cells without breaking escape
// sequences.
func Fit(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// Row lays out left and right aligned content over width cells. The left
// side is cut first when both do not fit.
func Row(left, right string, width int) string {
	rightWidth := lipgloss.Width(right)
	left = Fit(left, max(width-rightWidth-1, 0))
	gap := max(width-lipgloss.Width(left)-rightWidth, 1)
	return left + strings.Repeat(" ", gap) + right
}

// Separator returns a horizontal rule of width cells.
func Separator(width int) string {
	return styles.T().S().Subtle.Render(strings.Repeat("─", max(width, 0)))
}
