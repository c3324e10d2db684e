package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// ApplyGradient renders text with a horizontal color gradient.
func ApplyGradient(text string, from, to lipgloss.Color) string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return lipgloss.NewStyle().Foreground(from).Render(text)
	}

	colors := blendColors(len(clusters), from, to)
	var b strings.Builder
	for i, cluster := range clusters {
		b.WriteString(lipgloss.NewStyle().Foreground(colors[i]).Render(cluster))
	}
	return b.String()
}

// GradientBar renders a bar of width cells where the first filled cells use
// glyph fill coloured from→to and the rest use glyph empty in the subtle
// colour.
func GradientBar(width, filled int, fill, empty string, from, to lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	filled = min(max(filled, 0), width)

	var b strings.Builder
	if filled > 0 {
		colors := blendColors(width, from, to)
		for i := range filled {
			b.WriteString(lipgloss.NewStyle().Foreground(colors[i]).Render(fill))
		}
	}
	if rest := width - filled; rest > 0 {
		b.WriteString(T().S().Subtle.Render(strings.Repeat(empty, rest)))
	}
	return b.String()
}

// blendColors returns size colors blended between from and to in HCL space.
func blendColors(size int, from, to lipgloss.Color) []lipgloss.Color {
	if size < 2 {
		return []lipgloss.Color{from}
	}

	c1 := toColorful(from)
	c2 := toColorful(to)

	colors := make([]lipgloss.Color, size)
	colors[0], colors[size-1] = from, to
	for i := 1; i < size-1; i++ {
		t := float64(i) / float64(size-1)
		colors[i] = lipgloss.Color(c1.BlendHcl(c2, t).Clamped().Hex())
	}
	return colors
}

// toColorful converts a hex lipgloss.Color; ANSI colours fall back to gray.
func toColorful(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	gray, _ := colorful.MakeColor(color.Gray{Y: 128})
	return gray
}
