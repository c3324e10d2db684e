package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavecast/internal/ui/styles"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	loadSymbol  = "…"
)

func barStyle() lipgloss.Style {
	return styles.T().S().Panel
}

func titleStyle() lipgloss.Style {
	return styles.T().S().Title
}

func metaStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func statusStyle() lipgloss.Style {
	return styles.T().S().Playing
}

func navStyle(enabled bool) lipgloss.Style {
	if enabled {
		return styles.T().S().Base
	}
	return styles.T().S().Subtle
}
