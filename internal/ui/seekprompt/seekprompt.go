// Package seekprompt provides the "seek to position" input line.
package seekprompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavecast/internal/ui/styles"
)

// ErrInvalidPosition is returned by ParsePosition for malformed input.
var ErrInvalidPosition = errors.New("invalid position")

// Result is emitted when the prompt closes.
type Result struct {
	Seconds  int
	Canceled bool
	Err      error // set when the entered text could not be parsed
}

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.T().Primary)
}

func hintStyle() lipgloss.Style {
	return styles.T().S().Subtle
}

// Model is the seek prompt.
type Model struct {
	input  textinput.Model
	active bool
}

// New creates an inactive prompt.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "1:23"
	ti.CharLimit = 12
	ti.Prompt = "> "
	return Model{input: ti}
}

// Active reports whether the prompt is open.
func (m Model) Active() bool {
	return m.active
}

// Open shows the prompt with an empty input.
func (m *Model) Open() tea.Cmd {
	m.active = true
	m.input.SetValue("")
	return m.input.Focus()
}

func (m *Model) close() {
	m.active = false
	m.input.Blur()
}

// Update handles keys while the prompt is open.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.close()
			return m, func() tea.Msg { return Result{Canceled: true} }
		case "enter":
			text := m.input.Value()
			m.close()
			return m, func() tea.Msg {
				secs, err := ParsePosition(text)
				return Result{Seconds: secs, Err: err}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt, or nothing when it is closed.
func (m Model) View() string {
	if !m.active {
		return ""
	}
	return titleStyle().Render("Seek to") + "  " + m.input.View() + "  " +
		hintStyle().Render("Enter: confirm, Esc: cancel")
}

// ParsePosition parses "83", "1:23" or "1:02:03" into whole seconds.
func ParsePosition(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidPosition
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}

	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
		}
		// Minutes and seconds after the first field stay below 60.
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
		}
		total = total*60 + n
	}
	return total, nil
}
