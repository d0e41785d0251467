// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vibecraft/cadbook/internal/adapters/driving/tui/keymap"
	"github.com/vibecraft/cadbook/internal/adapters/driving/tui/styles"
)

// State represents the current batch state for display.
type State string

const (
	StateDiscovering State = "discovering"
	StateRunning     State = "running"
	StateDone        State = "done"
	StateCancelled   State = "cancelled"
	StateError       State = "error"
)

// Bar displays batch status and keybinding hints.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	state     State
	message   string
	succeeded int
	failed    int
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateDiscovering,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	frame := s.styles.StatusBar.GetHorizontalFrameSize()
	padding := s.width - frame - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state and the running counts.
func (s *Bar) renderLeft() string {
	counts := s.styles.Success.Render(fmt.Sprintf("%d ok", s.succeeded)) +
		s.styles.Muted.Render(" / ") +
		s.styles.Error.Render(fmt.Sprintf("%d failed", s.failed))

	switch s.state {
	case StateDiscovering:
		return s.styles.Muted.Render("Discovering...")
	case StateRunning:
		return s.styles.Normal.Render("Running ") + counts
	case StateDone:
		return s.styles.Success.Render("Done ") + counts
	case StateCancelled:
		return s.styles.Warning.Render("Stopped ") + counts
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	}
	return ""
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	if s.state != StateRunning && s.state != StateDiscovering {
		return ""
	}
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Help.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetCounts sets the success and failure counts.
func (s *Bar) SetCounts(succeeded, failed int) {
	s.succeeded = succeeded
	s.failed = failed
}

// Counts returns the success and failure counts.
func (s *Bar) Counts() (succeeded, failed int) {
	return s.succeeded, s.failed
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
