// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success marks files that produced instructions.
	Success lipgloss.Color

	// Warning marks interrupted runs.
	Warning lipgloss.Color

	// Error marks failed files.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// ProgressStart and ProgressEnd are the progress bar gradient.
	ProgressStart lipgloss.Color
	ProgressEnd   lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:       lipgloss.Color("#F59E0B"), // Amber
		Secondary:     lipgloss.Color("#38BDF8"), // Blueprint blue
		Foreground:    lipgloss.Color("#E5E7EB"), // Light gray
		Muted:         lipgloss.Color("#6B7280"), // Medium gray
		Success:       lipgloss.Color("#4ADE80"), // Green
		Warning:       lipgloss.Color("#FACC15"), // Yellow
		Error:         lipgloss.Color("#F87171"), // Red
		Border:        lipgloss.Color("#374151"), // Border gray
		ProgressStart: lipgloss.Color("#38BDF8"),
		ProgressEnd:   lipgloss.Color("#4ADE80"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for the header line.
	Title lipgloss.Style

	// Subtitle style for the project root.
	Subtitle lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Error style for failures.
	Error lipgloss.Style

	// Success style for successes.
	Success lipgloss.Style

	// Warning style for interruptions.
	Warning lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for key hints.
	Help lipgloss.Style

	// Panel style for the bordered body.
	Panel lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
