package terminal

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for console output.
type Theme struct {
	// Primary is the main accent colour, used for headers.
	Primary lipgloss.Color

	// Secondary is used for prompts.
	Secondary lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Info marks neutral notices such as moved files.
	Info lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#F9E2AF"), // Yellow
		Secondary: lipgloss.Color("#89B4FA"), // Blue
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Success:   lipgloss.Color("#A6E3A1"), // Green
		Info:      lipgloss.Color("#74C7EC"), // Sapphire
		Warning:   lipgloss.Color("#FAB387"), // Peach
		Error:     lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains pre-configured lipgloss styles bound to one renderer.
type Styles struct {
	Header  lipgloss.Style
	Prompt  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles creates styles for renderer from a theme.
// The renderer decides whether colours are emitted at all.
func NewStyles(r *lipgloss.Renderer, theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		Header:  r.NewStyle().Bold(true).Foreground(theme.Primary),
		Prompt:  r.NewStyle().Bold(true).Foreground(theme.Secondary),
		Muted:   r.NewStyle().Foreground(theme.Muted),
		Success: r.NewStyle().Bold(true).Foreground(theme.Success),
		Info:    r.NewStyle().Foreground(theme.Info),
		Warning: r.NewStyle().Foreground(theme.Warning),
		Error:   r.NewStyle().Foreground(theme.Error),
	}
}
