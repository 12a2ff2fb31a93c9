// Package theme defines the light and dark palettes of the terminal UI.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named color palette.
type Theme struct {
	Name      string
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Accent    lipgloss.Color
	Correct   lipgloss.Color
	Incorrect lipgloss.Color
	Remaining lipgloss.Color
	Border    lipgloss.Color
	Surface   lipgloss.Color
}

// Light is the Catppuccin Latte palette.
var Light = Theme{
	Name:      "light",
	Text:      lipgloss.Color("#4c4f69"),
	Muted:     lipgloss.Color("#8c8fa1"),
	Accent:    lipgloss.Color("#1e66f5"),
	Correct:   lipgloss.Color("#40a02b"),
	Incorrect: lipgloss.Color("#d20f39"),
	Remaining: lipgloss.Color("#bcc0cc"),
	Border:    lipgloss.Color("#9ca0b0"),
	Surface:   lipgloss.Color("#e6e9ef"),
}

// Dark is the Catppuccin Mocha palette.
var Dark = Theme{
	Name:      "dark",
	Text:      lipgloss.Color("#cdd6f4"),
	Muted:     lipgloss.Color("#a6adc8"),
	Accent:    lipgloss.Color("#74c7ec"),
	Correct:   lipgloss.Color("#a6e3a1"),
	Incorrect: lipgloss.Color("#f38ba8"),
	Remaining: lipgloss.Color("#45475a"),
	Border:    lipgloss.Color("#585b70"),
	Surface:   lipgloss.Color("#181825"),
}

// Default is used when nothing was persisted.
var Default = Light

// Parse resolves a theme by name. An empty name yields Default.
func Parse(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return Default, nil
	case Light.Name:
		return Light, nil
	case Dark.Name:
		return Dark, nil
	default:
		return Theme{}, fmt.Errorf("unknown theme %q (want light or dark)", name)
	}
}

// Toggle switches between light and dark.
func Toggle(t Theme) Theme {
	if t.Name == Dark.Name {
		return Light
	}
	return Dark
}

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Title     lipgloss.Style
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Correct   lipgloss.Style
	Incorrect lipgloss.Style
	Remaining lipgloss.Style
	Card      lipgloss.Style
	Panel     lipgloss.Style
	Notice    lipgloss.Style
	TabActive lipgloss.Style
	Tab       lipgloss.Style
}

// Styles builds the styles of t.
func (t Theme) Styles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Text:      lipgloss.NewStyle().Foreground(t.Text),
		Muted:     lipgloss.NewStyle().Foreground(t.Muted),
		Accent:    lipgloss.NewStyle().Foreground(t.Accent),
		Correct:   lipgloss.NewStyle().Foreground(t.Correct),
		Incorrect: lipgloss.NewStyle().Foreground(t.Incorrect),
		Remaining: lipgloss.NewStyle().Foreground(t.Remaining),
		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Foreground(t.Text).
			Padding(1, 2),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent).
			Foreground(t.Text).
			Padding(0, 1),
		Notice:    lipgloss.NewStyle().Foreground(t.Surface).Background(t.Accent).Padding(0, 1),
		TabActive: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(t.Accent),
		Tab:       lipgloss.NewStyle().Foreground(t.Muted),
	}
}
