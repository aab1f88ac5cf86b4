package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are derived from a Palette so the flow can repaint after the
// visitor picks an aesthetic.
type Styles struct {
	Header    lipgloss.Style
	Label     lipgloss.Style
	Body      lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Muted     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
	Selected  lipgloss.Style
	Box       lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
}

func NewStyles(p Palette) Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(p.Primary).MarginBottom(1),
		Label:     lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		Body:      lipgloss.NewStyle().Foreground(p.Text),
		Success:   lipgloss.NewStyle().Foreground(p.Success),
		Error:     lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		Warning:   lipgloss.NewStyle().Foreground(p.Warning),
		Muted:     lipgloss.NewStyle().Foreground(p.Muted),
		Subtle:    lipgloss.NewStyle().Foreground(p.Subtle).Italic(true),
		Highlight: lipgloss.NewStyle().Foreground(p.Secondary).Bold(true),
		Selected:  lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Subtle).
			Padding(1, 2),
		User:      lipgloss.NewStyle().Foreground(p.Secondary),
		Assistant: lipgloss.NewStyle().Foreground(p.Text).Bold(true),
	}
}

// Base styles for the configure wizard
var (
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleSubtle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Italic(true)
)

const logoASCII = `
                _            _
  __ _ _ __ _ __(_)_   ____ _| |
 / _' | '__| '__| \ \ / / _' | |
| (_| | |  | |  | |\ V / (_| | |
 \__,_|_|  |_|  |_| \_/ \__,_|_|`

// Logo returns the arrival ASCII art
func Logo() string {
	return StyleHeader.Render(strings.Trim(logoASCII, "\n"))
}
