package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leonardotrapani/arrival/internal/onboarding"
)

// Palette is the set of colors one aesthetic paints with.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Subtle    lipgloss.Color
}

// Default palette, also used by the configure wizard
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan

	ColorSuccess = lipgloss.Color("#22C55E")
	ColorError   = lipgloss.Color("#EF4444")
	ColorWarning = lipgloss.Color("#F59E0B")

	ColorText   = lipgloss.Color("#F8FAFC")
	ColorMuted  = lipgloss.Color("#94A3B8")
	ColorSubtle = lipgloss.Color("#64748B")
)

var defaultPalette = Palette{
	Primary:   ColorPrimary,
	Secondary: ColorSecondary,
	Success:   ColorSuccess,
	Error:     ColorError,
	Warning:   ColorWarning,
	Text:      ColorText,
	Muted:     ColorMuted,
	Subtle:    ColorSubtle,
}

var palettes = map[onboarding.Aesthetic]Palette{
	onboarding.AestheticClean: {
		Primary: "#0EA5E9", Secondary: "#64748B", Success: ColorSuccess, Error: ColorError,
		Warning: ColorWarning, Text: "#F1F5F9", Muted: "#94A3B8", Subtle: "#475569",
	},
	onboarding.AestheticWarm: {
		Primary: "#F97316", Secondary: "#FBBF24", Success: "#84CC16", Error: "#DC2626",
		Warning: "#F59E0B", Text: "#FFF7ED", Muted: "#FDBA74", Subtle: "#9A3412",
	},
	onboarding.AestheticDark: {
		Primary: "#A1A1AA", Secondary: "#E4E4E7", Success: "#4ADE80", Error: "#F87171",
		Warning: "#FACC15", Text: "#FAFAFA", Muted: "#71717A", Subtle: "#3F3F46",
	},
	onboarding.AestheticVivid: {
		Primary: "#EC4899", Secondary: "#22D3EE", Success: "#A3E635", Error: "#F43F5E",
		Warning: "#FDE047", Text: "#FFFFFF", Muted: "#C084FC", Subtle: "#7E22CE",
	},
}

// PaletteFor returns the palette of an aesthetic, or the default one when
// none has been chosen.
func PaletteFor(a onboarding.Aesthetic) Palette {
	if p, ok := palettes[a]; ok {
		return p
	}
	return defaultPalette
}
