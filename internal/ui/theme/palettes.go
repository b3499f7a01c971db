package theme

import "github.com/charmbracelet/lipgloss"

// DarkTheme is the default palette (Catppuccin Mocha).
var DarkTheme = Theme{
	Name:        "Dark",
	Mode:        Dark,
	ChromaStyle: "catppuccin-mocha",

	Base:    lipgloss.Color("#1e1e2e"),
	Surface: lipgloss.Color("#313244"),
	Overlay: lipgloss.Color("#45475a"),

	Text:    lipgloss.Color("#cdd6f4"),
	Subtext: lipgloss.Color("#a6adc8"),
	Muted:   lipgloss.Color("#585b70"),

	Mauve:    lipgloss.Color("#cba6f7"),
	Red:      lipgloss.Color("#f38ba8"),
	Peach:    lipgloss.Color("#fab387"),
	Yellow:   lipgloss.Color("#f9e2af"),
	Green:    lipgloss.Color("#a6e3a1"),
	Teal:     lipgloss.Color("#94e2d5"),
	Blue:     lipgloss.Color("#89b4fa"),
	Lavender: lipgloss.Color("#b4befe"),

	BorderFocused:   lipgloss.Color("#cba6f7"),
	BorderUnfocused: lipgloss.Color("#585b70"),
}

// LightTheme is the light palette (Catppuccin Latte).
var LightTheme = Theme{
	Name:        "Light",
	Mode:        Light,
	ChromaStyle: "catppuccin-latte",

	Base:    lipgloss.Color("#eff1f5"),
	Surface: lipgloss.Color("#ccd0da"),
	Overlay: lipgloss.Color("#9ca0b0"),

	Text:    lipgloss.Color("#4c4f69"),
	Subtext: lipgloss.Color("#6c6f85"),
	Muted:   lipgloss.Color("#8c8fa1"),

	Mauve:    lipgloss.Color("#8839ef"),
	Red:      lipgloss.Color("#d20f39"),
	Peach:    lipgloss.Color("#fe640b"),
	Yellow:   lipgloss.Color("#df8e1d"),
	Green:    lipgloss.Color("#40a02b"),
	Teal:     lipgloss.Color("#179299"),
	Blue:     lipgloss.Color("#1e66f5"),
	Lavender: lipgloss.Color("#7287fd"),

	BorderFocused:   lipgloss.Color("#8839ef"),
	BorderUnfocused: lipgloss.Color("#8c8fa1"),
}
