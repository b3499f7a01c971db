package theme

import "github.com/charmbracelet/lipgloss"

// Mode selects between the light and dark palettes.
type Mode string

const (
	Dark  Mode = "dark"
	Light Mode = "light"
)

// Theme holds all colors for the application.
type Theme struct {
	Name string
	Mode Mode

	// ChromaStyle names the chroma style used to highlight response bodies.
	ChromaStyle string

	// Base colors
	Base    lipgloss.Color
	Surface lipgloss.Color
	Overlay lipgloss.Color

	// Text
	Text    lipgloss.Color
	Subtext lipgloss.Color
	Muted   lipgloss.Color

	// Accents
	Mauve    lipgloss.Color
	Red      lipgloss.Color
	Peach    lipgloss.Color
	Yellow   lipgloss.Color
	Green    lipgloss.Color
	Teal     lipgloss.Color
	Blue     lipgloss.Color
	Lavender lipgloss.Color

	// Semantic
	BorderFocused   lipgloss.Color
	BorderUnfocused lipgloss.Color
}

// MethodColor returns the color for an HTTP method.
func (t Theme) MethodColor(method string) lipgloss.Color {
	switch method {
	case "GET":
		return t.Green
	case "POST":
		return t.Yellow
	case "PUT":
		return t.Blue
	case "PATCH":
		return t.Peach
	case "DELETE":
		return t.Red
	default:
		return t.Text
	}
}

// StatusColor returns the color for an HTTP status code.
func (t Theme) StatusColor(code int) lipgloss.Color {
	switch {
	case code >= 200 && code < 300:
		return t.Green
	case code >= 300 && code < 400:
		return t.Blue
	case code >= 400 && code < 500:
		return t.Yellow
	case code >= 500:
		return t.Red
	default:
		return t.Text
	}
}
