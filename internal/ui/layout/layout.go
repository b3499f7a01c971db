package layout

import tea "github.com/charmbracelet/bubbletea"

// PanelLayout holds calculated dimensions for the request form and response panels.
type PanelLayout struct {
	Width  int
	Height int

	FormWidth     int
	ResponseWidth int

	ContentHeight  int // height minus title and status bar
	FormHeight     int
	ResponseHeight int

	// Inner sizes of the form text areas and the response body viewport.
	HeadersHeight  int
	BodyHeight     int
	ViewportHeight int

	// Stacked places the response below the form on narrow terminals.
	Stacked bool
}

const (
	titleHeight     = 1
	statusBarHeight = 1
	minFormWidth    = 40
	maxFormWidth    = 72
	stackBreakpoint = 90

	// URL line, two field labels and the panel border.
	formChrome = 5
	// Meta block (status, time, length), a blank line and the panel border.
	responseChrome = 6
)

// Calculate computes the panel layout from terminal dimensions.
func Calculate(width, height int) PanelLayout {
	l := PanelLayout{
		Width:         width,
		Height:        height,
		ContentHeight: height - titleHeight - statusBarHeight,
	}

	if l.ContentHeight < 2 {
		l.ContentHeight = 2
	}

	if width < stackBreakpoint {
		l.Stacked = true
		l.FormWidth = width
		l.ResponseWidth = width
		l.FormHeight = l.ContentHeight / 2
		l.ResponseHeight = l.ContentHeight - l.FormHeight
	} else {
		l.FormWidth = clamp(width*2/5, minFormWidth, maxFormWidth)
		l.ResponseWidth = width - l.FormWidth
		l.FormHeight = l.ContentHeight
		l.ResponseHeight = l.ContentHeight
	}

	inner := l.FormHeight - formChrome
	l.HeadersHeight = max(inner/3, 1)
	l.BodyHeight = max(inner-l.HeadersHeight, 1)
	l.ViewportHeight = max(l.ResponseHeight-responseChrome, 1)

	return l
}

// HandleResize processes a WindowSizeMsg and returns the updated layout.
func HandleResize(msg tea.WindowSizeMsg) PanelLayout {
	return Calculate(msg.Width, msg.Height)
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
