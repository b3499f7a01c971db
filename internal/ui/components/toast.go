package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/apitester/internal/ui/theme"
)

const defaultToastDuration = 3 * time.Second

// toastDismissMsg hides the toast shown with the same sequence number.
type toastDismissMsg struct{ seq int }

// Toast is a transient status notice, e.g. "Saved" or a send failure.
// A newer Show restarts the timer; the tick of an older one is ignored.
type Toast struct {
	Visible  bool
	text     string
	isError  bool
	duration time.Duration
	seq      int
	theme    theme.Theme
	styles   theme.Styles
}

func NewToast(t theme.Theme, s theme.Styles) Toast {
	return Toast{
		theme:    t,
		styles:   s,
		duration: defaultToastDuration,
	}
}

// Show displays text and returns the tick that dismisses it.
// A non-positive duration uses the default.
func (m *Toast) Show(text string, isError bool, duration time.Duration) tea.Cmd {
	if duration <= 0 {
		duration = defaultToastDuration
	}
	m.seq++
	m.Visible = true
	m.text = text
	m.isError = isError
	m.duration = duration

	seq := m.seq
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return toastDismissMsg{seq: seq}
	})
}

// SetTheme swaps the palette used to render the toast.
func (m *Toast) SetTheme(t theme.Theme, s theme.Styles) {
	m.theme = t
	m.styles = s
}

func (m Toast) Init() tea.Cmd {
	return nil
}

func (m Toast) Update(msg tea.Msg) (Toast, tea.Cmd) {
	if d, ok := msg.(toastDismissMsg); ok && d.seq == m.seq {
		m.Visible = false
		m.text = ""
	}
	return m, nil
}

func (m Toast) View() string {
	if !m.Visible || m.text == "" {
		return ""
	}

	accent, label := m.theme.Green, m.styles.Success
	if m.isError {
		accent, label = m.theme.Red, m.styles.Error
	}

	return label.
		Bold(true).
		Background(m.theme.Surface).
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Render(m.text)
}
