package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/apitester/internal/ui/msgs"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// Prompt is a single-line input dialog. On Enter it emits the message built
// by its submit func from the typed value.
type Prompt struct {
	Visible  bool
	Title    string
	input    textinput.Model
	submit   func(string) tea.Msg
	returnTo msgs.AppMode
	theme    theme.Theme
	styles   theme.Styles
}

// NewPrompt creates a hidden prompt.
func NewPrompt(t theme.Theme, s theme.Styles) Prompt {
	ti := textinput.New()
	ti.CharLimit = 1024
	ti.Width = 54
	return Prompt{
		input:  ti,
		theme:  t,
		styles: s,
	}
}

// Show opens the prompt with an initial value.
func (m *Prompt) Show(title, value string, submit func(string) tea.Msg, returnTo msgs.AppMode) tea.Cmd {
	m.Visible = true
	m.Title = title
	m.submit = submit
	m.returnTo = returnTo
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

// Value returns the current input text.
func (m Prompt) Value() string {
	return m.input.Value()
}

// SetTheme swaps the palette used to render the dialog.
func (m *Prompt) SetTheme(t theme.Theme, s theme.Styles) {
	m.theme = t
	m.styles = s
}

// Update implements tea.Model.
func (m Prompt) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	if !m.Visible {
		return m, nil
	}

	back := m.returnTo
	setMode := func() tea.Msg { return msgs.SetModeMsg{Mode: back} }

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.Visible = false
			m.input.Blur()
			return m, setMode
		case "enter":
			m.Visible = false
			m.input.Blur()
			if m.submit == nil {
				return m, setMode
			}
			out := m.submit(m.input.Value())
			return m, tea.Batch(setMode, func() tea.Msg { return out })
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt dialog.
func (m Prompt) View() string {
	if !m.Visible {
		return ""
	}

	boxWidth := 60
	title := lipgloss.NewStyle().
		Foreground(m.theme.Text).
		Bold(true).
		Width(boxWidth - 4).
		Render(m.Title)
	hint := m.styles.Hint.Render("enter: confirm  esc: cancel")

	return lipgloss.NewStyle().
		Width(boxWidth).
		Background(m.theme.Surface).
		Foreground(m.theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.BorderFocused).
		Padding(1, 2).
		Render(title + "\n\n" + m.input.View() + "\n\n" + hint)
}
