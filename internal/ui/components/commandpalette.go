package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/sadopc/apitester/internal/ui/msgs"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// paletteCommand is a command entry in the palette.
type paletteCommand struct {
	Name     string
	Shortcut string
	Msg      tea.Msg
}

var defaultCommands = []paletteCommand{
	{Name: "Send Request", Shortcut: "Ctrl+S", Msg: msgs.SendRequestMsg{}},
	{Name: "Clear Form", Shortcut: "Ctrl+N", Msg: msgs.ClearFormMsg{}},
	{Name: "Browse History", Shortcut: "Ctrl+O", Msg: msgs.OpenHistoryMsg{}},
	{Name: "Clear History", Shortcut: "", Msg: msgs.ClearHistoryMsg{}},
	{Name: "Copy as cURL", Shortcut: "Ctrl+Y", Msg: msgs.CopyAsCurlMsg{}},
	{Name: "Copy Response Body", Shortcut: "Ctrl+B", Msg: msgs.CopyBodyMsg{}},
	{Name: "Paste cURL", Shortcut: "", Msg: msgs.PasteCurlMsg{}},
	{Name: "Save Response", Shortcut: "", Msg: msgs.ExportPromptMsg{}},
	{Name: "Toggle Theme", Shortcut: "Ctrl+T", Msg: msgs.SwitchThemeMsg{}},
	{Name: "Switch Theme", Shortcut: "", Msg: msgs.OpenThemePickerMsg{}},
	{Name: "Help", Shortcut: "F1", Msg: msgs.ShowHelpMsg{}},
	{Name: "Quit", Shortcut: "Ctrl+C", Msg: tea.Quit()},
}

// CommandPalette is a fuzzy command palette overlay.
type CommandPalette struct {
	Visible  bool
	input    textinput.Model
	commands []paletteCommand
	filtered []paletteCommand
	cursor   int
	theme    theme.Theme
	styles   theme.Styles
}

// NewCommandPalette creates a new command palette.
func NewCommandPalette(t theme.Theme, s theme.Styles) CommandPalette {
	ti := textinput.New()
	ti.Placeholder = "Type a command..."
	ti.CharLimit = 64
	ti.Width = 54

	return CommandPalette{
		input:    ti,
		commands: defaultCommands,
		filtered: defaultCommands,
		theme:    t,
		styles:   s,
	}
}

// Open shows the command palette.
func (m *CommandPalette) Open() {
	m.Visible = true
	m.input.SetValue("")
	m.input.Focus()
	m.filtered = m.commands
	m.cursor = 0
}

// Close hides the command palette.
func (m *CommandPalette) Close() {
	m.Visible = false
	m.input.Blur()
}

// OpenThemePicker opens the palette in theme selection mode.
func (m *CommandPalette) OpenThemePicker(themeNames []string) {
	cmds := make([]paletteCommand, len(themeNames))
	for i, name := range themeNames {
		cmds[i] = paletteCommand{
			Name: name,
			Msg:  msgs.SwitchThemeMsg{Name: name},
		}
	}
	m.Visible = true
	m.input.SetValue("")
	m.input.Placeholder = "Select theme..."
	m.input.Focus()
	m.commands = cmds
	m.filtered = cmds
	m.cursor = 0
}

// ResetCommands restores default commands after a picker.
func (m *CommandPalette) ResetCommands() {
	m.commands = defaultCommands
	m.filtered = defaultCommands
	m.input.Placeholder = "Type a command..."
}

// SetTheme swaps the palette used to render the overlay.
func (m *CommandPalette) SetTheme(t theme.Theme, s theme.Styles) {
	m.theme = t
	m.styles = s
}

// Init implements tea.Model.
func (m CommandPalette) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m CommandPalette) Update(msg tea.Msg) (CommandPalette, tea.Cmd) {
	if !m.Visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.Close()
			m.ResetCommands()
			return m, func() tea.Msg { return msgs.SetModeMsg{Mode: msgs.ModeNormal} }
		case "enter":
			if len(m.filtered) > 0 && m.cursor < len(m.filtered) {
				selected := m.filtered[m.cursor]
				m.Close()
				m.ResetCommands()
				return m, tea.Batch(
					func() tea.Msg { return msgs.SetModeMsg{Mode: msgs.ModeNormal} },
					func() tea.Msg { return selected.Msg },
				)
			}
			return m, nil
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	// Update text input
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// Filter commands by query
	query := m.input.Value()
	if query == "" {
		m.filtered = m.commands
	} else {
		names := make([]string, len(m.commands))
		for i, c := range m.commands {
			names[i] = c.Name
		}
		matches := fuzzy.Find(query, names)
		m.filtered = make([]paletteCommand, len(matches))
		for i, match := range matches {
			m.filtered[i] = m.commands[match.Index]
		}
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	return m, cmd
}

// View renders the command palette overlay.
func (m CommandPalette) View() string {
	if !m.Visible {
		return ""
	}

	boxWidth := 60

	titleStyle := lipgloss.NewStyle().
		Foreground(m.theme.Text).
		Bold(true).
		Width(boxWidth - 4).
		Align(lipgloss.Center)
	title := titleStyle.Render("Command Palette")

	inputView := m.input.View()

	// Build command list
	maxItems := 15
	if len(m.filtered) < maxItems {
		maxItems = len(m.filtered)
	}

	var items []string
	for i := 0; i < maxItems; i++ {
		cmd := m.filtered[i]

		nameStyle := lipgloss.NewStyle().Foreground(m.theme.Text)
		shortcutStyle := lipgloss.NewStyle().Foreground(m.theme.Muted)

		name := cmd.Name
		shortcut := cmd.Shortcut

		nameWidth := boxWidth - 6
		if shortcut != "" {
			nameWidth -= len(shortcut) + 1
		}
		if len(name) > nameWidth {
			name = truncate(name, nameWidth)
		}

		gap := boxWidth - 6 - len(name) - len(shortcut)
		if gap < 1 {
			gap = 1
		}

		line := nameStyle.Render(name) + strings.Repeat(" ", gap) + shortcutStyle.Render(shortcut)

		if i == m.cursor {
			line = lipgloss.NewStyle().
				Background(m.theme.Overlay).
				Foreground(m.theme.Text).
				Width(boxWidth - 4).
				Render(name + strings.Repeat(" ", gap) + shortcut)
		}

		items = append(items, line)
	}

	content := title + "\n\n" + inputView + "\n\n" + strings.Join(items, "\n")

	box := lipgloss.NewStyle().
		Width(boxWidth).
		Background(m.theme.Surface).
		Foreground(m.theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.BorderFocused).
		Padding(1, 2).
		Render(content)

	return box
}
