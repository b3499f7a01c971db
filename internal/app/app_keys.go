package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/apitester/internal/ui/msgs"
)

// focusOrder is the tab order of the main screen.
var focusOrder = []msgs.PanelFocus{
	msgs.FocusMethod,
	msgs.FocusURL,
	msgs.FocusHeaders,
	msgs.FocusBody,
	msgs.FocusResponse,
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (a App) handleGlobalKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.SendRequest):
		return emit(msgs.SendRequestMsg{})
	case key.Matches(msg, a.keys.ClearForm):
		return emit(msgs.ClearFormMsg{})
	case key.Matches(msg, a.keys.CommandPalette):
		return emit(msgs.OpenCommandPaletteMsg{})
	case key.Matches(msg, a.keys.Help):
		return emit(msgs.ShowHelpMsg{})
	case key.Matches(msg, a.keys.History):
		return emit(msgs.OpenHistoryMsg{})
	case key.Matches(msg, a.keys.ToggleTheme):
		return emit(msgs.SwitchThemeMsg{})
	case key.Matches(msg, a.keys.CopyCurl):
		return emit(msgs.CopyAsCurlMsg{})
	case key.Matches(msg, a.keys.CopyBody):
		return emit(msgs.CopyBodyMsg{})
	}
	return nil
}

func (a App) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.CycleFocus):
		cmd := a.cycleFocus(false)
		return a, cmd
	case key.Matches(msg, a.keys.CycleFocusRev):
		cmd := a.cycleFocus(true)
		return a, cmd
	}

	var cmd tea.Cmd
	if a.focus == msgs.FocusResponse {
		a.response, cmd = a.response.Update(msg)
		return a, cmd
	}

	// Enter on the URL line sends.
	if a.focus == msgs.FocusURL && msg.String() == "enter" {
		return a.sendRequest()
	}
	a.form, cmd = a.form.Update(msg)
	return a, cmd
}

func (a *App) cycleFocus(reverse bool) tea.Cmd {
	idx := 0
	for i, p := range focusOrder {
		if p == a.focus {
			idx = i
			break
		}
	}

	if reverse {
		idx = (idx - 1 + len(focusOrder)) % len(focusOrder)
	} else {
		idx = (idx + 1) % len(focusOrder)
	}

	return a.setFocus(focusOrder[idx])
}

func (a *App) setFocus(f msgs.PanelFocus) tea.Cmd {
	a.focus = f
	a.response.SetFocused(f == msgs.FocusResponse)
	if f == msgs.FocusResponse {
		a.form.SetFocused(false)
		return nil
	}
	a.form.SetFocused(true)
	return a.form.FocusField(f)
}
