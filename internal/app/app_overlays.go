package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/apitester/internal/ui/msgs"
	"github.com/sadopc/apitester/internal/ui/theme"
)

func (a App) handleSwitchTheme(msg msgs.SwitchThemeMsg) (tea.Model, tea.Cmd) {
	t := theme.Toggle(a.theme)
	if msg.Name != "" {
		t = theme.Resolve(msg.Name)
	}
	a.applyTheme(t)
	a.logger.Debug("theme switched", "theme", t.Name)

	cmd := a.toast.Show("Theme: "+t.Name, false, 2*time.Second)
	return a, cmd
}

// applyTheme restyles every component in place so form contents, the
// displayed response and history state survive the switch.
func (a *App) applyTheme(t theme.Theme) {
	s := theme.NewStyles(t)
	a.theme = t
	a.styles = s

	a.form.SetTheme(t, s)
	a.response.SetTheme(t, s)
	a.history.SetTheme(t, s)
	a.statusBar.SetTheme(t, s)
	a.commandPalette.SetTheme(t, s)
	a.help.SetTheme(t, s)
	a.toast.SetTheme(t, s)
	a.modal.SetTheme(t, s)
	a.prompt.SetTheme(t, s)

	a.statusBar.SetInfo(t.Name)
	a.statusBar.SetMode(a.mode)
}
