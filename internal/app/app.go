package app

import (
	"log/slog"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/apitester/internal/config"
	"github.com/sadopc/apitester/internal/core/browser"
	"github.com/sadopc/apitester/internal/core/dispatch"
	"github.com/sadopc/apitester/internal/core/history"
	"github.com/sadopc/apitester/internal/logging"
	"github.com/sadopc/apitester/internal/ui/components"
	"github.com/sadopc/apitester/internal/ui/layout"
	"github.com/sadopc/apitester/internal/ui/msgs"
	"github.com/sadopc/apitester/internal/ui/panels/editor"
	"github.com/sadopc/apitester/internal/ui/panels/historylist"
	"github.com/sadopc/apitester/internal/ui/panels/response"
	"github.com/sadopc/apitester/internal/ui/theme"
)

const appTitle = "apitester"

// App is the root Bubble Tea model.
type App struct {
	form     editor.Model
	response response.Model
	history  historylist.Model

	statusBar      components.StatusBar
	commandPalette components.CommandPalette
	help           components.Help
	toast          components.Toast
	modal          components.Modal
	prompt         components.Prompt

	cfg        config.Config
	dispatcher *dispatch.Dispatcher
	browser    *browser.Browser
	logger     *slog.Logger

	// latestTask is the most recently submitted task; only its result is shown.
	latestTask string
	pending    int

	mode   msgs.AppMode
	focus  msgs.PanelFocus
	layout layout.PanelLayout
	keys   KeyMap

	theme  theme.Theme
	styles theme.Styles

	width  int
	height int
	ready  bool
}

// New creates the App. d sends requests and b reads history; a nil b disables
// the history browser.
func New(cfg config.Config, d *dispatch.Dispatcher, b *browser.Browser, logger *slog.Logger) App {
	if logger == nil {
		logger = logging.Discard()
	}
	t := theme.Resolve(cfg.Theme)
	s := theme.NewStyles(t)

	a := App{
		form:     editor.New(t, s),
		response: response.New(t, s),
		history:  historylist.New(t, s),

		statusBar:      components.NewStatusBar(t, s),
		commandPalette: components.NewCommandPalette(t, s),
		help:           components.NewHelp(t, s),
		toast:          components.NewToast(t, s),
		modal:          components.NewModal(t, s),
		prompt:         components.NewPrompt(t, s),

		cfg:        cfg,
		dispatcher: d,
		browser:    b,
		logger:     logger,

		mode:  msgs.ModeNormal,
		focus: msgs.FocusURL,
		keys:  DefaultKeyMap(),

		theme:  t,
		styles: s,
	}
	a.statusBar.SetInfo(t.Name)
	a.form.SetFocused(true)
	a.form.FocusField(msgs.FocusURL)
	return a
}

func (a App) Init() tea.Cmd {
	return a.response.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout = layout.HandleResize(msg)
		a.resizePanels()
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case msgs.SendRequestMsg:
		return a.sendRequest()

	case msgs.RequestDoneMsg:
		return a.handleRequestDone(msg)

	case msgs.ClearFormMsg:
		a.form.Reset()
		cmd := a.setFocus(msgs.FocusURL)
		return a, cmd

	case msgs.FocusPanelMsg:
		cmd := a.setFocus(msg.Panel)
		return a, cmd

	case msgs.OpenCommandPaletteMsg:
		a.setMode(msgs.ModeCommandPalette)
		a.commandPalette.Open()
		return a, nil

	case msgs.ShowHelpMsg:
		a.help.SetSize(a.width, a.height)
		a.help.Toggle()
		if a.help.Visible {
			a.setMode(msgs.ModeModal)
		} else {
			a.setMode(msgs.ModeNormal)
		}
		return a, nil

	case msgs.SetModeMsg:
		a.setMode(msg.Mode)
		return a, nil

	case msgs.StatusMsg:
		a.statusBar.SetMessage(msg.Text)
		if msg.Duration > 0 {
			cmds = append(cmds, tea.Tick(msg.Duration, func(time.Time) tea.Msg {
				return msgs.StatusMsg{Text: ""}
			}))
		}
		return a, tea.Batch(cmds...)

	case msgs.ToastMsg:
		cmd := a.toast.Show(msg.Text, msg.IsError, msg.Duration)
		return a, cmd

	case msgs.CopyAsCurlMsg:
		return a.copyAsCurl()

	case msgs.CopyBodyMsg:
		return a.copyBody()

	case msgs.PasteCurlMsg:
		return a, pasteCurl

	case msgs.ImportCurlMsg:
		return a.importCurl(msg.Command)

	case msgs.SwitchThemeMsg:
		return a.handleSwitchTheme(msg)

	case msgs.OpenThemePickerMsg:
		a.commandPalette.OpenThemePicker(theme.Names())
		a.setMode(msgs.ModeCommandPalette)
		return a, nil

	case msgs.OpenHistoryMsg:
		return a.openHistory()

	case msgs.CloseHistoryMsg:
		a.history.Reset()
		a.setMode(msgs.ModeNormal)
		return a, nil

	case msgs.FilterHistoryMsg:
		return a, a.loadHistory(msg.Filter)

	case msgs.HistoryLoadedMsg:
		if msg.Err != nil {
			a.history.SetError(msg.Err)
			cmd := a.toast.Show("History: "+msg.Err.Error(), true, 3*time.Second)
			return a, cmd
		}
		a.history.SetSummaries(msg.Filter, msg.Summaries)
		return a, nil

	case msgs.ShowHistoryDetailMsg:
		return a, a.loadDetail(msg.ID, func(rec history.Record) tea.Msg {
			return msgs.HistoryDetailMsg{Record: rec}
		})

	case msgs.HistoryDetailMsg:
		if msg.Err != nil {
			cmd := a.toast.Show(msg.Err.Error(), true, 3*time.Second)
			return a, cmd
		}
		a.history.SetDetail(msg.Record)
		return a, nil

	case msgs.ClearHistoryMsg:
		return a.confirmClearHistory()

	case msgs.ConfirmClearHistoryMsg:
		return a, a.clearHistory()

	case msgs.HistoryClearedMsg:
		return a.handleHistoryCleared(msg)

	case msgs.ExportPromptMsg:
		return a.promptExport(msg.ID)

	case msgs.ExportHistoryMsg:
		return a, a.exportRecord(msg.ID, msg.Path)

	case msgs.ExportDoneMsg:
		if msg.Err != nil {
			cmd := a.toast.Show("Export failed: "+msg.Err.Error(), true, 4*time.Second)
			return a, cmd
		}
		cmd := a.toast.Show("Exported to "+msg.Path, false, 2*time.Second)
		return a, cmd

	case msgs.CopyRecordCurlMsg:
		return a, a.loadDetail(msg.ID, func(rec history.Record) tea.Msg {
			return a.writeClipboard(a.browser.Curl(rec), "Copied as cURL")
		})

	case msgs.LoadHistoryMsg:
		return a, a.loadDetail(msg.ID, func(rec history.Record) tea.Msg {
			return loadedRecordMsg{Record: rec}
		})

	case loadedRecordMsg:
		a.form.Load(msg.Record.Method, msg.Record.URL, msg.Record.RequestHeaders, msg.Record.RequestBody)
		a.history.Reset()
		a.setMode(msgs.ModeNormal)
		cmd := a.setFocus(msgs.FocusURL)
		return a, tea.Batch(cmd, a.toast.Show("Loaded request #"+strconv.FormatInt(msg.Record.ID, 10), false, 2*time.Second))
	}

	var cmd tea.Cmd
	a.toast, cmd = a.toast.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	a.statusBar, cmd = a.statusBar.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	a.response, cmd = a.response.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	if a.prompt.Visible {
		a.prompt, cmd = a.prompt.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if a.mode == msgs.ModeNormal && a.focus != msgs.FocusResponse {
		a.form, cmd = a.form.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	switch {
	case a.commandPalette.Visible:
		a.commandPalette, cmd = a.commandPalette.Update(msg)
		return a, cmd
	case a.help.Visible:
		a.help, cmd = a.help.Update(msg)
		return a, cmd
	case a.modal.Visible:
		a.modal, cmd = a.modal.Update(msg)
		return a, cmd
	case a.prompt.Visible:
		a.prompt, cmd = a.prompt.Update(msg)
		return a, cmd
	case a.mode == msgs.ModeHistory:
		a.history, cmd = a.history.Update(msg)
		return a, cmd
	}

	if cmd := a.handleGlobalKey(msg); cmd != nil {
		return a, cmd
	}
	return a.handlePanelKey(msg)
}

func (a *App) setMode(mode msgs.AppMode) {
	a.mode = mode
	a.statusBar.SetMode(mode)
}

func (a *App) resizePanels() {
	l := a.layout
	a.form.SetSize(l.FormWidth, l.FormHeight, l.HeadersHeight, l.BodyHeight)
	a.response.SetSize(l.ResponseWidth, l.ResponseHeight, l.ViewportHeight)
	a.history.SetSize(min(a.width-4, 120), max(a.height-4, 8))
	a.statusBar.SetWidth(a.width)
	a.help.SetSize(a.width, a.height)
}

func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	title := a.styles.Title.Render(appTitle) + a.styles.Muted.Render("  "+a.theme.Name+" theme")

	var panels string
	if a.layout.Stacked {
		panels = lipgloss.JoinVertical(lipgloss.Left, a.form.View(), a.response.View())
	} else {
		panels = lipgloss.JoinHorizontal(lipgloss.Top, a.form.View(), a.response.View())
	}

	main := lipgloss.JoinVertical(lipgloss.Left, title, panels, a.statusBar.View())

	if a.mode == msgs.ModeHistory {
		main = a.overlayCenter(a.history.View())
	}
	if a.commandPalette.Visible {
		main = a.overlayCenter(a.commandPalette.View())
	}
	if a.help.Visible {
		main = a.overlayCenter(a.help.View())
	}
	if a.modal.Visible {
		main = a.overlayCenter(a.modal.View())
	}
	if a.prompt.Visible {
		main = a.overlayCenter(a.prompt.View())
	}
	if a.toast.Visible {
		main = overlayTopRight(main, a.toast.View(), a.width)
	}

	return main
}

func (a App) overlayCenter(overlay string) string {
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, overlay,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(a.theme.Base),
	)
}

func overlayTopRight(bg, overlay string, width int) string {
	overlayWidth := lipgloss.Width(overlay)
	gap := width - overlayWidth - 2
	if gap < 0 {
		gap = 0
	}
	positioned := lipgloss.NewStyle().MarginLeft(gap).Render(overlay)
	return positioned + "\n" + bg
}
