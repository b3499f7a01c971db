package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/apitester/internal/core/browser"
	"github.com/sadopc/apitester/internal/core/history"
	"github.com/sadopc/apitester/internal/ui/msgs"
)

// loadedRecordMsg carries a record to copy into the request form.
type loadedRecordMsg struct {
	Record history.Record
}

func (a App) openHistory() (tea.Model, tea.Cmd) {
	if a.browser == nil {
		cmd := a.toast.Show("History is not available", true, 3*time.Second)
		return a, cmd
	}
	a.history.Reset()
	a.history.SetSize(min(a.width-4, 120), max(a.height-4, 8))
	a.setMode(msgs.ModeHistory)
	return a, a.loadHistory(a.history.Filter())
}

func (a App) loadHistory(filter string) tea.Cmd {
	b := a.browser
	if b == nil {
		return nil
	}
	return func() tea.Msg {
		summaries, err := b.Search(context.Background(), filter)
		return msgs.HistoryLoadedMsg{Filter: filter, Summaries: summaries, Err: err}
	}
}

// loadDetail fetches record id and hands it to then. Lookup failures surface
// as a HistoryDetailMsg carrying the error.
func (a App) loadDetail(id int64, then func(history.Record) tea.Msg) tea.Cmd {
	b := a.browser
	if b == nil {
		return nil
	}
	return func() tea.Msg {
		rec, err := b.Detail(context.Background(), id)
		if err != nil {
			return msgs.HistoryDetailMsg{Err: fmt.Errorf("record #%d: %w", id, err)}
		}
		return then(rec)
	}
}

func (a App) confirmClearHistory() (tea.Model, tea.Cmd) {
	if a.browser == nil {
		return a, nil
	}
	a.modal.Show("Clear History", browser.ClearPrompt, msgs.ConfirmClearHistoryMsg{}, a.mode)
	a.setMode(msgs.ModeModal)
	return a, nil
}

// clearHistory runs once the modal has been confirmed.
func (a App) clearHistory() tea.Cmd {
	b := a.browser
	if b == nil {
		return nil
	}
	logger := a.logger
	return func() tea.Msg {
		confirmed := browser.ConfirmFunc(func(string) bool { return true })
		cleared, err := b.Clear(context.Background(), confirmed)
		if err != nil {
			logger.Error("clearing history failed", "error", err)
		} else {
			logger.Info("history cleared")
		}
		return msgs.HistoryClearedMsg{Cleared: cleared, Err: err}
	}
}

func (a App) handleHistoryCleared(msg msgs.HistoryClearedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		cmd := a.toast.Show("Clear failed: "+msg.Err.Error(), true, 4*time.Second)
		return a, cmd
	}
	if !msg.Cleared {
		return a, nil
	}
	a.history.CloseDetail()
	a.history.SetSummaries(a.history.Filter(), nil)
	cmd := a.toast.Show("History cleared", false, 2*time.Second)
	return a, cmd
}

func (a App) promptExport(id int64) (tea.Model, tea.Cmd) {
	title := fmt.Sprintf("Save response of #%d to", id)
	path := fmt.Sprintf("response-%d.txt", id)
	if id == 0 {
		if !a.response.HasResponse() {
			cmd := a.toast.Show("No response to save", true, 2*time.Second)
			return a, cmd
		}
		title = "Save response to"
		path = "response.txt"
	}

	submit := func(p string) tea.Msg { return msgs.ExportHistoryMsg{ID: id, Path: p} }
	cmd := a.prompt.Show(title, path, submit, a.mode)
	a.setMode(msgs.ModePrompt)
	return a, cmd
}

func (a App) exportRecord(id int64, path string) tea.Cmd {
	path = strings.TrimSpace(path)
	if path == "" {
		return emit(msgs.ExportDoneMsg{Err: errors.New("no destination path")})
	}
	b := a.browser
	if b == nil {
		b = browser.New(nil, 0)
	}
	if id == 0 {
		body := a.response.Body()
		return func() tea.Msg {
			return msgs.ExportDoneMsg{Path: path, Err: b.Export(path, body)}
		}
	}
	return a.loadDetail(id, func(rec history.Record) tea.Msg {
		return msgs.ExportDoneMsg{Path: path, Err: b.ExportRecord(path, rec)}
	})
}
