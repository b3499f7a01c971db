package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/apitester/internal/core/dispatch"
	"github.com/sadopc/apitester/internal/export"
	curlimport "github.com/sadopc/apitester/internal/import/curl"
	"github.com/sadopc/apitester/internal/protocol"
	httpclient "github.com/sadopc/apitester/internal/protocol/http"
	"github.com/sadopc/apitester/internal/ui/msgs"
)

func (a App) sendRequest() (tea.Model, tea.Cmd) {
	req, err := a.form.BuildRequest()
	if err != nil {
		a.statusBar.SetMessage(err.Error())
		cmd := a.toast.Show(err.Error(), true, 3*time.Second)
		return a, cmd
	}
	if a.dispatcher == nil {
		cmd := a.toast.Show("Sending is not available", true, 3*time.Second)
		return a, cmd
	}

	task := a.dispatcher.Submit(context.Background(), req)
	a.latestTask = task.ID
	a.pending++
	a.statusBar.SetInFlight(a.pending)
	a.statusBar.SetMessage("")
	a.response.SetLoading(true)

	return a, tea.Batch(waitForTask(task), a.response.Init())
}

// waitForTask blocks in a command goroutine until task finishes.
func waitForTask(task *dispatch.Task) tea.Cmd {
	return func() tea.Msg {
		<-task.Done()
		return msgs.RequestDoneMsg{TaskID: task.ID, Result: task.Result()}
	}
}

func (a App) handleRequestDone(msg msgs.RequestDoneMsg) (tea.Model, tea.Cmd) {
	if a.pending > 0 {
		a.pending--
	}
	a.statusBar.SetInFlight(a.pending)

	res := msg.Result
	var cmds []tea.Cmd

	if msg.TaskID != a.latestTask {
		// A newer request owns the response panel.
		if res.Err != nil {
			a.statusBar.SetMessage("Earlier request failed: " + res.Err.Error())
		} else {
			a.statusBar.SetMessage(fmt.Sprintf("Earlier request finished: %d", res.Response.StatusCode))
		}
	} else if res.Err != nil {
		a.response.SetError(res.Err)
		a.statusBar.SetMessage("Error: " + res.Err.Error())
		cmds = append(cmds, a.toast.Show(requestErrorText(res.Err), true, 5*time.Second))
	} else {
		resp := res.Response
		a.response.SetResponse(resp)
		a.statusBar.SetMessage("")
		a.statusBar.SetStatus(resp.StatusCode, resp.Elapsed, resp.Size, resp.ContentType)
	}

	if res.StoreErr != nil {
		cmds = append(cmds, a.toast.Show("History not saved: "+res.StoreErr.Error(), true, 5*time.Second))
	} else if res.RecordID > 0 && a.mode == msgs.ModeHistory {
		cmds = append(cmds, a.loadHistory(a.history.Filter()))
	}

	return a, tea.Batch(cmds...)
}

func requestErrorText(err error) string {
	var reqErr *httpclient.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("Request failed (%s)", reqErr.Kind)
	}
	return "Request failed: " + err.Error()
}

func (a App) copyAsCurl() (tea.Model, tea.Cmd) {
	req, err := a.form.BuildRequest()
	if err != nil {
		cmd := a.toast.Show(err.Error(), true, 2*time.Second)
		return a, cmd
	}
	return a, emit(a.writeClipboard(curlFor(req), "Copied as cURL"))
}

func curlFor(req *protocol.Request) string {
	return export.AsCurl(dispatch.NewRecord(req, nil))
}

func (a App) copyBody() (tea.Model, tea.Cmd) {
	if !a.response.HasResponse() {
		cmd := a.toast.Show("No response to copy", true, 2*time.Second)
		return a, cmd
	}
	return a, emit(a.writeClipboard(a.response.Body(), "Copied response body"))
}

// writeClipboard copies text and reports the outcome as a toast.
func (a App) writeClipboard(text, ok string) msgs.ToastMsg {
	if err := clipboard.WriteAll(text); err != nil {
		a.logger.Warn("clipboard write failed", "error", err)
		return msgs.ToastMsg{Text: "Clipboard error: " + err.Error(), IsError: true, Duration: 3 * time.Second}
	}
	return msgs.ToastMsg{Text: ok, Duration: 2 * time.Second}
}

func pasteCurl() tea.Msg {
	text, err := clipboard.ReadAll()
	if err != nil {
		return msgs.ToastMsg{Text: "Clipboard error: " + err.Error(), IsError: true, Duration: 3 * time.Second}
	}
	return msgs.ImportCurlMsg{Command: text}
}

// importCurl replaces the form with a parsed curl command. Invalid commands
// leave the form untouched.
func (a App) importCurl(text string) (tea.Model, tea.Cmd) {
	cmd, err := curlimport.Parse(text)
	if err == nil {
		_, err = cmd.Request()
	}
	if err != nil {
		a.logger.Debug("curl import rejected", "error", err)
		toast := a.toast.Show("Cannot import cURL: "+err.Error(), true, 3*time.Second)
		return a, toast
	}

	a.form.Load(cmd.Method, cmd.URL, cmd.HeadersText(), cmd.Body)
	focus := a.setFocus(msgs.FocusURL)
	toast := a.toast.Show("Loaded cURL command", false, 2*time.Second)
	return a, tea.Batch(focus, toast)
}
