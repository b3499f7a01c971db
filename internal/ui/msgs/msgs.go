package msgs

import (
	"time"

	"github.com/sadopc/apitester/internal/core/dispatch"
	"github.com/sadopc/apitester/internal/core/history"
)

// Focus targets within the request form and response panel.
type PanelFocus int

const (
	FocusURL PanelFocus = iota
	FocusMethod
	FocusHeaders
	FocusBody
	FocusResponse
)

func (f PanelFocus) String() string {
	switch f {
	case FocusURL:
		return "URL"
	case FocusMethod:
		return "Method"
	case FocusHeaders:
		return "Headers"
	case FocusBody:
		return "Body"
	case FocusResponse:
		return "Response"
	default:
		return "UNKNOWN"
	}
}

// AppMode represents the current input mode.
type AppMode int

const (
	ModeNormal AppMode = iota
	ModeCommandPalette
	ModeModal
	ModeHistory
	ModePrompt
)

func (m AppMode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeCommandPalette:
		return "COMMAND"
	case ModeModal:
		return "MODAL"
	case ModeHistory:
		return "HISTORY"
	case ModePrompt:
		return "PROMPT"
	default:
		return "UNKNOWN"
	}
}

// FocusPanelMsg requests focus change to a specific field.
type FocusPanelMsg struct {
	Panel PanelFocus
}

// SendRequestMsg triggers sending the current request.
type SendRequestMsg struct{}

// RequestDoneMsg is delivered when a dispatched task completes.
type RequestDoneMsg struct {
	TaskID string
	Result dispatch.Result
}

// ClearFormMsg resets the request form.
type ClearFormMsg struct{}

// OpenCommandPaletteMsg opens the command palette.
type OpenCommandPaletteMsg struct{}

// SetModeMsg changes the app mode.
type SetModeMsg struct {
	Mode AppMode
}

// StatusMsg sets a temporary status bar message.
type StatusMsg struct {
	Text     string
	Duration time.Duration
}

// ToastMsg shows a toast notification.
type ToastMsg struct {
	Text     string
	Duration time.Duration
	IsError  bool
}

// CopyAsCurlMsg copies the last sent request as a cURL command.
type CopyAsCurlMsg struct{}

// CopyBodyMsg copies the last response body.
type CopyBodyMsg struct{}

// PasteCurlMsg reads a curl command from the clipboard into the form.
type PasteCurlMsg struct{}

// ImportCurlMsg fills the form from a curl command line.
type ImportCurlMsg struct {
	Command string
}

// SwitchThemeMsg requests switching to a named theme. An empty name toggles.
type SwitchThemeMsg struct {
	Name string
}

// OpenHistoryMsg opens the history browser.
type OpenHistoryMsg struct{}

// HistoryLoadedMsg carries a page of history summaries.
type HistoryLoadedMsg struct {
	Filter    string
	Summaries []history.Summary
	Err       error
}

// HistoryDetailMsg carries one full record.
type HistoryDetailMsg struct {
	Record history.Record
	Err    error
}

// ClearHistoryMsg asks for confirmation before deleting all history.
type ClearHistoryMsg struct{}

// ConfirmClearHistoryMsg is sent once the user confirmed the clear.
type ConfirmClearHistoryMsg struct{}

// HistoryClearedMsg reports the outcome of a clear.
type HistoryClearedMsg struct {
	Cleared bool
	Err     error
}

// FilterHistoryMsg reloads the history list with a URL substring filter.
type FilterHistoryMsg struct {
	Filter string
}

// ShowHistoryDetailMsg requests the full record for ID.
type ShowHistoryDetailMsg struct {
	ID int64
}

// CloseHistoryMsg closes the history browser.
type CloseHistoryMsg struct{}

// ExportPromptMsg asks for a destination path for the response body of record
// ID. ID 0 means the response currently displayed.
type ExportPromptMsg struct {
	ID int64
}

// ExportHistoryMsg writes the response body of record ID to Path.
type ExportHistoryMsg struct {
	ID   int64
	Path string
}

// CopyRecordCurlMsg copies record ID as a cURL command.
type CopyRecordCurlMsg struct {
	ID int64
}

// ExportDoneMsg reports the outcome of an export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// LoadHistoryMsg fills the request form from a stored record.
type LoadHistoryMsg struct {
	ID int64
}

// ShowHelpMsg toggles the help overlay.
type ShowHelpMsg struct{}

// OpenThemePickerMsg opens the palette listing the available themes.
type OpenThemePickerMsg struct{}
