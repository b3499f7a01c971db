package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/apitester/internal/ui/msgs"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// helpers

func testStyles() theme.Styles {
	return theme.NewStyles(theme.Default())
}

func testTheme() theme.Theme {
	return theme.Default()
}

func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func specialKeyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// ─────────────────────────────────────────────────────────────────────────────
// StatusBar tests
// ─────────────────────────────────────────────────────────────────────────────

func TestStatusBar_NewDefault(t *testing.T) {
	sb := NewStatusBar(testTheme(), testStyles())
	if sb.mode != msgs.ModeNormal {
		t.Fatalf("expected initial mode ModeNormal, got %d", sb.mode)
	}
}

func TestStatusBar_SetStatus(t *testing.T) {
	sb := NewStatusBar(testTheme(), testStyles())
	sb.SetStatus(200, 150*time.Millisecond, 1024, "application/json")

	if sb.statusCode != 200 {
		t.Fatalf("expected statusCode 200, got %d", sb.statusCode)
	}
	if sb.duration != 150*time.Millisecond {
		t.Fatalf("expected duration 150ms, got %v", sb.duration)
	}
	if sb.size != 1024 {
		t.Fatalf("expected size 1024, got %d", sb.size)
	}
	if sb.contentType != "application/json" {
		t.Fatalf("expected contentType application/json, got %s", sb.contentType)
	}
}

func TestStatusBar_SetMode(t *testing.T) {
	sb := NewStatusBar(testTheme(), testStyles())
	sb.SetMode(msgs.ModeHistory)
	if sb.mode != msgs.ModeHistory {
		t.Fatalf("expected ModeHistory, got %d", sb.mode)
	}
}

func TestStatusBar_SetMessage(t *testing.T) {
	sb := NewStatusBar(testTheme(), testStyles())
	sb.SetMessage("Request sent!")
	if sb.message != "Request sent!" {
		t.Fatalf("expected message 'Request sent!', got '%s'", sb.message)
	}
}

func TestStatusBar_SetInfo(t *testing.T) {
	sb := NewStatusBar(testTheme(), testStyles())
	sb.SetInfo("dark")
	if sb.info != "dark" {
		t.Fatalf("expected info 'dark', got '%s'", sb.info)
	}
}

func TestStatusBar_View_ShowsInFlight(t *testing.T) {
	sb := NewStatusBar(testTheme(), testStyles())
	sb.SetWidth(120)
	sb.SetInFlight(2)
	if !strings.Contains(sb.View(), "2 in flight") {
		t.Error("view should show the in-flight count")
	}
	sb.SetInFlight(0)
	if strings.Contains(sb.View(), "in flight") {
		t.Error("view should hide the in-flight count when idle")
	}
}

func TestStatusBar_UpdateClearsMessage(t *testing.T) {
	sb := NewStatusBar(testTheme(), testStyles())
	sb.SetMessage("temporary")

	sb, _ = sb.Update(clearStatusMsg{})
	if sb.message != "" {
		t.Fatalf("expected empty message after clearStatusMsg, got '%s'", sb.message)
	}
}

func TestStatusBar_View_ContainsModeIndicator(t *testing.T) {
	tests := []struct {
		mode     msgs.AppMode
		expected string
	}{
		{msgs.ModeNormal, "NORMAL"},
		{msgs.ModeCommandPalette, "COMMAND"},
		{msgs.ModeModal, "MODAL"},
		{msgs.ModeHistory, "HISTORY"},
		{msgs.ModePrompt, "PROMPT"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			sb := NewStatusBar(testTheme(), testStyles())
			sb.SetMode(tt.mode)
			sb.SetWidth(120)

			view := sb.View()
			if !strings.Contains(view, tt.expected) {
				t.Errorf("view should contain mode indicator '%s'", tt.expected)
			}
		})
	}
}

func TestStatusBar_View_ContainsInfo(t *testing.T) {
	sb := NewStatusBar(testTheme(), testStyles())
	sb.SetInfo("light")
	sb.SetWidth(120)

	view := sb.View()
	if !strings.Contains(view, "light") {
		t.Error("view should contain info label 'light'")
	}
}

func TestStatusBar_View_ContainsStatus(t *testing.T) {
	sb := NewStatusBar(testTheme(), testStyles())
	sb.SetWidth(120)
	sb.SetStatus(404, 120*time.Millisecond, 2048, "text/html")

	view := sb.View()
	for _, want := range []string{"404", "120ms", "2.0 KiB", "text/html"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestStatusBar_View_ContainsMessage(t *testing.T) {
	sb := NewStatusBar(testTheme(), testStyles())
	sb.SetMessage("Saved!")
	sb.SetWidth(120)

	view := sb.View()
	if !strings.Contains(view, "Saved!") {
		t.Error("view should contain the message 'Saved!'")
	}
}

func TestStatusBar_View_ContainsHelpHint(t *testing.T) {
	sb := NewStatusBar(testTheme(), testStyles())
	sb.SetWidth(120)

	view := sb.View()
	if !strings.Contains(view, "F1:help") {
		t.Error("view should contain help hint")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Toast tests
// ─────────────────────────────────────────────────────────────────────────────

func TestToast_NewDefault(t *testing.T) {
	toast := NewToast(testTheme(), testStyles())
	if toast.Visible {
		t.Fatal("toast should start hidden")
	}
}

func TestToast_Show(t *testing.T) {
	toast := NewToast(testTheme(), testStyles())

	cmd := toast.Show("Request sent!", false, 2*time.Second)
	if !toast.Visible {
		t.Fatal("toast should be visible after Show")
	}
	if toast.text != "Request sent!" {
		t.Fatalf("expected text 'Request sent!', got '%s'", toast.text)
	}
	if toast.isError {
		t.Fatal("toast should not be error")
	}
	if toast.duration != 2*time.Second {
		t.Fatalf("expected duration 2s, got %v", toast.duration)
	}
	if cmd == nil {
		t.Fatal("Show should return a tick cmd for auto-dismiss")
	}
}

func TestToast_Show_ErrorState(t *testing.T) {
	toast := NewToast(testTheme(), testStyles())
	toast.Show("Failed!", true, 0)
	if !toast.isError {
		t.Fatal("toast should be in error state")
	}
	// Zero duration should default to 3s
	if toast.duration != 3*time.Second {
		t.Fatalf("expected default 3s duration, got %v", toast.duration)
	}
}

func TestToast_Update_DismissMsg(t *testing.T) {
	toast := NewToast(testTheme(), testStyles())
	toast.Show("hello", false, time.Second)

	toast, _ = toast.Update(toastDismissMsg{seq: toast.seq})
	if toast.Visible {
		t.Fatal("toast should be hidden after dismiss")
	}
	if toast.text != "" {
		t.Fatalf("toast text should be empty after dismiss, got '%s'", toast.text)
	}
}

func TestToast_StaleDismissKeepsNewerToast(t *testing.T) {
	toast := NewToast(testTheme(), testStyles())
	first := toast.Show("Saved", false, 10*time.Millisecond)
	toast.Show("Export failed", true, 5*time.Second)

	// The first toast's timer fires while the second is still on screen.
	toast, _ = toast.Update(first())
	if !toast.Visible || toast.text != "Export failed" {
		t.Fatalf("stale dismiss hid the newer toast: visible=%v text=%q", toast.Visible, toast.text)
	}

	toast, _ = toast.Update(toastDismissMsg{seq: toast.seq})
	if toast.Visible {
		t.Fatal("current dismiss should hide the toast")
	}
}

func TestToast_View_WhenHidden(t *testing.T) {
	toast := NewToast(testTheme(), testStyles())
	view := toast.View()
	if view != "" {
		t.Fatalf("hidden toast should render empty string, got: %q", view)
	}
}

func TestToast_View_WhenVisible(t *testing.T) {
	toast := NewToast(testTheme(), testStyles())
	toast.Show("Success!", false, time.Second)
	view := toast.View()
	if view == "" {
		t.Fatal("visible toast should not render empty")
	}
	if !strings.Contains(view, "Success!") {
		t.Error("toast view should contain the message text")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Modal tests
// ─────────────────────────────────────────────────────────────────────────────

func TestModal_NewDefault(t *testing.T) {
	m := NewModal(testTheme(), testStyles())
	if m.Visible {
		t.Fatal("modal should start hidden")
	}
	if m.focusOK {
		t.Fatal("modal should default to Cancel")
	}
}

func TestModal_Show(t *testing.T) {
	m := NewModal(testTheme(), testStyles())
	confirmMsg := msgs.ConfirmClearHistoryMsg{}
	m.Show("Confirm", "Are you sure?", confirmMsg, msgs.ModeHistory)

	if !m.Visible {
		t.Fatal("modal should be visible after Show")
	}
	if m.Title != "Confirm" {
		t.Fatalf("expected title 'Confirm', got '%s'", m.Title)
	}
	if m.Message != "Are you sure?" {
		t.Fatalf("expected message 'Are you sure?', got '%s'", m.Message)
	}
	if m.focusOK {
		t.Fatal("Show should reset focus to Cancel")
	}
	if m.returnTo != msgs.ModeHistory {
		t.Fatalf("expected returnTo ModeHistory, got %v", m.returnTo)
	}
}

func TestModal_Esc_Closes(t *testing.T) {
	m := NewModal(testTheme(), testStyles())
	m.Show("Test", "msg", msgs.ConfirmClearHistoryMsg{}, msgs.ModeHistory)

	m, cmd := m.Update(specialKeyMsg(tea.KeyEscape))
	if m.Visible {
		t.Fatal("modal should be hidden after esc")
	}
	if cmd == nil {
		t.Fatal("esc should emit SetModeMsg")
	}
	msg := cmd()
	if setMode, ok := msg.(msgs.SetModeMsg); ok {
		if setMode.Mode != msgs.ModeHistory {
			t.Fatalf("expected ModeHistory, got %d", setMode.Mode)
		}
	} else {
		t.Fatalf("expected SetModeMsg, got %T", msg)
	}
}

func TestModal_Tab_TogglesFocus(t *testing.T) {
	m := NewModal(testTheme(), testStyles())
	m.Show("Test", "msg", msgs.ConfirmClearHistoryMsg{}, msgs.ModeNormal)

	if m.focusOK {
		t.Fatal("initial focus should be on Cancel")
	}

	m, _ = m.Update(specialKeyMsg(tea.KeyTab))
	if !m.focusOK {
		t.Fatal("after tab: focus should be on OK")
	}

	m, _ = m.Update(specialKeyMsg(tea.KeyTab))
	if m.focusOK {
		t.Fatal("after second tab: focus should be back on Cancel")
	}
}

func TestModal_Enter_FocusOK_Confirms(t *testing.T) {
	m := NewModal(testTheme(), testStyles())
	confirmMsg := msgs.ConfirmClearHistoryMsg{}
	m.Show("Test", "msg", confirmMsg, msgs.ModeNormal)
	m.focusOK = true

	m, cmd := m.Update(specialKeyMsg(tea.KeyEnter))
	if m.Visible {
		t.Fatal("modal should be hidden after confirm")
	}
	if cmd == nil {
		t.Fatal("enter with focusOK should emit cmd")
	}
}

func TestModal_Enter_FocusCancel_NoConfirm(t *testing.T) {
	m := NewModal(testTheme(), testStyles())
	m.Show("Test", "msg", msgs.ConfirmClearHistoryMsg{}, msgs.ModeNormal)
	m.focusOK = false

	m, cmd := m.Update(specialKeyMsg(tea.KeyEnter))
	if m.Visible {
		t.Fatal("modal should be hidden after cancel-enter")
	}
	// Should still get a SetModeMsg (not the confirm message)
	if cmd == nil {
		t.Fatal("enter should still emit SetModeMsg")
	}
	msg := cmd()
	if _, ok := msg.(msgs.SetModeMsg); !ok {
		t.Fatalf("expected SetModeMsg for cancel-enter, got %T", msg)
	}
}

func TestModal_IgnoresInputWhenHidden(t *testing.T) {
	m := NewModal(testTheme(), testStyles())
	// Not visible, should do nothing
	m, cmd := m.Update(specialKeyMsg(tea.KeyEnter))
	if cmd != nil {
		t.Fatal("hidden modal should not produce cmds")
	}
}

func TestModal_View_WhenHidden(t *testing.T) {
	m := NewModal(testTheme(), testStyles())
	view := m.View()
	if view != "" {
		t.Fatalf("hidden modal should render empty string, got: %q", view)
	}
}

func TestModal_View_WhenVisible(t *testing.T) {
	m := NewModal(testTheme(), testStyles())
	m.Show("Delete?", "This cannot be undone.", msgs.ConfirmClearHistoryMsg{}, msgs.ModeNormal)

	view := m.View()
	if view == "" {
		t.Fatal("visible modal should not render empty")
	}
	if !strings.Contains(view, "Delete?") {
		t.Error("modal view should contain title")
	}
	if !strings.Contains(view, "This cannot be undone.") {
		t.Error("modal view should contain message")
	}
	if !strings.Contains(view, "OK") {
		t.Error("modal view should contain OK button")
	}
	if !strings.Contains(view, "Cancel") {
		t.Error("modal view should contain Cancel button")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// CommandPalette tests
// ─────────────────────────────────────────────────────────────────────────────

func TestCommandPalette_NewDefault(t *testing.T) {
	cp := NewCommandPalette(testTheme(), testStyles())
	if cp.Visible {
		t.Fatal("palette should start hidden")
	}
	if len(cp.commands) == 0 {
		t.Fatal("should have default commands")
	}
	if len(cp.filtered) == 0 {
		t.Fatal("filtered should have default commands")
	}
}

func TestCommandPalette_OpenClose(t *testing.T) {
	cp := NewCommandPalette(testTheme(), testStyles())

	cp.Open()
	if !cp.Visible {
		t.Fatal("should be visible after Open")
	}
	if cp.cursor != 0 {
		t.Fatalf("cursor should reset to 0, got %d", cp.cursor)
	}

	cp.Close()
	if cp.Visible {
		t.Fatal("should be hidden after Close")
	}
}

func TestCommandPalette_Esc_ClosesAndResets(t *testing.T) {
	cp := NewCommandPalette(testTheme(), testStyles())
	cp.Open()

	cp, cmd := cp.Update(specialKeyMsg(tea.KeyEscape))
	if cp.Visible {
		t.Fatal("palette should close on esc")
	}
	if cmd == nil {
		t.Fatal("esc should emit SetModeMsg")
	}
	// Verify commands are reset to defaults
	if cp.commands[0].Name != defaultCommands[0].Name {
		t.Fatal("commands should be reset after esc")
	}
}

func TestCommandPalette_Enter_SelectsItem(t *testing.T) {
	cp := NewCommandPalette(testTheme(), testStyles())
	cp.Open()

	// First item is "Send Request"
	cp, cmd := cp.Update(specialKeyMsg(tea.KeyEnter))
	if cp.Visible {
		t.Fatal("palette should close after selection")
	}
	if cmd == nil {
		t.Fatal("enter should produce a cmd")
	}
}

func TestCommandPalette_Navigation_Keys(t *testing.T) {
	cp := NewCommandPalette(testTheme(), testStyles())
	cp.Open()

	if cp.cursor != 0 {
		t.Fatalf("initial cursor should be 0, got %d", cp.cursor)
	}

	// ctrl+n / down moves cursor down
	cp, _ = cp.Update(specialKeyMsg(tea.KeyCtrlN))
	if cp.cursor != 1 {
		t.Fatalf("after ctrl+n: expected cursor 1, got %d", cp.cursor)
	}

	cp, _ = cp.Update(specialKeyMsg(tea.KeyDown))
	if cp.cursor != 2 {
		t.Fatalf("after down: expected cursor 2, got %d", cp.cursor)
	}

	// ctrl+p / up moves cursor up
	cp, _ = cp.Update(specialKeyMsg(tea.KeyCtrlP))
	if cp.cursor != 1 {
		t.Fatalf("after ctrl+p: expected cursor 1, got %d", cp.cursor)
	}

	cp, _ = cp.Update(specialKeyMsg(tea.KeyUp))
	if cp.cursor != 0 {
		t.Fatalf("after up: expected cursor 0, got %d", cp.cursor)
	}

	// Can't go above 0
	cp, _ = cp.Update(specialKeyMsg(tea.KeyCtrlP))
	if cp.cursor != 0 {
		t.Fatalf("ctrl+p at top: expected cursor 0, got %d", cp.cursor)
	}
}

func TestCommandPalette_Navigation_CantGoPastEnd(t *testing.T) {
	cp := NewCommandPalette(testTheme(), testStyles())
	cp.Open()

	lastIdx := len(cp.filtered) - 1
	// Move cursor to last item
	for i := 0; i < lastIdx+5; i++ {
		cp, _ = cp.Update(specialKeyMsg(tea.KeyDown))
	}
	if cp.cursor != lastIdx {
		t.Fatalf("cursor should stop at last index %d, got %d", lastIdx, cp.cursor)
	}
}

func TestCommandPalette_OpenThemePicker(t *testing.T) {
	cp := NewCommandPalette(testTheme(), testStyles())
	themes := []string{"dark", "Nord", "light"}
	cp.OpenThemePicker(themes)

	if !cp.Visible {
		t.Fatal("theme picker should be visible")
	}
	if len(cp.commands) != 3 {
		t.Fatalf("expected 3 theme commands, got %d", len(cp.commands))
	}
	if cp.commands[1].Name != "Nord" {
		t.Fatalf("second theme command should be 'Nord', got '%s'", cp.commands[1].Name)
	}
	if cp.input.Placeholder != "Select theme..." {
		t.Fatalf("placeholder should be 'Select theme...', got '%s'", cp.input.Placeholder)
	}
}

func TestCommandPalette_ResetCommands(t *testing.T) {
	cp := NewCommandPalette(testTheme(), testStyles())
	cp.OpenThemePicker([]string{"dark"})
	cp.ResetCommands()

	if len(cp.commands) != len(defaultCommands) {
		t.Fatalf("expected %d default commands, got %d", len(defaultCommands), len(cp.commands))
	}
	if cp.input.Placeholder != "Type a command..." {
		t.Fatalf("placeholder should be reset, got '%s'", cp.input.Placeholder)
	}
}

func TestCommandPalette_IgnoresInputWhenHidden(t *testing.T) {
	cp := NewCommandPalette(testTheme(), testStyles())
	cp, cmd := cp.Update(specialKeyMsg(tea.KeyEnter))
	if cmd != nil {
		t.Fatal("hidden palette should not produce cmds")
	}
}

func TestCommandPalette_View_WhenHidden(t *testing.T) {
	cp := NewCommandPalette(testTheme(), testStyles())
	view := cp.View()
	if view != "" {
		t.Fatalf("hidden palette should render empty, got: %q", view)
	}
}

func TestCommandPalette_View_WhenVisible(t *testing.T) {
	cp := NewCommandPalette(testTheme(), testStyles())
	cp.Open()

	view := cp.View()
	if view == "" {
		t.Fatal("visible palette should not render empty")
	}
	if !strings.Contains(view, "Command Palette") {
		t.Error("view should contain 'Command Palette' title")
	}
	// Should contain at least one command name
	if !strings.Contains(view, "Send Request") {
		t.Error("view should contain 'Send Request' command")
	}
}

func TestCommandPalette_ThemePicker_Enter_EmitsThemeMsg(t *testing.T) {
	cp := NewCommandPalette(testTheme(), testStyles())
	cp.OpenThemePicker([]string{"Nord", "Dracula"})

	// Select first item
	cp, cmd := cp.Update(specialKeyMsg(tea.KeyEnter))
	if cp.Visible {
		t.Fatal("should close after selection")
	}
	if cmd == nil {
		t.Fatal("enter should produce cmd")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Help tests
// ─────────────────────────────────────────────────────────────────────────────

func TestHelp_NewDefault(t *testing.T) {
	h := NewHelp(testTheme(), testStyles())
	if h.Visible {
		t.Fatal("help should start hidden")
	}
}

func TestHelp_Toggle(t *testing.T) {
	h := NewHelp(testTheme(), testStyles())
	h.SetSize(120, 40)

	h.Toggle()
	if !h.Visible {
		t.Fatal("should be visible after first toggle")
	}

	h.Toggle()
	if h.Visible {
		t.Fatal("should be hidden after second toggle")
	}
}

func TestHelp_Esc_Closes(t *testing.T) {
	h := NewHelp(testTheme(), testStyles())
	h.SetSize(120, 40)
	h.Toggle()

	h, cmd := h.Update(specialKeyMsg(tea.KeyEscape))
	if h.Visible {
		t.Fatal("help should close on esc")
	}
	if cmd == nil {
		t.Fatal("esc should emit SetModeMsg")
	}
	msg := cmd()
	if setMode, ok := msg.(msgs.SetModeMsg); ok {
		if setMode.Mode != msgs.ModeNormal {
			t.Fatalf("expected ModeNormal, got %d", setMode.Mode)
		}
	} else {
		t.Fatalf("expected SetModeMsg, got %T", msg)
	}
}

func TestHelp_F1_Closes(t *testing.T) {
	h := NewHelp(testTheme(), testStyles())
	h.SetSize(120, 40)
	h.Toggle()

	h, cmd := h.Update(specialKeyMsg(tea.KeyF1))
	if h.Visible {
		t.Fatal("help should close on F1")
	}
	if cmd == nil {
		t.Fatal("F1 should emit SetModeMsg")
	}
}

func TestHelp_IgnoresInputWhenHidden(t *testing.T) {
	h := NewHelp(testTheme(), testStyles())
	h, cmd := h.Update(specialKeyMsg(tea.KeyEscape))
	if cmd != nil {
		t.Fatal("hidden help should not produce cmds")
	}
}

func TestHelp_View_WhenHidden(t *testing.T) {
	h := NewHelp(testTheme(), testStyles())
	view := h.View()
	if view != "" {
		t.Fatalf("hidden help should render empty, got length: %d", len(view))
	}
}

func TestHelp_View_WhenVisible(t *testing.T) {
	h := NewHelp(testTheme(), testStyles())
	h.SetSize(120, 40)
	h.Toggle()

	view := h.View()
	if view == "" {
		t.Fatal("visible help should not render empty")
	}
	if !strings.Contains(view, "Keyboard Shortcuts") {
		t.Error("help view should contain 'Keyboard Shortcuts' title")
	}
	// Should contain section titles
	if !strings.Contains(view, "General") {
		t.Error("help view should contain 'General' section")
	}
	if !strings.Contains(view, "Request") {
		t.Error("help view should contain 'Request' section")
	}
	if !strings.Contains(view, "Response") {
		t.Error("help view should contain 'Response' section")
	}
}

func TestHelp_SetSize(t *testing.T) {
	h := NewHelp(testTheme(), testStyles())
	h.SetSize(200, 50)
	if h.width != 200 {
		t.Fatalf("expected width 200, got %d", h.width)
	}
	if h.height != 50 {
		t.Fatalf("expected height 50, got %d", h.height)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// formatDuration tests (StatusBar helper)
// ─────────────────────────────────────────────────────────────────────────────

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		dur      time.Duration
		expected string
	}{
		{"microseconds", 500 * time.Microsecond, "500µs"},
		{"milliseconds", 150 * time.Millisecond, "150ms"},
		{"seconds", 2500 * time.Millisecond, "2.50s"},
		{"sub-millisecond", 999 * time.Microsecond, "999µs"},
		{"exactly 1ms", time.Millisecond, "1ms"},
		{"exactly 1s", time.Second, "1.00s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatDuration(tt.dur)
			if got != tt.expected {
				t.Fatalf("formatDuration(%v) = %q, want %q", tt.dur, got, tt.expected)
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// truncate helper tests
// ─────────────────────────────────────────────────────────────────────────────

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxW     int
		expected string
	}{
		{"short string", "abc", 10, "abc"},
		{"exact fit", "abcde", 5, "abcde"},
		{"needs truncation", "hello world", 8, "hello..."},
		{"very short max", "hello", 3, "hel"},
		{"zero max", "hello", 0, ""},
		{"empty string", "", 10, ""},
		{"negative max", "hello", -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxW)
			if got != tt.expected {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxW, got, tt.expected)
			}
		})
	}
}

func TestModal_Y_ConfirmsFromCancel(t *testing.T) {
	m := NewModal(testTheme(), testStyles())
	m.Show("Clear", "Delete all?", msgs.ConfirmClearHistoryMsg{}, msgs.ModeHistory)

	m, cmd := m.Update(keyMsg("y"))
	if m.Visible {
		t.Fatal("modal should close on y")
	}
	if cmd == nil {
		t.Fatal("y should emit the confirm message")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected BatchMsg, got %T", cmd())
	}
	var confirmed bool
	for _, c := range batch {
		if _, ok := c().(msgs.ConfirmClearHistoryMsg); ok {
			confirmed = true
		}
	}
	if !confirmed {
		t.Fatal("batch should contain ConfirmClearHistoryMsg")
	}
}

func TestModal_N_Declines(t *testing.T) {
	m := NewModal(testTheme(), testStyles())
	m.Show("Clear", "Delete all?", msgs.ConfirmClearHistoryMsg{}, msgs.ModeHistory)

	m, cmd := m.Update(keyMsg("n"))
	if m.Visible {
		t.Fatal("modal should close on n")
	}
	if _, ok := cmd().(msgs.SetModeMsg); !ok {
		t.Fatal("n should only restore the mode")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Prompt tests
// ─────────────────────────────────────────────────────────────────────────────

func TestPrompt_ShowAndSubmit(t *testing.T) {
	p := NewPrompt(testTheme(), testStyles())
	p.Show("Export to", "/tmp/out.txt", func(v string) tea.Msg {
		return msgs.ExportHistoryMsg{ID: 1, Path: v}
	}, msgs.ModeHistory)

	if !p.Visible {
		t.Fatal("prompt should be visible after Show")
	}
	if p.Value() != "/tmp/out.txt" {
		t.Fatalf("unexpected initial value %q", p.Value())
	}

	p, _ = p.Update(keyMsg("x"))
	if p.Value() != "/tmp/out.txtx" {
		t.Fatalf("typing should append, got %q", p.Value())
	}

	p, cmd := p.Update(specialKeyMsg(tea.KeyEnter))
	if p.Visible {
		t.Fatal("prompt should close on enter")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected BatchMsg, got %T", cmd())
	}
	var got string
	for _, c := range batch {
		if m, ok := c().(msgs.ExportHistoryMsg); ok {
			got = m.Path
		}
	}
	if got != "/tmp/out.txtx" {
		t.Fatalf("submitted path = %q", got)
	}
}

func TestPrompt_EscCancels(t *testing.T) {
	p := NewPrompt(testTheme(), testStyles())
	p.Show("Export to", "", func(v string) tea.Msg { return msgs.ExportHistoryMsg{ID: 1, Path: v} }, msgs.ModeHistory)

	p, cmd := p.Update(specialKeyMsg(tea.KeyEscape))
	if p.Visible {
		t.Fatal("prompt should close on esc")
	}
	msg, ok := cmd().(msgs.SetModeMsg)
	if !ok || msg.Mode != msgs.ModeHistory {
		t.Fatalf("expected SetModeMsg{ModeHistory}, got %#v", cmd())
	}
}

func TestPrompt_View(t *testing.T) {
	p := NewPrompt(testTheme(), testStyles())
	if p.View() != "" {
		t.Fatal("hidden prompt should render empty")
	}
	p.Show("Export to", "out.txt", nil, msgs.ModeNormal)
	if !strings.Contains(p.View(), "Export to") {
		t.Error("view should contain the title")
	}
}
