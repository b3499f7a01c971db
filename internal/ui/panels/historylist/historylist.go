// Package historylist is the history browser overlay: a filterable list of
// stored requests with a scrollable detail view.
package historylist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/apitester/internal/core/format"
	"github.com/sadopc/apitester/internal/core/history"
	"github.com/sadopc/apitester/internal/ui/msgs"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// Model is the history browser.
type Model struct {
	items  []history.Summary
	cursor int
	filter string // committed filter, as last sent to the store

	filtering   bool
	filterInput textinput.Model

	detail   *history.Record
	viewport viewport.Model

	errText string
	width   int
	height  int
	theme   theme.Theme
	styles  theme.Styles
}

// New creates a new history browser.
func New(t theme.Theme, s theme.Styles) Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "URL contains..."
	ti.CharLimit = 256

	return Model{
		theme:       t,
		styles:      s,
		filterInput: ti,
		viewport:    viewport.New(0, 0),
	}
}

// SetSummaries replaces the list after a load with the given filter.
func (m *Model) SetSummaries(filter string, items []history.Summary) {
	m.items = items
	m.filter = filter
	m.filterInput.SetValue(filter)
	m.errText = ""
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

// SetError shows a storage failure in place of the list.
func (m *Model) SetError(err error) {
	m.errText = err.Error()
}

// SetDetail opens the detail view for rec.
func (m *Model) SetDetail(rec history.Record) {
	m.detail = &rec
	m.viewport.SetContent(format.Detail(rec))
	m.viewport.GotoTop()
}

// CloseDetail returns to the list.
func (m *Model) CloseDetail() {
	m.detail = nil
}

// Detail returns the record shown in the detail view, if any.
func (m Model) Detail() (history.Record, bool) {
	if m.detail == nil {
		return history.Record{}, false
	}
	return *m.detail, true
}

// Selected returns the summary under the cursor.
func (m Model) Selected() (history.Summary, bool) {
	if len(m.items) == 0 {
		return history.Summary{}, false
	}
	return m.items[m.cursor], true
}

// Items returns the displayed summaries.
func (m Model) Items() []history.Summary {
	return m.items
}

// Filter returns the committed filter.
func (m Model) Filter() string {
	return m.filter
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool {
	return m.filtering
}

// Reset clears the detail view and cursor for a fresh open.
func (m *Model) Reset() {
	m.detail = nil
	m.cursor = 0
	m.filtering = false
	m.filterInput.Blur()
}

// SetSize sets the overlay dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.filterInput.Width = max(w-8, 10)
	m.viewport.Width = max(w-4, 1)
	m.viewport.Height = max(h-5, 1)
}

// SetTheme swaps the palette used to render the browser.
func (m *Model) SetTheme(t theme.Theme, s theme.Styles) {
	m.theme = t
	m.styles = s
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.filtering {
		return m.updateFilter(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.detail != nil {
		return m.handleDetailKey(key)
	}
	return m.handleListKey(key)
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m, emit(msgs.CloseHistoryMsg{})
	case "/":
		m.filtering = true
		return m, m.filterInput.Focus()
	case "r":
		return m, emit(msgs.FilterHistoryMsg{Filter: m.filter})
	case "D":
		return m, emit(msgs.ClearHistoryMsg{})
	}

	if len(m.items) == 0 {
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.items) - 1
	case "enter":
		return m, emit(msgs.ShowHistoryDetailMsg{ID: m.items[m.cursor].ID})
	case "c":
		return m, emit(msgs.CopyRecordCurlMsg{ID: m.items[m.cursor].ID})
	case "l":
		return m, emit(msgs.LoadHistoryMsg{ID: m.items[m.cursor].ID})
	case "e":
		return m, emit(msgs.ExportPromptMsg{ID: m.items[m.cursor].ID})
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	id := m.detail.ID
	switch msg.String() {
	case "esc", "q", "backspace":
		m.detail = nil
		return m, nil
	case "e":
		return m, emit(msgs.ExportPromptMsg{ID: id})
	case "c":
		return m, emit(msgs.CopyRecordCurlMsg{ID: id})
	case "l":
		return m, emit(msgs.LoadHistoryMsg{ID: id})
	case "g":
		m.viewport.GotoTop()
		return m, nil
	case "G":
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateFilter(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.filtering = false
			m.filterInput.Blur()
			m.cursor = 0
			return m, emit(msgs.FilterHistoryMsg{Filter: m.filterInput.Value()})
		case "esc":
			m.filtering = false
			m.filterInput.Blur()
			m.filterInput.SetValue(m.filter)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View renders the browser.
func (m Model) View() string {
	innerW := max(m.width-4, 10)
	innerH := max(m.height-2, 3)

	var body string
	if m.detail != nil {
		body = m.viewDetail()
	} else {
		body = m.viewList(innerW, innerH)
	}

	return m.styles.Modal.
		Padding(0, 1).
		Width(innerW).
		Height(innerH).
		Render(lipgloss.NewStyle().MaxHeight(innerH).Render(body))
}

func (m Model) viewDetail() string {
	title := m.styles.Title.Render(fmt.Sprintf("History #%d", m.detail.ID))
	hint := m.styles.Hint.Render("esc: back  e: export  c: copy cURL  l: load")
	return title + "\n" + hint + "\n\n" + m.viewport.View()
}

func (m Model) viewList(w, h int) string {
	title := m.styles.Title.Render("History")
	if m.filter != "" {
		title += m.styles.Muted.Render(fmt.Sprintf("  filter: %q", m.filter))
	}
	title += m.styles.Muted.Render(fmt.Sprintf("  (%d)", len(m.items)))

	lines := []string{title}
	if m.filtering {
		lines = append(lines, m.filterInput.View())
	} else {
		lines = append(lines, m.styles.Hint.Render("/: filter  enter: details  e: export  c: copy cURL  l: load  D: clear  esc: close"))
	}
	lines = append(lines, "")

	if m.errText != "" {
		lines = append(lines, m.styles.Error.Render("Error: "+m.errText))
		return strings.Join(lines, "\n")
	}
	if len(m.items) == 0 {
		lines = append(lines, m.styles.Muted.Render("  No history yet"))
		return strings.Join(lines, "\n")
	}

	rows := max(h-len(lines), 1)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.items))
	for i := start; i < end; i++ {
		lines = append(lines, m.renderItem(m.items[i], i == m.cursor, w))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderItem(s history.Summary, isCursor bool, width int) string {
	id := fmt.Sprintf("#%-5d", s.ID)
	method := padMethod(s.Method)
	status := fmt.Sprintf("%3d", s.StatusCode)
	meta := fmt.Sprintf("%ss  %s", format.Seconds(s.Elapsed), format.Ago(s.Timestamp))

	urlW := max(width-len(id)-len(method)-len(status)-len(meta)-6, 8)
	url := truncate(s.URL, urlW)

	if isCursor {
		plain := fmt.Sprintf("%s %s %s %-*s  %s", id, method, status, urlW, url, meta)
		return m.styles.Cursor.Width(width).Render(plain)
	}

	return m.styles.Muted.Render(id) + " " +
		m.styles.MethodStyle(s.Method).Render(method) + " " +
		lipgloss.NewStyle().Foreground(m.theme.StatusColor(s.StatusCode)).Render(status) + " " +
		m.styles.Normal.Render(fmt.Sprintf("%-*s", urlW, url)) + "  " +
		m.styles.Subtitle.Render(meta)
}

// padMethod pads an HTTP method to 6 chars.
func padMethod(method string) string {
	if len(method) >= 6 {
		return method[:6]
	}
	return method + strings.Repeat(" ", 6-len(method))
}

func truncate(s string, w int) string {
	if len(s) <= w {
		return s
	}
	if w <= 3 {
		return s[:w]
	}
	return s[:w-3] + "..."
}
