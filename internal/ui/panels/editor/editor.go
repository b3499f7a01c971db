package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/apitester/internal/protocol"
	"github.com/sadopc/apitester/internal/ui/msgs"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// Model is the request form: method selector, URL input, and the headers and
// body text areas.
type Model struct {
	methodIndex int
	url         textinput.Model
	headers     textarea.Model
	body        textarea.Model

	field   msgs.PanelFocus
	focused bool

	width  int
	height int
	theme  theme.Theme
	styles theme.Styles
}

// New creates a new request form.
func New(t theme.Theme, styles theme.Styles) Model {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://api.example.com/users"
	urlInput.CharLimit = 2048
	urlInput.Width = 40

	headersArea := textarea.New()
	headersArea.Placeholder = `{"Accept": "application/json"}`
	headersArea.ShowLineNumbers = false
	headersArea.CharLimit = 0
	headersArea.SetWidth(40)
	headersArea.SetHeight(3)

	bodyArea := textarea.New()
	bodyArea.Placeholder = `{"name": "value"} or raw text`
	bodyArea.ShowLineNumbers = false
	bodyArea.CharLimit = 0
	bodyArea.SetWidth(40)
	bodyArea.SetHeight(6)

	m := Model{
		url:     urlInput,
		headers: headersArea,
		body:    bodyArea,
		field:   msgs.FocusURL,
		theme:   t,
		styles:  styles,
		width:   60,
		height:  20,
	}
	return m
}

// SetSize sets the panel dimensions and the heights of the two text areas.
func (m *Model) SetSize(w, h, headersH, bodyH int) {
	m.width = w
	m.height = h

	innerW := max(w-4, 10)
	m.url.Width = max(innerW-10, 10) // method label + padding
	m.headers.SetWidth(innerW)
	m.headers.SetHeight(max(headersH, 1))
	m.body.SetWidth(innerW)
	m.body.SetHeight(max(bodyH, 1))
}

// SetFocused sets whether the form has focus. Losing focus blurs every input.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
	if !focused {
		m.blurAll()
	}
}

// SetTheme swaps the palette used to render the form.
func (m *Model) SetTheme(t theme.Theme, s theme.Styles) {
	m.theme = t
	m.styles = s
}

// Field returns the focused field.
func (m Model) Field() msgs.PanelFocus {
	return m.field
}

// FocusField moves the cursor to a form field.
func (m *Model) FocusField(f msgs.PanelFocus) tea.Cmd {
	m.field = f
	m.focused = true
	m.blurAll()
	switch f {
	case msgs.FocusURL:
		return m.url.Focus()
	case msgs.FocusHeaders:
		return m.headers.Focus()
	case msgs.FocusBody:
		return m.body.Focus()
	}
	return nil
}

func (m *Model) blurAll() {
	m.url.Blur()
	m.headers.Blur()
	m.body.Blur()
}

// Method returns the selected HTTP method.
func (m Model) Method() string {
	return protocol.Methods[m.methodIndex]
}

// SetMethod selects a method. Unknown methods leave the selection unchanged.
func (m *Model) SetMethod(method string) {
	method = strings.ToUpper(strings.TrimSpace(method))
	for i, candidate := range protocol.Methods {
		if candidate == method {
			m.methodIndex = i
			return
		}
	}
}

// CycleMethod moves the method selection forward or backward.
func (m *Model) CycleMethod(reverse bool) {
	n := len(protocol.Methods)
	if reverse {
		m.methodIndex = (m.methodIndex - 1 + n) % n
	} else {
		m.methodIndex = (m.methodIndex + 1) % n
	}
}

// URL returns the raw URL text.
func (m Model) URL() string {
	return m.url.Value()
}

// HeadersText returns the raw headers text.
func (m Model) HeadersText() string {
	return m.headers.Value()
}

// BodyText returns the raw body text.
func (m Model) BodyText() string {
	return m.body.Value()
}

// Load fills the form, for example from a history record.
func (m *Model) Load(method, url, headers, body string) {
	m.SetMethod(method)
	m.url.SetValue(url)
	if strings.TrimSpace(headers) == "{}" {
		headers = ""
	}
	m.headers.SetValue(headers)
	m.body.SetValue(body)
}

// Reset clears every field and selects GET.
func (m *Model) Reset() {
	m.methodIndex = 0
	m.url.SetValue("")
	m.headers.Reset()
	m.body.Reset()
}

// BuildRequest validates the form and builds a request from it.
func (m Model) BuildRequest() (*protocol.Request, error) {
	return protocol.NewRequest(m.Method(), m.url.Value(), m.headers.Value(), m.body.Value())
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && m.field == msgs.FocusMethod {
		switch key.String() {
		case "left", "h", "up", "k":
			m.CycleMethod(true)
		case "right", "l", "down", "j", " ", "enter":
			m.CycleMethod(false)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.field {
	case msgs.FocusURL:
		m.url, cmd = m.url.Update(msg)
	case msgs.FocusHeaders:
		m.headers, cmd = m.headers.Update(msg)
	case msgs.FocusBody:
		m.body, cmd = m.body.Update(msg)
	}
	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	border := m.styles.UnfocusedBorder
	if m.focused {
		border = m.styles.FocusedBorder
	}

	innerW := max(m.width-2, 1)
	innerH := max(m.height-2, 1)

	method := m.Method()
	methodLabel := m.styles.MethodStyle(method).Render(padMethod(method))
	if m.focused && m.field == msgs.FocusMethod {
		methodLabel = m.styles.Cursor.Render("◀ " + method + " ▶")
	}

	var b strings.Builder
	b.WriteString(methodLabel + " " + m.url.View())
	b.WriteString("\n")
	b.WriteString(m.label("Headers (JSON object)", msgs.FocusHeaders))
	b.WriteString("\n")
	b.WriteString(m.headers.View())
	b.WriteString("\n")
	b.WriteString(m.label("Body", msgs.FocusBody))
	b.WriteString("\n")
	b.WriteString(m.body.View())

	content := lipgloss.NewStyle().MaxHeight(innerH).Render(b.String())
	return border.Width(innerW).Height(innerH).Render(content)
}

func (m Model) label(text string, field msgs.PanelFocus) string {
	if m.focused && m.field == field {
		return m.styles.Key.Bold(true).Render("› " + text)
	}
	return m.styles.Label.Render("  " + text)
}

// padMethod pads an HTTP method to 6 chars.
func padMethod(method string) string {
	if len(method) >= 6 {
		return method[:6]
	}
	return method + strings.Repeat(" ", 6-len(method))
}
