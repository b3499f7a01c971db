package response

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/apitester/internal/core/format"
	"github.com/sadopc/apitester/internal/protocol"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// metaLines is the height of the status/time/length block.
const metaLines = 3

// Model is the response panel: a meta block above a body or headers view.
type Model struct {
	body    BodyModel
	headers HeadersModel
	spinner spinner.Model

	styles      theme.Styles
	th          theme.Theme
	showHeaders bool
	focused     bool
	loading     bool
	hasResp     bool
	errText     string
	meta        string
	code        int
	width       int
	height      int
}

// New creates a new response panel model.
func New(t theme.Theme, s theme.Styles) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(t.Mauve)

	return Model{
		body:    NewBodyModel(s, t.ChromaStyle),
		headers: NewHeadersModel(s),
		spinner: sp,
		styles:  s,
		th:      t,
	}
}

// SetResponse shows a completed response.
func (m *Model) SetResponse(resp *protocol.Response) {
	m.loading = false
	m.errText = ""
	if resp == nil {
		m.hasResp = false
		return
	}
	m.hasResp = true
	m.code = resp.StatusCode
	m.meta = format.Meta(resp.StatusCode, resp.Elapsed.Seconds(), len(resp.Body))

	m.body.SetContent(resp.Text(), resp.ContentType)
	m.headers.SetHeaders(resp.Headers)
}

// SetError shows a failed request in place of a response.
func (m *Model) SetError(err error) {
	m.loading = false
	m.hasResp = false
	m.errText = err.Error()
}

// SetLoading puts the panel into loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// Loading reports whether a request is pending.
func (m Model) Loading() bool {
	return m.loading
}

// HasResponse reports whether a response is displayed.
func (m Model) HasResponse() bool {
	return m.hasResp
}

// Body returns the raw body of the displayed response.
func (m Model) Body() string {
	if !m.hasResp {
		return ""
	}
	return m.body.Raw()
}

// Meta returns the status/time/length block of the displayed response.
func (m Model) Meta() string {
	return m.meta
}

// SetFocused sets whether this panel has focus.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// SetTheme swaps the palette and highlighting style.
func (m *Model) SetTheme(t theme.Theme, s theme.Styles) {
	m.th = t
	m.styles = s
	m.spinner.Style = lipgloss.NewStyle().Foreground(t.Mauve)
	m.body.SetStyle(s, t.ChromaStyle)
	m.headers.SetStyles(s)
}

// SetSize updates the panel dimensions. viewportH is the height left for
// the body once the meta block and border are taken.
func (m *Model) SetSize(w, h, viewportH int) {
	m.width = w
	m.height = h

	innerW := max(w-2, 0)
	m.body.SetSize(innerW, viewportH)
	m.headers.SetSize(innerW, viewportH)
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "h" && m.hasResp {
			m.showHeaders = !m.showHeaders
			return m, nil
		}
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.showHeaders {
		m.headers, cmd = m.headers.Update(msg)
	} else {
		m.body, cmd = m.body.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	border := m.styles.UnfocusedBorder
	if m.focused {
		border = m.styles.FocusedBorder
	}

	innerW := max(m.width-2, 0)
	innerH := max(m.height-2, 0)

	var content string
	switch {
	case m.loading:
		msg := fmt.Sprintf("%s Sending request...", m.spinner.View())
		content = lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center, msg)
	case m.errText != "":
		content = m.styles.Error.Width(innerW).Render("Error: " + m.errText)
	case !m.hasResp:
		msg := m.styles.Muted.Render("Send a request to see the response")
		content = lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center, msg)
	default:
		content = m.renderResponse(innerW)
	}

	content = lipgloss.NewStyle().MaxHeight(innerH).Render(content)
	return border.Width(innerW).Height(innerH).Render(content)
}

func (m Model) renderResponse(w int) string {
	lines := strings.Split(strings.TrimRight(m.meta, "\n"), "\n")
	if len(lines) > 0 {
		lines[0] = lipgloss.NewStyle().Foreground(m.th.StatusColor(m.code)).Bold(true).Render(lines[0])
	}
	for i := 1; i < len(lines); i++ {
		lines[i] = m.styles.Subtitle.Render(lines[i])
	}
	for len(lines) < metaLines {
		lines = append(lines, "")
	}

	section := "Body"
	if m.showHeaders {
		section = "Headers"
	}
	title := m.styles.Label.Render(section) + m.styles.Hint.Render("  (h: toggle)")

	var view string
	if m.showHeaders {
		view = m.headers.View()
	} else {
		view = m.body.View()
	}

	return lipgloss.NewStyle().Width(w).Render(strings.Join(lines, "\n")) + "\n" + title + "\n" + view
}
