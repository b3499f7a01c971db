package response

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	httpclient "github.com/sadopc/apitester/internal/protocol/http"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// HeadersModel lists response headers with names padded to a common column.
type HeadersModel struct {
	viewport viewport.Model
	styles   theme.Styles
	names    []string
	values   map[string]string
}

// NewHeadersModel creates an empty headers view.
func NewHeadersModel(s theme.Styles) HeadersModel {
	return HeadersModel{
		viewport: viewport.New(0, 0),
		styles:   s,
	}
}

// SetHeaders replaces the listed headers. Multi-valued headers are joined
// the same way the send path records them.
func (m *HeadersModel) SetHeaders(h http.Header) {
	m.values = httpclient.FlattenHeaders(h)
	m.names = m.names[:0]
	for name := range m.values {
		m.names = append(m.names, name)
	}
	sort.Slice(m.names, func(i, j int) bool {
		return strings.ToLower(m.names[i]) < strings.ToLower(m.names[j])
	})
	m.render()
}

// Count is the number of distinct header names shown.
func (m HeadersModel) Count() int {
	return len(m.names)
}

func (m *HeadersModel) render() {
	if len(m.names) == 0 {
		m.viewport.SetContent("")
		return
	}
	pad := 0
	for _, name := range m.names {
		pad = max(pad, len(name))
	}

	var b strings.Builder
	noun := "headers"
	if len(m.names) == 1 {
		noun = "header"
	}
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d %s", len(m.names), noun)))
	for _, name := range m.names {
		b.WriteByte('\n')
		b.WriteString(m.styles.Key.Render(fmt.Sprintf("%-*s", pad, name)))
		b.WriteString(m.styles.Muted.Render("  "))
		b.WriteString(m.styles.Normal.Render(m.values[name]))
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
}

// SetSize updates the viewport dimensions.
func (m *HeadersModel) SetSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = h
}

// SetStyles re-renders the list with a new palette.
func (m *HeadersModel) SetStyles(s theme.Styles) {
	m.styles = s
	m.render()
}

func (m HeadersModel) Init() tea.Cmd {
	return nil
}

func (m HeadersModel) Update(msg tea.Msg) (HeadersModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m HeadersModel) View() string {
	if len(m.names) == 0 {
		return m.styles.Muted.Render("No headers")
	}
	return m.viewport.View()
}
