package response

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/apitester/internal/core/format"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// BodyModel displays the response body with syntax highlighting.
type BodyModel struct {
	viewport    viewport.Model
	styles      theme.Styles
	chromaStyle string
	width       int
	height      int
	wrap        bool
	hasBody     bool
	raw         string
	contType    string
}

// NewBodyModel creates a new body viewer.
func NewBodyModel(s theme.Styles, chromaStyle string) BodyModel {
	vp := viewport.New(0, 0)
	return BodyModel{
		viewport:    vp,
		styles:      s,
		chromaStyle: chromaStyle,
	}
}

// SetContent sets the body content and highlights it.
func (m *BodyModel) SetContent(body, contentType string) {
	m.raw = body
	m.contType = contentType
	m.hasBody = body != ""
	m.viewport.GotoTop()
	m.renderContent()
}

// SetSize updates the viewport dimensions.
func (m *BodyModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = h
	if m.hasBody {
		m.renderContent()
	}
}

// SetStyle changes the highlighting style and re-renders.
func (m *BodyModel) SetStyle(s theme.Styles, chromaStyle string) {
	m.styles = s
	m.chromaStyle = chromaStyle
	m.renderContent()
}

// Raw returns the unformatted body.
func (m BodyModel) Raw() string {
	return m.raw
}

// Formatted returns the body as shown, without highlighting.
func (m BodyModel) Formatted() string {
	return format.Body(m.raw)
}

func (m *BodyModel) renderContent() {
	if !m.hasBody {
		m.viewport.SetContent("")
		return
	}

	src := format.Body(m.raw)
	lexerName := format.LexerFor(m.contType, src)
	highlighted := format.Highlight(src, lexerName, m.chromaStyle)

	if m.wrap && m.width > 0 {
		highlighted = lipgloss.NewStyle().Width(m.width).Render(highlighted)
	}
	m.viewport.SetContent(highlighted)
}

func (m BodyModel) Init() tea.Cmd {
	return nil
}

func (m BodyModel) Update(msg tea.Msg) (BodyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "w":
			m.wrap = !m.wrap
			m.renderContent()
			return m, nil
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m BodyModel) View() string {
	if !m.hasBody {
		return m.styles.Muted.Render("(empty body)")
	}
	return m.viewport.View()
}
