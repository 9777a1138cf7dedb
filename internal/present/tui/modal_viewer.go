package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/aicode/internal/present/format"
	"github.com/mithrel/aicode/pkg/api"
)

// viewerModal is a foreground modal showing pre-rendered content inside a
// scrollable viewport. The chat uses it for the best version, the history
// browser for a stored review.
type viewerModal struct {
	title   string
	vp      viewport.Model
	width   int
	height  int
	padX    int
	padY    int
	box     lipglossv2.Style
	content string
}

func newViewerModal(title, content string, termW, termH int) *viewerModal {
	m := &viewerModal{title: title, padX: 2, padY: 1}
	m.resizeForTerm(termW, termH)
	m.setContent(content)
	return m
}

// versionContent renders one improved version for the modal body.
func versionContent(v api.ImprovedVersion, st format.Styles) string {
	body := format.StyledCode("", v.Code, st)
	if v.Explanation != "" {
		body += "\n\n" + st.Muted.Render("Why this version: ") + format.Sanitize(v.Explanation)
	}
	return body
}

// reviewContent renders a stored review: its query, then the result sections.
func reviewContent(r api.Review, st format.Styles) string {
	head := st.Section.Render("Query") + "\n" + format.Sanitize(r.Query)
	sections := format.StyledSections(r.Result, st, nil)
	if len(sections) == 0 {
		return head + "\n\n" + st.Muted.Render("(empty result)")
	}
	return head + "\n\n" + format.JoinSections(sections, st)
}

func (m *viewerModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * 0.7)
	if termW < 80 {
		w = termW - 4
	}
	if w < 40 {
		w = max(32, termW-2)
	}
	h := int(float64(termH) * 0.7)
	if termH < 20 {
		h = termH - 2
	}
	if h < 10 {
		h = max(8, termH-1)
	}
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	// borders, padding and the title line
	innerW := max(10, w-2-m.padX*2)
	innerH := max(4, h-2-m.padY*2-2)
	if m.vp.Width == 0 {
		m.vp = viewport.New(innerW, innerH)
	} else {
		m.vp.Width = innerW
		m.vp.Height = innerH
	}
	m.vp.SetContent(m.content)
}

func (m *viewerModal) setContent(s string) {
	m.content = s
	m.vp.SetContent(s)
	m.vp.GotoTop()
}

func (m *viewerModal) update(msg tea.Msg) (*viewerModal, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	case tea.KeyMsg, tea.MouseMsg:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *viewerModal) View() string {
	header := lipgloss.NewStyle().Bold(true).Render(m.title)
	help := lipgloss.NewStyle().Faint(true).Render("  esc=close • ↑/↓ scroll")
	return m.box.Render(header + help + "\n\n" + m.vp.View())
}

func (m *viewerModal) Init() tea.Cmd                           { return nil }
func (m *viewerModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return m.update(msg) }
