package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/mithrel/aicode/internal/clipboard"
	"github.com/mithrel/aicode/internal/db"
	"github.com/mithrel/aicode/internal/present/format"
	"github.com/mithrel/aicode/internal/session"
	"github.com/mithrel/aicode/pkg/api"
)

// DocsPlaceholder fills the documentation panel until a result carries some.
const DocsPlaceholder = "Documentation will appear here after you ask a question or paste code."

const (
	defaultCopiedTimeout = 2 * time.Second
	inputHeight          = 5
)

// ChatOptions configures the chat program.
type ChatOptions struct {
	Analyzer      Analyzer
	Store         db.Store // nil disables saving
	Copier        clipboard.Copier
	Logger        *log.Logger
	CopiedTimeout time.Duration
	PrettyStyle   string
	InitialQuery  string
}

// RunChat opens the interactive chat and blocks until the user quits.
func RunChat(ctx context.Context, opts ChatOptions) error {
	m := newChatModel(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type chatModel struct {
	ctx    context.Context
	opts   ChatOptions
	sess   session.Session
	input  textarea.Model
	vp     viewport.Model
	st     format.Styles
	answer *glamour.TermRenderer
	modal  *viewerModal

	width, height int

	status       string
	lastDuration time.Duration
	copied       string
	copyToken    uint64
}

func newChatModel(ctx context.Context, opts ChatOptions) chatModel {
	if opts.CopiedTimeout <= 0 {
		opts.CopiedTimeout = defaultCopiedTimeout
	}
	if opts.Copier == nil {
		opts.Copier = clipboard.System{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	ti := textarea.New()
	ti.Prompt = "│ "
	ti.Placeholder = "Paste code or ask a question"
	ti.ShowLineNumbers = false
	ti.CharLimit = 0
	ti.MaxHeight = 0
	ti.SetHeight(inputHeight)
	ti.SetValue(opts.InitialQuery)
	ti.Focus()

	m := chatModel{
		ctx:   ctx,
		opts:  opts,
		input: ti,
		vp:    viewport.New(80, 20),
		st:    format.DefaultStyles(),
	}
	m.refresh()
	return m
}

func (m chatModel) Init() tea.Cmd { return textarea.Blink }

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.applyLayout()
		if m.modal != nil {
			m.modal.resizeForTerm(msg.Width, msg.Height)
		}
		return m, nil

	case resultMsg:
		var err error
		if msg.err != nil {
			err = m.sess.ResponseFailed(msg.seq, msg.err)
		} else {
			err = m.sess.ResponseReceived(msg.seq, msg.result)
		}
		if err != nil {
			m.opts.Logger.Printf("chat: drop response seq=%d: %v", msg.seq, err)
			return m, nil
		}
		m.lastDuration = msg.dur.Round(time.Millisecond)
		if msg.err != nil {
			m.opts.Logger.Printf("chat: analyze failed seq=%d: %v", msg.seq, msg.err)
			m.status = "Request failed"
			m.refresh()
			return m, nil
		}
		m.status = "Done"
		m.refresh()
		if m.opts.Store != nil {
			return m, saveCmd(m.ctx, m.opts.Store, m.sess.Query(), msg.result)
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.opts.Logger.Printf("chat: save review: %v", msg.err)
		}
		return m, nil

	case copyResultMsg:
		if !msg.ok {
			return m, nil
		}
		m.copyToken++
		m.copied = msg.label
		return m, copiedExpireCmd(m.copyToken, m.opts.CopiedTimeout)

	case copiedExpiredMsg:
		if msg.token == m.copyToken {
			m.copied = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.modal != nil {
			return m.updateModal(msg)
		}
		return m.updateKey(msg)
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m chatModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "q":
		m.modal = nil
		return m, nil
	case "ctrl+y":
		if v, ok := m.sess.Result().Best(); ok {
			return m, copyCmd(m.opts.Copier, v.Code, fmt.Sprintf("version %d", v.Version), m.opts.Logger)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.modal, cmd = m.modal.update(msg)
	return m, cmd
}

func (m chatModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+s", "alt+enter":
		return m.submit()
	case "ctrl+y":
		if code := m.displayed().CorrectedCode; code != "" {
			return m, copyCmd(m.opts.Copier, code, "corrected code", m.opts.Logger)
		}
		return m, nil
	case "ctrl+o":
		if v, ok := m.displayed().Best(); ok {
			title := format.VersionTitle(v, v.Version)
			m.modal = newViewerModal(title, versionContent(v, m.st), m.width, m.height)
		}
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	if n, ok := altDigit(key); ok {
		if v, found := m.displayed().Version(n); found {
			return m, copyCmd(m.opts.Copier, v.Code, fmt.Sprintf("version %d", n), m.opts.Logger)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) submit() (tea.Model, tea.Cmd) {
	query := m.input.Value()
	seq, err := m.sess.Submit(query)
	switch {
	case errors.Is(err, session.ErrEmptyQuery):
		return m, nil
	case errors.Is(err, session.ErrInvalidTransition):
		m.status = "Still waiting for the previous answer"
		return m, nil
	case err != nil:
		m.status = err.Error()
		return m, nil
	}
	m.input.Reset()
	m.status = "Analyzing…"
	m.lastDuration = 0
	m.refresh()
	return m, analyzeCmd(m.ctx, m.opts.Analyzer, seq, query)
}

// displayed is the result currently on screen; empty unless Displaying.
func (m chatModel) displayed() api.Result {
	if m.sess.State() != session.Displaying {
		return api.Result{}
	}
	return m.sess.Result()
}

// altDigit matches alt+1 through alt+9.
func altDigit(key string) (int, bool) {
	d, ok := strings.CutPrefix(key, "alt+")
	if !ok || len(d) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(d)
	if err != nil || n < 1 || n > 9 {
		return 0, false
	}
	return n, true
}

func (m *chatModel) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	// input box and footer
	m.vp.Width = m.width
	m.vp.Height = max(3, m.height-inputHeight-2)
	m.input.SetWidth(max(10, m.width))
	m.answer = nil
	m.refresh()
}

// refresh re-renders the transcript for the current session state.
func (m *chatModel) refresh() {
	m.vp.SetContent(m.transcript())
}

func (m *chatModel) transcript() string {
	var parts []string
	if q := m.sess.Query(); q != "" {
		parts = append(parts, m.st.Section.Render("You")+"\n"+format.Sanitize(q))
	}
	switch m.sess.State() {
	case session.Loading:
		parts = append(parts, m.st.Muted.Render("Analyzing…"))
	case session.Failed:
		parts = append(parts, m.st.Error.Render("Error: "+format.Sanitize(m.sess.Err().Error())))
	case session.Displaying:
		r := m.sess.Result()
		sections := format.StyledSections(r, m.st, m.renderAnswer)
		if len(sections) > 0 {
			parts = append(parts, format.JoinSections(sections, m.st))
		}
	}
	if strings.TrimSpace(m.displayed().Documentation) == "" {
		parts = append(parts, m.st.Section.Render(format.HeadingDocumentation)+"\n"+m.st.Muted.Render(DocsPlaceholder))
	}
	return strings.Join(parts, "\n\n")
}

func (m *chatModel) renderAnswer(md string) string {
	if m.answer == nil {
		style := m.opts.PrettyStyle
		if style == "" {
			style = "dracula"
		}
		gopts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
		if m.width > 0 {
			gopts = append(gopts, glamour.WithWordWrap(max(20, m.width-4)))
		}
		r, err := glamour.NewTermRenderer(gopts...)
		if err != nil {
			m.opts.Logger.Printf("chat: glamour: %v", err)
			return md
		}
		m.answer = r
	}
	out, err := m.answer.Render(md)
	if err != nil {
		m.opts.Logger.Printf("chat: render answer: %v", err)
		return md
	}
	return strings.Trim(out, "\n")
}

func (m chatModel) renderFooter() string {
	left := "ctrl+s=ask • enter=newline • ctrl+y=copy fix • alt+N=copy version • ctrl+o=best • ctrl+c=quit"
	var right string
	if m.copied != "" {
		right = m.st.Badge.Render("Copied "+m.copied) + " "
	}
	if m.status != "" {
		if m.lastDuration > 0 {
			right += fmt.Sprintf("%s (%s) ", m.status, m.lastDuration)
		} else {
			right += m.status + " "
		}
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	return footerLine(left, right, width)
}

func (m chatModel) View() string {
	base := m.vp.View() + "\n" + m.input.View() + "\n" + m.renderFooter()
	if m.modal == nil {
		return base
	}
	return renderOverlay(base, m.modal.View(), m.width, m.height, m.modal.width, m.modal.height)
}
