package tui

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/aicode/internal/clipboard"
	"github.com/mithrel/aicode/internal/db"
	"github.com/mithrel/aicode/internal/editor"
	"github.com/mithrel/aicode/internal/present/format"
	"github.com/mithrel/aicode/internal/util"
	"github.com/mithrel/aicode/pkg/api"
)

// HistoryOptions configures the history browser.
type HistoryOptions struct {
	Store           db.Store
	Copier          clipboard.Copier
	Logger          *log.Logger
	Headers         bool
	InitialStatus   string
	InitialDuration time.Duration
	CopiedTimeout   time.Duration
}

// RenderHistory opens an interactive table to browse stored reviews.
func RenderHistory(ctx context.Context, reviews []api.Review, opts HistoryOptions) error {
	m := newHistoryModel(ctx, reviews, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

type historyModel struct {
	ctx     context.Context
	opts    HistoryOptions
	table   table.Model
	all     []api.Review
	visible []api.Review
	st      format.Styles

	viewer *viewerModal
	viewed api.Review
	search *searchModal

	term, since, until string

	width, height int
	queryWidth    int
	status        string
	lastDuration  time.Duration
	copied        string
	copyToken     uint64
}

func newHistoryModel(ctx context.Context, reviews []api.Review, opts HistoryOptions) historyModel {
	if opts.Copier == nil {
		opts.Copier = clipboard.System{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.CopiedTimeout <= 0 {
		opts.CopiedTimeout = defaultCopiedTimeout
	}
	m := historyModel{
		ctx:          ctx,
		opts:         opts,
		all:          reviews,
		visible:      reviews,
		st:           format.DefaultStyles(),
		status:       opts.InitialStatus,
		lastDuration: opts.InitialDuration,
		queryWidth:   50,
	}
	m.initTable()
	return m
}

func (m *historyModel) initTable() {
	cols := m.columnsFor(12, 8, 16, m.queryWidth)
	m.table = table.New(table.WithColumns(cols), table.WithFocused(true))
	m.updateRows()
	m.applyStyles()
}

func (m *historyModel) updateRows() {
	rows := make([]table.Row, 0, len(m.visible))
	for _, r := range m.visible {
		rows = append(rows, table.Row{
			r.ID,
			string(r.Result.Type),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			truncate(format.Sanitize(editor.FirstLine(r.Query)), m.queryWidth),
		})
	}
	m.table.SetRows(rows)
	if cur := m.table.Cursor(); cur >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// applyFilter narrows the loaded reviews by time window, then ranks them
// against the fuzzy term.
func (m *historyModel) applyFilter(term, since, until string) error {
	s, u, err := util.ParseTimeRange(since, until)
	if err != nil {
		return err
	}
	filtered := make([]api.Review, 0, len(m.all))
	for _, r := range m.all {
		if !s.IsZero() && r.CreatedAt.Before(s) {
			continue
		}
		if !u.IsZero() && r.CreatedAt.After(u) {
			continue
		}
		filtered = append(filtered, r)
	}
	m.term, m.since, m.until = term, since, until
	m.visible = util.RankReviews(term, filtered, 0)
	m.updateRows()
	m.table.SetCursor(0)
	return nil
}

func (m historyModel) selected() (api.Review, int, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return api.Review{}, -1, false
	}
	return m.visible[idx], idx, true
}

func (m historyModel) Init() tea.Cmd { return nil }

func (m historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case deleteResultMsg:
		m.lastDuration = msg.dur.Round(time.Millisecond)
		if msg.err != nil {
			m.status = fmt.Sprintf("Delete failed: %v", msg.err)
			return m, nil
		}
		m.all = removeReview(m.all, msg.id)
		m.visible = removeReview(m.visible, msg.id)
		m.updateRows()
		m.table.SetCursor(min(max(0, msg.idx), max(0, len(m.visible)-1)))
		m.status = fmt.Sprintf("Deleted %s", msg.id)
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

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		m.updateRows()
		if m.viewer != nil {
			m.viewer.resizeForTerm(msg.Width, msg.Height)
		}
		if m.search != nil {
			m.search.resizeForTerm(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.search != nil:
			return m.updateSearch(msg)
		case m.viewer != nil:
			return m.updateViewer(msg)
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if r, _, ok := m.selected(); ok {
				m.viewed = r
				m.viewer = newViewerModal("Review "+r.ID, reviewContent(r, m.st), m.width, m.height)
			}
			return m, nil
		case "y":
			if r, _, ok := m.selected(); ok && r.Result.CorrectedCode != "" {
				return m, copyCmd(m.opts.Copier, r.Result.CorrectedCode, "corrected code", m.opts.Logger)
			}
			return m, nil
		case "/":
			m.search = newSearchModal(m.term, m.since, m.until, m.width, m.height)
			return m, nil
		case "d":
			if m.opts.Store == nil {
				return m, nil
			}
			if r, idx, ok := m.selected(); ok {
				m.status = fmt.Sprintf("Deleting %s…", r.ID)
				return m, deleteCmd(m.ctx, m.opts.Store, r.ID, idx)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m historyModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.search = nil
		return m, nil
	case "enter":
		term, since, until := m.search.values()
		if err := m.applyFilter(term, since, until); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.search = nil
		m.status = fmt.Sprintf("%d matches", len(m.visible))
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.update(msg)
	return m, cmd
}

func (m historyModel) updateViewer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "q":
		m.viewer = nil
		return m, nil
	case "y", "ctrl+y":
		if code := m.viewed.Result.CorrectedCode; code != "" {
			return m, copyCmd(m.opts.Copier, code, "corrected code", m.opts.Logger)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.viewer, cmd = m.viewer.update(msg)
	return m, cmd
}

func removeReview(reviews []api.Review, id string) []api.Review {
	out := make([]api.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

func (m historyModel) renderFooter() string {
	left := "↑/↓ navigate • enter=show • y=copy fix • /=search • d=delete • q=exit"

	var right string
	if m.copied != "" {
		right = m.st.Badge.Render("Copied "+m.copied) + " "
	}
	if m.status != "" {
		if m.lastDuration > 0 {
			right += fmt.Sprintf("%s (%s) • ", m.status, m.lastDuration)
		} else {
			right += m.status + " • "
		}
	}
	right += fmt.Sprintf("%d reviews ", len(m.visible))

	return footerLine(left, right, m.table.Width())
}

func (m historyModel) View() string {
	var base string
	if len(m.all) == 0 {
		base = "(no reviews)\n"
	} else {
		base = m.table.View() + "\n" + m.renderFooter() + "\n"
	}
	switch {
	case m.search != nil:
		return renderOverlay(base, m.search.View(), m.width, m.height, m.search.width, m.search.height)
	case m.viewer != nil:
		return renderOverlay(base, m.viewer.View(), m.width, m.height, m.viewer.width, m.viewer.height)
	}
	return base
}

func (m *historyModel) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.table.SetHeight(max(6, m.height-1))
	m.table.SetWidth(m.width)
	avail := m.width - 4
	if avail < 40 {
		return
	}
	idW := 26
	if avail < idW+60 {
		idW = 8
	}
	typeW, createdW := 8, 16
	m.queryWidth = max(12, avail-idW-typeW-createdW)
	m.table.SetColumns(m.columnsFor(idW, typeW, createdW, m.queryWidth))
}

func (m *historyModel) applyStyles() {
	s := table.DefaultStyles()
	if m.opts.Headers {
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
	} else {
		s.Header = s.Header.
			BorderBottom(false).
			Bold(false)
	}
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.table.SetStyles(s)
}

func (m *historyModel) columnsFor(idW, typeW, createdW, queryW int) []table.Column {
	titles := []string{"ID", "Type", "Created", "Query"}
	if !m.opts.Headers {
		titles = []string{"", "", "", ""}
	}
	widths := []int{idW, typeW, createdW, queryW}
	cols := make([]table.Column, len(titles))
	for i := range titles {
		cols[i] = table.Column{Title: titles[i], Width: widths[i]}
	}
	return cols
}
