package tui

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/aicode/internal/clipboard"
	"github.com/mithrel/aicode/internal/db"
	"github.com/mithrel/aicode/pkg/api"
)

// Analyzer sends a query to the analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, query string) (api.Result, error)
}

// resultMsg carries a service response for the submission numbered seq.
type resultMsg struct {
	seq    uint64
	result api.Result
	err    error
	dur    time.Duration
}

// copyResultMsg reports whether a clipboard write went through.
type copyResultMsg struct {
	ok    bool
	label string
}

// copiedExpiredMsg ends the "copied" indicator of the copy with that token.
type copiedExpiredMsg struct {
	token uint64
}

// savedMsg reports the outcome of persisting a review.
type savedMsg struct {
	id  string
	err error
}

// deleteResultMsg conveys the outcome of a delete back to Update.
type deleteResultMsg struct {
	idx int
	id  string
	err error
	dur time.Duration
}

func analyzeCmd(ctx context.Context, a Analyzer, seq uint64, query string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		res, err := a.Analyze(ctx, query)
		return resultMsg{seq: seq, result: res, err: err, dur: time.Since(start)}
	}
}

func copyCmd(c clipboard.Copier, text, label string, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{ok: clipboard.CopyQuiet(c, text, logger), label: label}
	}
}

func copiedExpireCmd(token uint64, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return copiedExpiredMsg{token: token}
	})
}

func saveCmd(ctx context.Context, store db.Store, query string, res api.Result) tea.Cmd {
	return func() tea.Msg {
		r, err := store.SaveReview(ctx, api.Review{Query: query, Result: res})
		return savedMsg{id: r.ID, err: err}
	}
}

func deleteCmd(ctx context.Context, store db.Store, id string, idx int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		err := store.DeleteReview(ctx, id)
		return deleteResultMsg{idx: idx, id: id, err: err, dur: time.Since(start)}
	}
}
