package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/aicode/internal/db"
	"github.com/mithrel/aicode/pkg/api"
)

func seedHistory(t *testing.T) (db.Store, []api.Review) {
	t.Helper()
	ctx := context.Background()
	store, closer, err := db.Open(ctx, "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	now := time.Now().UTC().Truncate(time.Second)
	seed := []api.Review{
		{Query: "goroutine leak in worker pool", Result: api.Result{Type: api.ResultQuestion, Answer: "close the channel"}, CreatedAt: now.Add(-1 * time.Hour)},
		{Query: "fix my python loop", Result: api.Result{Type: api.ResultCode, CorrectedCode: "for i in range(3):\n    print(i)"}, CreatedAt: now.Add(-30 * time.Hour)},
		{Query: "what is a mutex", Result: api.Result{Type: api.ResultQuestion, Answer: "a lock"}, CreatedAt: now.Add(-2 * time.Hour)},
	}
	for _, r := range seed {
		_, err := store.SaveReview(ctx, r)
		require.NoError(t, err)
	}
	reviews, err := store.ListReviews(ctx, api.ListQuery{})
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	return store, reviews
}

func updateHistory(t *testing.T, m historyModel, msg tea.Msg) (historyModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	hm, ok := next.(historyModel)
	require.True(t, ok)
	return hm, cmd
}

func TestHistoryFilter(t *testing.T) {
	store, reviews := seedHistory(t)
	m := newHistoryModel(context.Background(), reviews, HistoryOptions{Store: store, Headers: true})
	require.Len(t, m.table.Rows(), 3)

	require.NoError(t, m.applyFilter("goroutine", "", ""))
	require.Len(t, m.visible, 1)
	require.Equal(t, "goroutine leak in worker pool", m.visible[0].Query)

	require.NoError(t, m.applyFilter("", "24h", ""))
	require.Len(t, m.visible, 2)

	require.Error(t, m.applyFilter("", "not a time", ""))
	require.Len(t, m.visible, 2)
}

func TestHistorySearchModalApplies(t *testing.T) {
	store, reviews := seedHistory(t)
	m := newHistoryModel(context.Background(), reviews, HistoryOptions{Store: store})

	m, _ = updateHistory(t, m, runes("/", false))
	require.NotNil(t, m.search)
	m.search.term.SetValue("mutex")
	m, _ = updateHistory(t, m, key(tea.KeyEnter))
	require.Nil(t, m.search)
	require.Len(t, m.visible, 1)
	require.Equal(t, "1 matches", m.status)
}

func TestHistoryDelete(t *testing.T) {
	store, reviews := seedHistory(t)
	m := newHistoryModel(context.Background(), reviews, HistoryOptions{Store: store})
	target := m.visible[0].ID

	m, cmd := updateHistory(t, m, runes("d", false))
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, deleteResultMsg{}, msg)

	m, _ = updateHistory(t, m, msg)
	require.Len(t, m.visible, 2)
	require.Len(t, m.all, 2)
	require.Equal(t, "Deleted "+target, m.status)

	_, err := store.GetReview(context.Background(), target)
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestHistoryShowAndCopy(t *testing.T) {
	store, reviews := seedHistory(t)
	c := &recordingCopier{}
	m := newHistoryModel(context.Background(), reviews, HistoryOptions{Store: store, Copier: c})
	require.NoError(t, m.applyFilter("python", "", ""))

	m, _ = updateHistory(t, m, key(tea.KeyEnter))
	require.NotNil(t, m.viewer)
	require.Contains(t, m.viewer.content, "fix my python loop")

	_, cmd := updateHistory(t, m, runes("y", false))
	require.NotNil(t, cmd)
	require.Equal(t, copyResultMsg{ok: true, label: "corrected code"}, cmd())
	require.Equal(t, []string{"for i in range(3):\n    print(i)"}, c.got)

	m, _ = updateHistory(t, m, key(tea.KeyEsc))
	require.Nil(t, m.viewer)
}

func TestHistoryEmptyView(t *testing.T) {
	m := newHistoryModel(context.Background(), nil, HistoryOptions{})
	require.Equal(t, "(no reviews)\n", m.View())
}
