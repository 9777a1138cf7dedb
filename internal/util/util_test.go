package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mithrel/aicode/pkg/api"
)

func TestParseTimeRange(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	s, u, err := parseTimeRangeAt("2d", "", now)
	require.NoError(t, err)
	require.Equal(t, now.Add(-48*time.Hour), s)
	require.True(t, u.IsZero())

	// reversed range is swapped
	s, u, err = parseTimeRangeAt("2026-03-09", "1w", now)
	require.NoError(t, err)
	require.True(t, s.Before(u))
	require.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), u)

	_, _, err = parseTimeRangeAt("yesterday", "", now)
	require.ErrorContains(t, err, "invalid --since")
}

func TestRankReviews(t *testing.T) {
	reviews := []api.Review{
		{ID: "1", Query: "how do channels work", Result: api.Result{Answer: "they pass values"}},
		{ID: "2", Query: "print('hello'", Result: api.Result{CorrectedCode: "print('hello')"}},
		{ID: "3", Query: "mutex vs channel"},
	}

	got := RankReviews("chan", reviews, 0)
	ids := []string{}
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	require.ElementsMatch(t, []string{"1", "3"}, ids)

	require.Len(t, RankReviews("chan", reviews, 1), 1)
	require.Len(t, RankReviews("", reviews, 1), 3)
	require.Empty(t, RankReviews("zzzz", reviews, 0))
}
