package util

import (
	"github.com/sahilm/fuzzy"

	"github.com/mithrel/aicode/pkg/api"
)

// reviewSource exposes review text to the fuzzy matcher: the query plus
// the answer or corrected code, whichever the result carries.
type reviewSource []api.Review

func (s reviewSource) String(i int) string {
	r := s[i]
	text := r.Query
	if r.Result.Answer != "" {
		text += "\n" + r.Result.Answer
	}
	if r.Result.CorrectedCode != "" {
		text += "\n" + r.Result.CorrectedCode
	}
	return text
}

func (s reviewSource) Len() int { return len(s) }

// RankReviews returns up to n reviews matching term, best match first.
// An empty term returns the input unchanged; n <= 0 means no limit.
func RankReviews(term string, reviews []api.Review, n int) []api.Review {
	if term == "" {
		return reviews
	}
	matches := fuzzy.FindFrom(term, reviewSource(reviews))
	limit := len(matches)
	if n > 0 && n < limit {
		limit = n
	}
	out := make([]api.Review, 0, limit)
	for _, m := range matches[:limit] {
		out = append(out, reviews[m.Index])
	}
	return out
}
