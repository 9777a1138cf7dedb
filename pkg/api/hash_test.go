package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReview_ComputeHash(t *testing.T) {
	base := Review{
		ID:    "r1",
		Query: "why does this panic?",
		Result: Result{
			Type:          ResultCode,
			Error:         "index out of range",
			CorrectedCode: "x := s[0]",
		},
	}

	t.Run("identical reviews produce identical hashes", func(t *testing.T) {
		r1 := base
		r2 := base
		assert.Equal(t, r1.ComputeHash(), r2.ComputeHash())
	})

	t.Run("id does not affect hash", func(t *testing.T) {
		r := base
		r.ID = "other"
		assert.Equal(t, base.ComputeHash(), r.ComputeHash())
	})

	t.Run("surrounding whitespace in query is ignored", func(t *testing.T) {
		r := base
		r.Query = "  why does this panic?\n"
		assert.Equal(t, base.ComputeHash(), r.ComputeHash())
	})

	t.Run("result change alters hash", func(t *testing.T) {
		r := base
		r.Result.CorrectedCode = "x := s[1]"
		assert.NotEqual(t, base.ComputeHash(), r.ComputeHash())
	})

	t.Run("hash is hex blake3-256", func(t *testing.T) {
		assert.Len(t, base.ComputeHash(), 64)
	})
}
