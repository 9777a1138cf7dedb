package api

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/zeebo/blake3"
)

// ComputeHash returns a deterministic BLAKE3 hash of the review content.
// It covers the normalized query and the canonical JSON of the result, so
// the same answer to the same question hashes identically across runs.
func (r Review) ComputeHash() string {
	h := blake3.New()

	h.Write([]byte(strings.TrimSpace(r.Query)))
	h.Write([]byte{0})

	// encoding/json emits struct fields in declaration order
	b, _ := json.Marshal(r.Result)
	h.Write(b)

	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}
