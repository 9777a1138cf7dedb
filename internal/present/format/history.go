package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mithrel/aicode/internal/editor"
	"github.com/mithrel/aicode/pkg/api"
)

// TSV-ish columns: id, type, age, query
var reviewHeaderLine = "id\ttype\tage\tquery\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

// WritePlainReviews writes one row per review with a humanized age.
func WritePlainReviews(w io.Writer, reviews []api.Review, headers bool, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, reviewHeaderLine)
	}
	for _, r := range reviews {
		line := fmt.Sprintf("%s\t%s\t%s\t%s\n",
			esc(r.ID), esc(string(r.Result.Type)), humanize.RelTime(r.CreatedAt, now, "ago", "from now"),
			esc(Sanitize(editor.FirstLine(r.Query))))
		_, _ = io.WriteString(tw, line)
	}
	return tw.Flush()
}

// WritePlainReview writes a stored review: its query, then the result.
func WritePlainReview(w io.Writer, r api.Review) error {
	head := fmt.Sprintf("ID: %s\nCreated: %s\nHash: %s\n---\nQuery:\n%s\n\n",
		r.ID, r.CreatedAt.Local().Format(time.RFC3339), r.Hash, indentLines(Sanitize(r.Query), "  "))
	if _, err := io.WriteString(w, head); err != nil {
		return err
	}
	return WritePlainResult(w, r.Result)
}

// WriteJSONReviews writes reviews as a JSON array.
func WriteJSONReviews(w io.Writer, reviews []api.Review, indent bool) error {
	if reviews == nil {
		reviews = []api.Review{}
	}
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(reviews)
}

// WriteJSONReview writes one review as a JSON object.
func WriteJSONReview(w io.Writer, r api.Review, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(r)
}
