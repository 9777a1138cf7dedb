package format

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/mithrel/aicode/internal/markdown"
)

const codeIndent = "    "

// PlainBlocks maps each block kind to a fixed text primitive: underlined
// headers, "- " bullets, indented code, and paragraphs with `code` spans.
func PlainBlocks(blocks []markdown.Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, plainBlock(b))
	}
	return strings.Join(parts, "\n\n")
}

func plainBlock(b markdown.Block) string {
	switch b.Kind {
	case markdown.KindHeader:
		text := Sanitize(b.Text)
		rule := "="
		if b.Level == 3 {
			rule = "-"
		}
		return text + "\n" + strings.Repeat(rule, max(1, runewidth.StringWidth(text)))
	case markdown.KindList:
		lines := make([]string, 0, len(b.Items))
		for _, it := range b.Items {
			lines = append(lines, "  - "+plainSpans(it.Spans))
		}
		return strings.Join(lines, "\n")
	case markdown.KindCode:
		return indentCode(b.Language, b.Lines)
	default:
		return plainSpans(b.Spans)
	}
}

func plainSpans(spans []markdown.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		if s.Kind == markdown.SpanCode {
			sb.WriteString("`" + Sanitize(s.Text) + "`")
			continue
		}
		sb.WriteString(Sanitize(s.Text))
	}
	return sb.String()
}

func indentCode(lang string, lines []string) string {
	out := make([]string, 0, len(lines)+1)
	if lang != "" {
		out = append(out, codeIndent+"["+Sanitize(lang)+"]")
	}
	for _, l := range lines {
		out = append(out, codeIndent+Sanitize(l))
	}
	if len(out) == 0 {
		out = append(out, codeIndent)
	}
	return strings.Join(out, "\n")
}

// WritePlainBlocks writes PlainBlocks output followed by a newline.
func WritePlainBlocks(w io.Writer, blocks []markdown.Block) error {
	if len(blocks) == 0 {
		return nil
	}
	_, err := io.WriteString(w, PlainBlocks(blocks)+"\n")
	return err
}

// WriteJSONBlocks writes the blocks as a JSON array.
func WriteJSONBlocks(w io.Writer, blocks []markdown.Block, indent bool) error {
	if blocks == nil {
		blocks = []markdown.Block{}
	}
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(blocks)
}
