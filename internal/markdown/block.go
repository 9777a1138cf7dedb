// Package markdown turns the restricted markdown dialect used by the
// analysis service's documentation field into typed display blocks.
//
// Supported: fenced code blocks, "## " and "### " headers, "- " and "N. "
// list items, inline `code` spans and plain paragraphs. Anything else is
// treated as paragraph text.
package markdown

import (
	"encoding/json"
	"strings"
)

type BlockKind string

const (
	KindCode      BlockKind = "code"
	KindHeader    BlockKind = "header"
	KindList      BlockKind = "list"
	KindParagraph BlockKind = "paragraph"
)

type SpanKind string

const (
	SpanText SpanKind = "text"
	SpanCode SpanKind = "code"
)

// Span is one inline run: plain text or a code span with backticks removed.
type Span struct {
	Kind SpanKind `json:"kind"`
	Text string   `json:"text"`
}

type ListItem struct {
	Spans []Span `json:"spans"`
}

// Block is one renderable unit. Which fields are set depends on Kind:
//
//	KindCode:      Language, Lines
//	KindHeader:    Level (2 or 3), Text
//	KindList:      Items
//	KindParagraph: Spans
type Block struct {
	Kind     BlockKind  `json:"kind"`
	Language string     `json:"language,omitempty"`
	Lines    []string   `json:"lines,omitempty"`
	Level    int        `json:"level,omitempty"`
	Text     string     `json:"text,omitempty"`
	Items    []ListItem `json:"items,omitempty"`
	Spans    []Span     `json:"spans,omitempty"`
}

// MarshalJSON always writes "lines" for code blocks, so an empty fence
// encodes as an empty array.
func (b Block) MarshalJSON() ([]byte, error) {
	type plain Block
	if b.Kind != KindCode {
		return json.Marshal(plain(b))
	}
	lines := b.Lines
	if lines == nil {
		lines = []string{}
	}
	return json.Marshal(struct {
		plain
		Lines []string `json:"lines"`
	}{plain(b), lines})
}

// Code returns the body of a code block joined with newlines.
func (b Block) Code() string {
	return strings.Join(b.Lines, "\n")
}

// PlainText flattens spans back to text without backticks.
func PlainText(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}
