package markdown

import "regexp"

var codeSpanRe = regexp.MustCompile("`[^`]+`")

// ParseInline splits text into alternating plain and code spans. The result
// always starts and ends with a plain span (possibly empty), so n code spans
// yield 2n+1 spans. Backticks that cannot pair stay in the plain text.
func ParseInline(text string) []Span {
	locs := codeSpanRe.FindAllStringIndex(text, -1)
	out := make([]Span, 0, 2*len(locs)+1)
	prev := 0
	for _, loc := range locs {
		out = append(out,
			Span{Kind: SpanText, Text: text[prev:loc[0]]},
			Span{Kind: SpanCode, Text: text[loc[0]+1 : loc[1]-1]},
		)
		prev = loc[1]
	}
	out = append(out, Span{Kind: SpanText, Text: text[prev:]})
	return out
}
