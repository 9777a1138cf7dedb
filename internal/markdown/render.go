package markdown

import (
	"regexp"
	"strings"
)

const fence = "```"

var (
	orderedItemRe = regexp.MustCompile(`^\d+\.\s`)
	// Strips exactly one leading marker and the whitespace after it.
	itemMarkerRe = regexp.MustCompile(`^[-\d.]+\s`)
)

// scanner holds the state of a single Render pass.
type scanner struct {
	out      []Block
	inCode   bool
	codeLang string
	codeBuf  []string
	pending  []ListItem
}

// Render converts text into blocks in source order. It never fails:
// an unterminated fence yields a code block with whatever was buffered,
// and empty input yields no blocks.
func Render(text string) []Block {
	if text == "" {
		return nil
	}
	s := &scanner{}
	for _, line := range strings.Split(text, "\n") {
		s.line(line)
	}
	s.flushList()
	if s.inCode {
		s.emitCode()
	}
	return s.out
}

func (s *scanner) line(line string) {
	if strings.HasPrefix(line, fence) {
		if !s.inCode {
			s.inCode = true
			s.codeLang = strings.TrimSpace(line[len(fence):])
			s.codeBuf = []string{}
		} else {
			s.emitCode()
		}
		return
	}
	if s.inCode {
		s.codeBuf = append(s.codeBuf, line)
		return
	}

	switch {
	case strings.HasPrefix(line, "## "):
		s.flushList()
		s.out = append(s.out, Block{Kind: KindHeader, Level: 2, Text: line[3:]})
	case strings.HasPrefix(line, "### "):
		s.flushList()
		s.out = append(s.out, Block{Kind: KindHeader, Level: 3, Text: line[4:]})
	case isListItem(line):
		rest := itemMarkerRe.ReplaceAllString(line, "")
		s.pending = append(s.pending, ListItem{Spans: ParseInline(rest)})
	case strings.TrimSpace(line) == "":
		s.flushList()
	default:
		s.flushList()
		s.out = append(s.out, Block{Kind: KindParagraph, Spans: ParseInline(line)})
	}
}

func (s *scanner) emitCode() {
	s.out = append(s.out, Block{Kind: KindCode, Language: s.codeLang, Lines: s.codeBuf})
	s.inCode = false
	s.codeLang = ""
	s.codeBuf = nil
}

func (s *scanner) flushList() {
	if len(s.pending) == 0 {
		return
	}
	s.out = append(s.out, Block{Kind: KindList, Items: s.pending})
	s.pending = nil
}

func isListItem(line string) bool {
	return strings.HasPrefix(line, "- ") || orderedItemRe.MatchString(line)
}
