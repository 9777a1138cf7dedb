package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/aicode/internal/markdown"
	"github.com/mithrel/aicode/pkg/api"
)

// Styles holds the lipgloss styles for each display primitive.
type Styles struct {
	Section    lipgloss.Style
	Error      lipgloss.Style
	Header2    lipgloss.Style
	Header3    lipgloss.Style
	Bullet     lipgloss.Style
	CodeBlock  lipgloss.Style
	CodeLang   lipgloss.Style
	InlineCode lipgloss.Style
	Badge      lipgloss.Style
	Muted      lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Section:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Header2:    lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("212")),
		Header3:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("105")),
		Bullet:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		CodeBlock:  lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")).Padding(0, 1),
		CodeLang:   lipgloss.NewStyle().Faint(true).Italic(true),
		InlineCode: lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("203")),
		Badge:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1),
		Muted:      lipgloss.NewStyle().Faint(true),
	}
}

// StyledBlocks renders blocks with one style per block kind.
func StyledBlocks(blocks []markdown.Block, st Styles) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case markdown.KindHeader:
			if b.Level == 3 {
				parts = append(parts, st.Header3.Render(Sanitize(b.Text)))
			} else {
				parts = append(parts, st.Header2.Render(Sanitize(b.Text)))
			}
		case markdown.KindList:
			lines := make([]string, 0, len(b.Items))
			for _, it := range b.Items {
				lines = append(lines, st.Bullet.Render("  • ")+styledSpans(it.Spans, st))
			}
			parts = append(parts, strings.Join(lines, "\n"))
		case markdown.KindCode:
			parts = append(parts, StyledCode(b.Language, b.Code(), st))
		default:
			parts = append(parts, styledSpans(b.Spans, st))
		}
	}
	return strings.Join(parts, "\n\n")
}

func styledSpans(spans []markdown.Span, st Styles) string {
	var sb strings.Builder
	for _, s := range spans {
		if s.Kind == markdown.SpanCode {
			sb.WriteString(st.InlineCode.Render(Sanitize(s.Text)))
			continue
		}
		sb.WriteString(Sanitize(s.Text))
	}
	return sb.String()
}

// StyledCode renders a code body as a shaded box with an optional language label.
func StyledCode(lang, code string, st Styles) string {
	body := st.CodeBlock.Render(Sanitize(strings.TrimRight(code, "\n")))
	if lang == "" {
		return body
	}
	return st.CodeLang.Render(Sanitize(lang)) + "\n" + body
}

// StyledSections renders a result with lipgloss; answer is passed through
// answerFn (glamour in pretty mode) when non-nil.
func StyledSections(r api.Result, st Styles, answerFn func(string) string) []Section {
	var out []Section
	if a := strings.TrimSpace(r.Answer); a != "" {
		body := Sanitize(a)
		if answerFn != nil {
			body = answerFn(body)
		}
		out = append(out, Section{Title: HeadingAnswer, Body: body})
	}
	if e := strings.TrimSpace(string(r.Error)); e != "" {
		out = append(out, Section{Title: HeadingError, Body: st.Error.Render(Sanitize(e))})
	}
	if strings.TrimSpace(r.CorrectedCode) != "" {
		out = append(out, Section{Title: HeadingCorrected, Body: StyledCode("", r.CorrectedCode, st)})
	}
	if len(r.ImprovedVersions) > 0 {
		var parts []string
		if e := strings.TrimSpace(r.Explanation); e != "" {
			parts = append(parts, Sanitize(e))
		}
		for _, v := range r.ImprovedVersions {
			title := fmt.Sprintf("Version %d", v.Version)
			if v.Version == r.BestVersion {
				title += " " + st.Badge.Render("Recommended")
			}
			parts = append(parts, title+"\n"+StyledCode("", v.Code, st)+"\n"+
				st.Muted.Render("Why this version: ")+Sanitize(v.Explanation))
		}
		out = append(out, Section{Title: HeadingImproved, Body: strings.Join(parts, "\n\n")})
	}
	if strings.TrimSpace(r.ExampleCode) != "" {
		out = append(out, Section{Title: HeadingExample, Body: StyledCode("", r.ExampleCode, st)})
	}
	if len(r.BestPractices) > 0 {
		lines := make([]string, 0, len(r.BestPractices))
		for _, p := range r.BestPractices {
			lines = append(lines, st.Bullet.Render("  • ")+Sanitize(p))
		}
		out = append(out, Section{Title: HeadingPractices, Body: strings.Join(lines, "\n")})
	}
	if blocks := markdown.Render(r.Documentation); len(blocks) > 0 {
		out = append(out, Section{Title: HeadingDocumentation, Body: StyledBlocks(blocks, st)})
	}
	return out
}

// JoinSections renders titled sections separated by blank lines.
func JoinSections(sections []Section, st Styles) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, st.Section.Render(s.Title)+"\n"+s.Body)
	}
	return strings.Join(parts, "\n\n")
}

type PrettyOptions struct {
	Style    string
	WordWrap int
}

// WritePrettyResult renders a result with lipgloss styling and the answer
// through glamour.
func WritePrettyResult(w io.Writer, r api.Result, opts PrettyOptions) error {
	style := opts.Style
	if style == "" {
		style = "dracula"
	}
	gopts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if opts.WordWrap > 0 {
		gopts = append(gopts, glamour.WithWordWrap(opts.WordWrap))
	}
	gr, err := glamour.NewTermRenderer(gopts...)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	var renderErr error
	answer := func(md string) string {
		out, err := gr.Render(md)
		if err != nil {
			renderErr = fmt.Errorf("failed to render markdown: %w", err)
			return md
		}
		return strings.Trim(out, "\n")
	}

	st := DefaultStyles()
	sections := StyledSections(r, st, answer)
	if renderErr != nil {
		return renderErr
	}
	if len(sections) == 0 {
		_, err := io.WriteString(w, st.Muted.Render("(empty result)")+"\n")
		return err
	}
	_, err = io.WriteString(w, JoinSections(sections, st)+"\n")
	return err
}
