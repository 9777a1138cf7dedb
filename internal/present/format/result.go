package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mithrel/aicode/internal/markdown"
	"github.com/mithrel/aicode/pkg/api"
)

// Section headings shared by the plain, pretty and chat renderings.
const (
	HeadingAnswer        = "Answer"
	HeadingError         = "Error Detected"
	HeadingCorrected     = "Corrected Code"
	HeadingImproved      = "Improved Versions"
	HeadingExample       = "Example"
	HeadingPractices     = "Best Practices"
	HeadingDocumentation = "Documentation"
)

// Section is one titled part of a rendered result.
type Section struct {
	Title string
	Body  string
}

// PlainSections lays a result out the way the review panels do: error,
// corrected code and improved versions for code; answer, example and best
// practices for questions; documentation last. Empty parts are skipped.
func PlainSections(r api.Result) []Section {
	var out []Section
	add := func(title, body string) {
		if strings.TrimSpace(body) != "" {
			out = append(out, Section{Title: title, Body: body})
		}
	}

	add(HeadingAnswer, Sanitize(r.Answer))
	add(HeadingError, indentLines(Sanitize(string(r.Error)), "  "))
	add(HeadingCorrected, indentCode("", splitLines(r.CorrectedCode)))
	if len(r.ImprovedVersions) > 0 {
		add(HeadingImproved, plainVersions(r))
	}
	add(HeadingExample, indentCode("", splitLines(r.ExampleCode)))
	if len(r.BestPractices) > 0 {
		lines := make([]string, 0, len(r.BestPractices))
		for _, p := range r.BestPractices {
			lines = append(lines, "  - "+Sanitize(p))
		}
		add(HeadingPractices, strings.Join(lines, "\n"))
	}
	add(HeadingDocumentation, PlainBlocks(markdown.Render(r.Documentation)))
	return out
}

func plainVersions(r api.Result) string {
	var parts []string
	if e := strings.TrimSpace(r.Explanation); e != "" {
		parts = append(parts, Sanitize(e))
	}
	for _, v := range r.ImprovedVersions {
		title := VersionTitle(v, r.BestVersion)
		body := indentCode("", splitLines(v.Code))
		why := "  Why this version: " + Sanitize(v.Explanation)
		parts = append(parts, title+"\n"+body+"\n"+why)
	}
	return strings.Join(parts, "\n\n")
}

// VersionTitle labels an improved version, marking the recommended one.
func VersionTitle(v api.ImprovedVersion, best int) string {
	if v.Version == best {
		return fmt.Sprintf("Version %d (recommended)", v.Version)
	}
	return fmt.Sprintf("Version %d", v.Version)
}

// WritePlainResult writes a result as titled plain-text sections.
func WritePlainResult(w io.Writer, r api.Result) error {
	sections := PlainSections(r)
	if len(sections) == 0 {
		_, err := io.WriteString(w, "(empty result)\n")
		return err
	}
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.Title+":\n"+s.Body)
	}
	_, err := io.WriteString(w, strings.Join(parts, "\n\n")+"\n")
	return err
}

// jsonResult is the envelope plus the parsed documentation.
type jsonResult struct {
	api.Result
	DocumentationBlocks []markdown.Block `json:"documentation_blocks"`
}

// WriteJSONResult writes the envelope with documentation_blocks attached.
func WriteJSONResult(w io.Writer, r api.Result, indent bool) error {
	blocks := markdown.Render(r.Documentation)
	if blocks == nil {
		blocks = []markdown.Block{}
	}
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(jsonResult{Result: r, DocumentationBlocks: blocks})
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func indentLines(s, prefix string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
