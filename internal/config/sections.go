package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// SetSectionKey sets key = value inside [section], creating the section
// when absent and replacing an existing assignment of the same key.
func SetSectionKey(existing, section, key string, value any) string {
	lines := strings.Split(existing, "\n")
	header := "[" + section + "]"
	assign := key + " = " + formatTOMLValue(value)

	start, end := sectionBounds(lines, header)
	if start < 0 {
		out := append([]string(nil), lines...)
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		return strings.Join(append(out, header, assign), "\n")
	}
	for i := start + 1; i < end; i++ {
		if k, ok := parseTOMLKey(lines[i]); ok && k == key {
			lines[i] = assign
			return strings.Join(lines, "\n")
		}
	}
	return strings.Join(insertIntoSection(lines, section, []string{assign}), "\n")
}

// RemoveSectionKey deletes key from [section]; it reports whether a line was removed.
func RemoveSectionKey(existing, section, key string) (string, bool) {
	lines := strings.Split(existing, "\n")
	start, end := sectionBounds(lines, "["+section+"]")
	if start < 0 {
		return existing, false
	}
	for i := start + 1; i < end; i++ {
		if k, ok := parseTOMLKey(lines[i]); ok && k == key {
			out := append(lines[:i:i], lines[i+1:]...)
			return strings.Join(out, "\n"), true
		}
	}
	return existing, false
}

// insertIntoSection appends add at the end of [section] (before trailing
// blank lines), or as a new section at the end of the file.
func insertIntoSection(lines []string, section string, add []string) []string {
	header := "[" + section + "]"
	start, end := sectionBounds(lines, header)
	if start < 0 {
		out := append([]string(nil), lines...)
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, header)
		return append(out, add...)
	}
	at := end
	for at > start+1 && strings.TrimSpace(lines[at-1]) == "" {
		at--
	}
	out := make([]string, 0, len(lines)+len(add))
	out = append(out, lines[:at]...)
	out = append(out, add...)
	return append(out, lines[at:]...)
}

// sectionBounds returns the header index and the index one past the
// section's last line, or -1 when the header is absent.
func sectionBounds(lines []string, header string) (int, int) {
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == header {
			start = i
			break
		}
	}
	if start < 0 {
		return -1, -1
	}
	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if isSectionHeader(strings.TrimSpace(lines[i])) {
			end = i
			break
		}
	}
	return start, end
}

// PersistSectionKey rewrites the config file at path so [section] holds
// key = value. An empty string value removes the key instead. A missing
// file is created.
func PersistSectionKey(path, section, key string, value any) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	existing := string(data)
	var updated string
	if s, ok := value.(string); ok && s == "" {
		updated, _ = RemoveSectionKey(existing, section, key)
	} else {
		updated = SetSectionKey(existing, section, key, value)
	}
	if !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(updated), 0o600)
}
