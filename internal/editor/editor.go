package editor

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mithrel/aicode/pkg/api"
)

const separator = "---"

// ComposeQuery creates the text presented to the editor. Everything above
// the separator is instructions; the query is whatever is written below it.
func ComposeQuery(initial string) string {
	var b bytes.Buffer
	b.WriteString("# aicode query\n")
	b.WriteString("# Ask a question or paste code below the line, then save and quit.\n")
	b.WriteString("# Everything above the line is ignored. An empty query cancels.\n")
	b.WriteString(separator + "\n")
	if initial != "" {
		if !strings.HasSuffix(initial, "\n") {
			initial += "\n"
		}
		b.WriteString(initial)
	}
	return b.String()
}

// ParseQuery extracts the query from editor output. Without a separator line
// the whole text is the query, so plain files work too. Code keeps its
// indentation; only surrounding blank lines are dropped.
func ParseQuery(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == separator {
			lines = lines[i+1:]
			break
		}
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\r\n")
}

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// PathForQuery returns a fresh temp file path for composing a query.
func PathForQuery() (string, error) {
	name := "query-" + api.NewID() + ".aicode.md"
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "aicode", name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "aicode", "edit", name), nil
}

func writeFile0600(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, fs.FileMode(0o600))
}

// OpenAt opens the editor at path with initial content and returns final bytes and whether it changed.
func OpenAt(path string, initial []byte) (final []byte, changed bool, err error) {
	if err := writeFile0600(path, initial); err != nil {
		return nil, false, err
	}
	// Honor VISUAL/EDITOR including flags by running via a shell wrapper.
	ed := os.Getenv("VISUAL")
	if ed == "" {
		ed = os.Getenv("EDITOR")
	}
	var cmd *exec.Cmd
	if strings.TrimSpace(ed) != "" {
		cmd = exec.Command("sh", "-c", "$EDITORCMD \"$FILEPATH\"")
		cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
	} else {
		prog, err := PreferredEditor()
		if err != nil {
			return nil, false, err
		}
		cmd = exec.Command(prog, path)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, false, err
	}
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(out, initial), nil
}

// EditQuery composes a query in the user's editor and removes the temp file.
func EditQuery(initial string) (string, error) {
	path, err := PathForQuery()
	if err != nil {
		return "", err
	}
	defer os.Remove(path)
	out, _, err := OpenAt(path, []byte(ComposeQuery(initial)))
	if err != nil {
		return "", err
	}
	return ParseQuery(string(out)), nil
}

// FirstLine returns the first non-blank line, squashed and truncated.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > 120 {
			line = string(r[:120])
		}
		return line
	}
	return ""
}
