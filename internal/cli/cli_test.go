package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mithrel/aicode/internal/client"
	"github.com/mithrel/aicode/pkg/api"
)

// fakeService records analyze requests and answers with a fixed envelope.
type fakeService struct {
	mu      sync.Mutex
	queries []string
	auth    []string
	status  int
	result  api.Result
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/api/v2/aicode/" {
		http.NotFound(w, r)
		return
	}
	var q api.Query
	_ = json.NewDecoder(r.Body).Decode(&q)
	f.mu.Lock()
	f.queries = append(f.queries, q.Query)
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	status := f.status
	f.mu.Unlock()
	if status != 0 {
		http.Error(w, `{"detail":"boom"}`, status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(f.result)
}

type testEnv struct {
	dir     string
	cfgPath string
	svc     *fakeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("AICODE_AUTH_TOKEN", "")

	svc := &fakeService{result: api.Result{
		Type:          api.ResultCode,
		Error:         "IndentationError: expected an indented block",
		CorrectedCode: "def f():\n    return 1",
		ImprovedVersions: []api.ImprovedVersion{
			{Version: 1, Code: "f = lambda: 1", Explanation: "one line"},
		},
		BestVersion:   1,
		Documentation: "## def\nDefines a `function`.\n```python\ndef g(): pass\n```",
	}}
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	t.Setenv("AICODE_SERVICE_BASE_URL", srv.URL+"/api/v2/")

	return &testEnv{dir: dir, cfgPath: filepath.Join(dir, "config.toml"), svc: svc}
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.cfgPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (e *testEnv) listReviews(t *testing.T) []api.Review {
	t.Helper()
	out, _, err := e.run(t, "", "history", "list", "--output", "json")
	require.NoError(t, err)
	var reviews []api.Review
	require.NoError(t, json.Unmarshal([]byte(out), &reviews))
	return reviews
}

func TestAskPlain(t *testing.T) {
	env := newTestEnv(t)
	out, errOut, err := env.run(t, "", "ask", "def f():", "return 1")
	require.NoError(t, err)

	require.Equal(t, []string{"def f(): return 1"}, env.svc.queries)
	require.Contains(t, out, "Error Detected:\n  IndentationError")
	require.Contains(t, out, "Corrected Code:\n    def f():\n        return 1")
	require.Contains(t, out, "Version 1 (recommended)")
	require.Contains(t, out, "Documentation:\ndef\n===\n\nDefines a `function`.\n\n    [python]\n    def g(): pass")
	require.Contains(t, errOut, "Analyzed in")
}

func TestAskJSONFromStdin(t *testing.T) {
	env := newTestEnv(t)
	out, _, err := env.run(t, "print(1\n", "ask", "--output", "json")
	require.NoError(t, err)
	require.Equal(t, []string{"print(1\n"}, env.svc.queries)

	var got struct {
		Type                string `json:"type"`
		DocumentationBlocks []struct {
			Kind     string `json:"kind"`
			Language string `json:"language"`
		} `json:"documentation_blocks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "code", got.Type)
	require.Len(t, got.DocumentationBlocks, 3)
	require.Equal(t, "python", got.DocumentationBlocks[2].Language)
}

func TestAskFromFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "snippet.py")
	require.NoError(t, os.WriteFile(path, []byte("x = (\n"), 0o600))
	_, _, err := env.run(t, "", "ask", "--file", path, "--output", "json")
	require.NoError(t, err)
	require.Equal(t, []string{"x = (\n"}, env.svc.queries)
}

func TestAskEmptyQuery(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "   \n", "ask")
	require.ErrorIs(t, err, errEmptyQuery)
	require.Empty(t, env.svc.queries)
}

func TestAskServiceError(t *testing.T) {
	env := newTestEnv(t)
	env.svc.status = http.StatusBadGateway
	_, _, err := env.run(t, "", "ask", "hello")

	var se *client.StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusBadGateway, se.Code)
	require.Empty(t, env.listReviews(t))
}

func TestBaseURLFlagOverridesEnv(t *testing.T) {
	env := newTestEnv(t)
	other := &fakeService{result: api.Result{Type: api.ResultQuestion, Answer: "from flag"}}
	srv := httptest.NewServer(other)
	defer srv.Close()

	out, _, err := env.run(t, "", "--base-url", srv.URL+"/api/v2/", "ask", "hi")
	require.NoError(t, err)
	require.Contains(t, out, "from flag")
	require.Empty(t, env.svc.queries)
}

func TestHistoryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "", "ask", "first question")
	require.NoError(t, err)
	_, _, err = env.run(t, "", "ask", "--no-save", "unsaved question")
	require.NoError(t, err)
	_, _, err = env.run(t, "", "ask", "second goroutine question")
	require.NoError(t, err)

	reviews := env.listReviews(t)
	require.Len(t, reviews, 2)
	require.Equal(t, "second goroutine question", reviews[0].Query)
	require.NotEmpty(t, reviews[0].Hash)

	out, _, err := env.run(t, "", "history", "list", "--limit", "1")
	require.NoError(t, err)
	require.Contains(t, out, "second goroutine question")
	require.NotContains(t, out, "first question")

	out, _, err = env.run(t, "", "history", "show", reviews[1].ID)
	require.NoError(t, err)
	require.Contains(t, out, "Query:\n  first question")
	require.Contains(t, out, "Corrected Code:")

	out, _, err = env.run(t, "", "history", "search", "goroutine", "--output", "json")
	require.NoError(t, err)
	var found []api.Review
	require.NoError(t, json.Unmarshal([]byte(out), &found))
	require.Len(t, found, 1)
	require.Equal(t, reviews[0].ID, found[0].ID)

	_, _, err = env.run(t, "", "history", "delete", reviews[0].ID, reviews[1].ID)
	require.ErrorContains(t, err, "--yes")

	out, _, err = env.run(t, "", "history", "delete", "--yes", reviews[0].ID, reviews[1].ID)
	require.NoError(t, err)
	require.Contains(t, out, "Deleted "+reviews[0].ID)
	require.Empty(t, env.listReviews(t))

	_, _, err = env.run(t, "", "history", "show", reviews[0].ID)
	require.ErrorContains(t, err, "not found")
}

func TestHistoryEnabledFalseSkipsSaving(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("AICODE_HISTORY_ENABLED", "false")
	_, _, err := env.run(t, "", "ask", "q")
	require.NoError(t, err)
	require.Empty(t, env.listReviews(t))
}

func TestRenderCommand(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("### Notes\n1. one\n2. two `x`\n"), 0o600))

	out, _, err := env.run(t, "", "render", path)
	require.NoError(t, err)
	require.Equal(t, "Notes\n-----\n\n  - one\n  - two `x`\n", out)

	out, _, err = env.run(t, "```\nraw\n", "render", "-", "--output", "json")
	require.NoError(t, err)
	require.JSONEq(t, `[{"kind":"code","lines":["raw",""]}]`, out)
}

func TestAuthConfigProvider(t *testing.T) {
	env := newTestEnv(t)
	out, _, err := env.run(t, "", "auth", "set-token", "s3cret")
	require.NoError(t, err)
	require.Contains(t, out, "provider=config")

	data, err := os.ReadFile(env.cfgPath)
	require.NoError(t, err)
	require.Contains(t, string(data), `token = "s3cret"`)

	out, _, err = env.run(t, "", "auth", "status")
	require.NoError(t, err)
	require.Equal(t, "provider=config token=set\n", out)

	_, _, err = env.run(t, "", "ask", "hi", "--no-save")
	require.NoError(t, err)
	require.Equal(t, []string{"Bearer s3cret"}, env.svc.auth)

	_, _, err = env.run(t, "", "auth", "clear-token")
	require.NoError(t, err)
	out, _, err = env.run(t, "", "auth", "status")
	require.NoError(t, err)
	require.Equal(t, "provider=config token=unset\n", out)
}

func TestAuthSetTokenFromStdin(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "piped-token\n", "auth", "set-token")
	require.NoError(t, err)
	data, err := os.ReadFile(env.cfgPath)
	require.NoError(t, err)
	require.Contains(t, string(data), `token = "piped-token"`)
}

func TestConfigGenerateAndCheck(t *testing.T) {
	env := newTestEnv(t)
	target := filepath.Join(env.dir, "generated.toml")

	out, _, err := env.run(t, "", "config", "generate", "--output", target)
	require.NoError(t, err)
	require.Contains(t, out, "Wrote "+target)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Contains(t, string(data), "[service]")
	require.Contains(t, string(data), "copied_timeout")

	_, _, err = env.run(t, "", "config", "generate", "--output", target)
	require.ErrorContains(t, err, "already exists")

	out, _, err = env.run(t, "", "config", "check")
	require.NoError(t, err)
	require.Contains(t, out, "Config OK")

	t.Setenv("AICODE_SERVICE_BASE_URL", "ftp://example")
	_, _, err = env.run(t, "", "config", "check")
	require.ErrorContains(t, err, "service.base_url")
}

func TestCompletionGenerate(t *testing.T) {
	env := newTestEnv(t)
	out, _, err := env.run(t, "", "completion", "generate", "bash")
	require.NoError(t, err)
	require.Contains(t, out, "aicode")

	_, _, err = env.run(t, "", "completion", "generate", "tcsh")
	require.Error(t, err)
}
