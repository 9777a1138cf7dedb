package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/aicode/internal/clipboard"
	"github.com/mithrel/aicode/internal/session"
	"github.com/mithrel/aicode/pkg/api"
)

type fakeAnalyzer struct {
	result api.Result
	err    error
	calls  []string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, q string) (api.Result, error) {
	f.calls = append(f.calls, q)
	return f.result, f.err
}

type recordingCopier struct {
	mu   sync.Mutex
	got  []string
	fail bool
}

func (c *recordingCopier) Copy(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return clipboard.ErrClipboardUnavailable
	}
	c.got = append(c.got, text)
	return nil
}

func codeResult() api.Result {
	return api.Result{
		Type:          api.ResultCode,
		Error:         "NameError: x is not defined",
		CorrectedCode: "x = 1\nprint(x)",
		ImprovedVersions: []api.ImprovedVersion{
			{Version: 1, Code: "print(1)", Explanation: "shorter"},
			{Version: 2, Code: "x: int = 1\nprint(x)", Explanation: "typed"},
		},
		BestVersion: 2,
	}
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

var submitKey = key(tea.KeyCtrlS)

func runes(s string, alt bool) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Alt: alt}
}

func update(t *testing.T, m chatModel, msg tea.Msg) (chatModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	cm, ok := next.(chatModel)
	require.True(t, ok)
	return cm, cmd
}

// displaying submits a query and feeds the analyzer's answer back.
func displaying(t *testing.T, a *fakeAnalyzer, c clipboard.Copier) chatModel {
	t.Helper()
	m := newChatModel(context.Background(), ChatOptions{Analyzer: a, Copier: c, PrettyStyle: "notty"})
	m.input.SetValue("x")
	m, cmd := update(t, m, submitKey)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	require.Equal(t, session.Displaying, m.sess.State())
	return m
}

func TestChatPlaceholderBeforeFirstQuery(t *testing.T) {
	m := newChatModel(context.Background(), ChatOptions{Analyzer: &fakeAnalyzer{}})
	require.Equal(t, session.Idle, m.sess.State())
	require.Contains(t, m.View(), DocsPlaceholder)
}

func TestChatSubmitDisplaysResult(t *testing.T) {
	a := &fakeAnalyzer{result: api.Result{
		Type:          api.ResultQuestion,
		Answer:        "Use a channel.",
		Documentation: "## Channels\n- buffered\n- unbuffered",
	}}
	m := newChatModel(context.Background(), ChatOptions{Analyzer: a, PrettyStyle: "notty"})
	m.input.SetValue("how do goroutines talk?")

	m, cmd := update(t, m, submitKey)
	require.Equal(t, session.Loading, m.sess.State())
	require.Empty(t, m.input.Value())
	require.Contains(t, m.transcript(), "Analyzing")

	msg := cmd()
	require.IsType(t, resultMsg{}, msg)
	m, _ = update(t, m, msg)
	require.Equal(t, session.Displaying, m.sess.State())
	require.Equal(t, []string{"how do goroutines talk?"}, a.calls)

	out := m.transcript()
	require.Contains(t, out, "channel")
	require.Contains(t, out, "Channels")
	require.Contains(t, out, "unbuffered")
	require.NotContains(t, out, DocsPlaceholder)
}

func TestChatKeepsPastedCodeLayout(t *testing.T) {
	a := &fakeAnalyzer{result: codeResult()}
	m := newChatModel(context.Background(), ChatOptions{Analyzer: a, PrettyStyle: "notty"})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("def f():\n    return 1"), Paste: true})
	m, cmd := update(t, m, key(tea.KeyEnter))
	require.Equal(t, session.Idle, m.sess.State(), "enter inserts a newline")
	m, _ = update(t, m, runes("f()", false))
	require.Equal(t, "def f():\n    return 1\nf()", m.input.Value())

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	require.NotNil(t, cmd)
	require.Equal(t, session.Loading, m.sess.State())
	m, _ = update(t, m, cmd())
	require.Equal(t, []string{"def f():\n    return 1\nf()"}, a.calls)
	require.Contains(t, m.transcript(), "    return 1")
}

func TestChatEmptyQueryIgnored(t *testing.T) {
	m := newChatModel(context.Background(), ChatOptions{Analyzer: &fakeAnalyzer{}})
	m.input.SetValue("   ")
	m, cmd := update(t, m, submitKey)
	require.Nil(t, cmd)
	require.Equal(t, session.Idle, m.sess.State())
}

func TestChatRejectsSubmitWhileLoadingAndStaleResponses(t *testing.T) {
	a := &fakeAnalyzer{result: codeResult()}
	m := newChatModel(context.Background(), ChatOptions{Analyzer: a})
	m.input.SetValue("first")
	m, cmd := update(t, m, submitKey)
	require.NotNil(t, cmd)
	seq := m.sess.Seq()

	m.input.SetValue("second")
	m, again := update(t, m, submitKey)
	require.Nil(t, again)
	require.Equal(t, "Still waiting for the previous answer", m.status)

	m, _ = update(t, m, resultMsg{seq: seq + 7, result: codeResult()})
	require.Equal(t, session.Loading, m.sess.State())

	m, _ = update(t, m, resultMsg{seq: seq, err: errors.New("boom")})
	require.Equal(t, session.Failed, m.sess.State())
	require.Contains(t, m.transcript(), "boom")
}

func TestChatCopyCorrectedCode(t *testing.T) {
	c := &recordingCopier{}
	m := displaying(t, &fakeAnalyzer{result: codeResult()}, c)

	m, cmd := update(t, m, key(tea.KeyCtrlY))
	require.NotNil(t, cmd)
	msg := cmd()
	require.Equal(t, copyResultMsg{ok: true, label: "corrected code"}, msg)
	require.Equal(t, []string{"x = 1\nprint(x)"}, c.got)

	m, tick := update(t, m, msg)
	require.NotNil(t, tick)
	require.Equal(t, "corrected code", m.copied)
	require.Contains(t, m.renderFooter(), "Copied corrected code")
}

func TestChatCopyVersionWithAltDigit(t *testing.T) {
	c := &recordingCopier{}
	m := displaying(t, &fakeAnalyzer{result: codeResult()}, c)

	_, cmd := update(t, m, runes("2", true))
	require.NotNil(t, cmd)
	require.Equal(t, copyResultMsg{ok: true, label: "version 2"}, cmd())
	require.Equal(t, []string{"x: int = 1\nprint(x)"}, c.got)

	_, cmd = update(t, m, runes("5", true))
	require.Nil(t, cmd)
}

func TestChatCopiedIndicatorTokens(t *testing.T) {
	m := displaying(t, &fakeAnalyzer{result: codeResult()}, &recordingCopier{})

	m, _ = update(t, m, copyResultMsg{ok: true, label: "corrected code"})
	first := m.copyToken
	m, _ = update(t, m, copyResultMsg{ok: true, label: "version 1"})
	require.Equal(t, first+1, m.copyToken)

	// the first copy's timer must not clear the second indicator
	m, _ = update(t, m, copiedExpiredMsg{token: first})
	require.Equal(t, "version 1", m.copied)

	m, _ = update(t, m, copiedExpiredMsg{token: m.copyToken})
	require.Empty(t, m.copied)
}

func TestChatCopyFailureLeavesUIUnchanged(t *testing.T) {
	c := &recordingCopier{fail: true}
	m := displaying(t, &fakeAnalyzer{result: codeResult()}, c)

	_, cmd := update(t, m, key(tea.KeyCtrlY))
	msg := cmd()
	require.Equal(t, copyResultMsg{ok: false, label: "corrected code"}, msg)

	m, tick := update(t, m, msg)
	require.Nil(t, tick)
	require.Empty(t, m.copied)
	require.Zero(t, m.copyToken)
}

func TestChatBestVersionModal(t *testing.T) {
	m := displaying(t, &fakeAnalyzer{result: codeResult()}, &recordingCopier{})

	m, _ = update(t, m, key(tea.KeyCtrlO))
	require.NotNil(t, m.modal)
	require.Equal(t, "Version 2 (recommended)", m.modal.title)
	require.Contains(t, m.modal.content, "x: int = 1")

	m, _ = update(t, m, key(tea.KeyEsc))
	require.Nil(t, m.modal)
}

func TestChatModalNeedsVersions(t *testing.T) {
	m := displaying(t, &fakeAnalyzer{result: api.Result{Type: api.ResultQuestion, Answer: "ok"}}, &recordingCopier{})
	m, _ = update(t, m, key(tea.KeyCtrlO))
	require.Nil(t, m.modal)
}

func TestAltDigit(t *testing.T) {
	cases := map[string]int{"alt+1": 1, "alt+9": 9}
	for in, want := range cases {
		n, ok := altDigit(in)
		require.True(t, ok, in)
		require.Equal(t, want, n)
	}
	for _, in := range []string{"alt+0", "alt+a", "1", "ctrl+1", "alt+10"} {
		_, ok := altDigit(in)
		require.False(t, ok, in)
	}
}
