package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/secondbrain/internal/brain"
	"github.com/five82/secondbrain/internal/logging"
	"github.com/five82/secondbrain/internal/prefs"
	"github.com/five82/secondbrain/internal/state"
)

type stubQuerier struct {
	mu      sync.Mutex
	body    []byte
	err     error
	queries []string
}

func (s *stubQuerier) Query(_ context.Context, req brain.QueryRequest) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, req.Query)
	return s.body, s.err
}

func (s *stubQuerier) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

type blockingQuerier struct {
	started chan struct{}
	release chan struct{}
	body    []byte
}

func (b *blockingQuerier) Query(ctx context.Context, _ brain.QueryRequest) ([]byte, error) {
	close(b.started)
	select {
	case <-b.release:
		return b.body, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func newTestModel(t *testing.T, q brain.Querier) (Model, *state.Lifecycle) {
	t.Helper()
	lc := state.New(q, state.WithLogger(logging.Discard()))
	dir := t.TempDir()
	m := New(Options{
		Lifecycle:     lc,
		Endpoint:      "http://localhost:8000/query",
		LogPath:       filepath.Join(dir, "secondbrain.log"),
		Prefs:         prefs.Default(),
		PrefsPath:     filepath.Join(dir, "prefs.toml"),
		MarkdownStyle: "notty",
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 110, Height: 32})
	return m, lc
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

// press sends key and, if it produced a command, runs it and feeds the
// resulting message back into the model.
func press(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()
	m, cmd := update(t, m, key)
	if cmd == nil {
		return m
	}
	m, _ = update(t, m, cmd())
	return m
}

var (
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyAltEnter = tea.KeyMsg{Type: tea.KeyEnter, Alt: true}
	keyCtrlS    = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyClear    = tea.KeyMsg{Type: tea.KeyCtrlR}
	keyHelp     = tea.KeyMsg{Type: tea.KeyF1}
	keyTheme    = tea.KeyMsg{Type: tea.KeyCtrlT}
	keyMarkdown = tea.KeyMsg{Type: tea.KeyCtrlO}
	keyActivity = tea.KeyMsg{Type: tea.KeyCtrlL}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestView_BeforeWindowSize(t *testing.T) {
	m := New(Options{})
	if got := m.View(); got != "Starting..." {
		t.Fatalf("View() = %q, want Starting...", got)
	}
}

func TestView_IdleShowsPlaceholder(t *testing.T) {
	m, _ := newTestModel(t, &stubQuerier{})

	view := m.View()
	for _, want := range []string{idleTitle, idleSubtitle, "READY", "secondbrain", "localhost:8000/query"} {
		if !strings.Contains(view, want) {
			t.Fatalf("idle view missing %q:\n%s", want, view)
		}
	}
}

func TestSubmit_BlankQueryIsIgnored(t *testing.T) {
	q := &stubQuerier{body: []byte(`{"answer":"x"}`)}
	m, _ := newTestModel(t, q)

	m = typeText(t, m, "   ")
	m = press(t, m, keyEnter)

	if !m.State().IsIdle() {
		t.Fatalf("phase = %v, want idle", m.State().Phase())
	}
	if calls := q.calls(); len(calls) != 0 {
		t.Fatalf("querier called %d times, want 0", len(calls))
	}
}

func TestSubmit_RendersAnswer(t *testing.T) {
	q := &stubQuerier{body: []byte(`{"answer":"Retrieval-Augmented Generation"}`)}
	m, _ := newTestModel(t, q)

	m = typeText(t, m, "what is RAG?")
	m = press(t, m, keyEnter)

	if !m.State().Succeeded() {
		t.Fatalf("phase = %v, want success", m.State().Phase())
	}
	if calls := q.calls(); len(calls) != 1 || calls[0] != "what is RAG?" {
		t.Fatalf("queries = %v, want [what is RAG?]", calls)
	}
	view := m.View()
	for _, want := range []string{"Retrieval-Augmented Generation", "what is RAG?", "ANSWERED"} {
		if !strings.Contains(view, want) {
			t.Fatalf("success view missing %q:\n%s", want, view)
		}
	}
	if m.Query() != "what is RAG?" {
		t.Fatalf("Query() = %q, want the question kept in the field", m.Query())
	}
}

func TestSubmit_ChordKeys(t *testing.T) {
	for name, k := range map[string]tea.KeyMsg{"alt+enter": keyAltEnter, "ctrl+s": keyCtrlS} {
		t.Run(name, func(t *testing.T) {
			q := &stubQuerier{body: []byte(`{"response":"ok"}`)}
			m, _ := newTestModel(t, q)

			m = typeText(t, m, "hello")
			m = press(t, m, k)

			if !m.State().Succeeded() || m.State().Answer() != "ok" {
				t.Fatalf("state = %v %q, want success with ok", m.State().Phase(), m.State().Answer())
			}
		})
	}
}

func TestSubmit_ErrorPanels(t *testing.T) {
	tests := []struct {
		name string
		q    *stubQuerier
		want []string
	}{
		{
			name: "status",
			q:    &stubQuerier{err: &brain.StatusError{StatusCode: 500, Endpoint: "http://x/query"}},
			want: []string{"server returned status 500", "error status"},
		},
		{
			name: "transport",
			q:    &stubQuerier{err: &brain.TransportError{Op: "execute request", Err: errors.New("connection refused")}},
			want: []string{"execute request: connection refused", "could not be reached"},
		},
		{
			name: "format",
			q:    &stubQuerier{body: []byte(`{"foo":"bar"}`)},
			want: []string{"unexpected response format", "without an answer"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, tt.q)
			m = typeText(t, m, "question")
			m = press(t, m, keyEnter)

			if !m.State().Failed() {
				t.Fatalf("phase = %v, want error", m.State().Phase())
			}
			view := m.View()
			for _, want := range append(tt.want, "ERROR", "Retry") {
				if !strings.Contains(view, want) {
					t.Fatalf("error view missing %q:\n%s", want, view)
				}
			}
		})
	}
}

func TestLoading_DisablesInputAndGuardsSubmit(t *testing.T) {
	q := &blockingQuerier{
		started: make(chan struct{}),
		release: make(chan struct{}),
		body:    []byte(`{"answer":"done"}`),
	}
	m, lc := newTestModel(t, q)
	m = typeText(t, m, "slow question")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		lc.Submit(context.Background(), "slow question")
	}()
	select {
	case <-q.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("querier was not called")
	}

	loading := lc.State()
	m, _ = update(t, m, stateMsg{state: loading})
	if !m.State().IsLoading() {
		t.Fatalf("phase = %v, want loading", m.State().Phase())
	}
	if m.input.Focused() {
		t.Fatalf("input focused while loading")
	}
	if view := m.View(); !strings.Contains(view, loadingLabel) || !strings.Contains(view, "THINKING") {
		t.Fatalf("loading view missing indicator:\n%s", view)
	}

	m = typeText(t, m, " more")
	if m.Query() != "slow question" {
		t.Fatalf("Query() = %q, input changed while loading", m.Query())
	}

	m = press(t, m, keyEnter)
	if !m.State().IsLoading() {
		t.Fatalf("second submit changed phase to %v", m.State().Phase())
	}

	close(q.release)
	wg.Wait()

	m, _ = update(t, m, stateMsg{state: lc.State()})
	if !m.State().Succeeded() {
		t.Fatalf("phase = %v, want success", m.State().Phase())
	}
	if !m.input.Focused() {
		t.Fatalf("input not refocused after settling")
	}

	m, _ = update(t, m, stateMsg{state: loading})
	if !m.State().Succeeded() {
		t.Fatalf("stale loading state replaced success")
	}
}

func TestClear_ReturnsToIdle(t *testing.T) {
	m, _ := newTestModel(t, &stubQuerier{body: []byte(`"plain text"`)})

	if _, cmd := update(t, m, keyClear); cmd != nil {
		t.Fatalf("clear while idle returned a command")
	}

	m = typeText(t, m, "q")
	m = press(t, m, keyEnter)
	if !m.State().Succeeded() {
		t.Fatalf("phase = %v, want success", m.State().Phase())
	}

	m = press(t, m, keyClear)
	if !m.State().IsIdle() {
		t.Fatalf("phase = %v, want idle", m.State().Phase())
	}
	if !strings.Contains(m.View(), idleTitle) {
		t.Fatalf("view after clear missing placeholder")
	}
}

func TestHelp_ToggleAndClose(t *testing.T) {
	m, _ := newTestModel(t, &stubQuerier{})

	m, _ = update(t, m, keyHelp)
	if !m.showHelp {
		t.Fatalf("help not shown")
	}
	view := m.View()
	for _, want := range []string{"Keyboard Shortcuts", "alt+enter", "Cycle theme"} {
		if !strings.Contains(view, want) {
			t.Fatalf("help missing %q", want)
		}
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.showHelp {
		t.Fatalf("help still shown after key")
	}
	if m.Query() != "" {
		t.Fatalf("closing key leaked into input: %q", m.Query())
	}
}

func TestCycleTheme_SavesPrefs(t *testing.T) {
	m, _ := newTestModel(t, &stubQuerier{})

	m, cmd := update(t, m, keyTheme)
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	if cmd == nil {
		t.Fatalf("theme change returned no save command")
	}
	msg, ok := cmd().(prefsSavedMsg)
	if !ok || msg.err != nil {
		t.Fatalf("save result = %#v, want success", msg)
	}

	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", saved.Theme)
	}
}

func TestToggleMarkdown(t *testing.T) {
	m, _ := newTestModel(t, &stubQuerier{body: []byte(`{"answer":"**bold** words"}`)})
	m = typeText(t, m, "q")
	m = press(t, m, keyEnter)

	if !strings.Contains(m.answerView.View(), "bold") {
		t.Fatalf("markdown answer missing text:\n%s", m.answerView.View())
	}

	m = press(t, m, keyMarkdown)
	if m.prefs.Markdown {
		t.Fatalf("Markdown still on")
	}
	if !strings.Contains(m.answerView.View(), "**bold** words") {
		t.Fatalf("plain answer not shown verbatim:\n%s", m.answerView.View())
	}
	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Markdown {
		t.Fatalf("saved Markdown = true, want false")
	}
}

func TestActivityPanel(t *testing.T) {
	m, _ := newTestModel(t, &stubQuerier{})
	content := strings.Join([]string{
		"2026-10-19T09:14:01Z INF query_submitted request_id=abc chars=12",
		"2026-10-19T09:14:02Z INF query_answered request_id=abc elapsed=812ms",
	}, "\n") + "\n"
	if err := os.WriteFile(m.logPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m = press(t, m, keyActivity)
	if !m.showActivity {
		t.Fatalf("activity panel not shown")
	}
	view := m.View()
	for _, want := range []string{"Activity", "query_submitted", "query_answered"} {
		if !strings.Contains(view, want) {
			t.Fatalf("activity view missing %q:\n%s", want, view)
		}
	}

	m, _ = update(t, m, keyEsc)
	if m.showActivity {
		t.Fatalf("activity panel still shown after esc")
	}
}

func TestActivityPanel_EmptyLog(t *testing.T) {
	m, _ := newTestModel(t, &stubQuerier{})
	m = press(t, m, keyActivity)
	if !strings.Contains(m.View(), "No activity yet.") {
		t.Fatalf("empty activity view missing placeholder:\n%s", m.View())
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, &stubQuerier{})
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c did not quit")
	}
}
