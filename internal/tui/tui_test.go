package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fakeyudi/promptperfect/internal/session"
	"github.com/fakeyudi/promptperfect/internal/store"
)

type fakeEnhancer struct {
	calls  int
	result string
	err    error
}

func (f *fakeEnhancer) Enhance(_ context.Context, text string) (string, error) {
	f.calls++
	return f.result, f.err
}

type fakeClipboard struct {
	got []string
	err error
}

func (f *fakeClipboard) WriteText(text string) error {
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, text)
	return nil
}

type harness struct {
	m    Model
	s    *session.Session
	st   *store.Memory
	enh  *fakeEnhancer
	clip *fakeClipboard
}

func newHarness(t *testing.T, seed map[string]string) *harness {
	t.Helper()
	st := store.NewMemory()
	for k, v := range seed {
		st.Entries[k] = v
	}
	s := session.Load(st, nil)
	h := &harness{
		s:    s,
		st:   st,
		enh:  &fakeEnhancer{result: "A fluffy orange cat sitting on a windowsill"},
		clip: &fakeClipboard{},
	}
	h.m = New(context.Background(), s, h.enh, h.clip, Options{})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) typeText(s string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) key(k tea.KeyType) tea.Cmd {
	return h.send(tea.KeyMsg{Type: k})
}

// submit presses ctrl+s and returns the request the session issued.
func (h *harness) submit(t *testing.T) session.Request {
	t.Helper()
	before := h.enh.calls
	cmd := h.key(tea.KeyCtrlS)
	if cmd == nil {
		t.Fatal("submit returned no command")
	}
	if h.s.Status() != session.StatusBusy {
		t.Fatalf("status after submit: got %v, want busy", h.s.Status())
	}
	// Run the request command directly; the batch also holds a spinner tick.
	for _, c := range flatten(cmd) {
		if done, ok := c().(enhanceDoneMsg); ok {
			if h.enh.calls != before+1 {
				t.Fatalf("expected exactly one request, got %d", h.enh.calls-before)
			}
			return done.req
		}
	}
	t.Fatal("no enhance command in batch")
	return session.Request{}
}

// flatten expands a tea.Batch into its commands without running timers.
func flatten(cmd tea.Cmd) []tea.Cmd {
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Cmd{func() tea.Msg { return msg }}
	}
	var out []tea.Cmd
	for _, c := range batch {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func TestTypingPersistsInput(t *testing.T) {
	h := newHarness(t, nil)
	h.typeText("a cat")

	if got := h.s.Input(); got != "a cat" {
		t.Fatalf("session input: got %q", got)
	}
	if got := h.st.Entries[store.KeyPrompt]; got != "a cat" {
		t.Errorf("stored prompt: got %q", got)
	}
	if !strings.Contains(h.m.View(), "5 characters") {
		t.Error("view should show the character count")
	}
}

func TestRestoredSessionIsShown(t *testing.T) {
	h := newHarness(t, map[string]string{
		store.KeyPrompt: "a cat",
		store.KeyOutput: "restored result",
	})
	if h.m.input.Value() != "a cat" {
		t.Errorf("textarea: got %q", h.m.input.Value())
	}
	view := h.m.View()
	for _, want := range []string{"restored result", "Ready", "Copy to Clipboard", "Clear All"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestCursorKeysLeaveRestoredPromptAlone(t *testing.T) {
	const prompt = "step 1:\tdo this\r\nstep 2"
	h := newHarness(t, map[string]string{store.KeyPrompt: prompt})

	for _, k := range []tea.KeyType{tea.KeyLeft, tea.KeyUp, tea.KeyEnd} {
		h.key(k)
	}
	if got := h.st.Entries[store.KeyPrompt]; got != prompt {
		t.Errorf("stored prompt after cursor keys: got %q, want %q", got, prompt)
	}
	if got := h.s.Input(); got != prompt {
		t.Errorf("session input after cursor keys: got %q, want %q", got, prompt)
	}
	if strings.Contains(h.m.input.Value(), "\n\n") {
		t.Errorf("CRLF should load as one line break, got %q", h.m.input.Value())
	}

	h.typeText("!")
	if got := h.s.Input(); got == prompt || !strings.Contains(got, "!") {
		t.Errorf("typing should still edit the prompt, got %q", got)
	}
}

func TestSubmitSuccess(t *testing.T) {
	h := newHarness(t, nil)
	h.typeText("a cat")
	req := h.submit(t)

	if !strings.Contains(h.m.View(), "Processing your prompt...") {
		t.Error("busy view should show the loading placeholder")
	}

	cmd := h.send(enhanceDoneMsg{req: req, result: h.enh.result})
	if cmd == nil {
		t.Error("expected a flash timer after new content")
	}
	if h.s.Status() != session.StatusReady || h.s.Version() != 1 {
		t.Fatalf("got status %v version %d", h.s.Status(), h.s.Version())
	}
	if h.m.flashVersion != 1 {
		t.Errorf("flashVersion: got %d, want 1", h.m.flashVersion)
	}
	if !strings.Contains(h.m.View(), "fluffy orange cat") {
		t.Error("view should show the result")
	}

	h.send(flashDoneMsg{version: 1})
	if h.m.flashVersion != 0 {
		t.Errorf("flash should clear, got %d", h.m.flashVersion)
	}
}

func TestSubmitWhileBusyIsIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.typeText("a cat")
	h.submit(t)

	if cmd := h.key(tea.KeyCtrlS); cmd != nil {
		t.Error("second submit while busy should issue nothing")
	}
	if h.enh.calls != 1 {
		t.Errorf("requests: got %d, want 1", h.enh.calls)
	}
}

func TestSubmitBlankInputIsIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.typeText("   ")
	if cmd := h.key(tea.KeyCtrlS); cmd != nil {
		t.Error("blank submit should issue nothing")
	}
	if h.s.Status() != session.StatusIdle {
		t.Errorf("status: got %v", h.s.Status())
	}
}

func TestFailureNoticeBlocksUntilDismissed(t *testing.T) {
	h := newHarness(t, nil)
	h.typeText("a cat")
	req := h.submit(t)

	h.send(enhanceDoneMsg{req: req, err: errors.New("boom")})
	if !strings.Contains(h.m.View(), session.FailureNotice) {
		t.Fatal("expected failure notice")
	}

	// Typing is swallowed while the notice is up.
	h.typeText("x")
	if h.s.Input() != "a cat" {
		t.Errorf("input changed behind the notice: %q", h.s.Input())
	}

	h.key(tea.KeyEnter)
	if h.s.Notice() != nil {
		t.Fatal("notice should be dismissed")
	}
	if h.s.Status() != session.StatusIdle {
		t.Errorf("status: got %v, want idle", h.s.Status())
	}
	if strings.Contains(h.m.View(), session.FailureNotice) {
		t.Error("notice should be gone")
	}
}

func TestClearWhileBusyDropsLateResult(t *testing.T) {
	h := newHarness(t, nil)
	h.typeText("a cat")
	req := h.submit(t)

	h.key(tea.KeyCtrlX)
	if h.m.input.Value() != "" {
		t.Errorf("textarea should be reset, got %q", h.m.input.Value())
	}

	// The cleared call is still outstanding, so a new submit waits for it.
	h.typeText("a dog")
	if cmd := h.key(tea.KeyCtrlS); cmd != nil || h.enh.calls != 1 {
		t.Fatalf("submit during the cleared call should be ignored (calls %d)", h.enh.calls)
	}
	h.key(tea.KeyCtrlX)

	h.send(enhanceDoneMsg{req: req, result: "late"})
	if h.s.Output() != "" || h.s.Status() != session.StatusIdle {
		t.Fatalf("late result resurrected state: output %q status %v", h.s.Output(), h.s.Status())
	}
	if len(h.st.Entries) != 0 {
		t.Errorf("store should be empty, got %v", h.st.Entries)
	}
	if strings.Contains(h.m.View(), "Clear All") {
		t.Error("clear should not be offered on an empty session")
	}
}

func TestCopyAcknowledgment(t *testing.T) {
	h := newHarness(t, map[string]string{store.KeyOutput: "result"})

	cmd := h.key(tea.KeyCtrlY)
	if cmd == nil {
		t.Fatal("copy returned no command")
	}
	done, ok := cmd().(copyDoneMsg)
	if !ok || done.err != nil {
		t.Fatalf("unexpected copy outcome: %#v", done)
	}
	if len(h.clip.got) != 1 || h.clip.got[0] != "result" {
		t.Fatalf("clipboard got %v", h.clip.got)
	}

	if timer := h.send(done); timer == nil {
		t.Fatal("expected the acknowledgment timer")
	}
	if !h.s.CopyAcknowledged() || !strings.Contains(h.m.View(), "Copied!") {
		t.Fatal("copy should be acknowledged")
	}

	// A second copy inside the window restarts it.
	h.send(copyDoneMsg{})
	h.send(copyAckExpiredMsg{token: 1})
	if !h.s.CopyAcknowledged() {
		t.Fatal("expired first window must not clear the restarted one")
	}
	h.send(copyAckExpiredMsg{token: 2})
	if h.s.CopyAcknowledged() {
		t.Fatal("acknowledgment should clear after its window")
	}
	if h.s.Output() != "result" {
		t.Errorf("output changed: %q", h.s.Output())
	}
}

func TestCopyFailureIsSilent(t *testing.T) {
	h := newHarness(t, map[string]string{store.KeyOutput: "result"})
	h.clip.err = errors.New("no clipboard")

	done := h.key(tea.KeyCtrlY)().(copyDoneMsg)
	if done.err == nil {
		t.Fatal("expected copy error")
	}
	if cmd := h.send(done); cmd != nil {
		t.Error("failed copy should not start a timer")
	}
	if h.s.CopyAcknowledged() || h.s.Notice() != nil {
		t.Error("failed copy should change nothing visible")
	}
}

func TestCopyWithoutOutputIsNoOp(t *testing.T) {
	h := newHarness(t, nil)
	if cmd := h.key(tea.KeyCtrlY); cmd != nil {
		t.Error("copy with no output should issue nothing")
	}
}

func TestNarrowTerminalStacksCards(t *testing.T) {
	h := newHarness(t, nil)
	h.send(tea.WindowSizeMsg{Width: 60, Height: 30})
	if _, side := h.m.cardWidth(); side {
		t.Error("cards should stack below 100 columns")
	}
	view := h.m.View()
	if !strings.Contains(view, "Input Prompt") || !strings.Contains(view, "Enhanced Output") {
		t.Error("both cards should render")
	}
}

func TestMarkdownRendering(t *testing.T) {
	st := store.NewMemory()
	st.Entries[store.KeyOutput] = "# Title\n\nSome **bold** text"
	s := session.Load(st, nil)
	m := New(context.Background(), s, &fakeEnhancer{}, &fakeClipboard{}, Options{Markdown: true, Dark: true})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	if m.renderer == nil {
		t.Fatal("expected a markdown renderer")
	}
	view := m.View()
	if strings.Contains(view, "**bold**") {
		t.Error("markdown emphasis should be rendered, not shown raw")
	}
	if !strings.Contains(view, "bold") {
		t.Error("rendered output should contain the text")
	}
}
