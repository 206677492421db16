// Package tui provides the Bubble Tea front end for a prompt session.
//
// The Bubble Tea Update loop is the only goroutine that touches the Session.
// The rephrase request and the clipboard write run as commands and report
// back as messages, so their results are applied on the same loop.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/fakeyudi/promptperfect/internal/clipboard"
	"github.com/fakeyudi/promptperfect/internal/session"
)

// flashDuration is how long the output card stays highlighted after new content arrives.
const flashDuration = 600 * time.Millisecond

// ── Messages ─────────────────────────

type enhanceDoneMsg struct {
	req    session.Request
	result string
	err    error
}

type copyDoneMsg struct{ err error }

type copyAckExpiredMsg struct{ token session.AckToken }

type flashDoneMsg struct{ version int }

// ── Model ────────────────────

// Options tunes presentation.
type Options struct {
	Markdown bool // render results with glamour
	Dark     bool // terminal has a dark background
	Logger   *zap.Logger
}

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	ctx      context.Context
	session  *session.Session
	enhancer session.Enhancer
	clip     clipboard.Writer
	opts     Options
	logger   *zap.Logger

	input    textarea.Model
	output   viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	// lastValue is the textarea content after the previous key. The textarea
	// rewrites tabs when a value is loaded, so only a change from lastValue
	// counts as an edit.
	lastValue string

	// flashVersion is the result version currently highlighted, 0 for none.
	flashVersion int
	width        int
	height       int
	ready        bool
}

// New creates a TUI model over s. Requests run through e with ctx; copies go through clip.
func New(ctx context.Context, s *session.Session, e session.Enhancer, clip clipboard.Writer, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = "Enter your initial prompt here...\n\nExample: \"A futuristic city at sunset with flying cars\""
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetValue(strings.ReplaceAll(s.Input(), "\r\n", "\n"))
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := Model{
		ctx:      ctx,
		session:  s,
		enhancer: e,
		clip:     clip,
		opts:     opts,
		logger:   logger,
		input:    ta,
		output:   viewport.New(0, 0),
		spinner:  sp,

		lastValue: ta.Value(),
	}
	m.refreshOutput()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return textarea.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case enhanceDoneMsg:
		before := m.session.Version()
		m.session.Complete(msg.req, msg.result, msg.err)
		if v := m.session.Version(); v != before {
			m.refreshOutput()
			m.flashVersion = v
			return m, tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{version: v} })
		}
		return m, nil

	case copyDoneMsg:
		if msg.err != nil {
			m.session.CopyFailed(msg.err)
			return m, nil
		}
		tok := m.session.Copied()
		return m, tea.Tick(session.CopyAckWindow, func(time.Time) tea.Msg { return copyAckExpiredMsg{token: tok} })

	case copyAckExpiredMsg:
		m.session.ExpireCopyAck(msg.token)
		return m, nil

	case flashDoneMsg:
		if msg.version == m.flashVersion {
			m.flashVersion = 0
		}
		return m, nil

	case spinner.TickMsg:
		// Stop ticking once the request has finished.
		if m.session.Status() != session.StatusBusy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.output, cmd = m.output.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// A pending failure notice blocks everything until acknowledged.
	if m.session.Notice() != nil {
		switch msg.String() {
		case "enter", "esc", " ":
			m.session.DismissNotice()
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+q":
		return m, tea.Quit

	case "ctrl+s":
		req, ok := m.session.Submit()
		if !ok {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, m.enhanceCmd(req))

	case "ctrl+y":
		if !m.session.CanCopy() {
			return m, nil
		}
		text, _ := m.session.CopyText()
		return m, m.copyCmd(text)

	case "ctrl+x":
		if !m.session.CanClear() {
			return m, nil
		}
		m.session.Clear()
		m.input.Reset()
		m.lastValue = ""
		m.flashVersion = 0
		m.refreshOutput()
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.lastValue {
		m.lastValue = v
		m.session.Edit(v)
	}
	return m, cmd
}

// ── Commands ─────────────────────────

func (m Model) enhanceCmd(req session.Request) tea.Cmd {
	ctx, e := m.ctx, m.enhancer
	return func() tea.Msg {
		result, err := session.Run(ctx, e, req)
		return enhanceDoneMsg{req: req, result: result, err: err}
	}
}

func (m Model) copyCmd(text string) tea.Cmd {
	w := m.clip
	return func() tea.Msg {
		return copyDoneMsg{err: clipboard.Copy(w, text)}
	}
}

// ── Layout ────────────────────────────

// cardWidth returns the outer width of one card and whether the cards sit side by side.
func (m *Model) cardWidth() (int, bool) {
	if m.width >= 100 {
		return m.width / 2, true
	}
	return m.width, false
}

// cardHeight returns the outer height of one card.
func (m *Model) cardHeight() int {
	// title(1) + hero(1) + statusBar(1) = 3 fixed rows
	avail := m.height - 3
	if _, side := m.cardWidth(); !side {
		avail /= 2
	}
	if avail < 6 {
		avail = 6
	}
	return avail
}

func (m *Model) layout() {
	w, _ := m.cardWidth()
	// border(2) + padding(2)
	inner := w - 4
	if inner < 10 {
		inner = 10
	}
	// border(2) + header(1) + footer(1)
	body := m.cardHeight() - 4
	if body < 2 {
		body = 2
	}

	m.input.SetWidth(inner)
	m.input.SetHeight(body)
	m.output.Width = inner
	m.output.Height = body

	if m.opts.Markdown {
		style := "light"
		if m.opts.Dark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(inner),
		)
		if err != nil {
			m.logger.Warn("Markdown renderer unavailable", zap.Error(err))
			m.renderer = nil
		} else {
			m.renderer = r
		}
	}
	m.refreshOutput()
}

// refreshOutput re-renders the session output into the viewport.
func (m *Model) refreshOutput() {
	out := m.session.Output()
	if out == "" {
		m.output.SetContent("")
		return
	}
	content := out
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(out); err == nil {
			content = strings.Trim(rendered, "\n")
		} else {
			m.logger.Warn("Failed to render output as markdown", zap.Error(err))
		}
	} else if m.output.Width > 0 {
		content = lipgloss.NewStyle().Width(m.output.Width).Render(out)
	}
	m.output.SetContent(content)
	m.output.GotoTop()
}
