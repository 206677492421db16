package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/promptperfect/internal/session"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	heroStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 2)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	// Output card border while new content is highlighted
	flashBorder = lipgloss.Color("86")

	inputDot  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Render("●")
	outputDot = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render("●")

	labelStyle = lipgloss.NewStyle().Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	readyBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true).
			Render("✓ Ready")

	errorBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			Render("✗ Error")

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("242")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	copiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 3)
)

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}
	if m.session.Notice() != nil {
		return m.noticeView()
	}

	// ── Row 1: title bar ──────────────────────────────────────────────────────
	title := "  Prompt Enhancer"
	if m.session.CanClear() {
		clearHint := "ctrl+x Clear All  "
		pad := m.width - lipgloss.Width(title) - lipgloss.Width(clearHint) - 4
		if pad < 1 {
			pad = 1
		}
		title += strings.Repeat(" ", pad) + clearHint
	}
	titleBar := titleStyle.Width(m.width).Render(title)

	// ── Row 2: hero line ──────────────────────────────────────────────────────
	hero := heroStyle.Render("Refine your prompts for better AI results")

	// ── Cards ─────────────────────────────────────────────────────────────────
	var cards string
	if _, side := m.cardWidth(); side {
		cards = lipgloss.JoinHorizontal(lipgloss.Top, m.inputCard(), m.outputCard())
	} else {
		cards = lipgloss.JoinVertical(lipgloss.Left, m.inputCard(), m.outputCard())
	}

	// ── Row N: status / hint bar ──────────────────────────────────────────────
	hint := "  ctrl+s enhance  ctrl+y copy  ctrl+x clear  pgup/pgdn scroll  ctrl+q quit"
	status := m.session.DisplayStatus().String()
	pad := m.width - lipgloss.Width(hint) - len(status) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(hint + strings.Repeat(" ", pad) + status)

	return lipgloss.JoinVertical(lipgloss.Left, titleBar, hero, cards, statusBar)
}

func (m Model) inputCard() string {
	w, _ := m.cardWidth()
	inner := w - 4

	header := cardHeader(inner,
		inputDot+" "+labelStyle.Render("Input Prompt"),
		dimStyle.Render(fmt.Sprintf("%d characters", m.session.InputLength())))

	var footer string
	switch {
	case m.session.Status() == session.StatusBusy:
		footer = m.spinner.View() + " Enhancing..."
	case m.session.CanSubmit():
		footer = buttonStyle.Render("ctrl+s  Enhance Prompt")
	default:
		footer = disabledButtonStyle.Render("ctrl+s  Enhance Prompt")
	}

	body := lipgloss.JoinVertical(lipgloss.Left, header, m.input.View(), footer)
	return cardStyle.Width(w - 2).Height(m.cardHeight() - 2).Render(body)
}

func (m Model) outputCard() string {
	w, _ := m.cardWidth()
	inner := w - 4

	var badge string
	switch m.session.DisplayStatus() {
	case session.StatusReady:
		badge = readyBadge
	case session.StatusError:
		badge = errorBadge
	}
	header := cardHeader(inner, outputDot+" "+labelStyle.Render("Enhanced Output"), badge)

	var content string
	switch {
	case m.session.Status() == session.StatusBusy:
		content = "\n  " + m.spinner.View() + " Processing your prompt..."
	case m.session.Output() != "":
		content = m.output.View()
	default:
		content = lipgloss.JoinVertical(lipgloss.Left,
			"",
			labelStyle.Render("  Your enhanced prompt will appear here"),
			dimStyle.Render("  Enter a prompt and press ctrl+s to enhance"))
	}
	content = lipgloss.NewStyle().Height(m.output.Height).Render(content)

	var footer string
	if m.session.CanCopy() {
		if m.session.CopyAcknowledged() {
			footer = copiedStyle.Render("✓ Copied!")
		} else {
			footer = buttonStyle.Render("ctrl+y  Copy to Clipboard")
		}
	}

	style := cardStyle
	if m.flashVersion != 0 && m.flashVersion == m.session.Version() {
		style = style.BorderForeground(flashBorder)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
	return style.Width(w - 2).Height(m.cardHeight() - 2).Render(body)
}

func (m Model) noticeView() string {
	box := noticeStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		labelStyle.Render(session.FailureNotice),
		"",
		dimStyle.Render("press enter to continue")))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// cardHeader lays out a label on the left and a hint on the right of width w.
func cardHeader(w int, left, right string) string {
	pad := w - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}
