package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/secondbrain/internal/state"
)

const (
	idleTitle    = "Ready to help"
	idleSubtitle = "Start by asking a question about your knowledge base above"
	loadingLabel = "Searching your knowledge base..."
)

// renderInput renders the query field and the Ask control.
func (m Model) renderInput() string {
	styles := m.theme.Styles()
	inner := maxInt(m.width-4, 10)

	panel := styles.FocusPanel
	button := styles.AccentText.Bold(true).Render("[ Ask ]")
	switch {
	case m.current.IsLoading():
		panel = styles.MutedPanel
		button = m.spinner.View() + styles.MutedText.Render(" Asking")
	case strings.TrimSpace(m.input.Value()) == "":
		button = styles.FaintText.Render("[ Ask ]")
	}

	field := m.input.View()
	gap := maxInt(inner-lipgloss.Width(field)-lipgloss.Width(button), 1)
	return panel.Width(m.width - 2).Render(field + strings.Repeat(" ", gap) + button)
}

// renderBody renders the panel below the input for the current phase.
func (m Model) renderBody() string {
	styles := m.theme.Styles()
	height := maxInt(m.height-chromeHeight-inputPanelHeight, LayoutMinBodyHeight+2)
	inner := maxInt(m.width-4, 10)
	innerHeight := height - 2

	switch m.current.Phase() {
	case state.PhaseLoading:
		content := lipgloss.JoinVertical(lipgloss.Center,
			m.spinner.View()+" "+styles.InfoText.Render(loadingLabel),
			"",
			styles.FaintText.Render(truncate(singleLine(m.current.Query()), inner-4)),
		)
		return styles.Panel.Width(m.width - 2).Height(innerHeight).
			Render(lipgloss.Place(inner, innerHeight, lipgloss.Center, lipgloss.Center, content))

	case state.PhaseSuccess:
		return styles.FocusPanel.Width(m.width - 2).Height(innerHeight).
			Render(lipgloss.JoinVertical(lipgloss.Left, m.renderQuestionLine(inner), m.answerView.View()))

	case state.PhaseError:
		return styles.ErrorPanel.Width(m.width - 2).Height(innerHeight).
			Render(m.renderError(inner))

	default:
		content := lipgloss.JoinVertical(lipgloss.Center,
			styles.AccentText.Bold(true).Render(idleTitle),
			styles.MutedText.Render(idleSubtitle),
		)
		return styles.Panel.Width(m.width - 2).Height(innerHeight).
			Render(lipgloss.Place(inner, innerHeight, lipgloss.Center, lipgloss.Center, content))
	}
}

func (m Model) renderQuestionLine(width int) string {
	styles := m.theme.Styles()
	scroll := ""
	if m.answerView.TotalLineCount() > m.answerView.Height {
		scroll = fmt.Sprintf("%3.0f%%", m.answerView.ScrollPercent()*100)
	}
	label := styles.MutedText.Render("Q ")
	room := maxInt(width-lipgloss.Width(label)-lipgloss.Width(scroll)-1, 1)
	question := styles.Text.Bold(true).Render(truncate(singleLine(m.current.Query()), room))
	gap := maxInt(width-lipgloss.Width(label)-lipgloss.Width(question)-lipgloss.Width(scroll), 1)
	return label + question + strings.Repeat(" ", gap) + styles.FaintText.Render(scroll)
}

func (m Model) renderError(width int) string {
	styles := m.theme.Styles()
	lines := []string{
		styles.DangerText.Render("Error"),
		"",
		styles.Text.Width(width).Render(m.current.Message()),
	}
	if hint := errorHint(m.current.ErrorKind()); hint != "" {
		lines = append(lines, "", styles.FaintText.Width(width).Render(hint))
	}
	lines = append(lines, "", styles.MutedText.Render("enter to retry · ctrl+r to clear"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func errorHint(kind state.ErrorKind) string {
	switch kind {
	case state.KindTransport:
		return "The service could not be reached. Check that it is running and that the base URL is right."
	case state.KindStatus:
		return "The service answered with an error status."
	case state.KindFormat:
		return "The service replied without an answer this client understands."
	default:
		return ""
	}
}

// renderAnswer refreshes the answer viewport from the current state.
func (m *Model) renderAnswer() {
	if !m.current.Succeeded() || m.answerView.Width <= 0 {
		m.answerView.SetContent("")
		return
	}
	m.answerView.SetContent(m.formatAnswer(m.current.Answer()))
}

func (m Model) formatAnswer(text string) string {
	width := m.answerView.Width
	if m.prefs.Wrap > 0 && m.prefs.Wrap < width {
		width = m.prefs.Wrap
	}
	if m.prefs.Markdown {
		if out, err := m.markdown.Render(text, m.glamourStyle(), width); err == nil {
			return out
		}
	}
	return m.theme.Styles().Text.Width(width).Render(text)
}

func (m Model) glamourStyle() string {
	if m.markdownStyle != "" {
		return m.markdownStyle
	}
	if m.theme.Glamour != "" {
		return m.theme.Glamour
	}
	return "dark"
}

// markdownRenderer caches a glamour renderer per style and width.
type markdownRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// Render renders text as markdown wrapped at width.
func (r *markdownRenderer) Render(text, style string, width int) (string, error) {
	if r.renderer == nil || r.style != style || r.width != width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", fmt.Errorf("create markdown renderer: %w", err)
		}
		r.renderer, r.style, r.width = tr, style, width
	}
	out, err := r.renderer.Render(text)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}
