package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/secondbrain/internal/logtail"
)

// handleActivityKey routes keys while the activity panel is open.
func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close, m.keys.Activity):
		m.showActivity = false
		return m, nil
	case key.Matches(msg, m.keys.RefreshActivity):
		return m, loadActivityCmd(m.logPath, ActivityLines)
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	}
	var cmd tea.Cmd
	m.activityView, cmd = m.activityView.Update(msg)
	return m, cmd
}

// setActivityContent renders entries into the activity viewport, newest at
// the bottom.
func (m *Model) setActivityContent(entries []logtail.Entry) {
	styles := m.theme.Styles()
	width := m.activityView.Width

	if len(entries) == 0 {
		m.activityView.SetContent(styles.FaintText.Render("No activity yet."))
		return
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, formatEntry(styles, e, width))
	}
	m.activityView.SetContent(strings.Join(lines, "\n"))
	m.activityView.GotoBottom()
}

func formatEntry(styles Styles, e logtail.Entry, width int) string {
	if e.Level == "" {
		return styles.Text.Render(truncate(e.Message, width))
	}
	var b strings.Builder
	b.WriteString(styles.MutedText.Render(clockTime(e.Time)))
	b.WriteString(" ")
	b.WriteString(styles.LevelStyle(e.Level).Render(e.Level))
	b.WriteString(" ")
	b.WriteString(styles.Text.Render(e.Message))
	if e.Attrs != "" {
		used := lipgloss.Width(b.String()) + 1
		if room := width - used; room > 3 {
			b.WriteString(" ")
			b.WriteString(styles.FaintText.Render(truncate(e.Attrs, room)))
		}
	}
	return b.String()
}

// renderActivity renders the log tail as a centered panel.
func (m Model) renderActivity() string {
	styles := m.theme.Styles()

	title := styles.AccentText.Bold(true).Render("Activity")
	if path := strings.TrimSpace(m.logPath); path != "" {
		title += "  " + styles.FaintText.Render(truncateMiddle(path, maxInt(m.activityView.Width-12, 10)))
	}
	body := m.activityView.View()
	if m.activityErr != nil {
		body = styles.DangerText.Render(m.activityErr.Error())
	}
	footer := styles.MutedText.Render("esc close · ctrl+r reload · up/down scroll")

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(0, 1).
		Width(minInt(m.width-2, m.activityView.Width+2))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		panel.Render(lipgloss.JoinVertical(lipgloss.Left, title, body, footer)),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
