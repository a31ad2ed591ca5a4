package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/secondbrain/internal/state"
)

// renderHeader renders the logo, the request phase and the endpoint.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{
		bg.Render("secondbrain", styles.Logo),
		styles.PhaseStyle(m.current.Phase()).Render(phaseLabel(m.current.Phase())),
	}

	if at := clockTime(m.current.At()); at != "" && m.current.Settled() {
		parts = append(parts, bg.Render(at, styles.MutedText))
	}

	if endpoint := strings.TrimSpace(m.endpoint); endpoint != "" {
		limit := 50
		if compact {
			limit = 28
		}
		segment := bg.Render(truncateMiddle(endpoint, limit), styles.MutedText)
		if !compact {
			segment = bg.Render("API", styles.FaintText) + bg.Space() + segment
		}
		parts = append(parts, segment)
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func phaseLabel(phase state.Phase) string {
	switch phase {
	case state.PhaseLoading:
		return "THINKING"
	case state.PhaseSuccess:
		return "ANSWERED"
	case state.PhaseError:
		return "ERROR"
	default:
		return "READY"
	}
}

// renderCommandBar renders the key hints for the current phase.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.current.Phase() {
	case state.PhaseLoading:
		commands = []cmd{
			{"ctrl+l", "Activity"},
			{"f1", "Help"},
			{"ctrl+c", "Quit"},
		}
	case state.PhaseSuccess:
		commands = []cmd{
			{"enter", "Ask"},
			{"pgup/pgdn", "Scroll"},
			{"ctrl+r", "Clear"},
			{"ctrl+o", markdownLabel(m.prefs.Markdown)},
			{"ctrl+l", "Activity"},
			{"f1", "Help"},
		}
	case state.PhaseError:
		commands = []cmd{
			{"enter", "Retry"},
			{"ctrl+r", "Clear"},
			{"ctrl+l", "Activity"},
			{"f1", "Help"},
		}
	default:
		commands = []cmd{
			{"enter", "Ask"},
			{"ctrl+l", "Activity"},
			{"f1", "Help"},
			{"ctrl+c", "Quit"},
		}
	}

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("ctrl+t", styles.FaintText)+colon+bg.Render(m.theme.Name, styles.FaintText))
	if m.notice != "" {
		segments = append(segments, bg.Render(m.notice, styles.WarningText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Padding(0, 1).
		Render(bg.Join(segments, "  "))
}

func markdownLabel(on bool) string {
	if on {
		return "Plain"
	}
	return "Markdown"
}
