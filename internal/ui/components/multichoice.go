package components

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examreview/internal/ui/theme"
)

// MultiChoice renders labelled options in one of three phases: open
// (a staged option is highlighted), answered (the chosen and correct
// options are coloured) or revealed (only the correct option is coloured).
type MultiChoice struct {
	Labels   []string
	Options  []string
	Correct  string // label of the correct option
	Staged   string // label staged but not confirmed
	Chosen   string // label confirmed; empty while unanswered
	Revealed bool
	Width    int
}

// Move returns the label delta steps from the staged one, wrapping around.
// With nothing staged it starts from the first option.
func (m MultiChoice) Move(delta int) string {
	if len(m.Labels) == 0 {
		return ""
	}
	i := slices.Index(m.Labels, m.Staged)
	if i < 0 {
		return m.Labels[0]
	}
	n := len(m.Labels)
	return m.Labels[((i+delta)%n+n)%n]
}

// View renders the option list.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		label := m.Labels[i]
		prefix := "  "
		if label == m.Staged && m.Chosen == "" {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)
		if m.Width > 0 {
			line = lipgloss.NewStyle().Width(m.Width).Render(line)
		}

		var style lipgloss.Style
		switch {
		case (m.Chosen != "" || m.Revealed) && label == m.Correct:
			style = theme.Correct
		case m.Chosen != "" && label == m.Chosen:
			style = theme.Incorrect
		case m.Chosen != "" || m.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case label == m.Staged:
			style = theme.Staged
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
