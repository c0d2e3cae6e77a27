package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examreview/internal/review"
	"github.com/abhisek/examreview/internal/router"
	"github.com/abhisek/examreview/internal/screen"
	"github.com/abhisek/examreview/internal/store"
	"github.com/abhisek/examreview/internal/ui/components"
	"github.com/abhisek/examreview/internal/ui/layout"
	"github.com/abhisek/examreview/internal/ui/theme"
)

// RestartMsg asks the quiz to reset and start the test again.
type RestartMsg struct{}

// ReviewWrongMsg asks the quiz to switch to review mode on wrong questions.
type ReviewWrongMsg struct{}

// Data is everything the summary shows.
type Data struct {
	Stats     review.Stats
	Results   []review.TestResult
	Breakdown []store.SubjectAccuracy
}

// maxMistakes caps the mistake list so the summary fits one screen.
const maxMistakes = 8

// SummaryScreen displays the test completion summary.
type SummaryScreen struct {
	data Data
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(data Data) *SummaryScreen {
	return &SummaryScreen{data: data}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Test Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back to quiz"},
		{Key: "R", Description: "Restart test"},
		{Key: "W", Description: "Review mistakes"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	pop := func() tea.Msg { return router.PopScreenMsg{} }
	switch kmsg.String() {
	case "enter", "esc":
		return s, pop
	case "r", "R":
		return s, tea.Sequence(pop, func() tea.Msg { return RestartMsg{} })
	case "w", "W":
		return s, tea.Sequence(pop, func() tea.Msg { return ReviewWrongMsg{} })
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	st := s.data.Stats
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder

	// Title.
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Test complete!"))
	b.WriteString("\n\n")

	// Stats line.
	statsLine := fmt.Sprintf("Correct: %d        Incorrect: %d        Accuracy: %.2f%%",
		st.Correct, st.Incorrect, st.Accuracy()*100)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(min(width-8, 60), 0)))

	// Per-subject results.
	if len(s.data.Breakdown) > 0 {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Subjects")))
		b.WriteString("\n")
		b.WriteString(center(divider))
		b.WriteString("\n\n")

		barWidth := min(width-8, 60)
		for _, sa := range s.data.Breakdown {
			bar := components.NewProgressBar(
				fmt.Sprintf("%-12s %d/%d", truncate(sa.Subject, 12), sa.Correct, sa.Attempted),
				sa.Accuracy(), true, barWidth)
			bar.Fill = components.AccuracyColor(sa.Accuracy())
			b.WriteString(center(bar.View()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Mistakes.
	var wrong []review.TestResult
	for _, r := range s.data.Results {
		if !r.Correct {
			wrong = append(wrong, r)
		}
	}
	if len(wrong) > 0 {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Mistakes")))
		b.WriteString("\n")
		b.WriteString(center(divider))
		b.WriteString("\n\n")

		for i, r := range wrong {
			if i == maxMistakes {
				b.WriteString(center(theme.Hint.Render(fmt.Sprintf("…and %d more", len(wrong)-maxMistakes))))
				b.WriteString("\n")
				break
			}
			q := r.Question
			line := fmt.Sprintf("%s %s #%s   you: %s   answer: %s",
				q.Exam, q.Subject, q.Number, r.Selected, q.Answer)
			b.WriteString(center(theme.Incorrect.Render(line)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
