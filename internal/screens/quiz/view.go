package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examreview/internal/question"
	"github.com/abhisek/examreview/internal/review"
	"github.com/abhisek/examreview/internal/ui/components"
	"github.com/abhisek/examreview/internal/ui/layout"
	"github.com/abhisek/examreview/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	var b strings.Builder

	if !layout.IsCompactHeight(height) {
		b.WriteString(s.renderFilterLine(width))
		b.WriteString("\n")
	}

	q, err := s.sess.Current()
	if err != nil {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\nNo questions match the current filters.\nPress f to change filters or v to switch mode."))
		b.WriteString("\n\n")
		b.WriteString(s.renderInputArea(width))
		b.WriteString(s.renderBanner(width))
		return b.String()
	}

	b.WriteString(s.renderInfoLine(q, width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	cw := components.ContentWidth(width)
	card := theme.Card.Width(cw).Render(s.renderQuestion(q, cw-6))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n")

	if tags := s.sess.Annotations().Tags(q.ID()); len(tags) > 0 {
		b.WriteString("  ")
		b.WriteString(components.Chips(tags, s.sess.Filter().Tag))
		b.WriteString("\n")
	}
	if note := s.sess.Annotations().Note(q.ID()); note != "" && s.mode != modeNote {
		b.WriteString(theme.Hint.Render("  Note: " + note))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(s.renderInputArea(width))
	b.WriteString(s.renderBanner(width))
	return b.String()
}

func (s *QuizScreen) renderFilterLine(width int) string {
	f := s.sess.Filter()
	parts := []string{f.Mode.String()}
	for _, p := range []struct{ name, value string }{
		{"exam", f.Exam},
		{"subject", f.Subject},
		{"type", f.Type},
		{"tag", f.Tag},
	} {
		if p.value != "" {
			parts = append(parts, p.name+": "+p.value)
		}
	}
	if f.WrongOnly {
		parts = append(parts, "wrong only")
	}
	if f.MarkedOnly {
		parts = append(parts, "marked only")
	}
	return lipgloss.NewStyle().
		Width(width).
		Foreground(theme.TextDim).
		Render("  " + strings.Join(parts, " · "))
}

func (s *QuizScreen) renderInfoLine(q question.Question, width int) string {
	ann := s.sess.Annotations()

	var left string
	if layout.IsCompactWidth(width) {
		left = fmt.Sprintf("  %s #%s", q.Subject, q.Number)
	} else {
		left = fmt.Sprintf("  %s  %s  #%s  %s", q.Exam, q.Subject, q.Number, q.Type)
	}
	infoLeft := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(left)

	var right []string
	if ann.IsMarked(q.ID()) {
		right = append(right, theme.Marked.Render("★ marked"))
	}
	if n := ann.WrongCount(q.ID()); n > 0 {
		right = append(right, theme.Incorrect.Render(fmt.Sprintf("wrong ×%d", n)))
	}
	infoRight := strings.Join(right, "  ")

	line := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 && infoRight != "" {
		line += strings.Repeat(" ", pad) + infoRight
	}
	return line
}

func (s *QuizScreen) renderQuestion(q question.Question, width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.Text).Bold(true).Render(q.Text))
	b.WriteString("\n\n")

	view := s.sess.View()
	if s.isEssay(q) {
		b.WriteString(theme.Hint.Render("Open question. Press space to show the answer."))
		b.WriteString("\n")
	} else {
		mc := s.optionList(q)
		mc.Width = width
		b.WriteString(mc.View())
	}

	if view.ShowAnswer {
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render("Answer: " + q.Answer))
	}
	return b.String()
}

// isEssay reports whether q has no options to choose from.
func (s *QuizScreen) isEssay(q question.Question) bool {
	return len(q.Choices()) == 0 || (s.deps.EssayType != "" && q.Type == s.deps.EssayType)
}

// optionList builds the option component for q from the current view.
func (s *QuizScreen) optionList(q question.Question) components.MultiChoice {
	view := s.sess.View()
	mc := components.MultiChoice{
		Correct:  q.Answer,
		Staged:   view.Staged,
		Revealed: view.ShowAnswer,
	}
	if view.Answered {
		mc.Chosen = view.Staged
	}
	for _, c := range q.Choices() {
		mc.Labels = append(mc.Labels, c.Label)
		mc.Options = append(mc.Options, c.Text)
	}
	return mc
}

func (s *QuizScreen) renderInputArea(width int) string {
	var body string
	switch s.mode {
	case modeTag, modeNote:
		body = s.input.View()
	case modeSearch:
		body = s.input.View()
		if matches := s.searchMatches(); len(matches) > 0 {
			body += "\n" + components.Chips(matches, firstOf(matches))
		} else if s.input.Value() != "" {
			body += "\n" + theme.Hint.Render("no matching tags")
		}
	case modePickRemove, modePickFilter:
		verb := "Filter by"
		if s.mode == modePickRemove {
			verb = "Remove"
		}
		lines := []string{lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(verb + " which tag?")}
		for i, t := range s.currentTags() {
			if i == 9 {
				break
			}
			lines = append(lines, fmt.Sprintf("  %d) #%s", i+1, t))
		}
		body = strings.Join(lines, "\n")
	case modeConfirmRemove:
		body = theme.Staged.Render(fmt.Sprintf("Remove tag #%s from this question? (y/n)", s.pendingTag))
	default:
		return ""
	}
	return lipgloss.NewStyle().Width(width).PaddingLeft(2).Render(body) + "\n\n"
}

func (s *QuizScreen) renderBanner(width int) string {
	if s.banner.Text == "" {
		return ""
	}
	var style lipgloss.Style
	switch s.banner.Kind {
	case review.NoticeCorrect, review.NoticeTagAdded, review.NoticeExported, review.NoticeQuizComplete:
		style = theme.BannerGood
	case review.NoticeIncorrect, review.NoticeRejected, review.NoticeInvalidTag, review.NoticeNothingToExport:
		style = theme.BannerBad
	default:
		style = theme.BannerInfo
	}
	return style.Width(width).Align(lipgloss.Center).Render(s.banner.Text)
}

func firstOf(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}
