// Package history lists the answers journaled in the current run.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examreview/internal/router"
	"github.com/abhisek/examreview/internal/screen"
	"github.com/abhisek/examreview/internal/store"
	"github.com/abhisek/examreview/internal/ui/layout"
	"github.com/abhisek/examreview/internal/ui/theme"
)

// maxEvents bounds how many journal rows are loaded.
const maxEvents = 500

type historyLoadedMsg struct {
	Events []store.AnswerEvent
	Err    error
}

// HistoryScreen displays the session's answers, newest first.
type HistoryScreen struct {
	journal   store.EventRepo
	sessionID string
	wrongOnly bool
	events    []store.AnswerEvent
	selected  int
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(journal store.EventRepo, sessionID string) *HistoryScreen {
	return &HistoryScreen{journal: journal, sessionID: sessionID}
}

func (s *HistoryScreen) Init() tea.Cmd {
	s.loaded = false
	journal, id := s.journal, s.sessionID
	opts := store.QueryOpts{Limit: maxEvents, WrongOnly: s.wrongOnly, Newest: true}
	return func() tea.Msg {
		if journal == nil {
			return historyLoadedMsg{}
		}
		events, err := journal.Answers(context.Background(), id, opts)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Events: events}
	}
}

func (s *HistoryScreen) Title() string {
	return "Answer Log"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	filter := "Wrong only"
	if s.wrongOnly {
		filter = "All answers"
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "W", Description: filter},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.events = msg.Events
		}
		s.selected = 0
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		case "w", "W":
			s.wrongOnly = !s.wrongOnly
			return s, s.Init()
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading answers...")
	}
	if len(s.events) == 0 {
		msg := "No answers yet."
		if s.wrongOnly {
			msg = "No wrong answers yet."
		}
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  " + msg)
	}

	var b strings.Builder
	b.WriteString("\n")

	// Keep the selected row visible.
	rows := max(height-2, 1)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(s.events))

	for i := start; i < end; i++ {
		e := s.events[i]
		mark := theme.Correct.Render("✓")
		if !e.Correct {
			mark = theme.Incorrect.Render("✗")
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-6s  %s  %s #%s  chose %s",
			prefix, e.Timestamp.Local().Format("15:04:05"), e.Mode, e.Exam, e.Subject, e.Number, e.Selected)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)+"  "+mark))
		b.WriteString("\n")
	}

	return b.String()
}
