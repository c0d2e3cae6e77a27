// Package loading reads the question bank and hands over to the quiz.
package loading

import (
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/examreview/internal/question"
	"github.com/abhisek/examreview/internal/router"
	"github.com/abhisek/examreview/internal/screen"
	"github.com/abhisek/examreview/internal/ui/layout"
	"github.com/abhisek/examreview/internal/ui/theme"
)

// loadedMsg carries the result of the one-shot load.
type loadedMsg struct {
	Pool *question.Pool
	Err  error
}

// Next builds the screen shown once the bank is loaded.
type Next func(pool *question.Pool) screen.Screen

// LoadingScreen loads the question bank once; there is no retry.
type LoadingScreen struct {
	path string
	next Next
	log  *zap.Logger
	err  error
}

var _ screen.Screen = (*LoadingScreen)(nil)
var _ screen.KeyHintProvider = (*LoadingScreen)(nil)

// New creates a LoadingScreen for the CSV at path.
func New(path string, next Next, log *zap.Logger) *LoadingScreen {
	return &LoadingScreen{path: path, next: next, log: log}
}

func (s *LoadingScreen) Init() tea.Cmd {
	path := s.path
	return func() tea.Msg {
		pool, err := question.LoadFile(path)
		return loadedMsg{Pool: pool, Err: err}
	}
}

// Err returns the load failure, or nil while loading or after success.
func (s *LoadingScreen) Err() error {
	return s.err
}

func (s *LoadingScreen) Title() string {
	return "Loading"
}

func (s *LoadingScreen) KeyHints() []layout.KeyHint {
	if s.err != nil {
		return []layout.KeyHint{{Key: "any key", Description: "Quit"}}
	}
	return nil
}

func (s *LoadingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			s.err = msg.Err
			s.log.Error("load question bank", zap.String("path", s.path), zap.Error(msg.Err))
			return s, nil
		}
		s.log.Info("question bank loaded",
			zap.String("path", s.path),
			zap.Int("questions", msg.Pool.Len()))
		next := s.next(msg.Pool)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if s.err != nil {
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *LoadingScreen) View(width, height int) string {
	if s.err == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("\n\n\n  Loading %s...", s.path))
	}

	text := fmt.Sprintf("Could not load questions: %v", s.err)
	if errors.Is(s.err, question.ErrNoQuestions) {
		text = fmt.Sprintf("No questions loaded from %s.", s.path)
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("\n\n\n" + text + "\n\n  Press any key to quit.")
}
