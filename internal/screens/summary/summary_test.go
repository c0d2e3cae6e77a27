package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examreview/internal/question"
	"github.com/abhisek/examreview/internal/review"
	"github.com/abhisek/examreview/internal/store"
)

func testData() Data {
	q := func(num, answer string) question.Question {
		return question.Question{Exam: "112年第1次", Subject: "證券投資", Number: num, Answer: answer}
	}
	return Data{
		Stats: review.Stats{Attempted: 3, Correct: 1, Incorrect: 2},
		Results: []review.TestResult{
			{Question: q("1", "A"), Selected: "A", Correct: true},
			{Question: q("2", "B"), Selected: "A"},
			{Question: q("3", "C"), Selected: "A"},
		},
		Breakdown: []store.SubjectAccuracy{
			{Subject: "證券投資", Attempted: 3, Correct: 1},
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testData())
	if s.Title() != "Test Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Test Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testData())
	view := s.View(100, 30)
	for _, want := range []string{"Correct: 1", "Incorrect: 2", "Accuracy: 33.33%", "#2", "#3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "#1 ") {
		t.Error("correct answers should not be listed as mistakes")
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyPressMsg
	}{
		{"enter", tea.KeyPressMsg{Code: tea.KeyEnter}},
		{"esc", tea.KeyPressMsg{Code: tea.KeyEscape}},
		{"restart", tea.KeyPressMsg{Code: 'r', Text: "r"}},
		{"review wrong", tea.KeyPressMsg{Code: 'w', Text: "w"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(testData())
			if _, cmd := s.Update(tt.key); cmd == nil {
				t.Errorf("expected a command on %s", tt.name)
			}
		})
	}

	s := New(testData())
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'z', Text: "z"}); cmd != nil {
		t.Error("unbound key should do nothing")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testData())
	hints := s.KeyHints()
	if len(hints) != 3 {
		t.Errorf("KeyHints length = %d, want 3", len(hints))
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("證券投資分析", 4); got != "證券投…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 12); got != "short" {
		t.Errorf("truncate = %q", got)
	}
}
