package history

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examreview/internal/store"
)

func seededJournal(t *testing.T) store.EventRepo {
	t.Helper()
	st, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	repo := st.EventRepo()
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, a := range []struct {
		number  string
		correct bool
	}{{"1", true}, {"2", false}, {"3", true}} {
		err := repo.AppendAnswer(context.Background(), store.AnswerEventData{
			SessionID: "s1", Exam: "2023 Bank Exam", Subject: "Finance", Number: a.number,
			Mode: "test", Selected: "A", Correct: a.correct, Timestamp: ts.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("AppendAnswer: %v", err)
		}
	}
	return repo
}

func load(t *testing.T, s *HistoryScreen, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected load command")
	}
	s.Update(cmd())
}

func TestHistoryScreen_NewestFirst(t *testing.T) {
	s := New(seededJournal(t), "s1")
	load(t, s, s.Init())

	if len(s.events) != 3 {
		t.Fatalf("events = %d, want 3", len(s.events))
	}
	if s.events[0].Number != "3" || s.events[2].Number != "1" {
		t.Errorf("order = %s..%s, want 3..1", s.events[0].Number, s.events[2].Number)
	}
	view := s.View(120, 20)
	if !strings.Contains(view, "Finance #2") {
		t.Errorf("view missing answer row:\n%s", view)
	}
}

func TestHistoryScreen_KeepsLatestWhenOverLimit(t *testing.T) {
	st, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	repo := st.EventRepo()

	total := maxEvents + 10
	for i := 1; i <= total; i++ {
		err := repo.AppendAnswer(context.Background(), store.AnswerEventData{
			SessionID: "s1", Exam: "2023 Bank Exam", Subject: "Finance", Number: strconv.Itoa(i),
			Mode: "review", Selected: "B", Correct: i%2 == 0, Timestamp: time.Now(),
		})
		if err != nil {
			t.Fatalf("AppendAnswer %d: %v", i, err)
		}
	}

	s := New(repo, "s1")
	load(t, s, s.Init())

	if len(s.events) != maxEvents {
		t.Fatalf("events = %d, want %d", len(s.events), maxEvents)
	}
	if first := s.events[0].Number; first != strconv.Itoa(total) {
		t.Errorf("first row = #%s, want newest #%d", first, total)
	}
	if last := s.events[maxEvents-1].Number; last != "11" {
		t.Errorf("last row = #%s, want #11", last)
	}
}

func TestHistoryScreen_WrongOnlyToggle(t *testing.T) {
	s := New(seededJournal(t), "s1")
	load(t, s, s.Init())

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'w', Text: "w"})
	load(t, s, cmd)

	if len(s.events) != 1 || s.events[0].Number != "2" {
		t.Fatalf("wrong-only events = %+v, want only #2", s.events)
	}
	if hints := s.KeyHints(); hints[1].Description != "All answers" {
		t.Errorf("hint = %q, want %q", hints[1].Description, "All answers")
	}
}

func TestHistoryScreen_Navigation(t *testing.T) {
	s := New(seededJournal(t), "s1")
	load(t, s, s.Init())

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 2 {
		t.Errorf("selected = %d, want 2", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(nil, "s1")
	load(t, s, s.Init())
	if !strings.Contains(s.View(80, 20), "No answers yet.") {
		t.Error("expected empty message")
	}
}
