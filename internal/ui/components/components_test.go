package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestMultiChoiceMove(t *testing.T) {
	mc := MultiChoice{Labels: []string{"A", "B", "C", "D"}}

	tests := []struct {
		staged string
		delta  int
		want   string
	}{
		{"", 1, "A"},
		{"A", 1, "B"},
		{"D", 1, "A"},
		{"A", -1, "D"},
		{"C", -1, "B"},
	}
	for _, tt := range tests {
		mc.Staged = tt.staged
		if got := mc.Move(tt.delta); got != tt.want {
			t.Errorf("Move(%d) from %q = %q, want %q", tt.delta, tt.staged, got, tt.want)
		}
	}

	if got := (MultiChoice{}).Move(1); got != "" {
		t.Errorf("Move on empty = %q, want empty", got)
	}
}

func TestMultiChoiceViewMarksStaged(t *testing.T) {
	mc := MultiChoice{
		Labels:  []string{"A", "B"},
		Options: []string{"alpha", "beta"},
		Correct: "A",
		Staged:  "B",
	}
	view := mc.View()
	if !strings.Contains(view, "▸ B)") {
		t.Errorf("view = %q, want staged marker on B", view)
	}

	mc.Chosen = "B"
	if strings.Contains(mc.View(), "▸") {
		t.Error("staged marker should disappear once answered")
	}
}

func TestMenuNavigationSkipsDisabled(t *testing.T) {
	var picked string
	m := NewMenu([]MenuItem{
		{Label: "one", Disabled: true},
		{Label: "two", Action: func() tea.Cmd { picked = "two"; return nil }},
		{Label: "three", Disabled: true},
		{Label: "four", Action: func() tea.Cmd { picked = "four"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("Selected after down = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if picked != "four" {
		t.Errorf("picked = %q, want %q", picked, "four")
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("Selected after up = %d, want 1", m.Selected)
	}
}

func TestMenuViewScrolls(t *testing.T) {
	items := make([]MenuItem, 10)
	for i := range items {
		items[i] = MenuItem{Label: string(rune('a' + i))}
	}
	m := NewMenu(items)
	m.Selected = 9

	lines := strings.Split(strings.TrimRight(m.View(3), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("rendered %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[2], "j") {
		t.Errorf("last line = %q, want selected item j", lines[2])
	}
}

func TestChips(t *testing.T) {
	out := Chips([]string{"bonds", "rates"}, "rates")
	if !strings.Contains(out, "#bonds") || !strings.Contains(out, "#rates") {
		t.Errorf("Chips = %q", out)
	}
	if Chips(nil, "") != "" {
		t.Error("Chips(nil) should be empty")
	}
}
