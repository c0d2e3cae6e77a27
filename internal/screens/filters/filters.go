// Package filters lets the user edit the quiz filter from menus built
// out of the question bank's own values.
package filters

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examreview/internal/question"
	"github.com/abhisek/examreview/internal/review"
	"github.com/abhisek/examreview/internal/router"
	"github.com/abhisek/examreview/internal/screen"
	"github.com/abhisek/examreview/internal/ui/components"
	"github.com/abhisek/examreview/internal/ui/layout"
	"github.com/abhisek/examreview/internal/ui/theme"
)

// AppliedMsg is sent to the quiz once the screen is popped.
type AppliedMsg struct {
	Filter review.Filter
}

type field int

const (
	fieldNone field = iota
	fieldExam
	fieldSubject
	fieldType
	fieldTag
)

func (f field) String() string {
	switch f {
	case fieldExam:
		return "Exam"
	case fieldSubject:
		return "Subject"
	case fieldType:
		return "Type"
	case fieldTag:
		return "Tag"
	}
	return ""
}

// FiltersScreen edits a copy of the filter; nothing reaches the quiz until
// Apply is chosen.
type FiltersScreen struct {
	filter  review.Filter
	facets  question.Facets
	tags    []string
	menu    components.Menu
	picking field
	picker  components.Menu
}

var _ screen.Screen = (*FiltersScreen)(nil)
var _ screen.KeyHintProvider = (*FiltersScreen)(nil)
var _ screen.InputCapturer = (*FiltersScreen)(nil)

// New creates a FiltersScreen starting from f.
func New(f review.Filter, facets question.Facets, tags []string) *FiltersScreen {
	s := &FiltersScreen{filter: f, facets: facets, tags: tags}
	s.menu = s.buildMenu(0)
	return s
}

// Filter returns the filter being edited.
func (s *FiltersScreen) Filter() review.Filter { return s.filter }

func (s *FiltersScreen) Init() tea.Cmd { return nil }

func (s *FiltersScreen) Title() string { return "Filters" }

func (s *FiltersScreen) CapturingInput() bool { return s.picking != fieldNone }

func (s *FiltersScreen) KeyHints() []layout.KeyHint {
	if s.picking != fieldNone {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Choose"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Change"},
	}
}

func (s *FiltersScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	var cmd tea.Cmd
	switch {
	case s.picking != fieldNone && kmsg.String() == "esc":
		s.picking = fieldNone
	case s.picking != fieldNone:
		s.picker, cmd = s.picker.Update(msg)
	default:
		s.menu, cmd = s.menu.Update(msg)
	}
	// Menu actions edit s.filter; rebuild so the details follow.
	s.menu = s.buildMenu(s.menu.Selected)
	return s, cmd
}

func (s *FiltersScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("Choose questions"))
	b.WriteString("\n\n")

	var body string
	if s.picking != fieldNone {
		body = theme.Subtitle.Render(s.picking.String()) + "\n\n" + s.picker.View(height-6)
	} else {
		body = s.menu.View(height - 4)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, body))
	return b.String()
}

// --- menus ---

func (s *FiltersScreen) buildMenu(selected int) components.Menu {
	f := s.filter
	inReview := f.Mode == review.ModeReview
	items := []components.MenuItem{
		{Label: "Mode", Detail: f.Mode.String(), Action: s.toggleMode},
		{Label: "Exam", Detail: orAll(f.Exam), Action: s.openPicker(fieldExam)},
		{Label: "Subject", Detail: orAll(f.Subject), Action: s.openPicker(fieldSubject)},
		{Label: "Type", Detail: orAll(f.Type), Action: s.openPicker(fieldType)},
		{Label: "Tag", Detail: orAll(f.Tag), Action: s.openPicker(fieldTag), Disabled: len(s.tags) == 0 && f.Tag == ""},
		{Label: "Wrong only", Detail: onOff(f.WrongOnly), Action: s.toggleWrongOnly, Disabled: !inReview},
		{Label: "Marked only", Detail: onOff(f.MarkedOnly), Action: s.toggleMarkedOnly, Disabled: !inReview},
		{Label: "Clear criteria", Action: s.clear},
		{Label: "Apply", Action: s.apply},
	}
	m := components.NewMenu(items)
	if selected >= 0 && selected < len(items) && !items[selected].Disabled {
		m.Selected = selected
	}
	return m
}

func (s *FiltersScreen) toggleMode() tea.Cmd {
	if s.filter.Mode == review.ModeReview {
		s.filter.Mode = review.ModeTest
	} else {
		s.filter.Mode = review.ModeReview
	}
	return nil
}

func (s *FiltersScreen) toggleWrongOnly() tea.Cmd {
	s.filter = s.filter.WithWrongOnly(!s.filter.WrongOnly)
	return nil
}

func (s *FiltersScreen) toggleMarkedOnly() tea.Cmd {
	s.filter = s.filter.WithMarkedOnly(!s.filter.MarkedOnly)
	return nil
}

func (s *FiltersScreen) clear() tea.Cmd {
	s.filter.Exam, s.filter.Subject, s.filter.Type, s.filter.Tag = "", "", "", ""
	return nil
}

func (s *FiltersScreen) apply() tea.Cmd {
	f := s.filter
	return tea.Sequence(
		func() tea.Msg { return router.PopScreenMsg{} },
		func() tea.Msg { return AppliedMsg{Filter: f} },
	)
}

func (s *FiltersScreen) openPicker(fd field) func() tea.Cmd {
	return func() tea.Cmd {
		values, current := s.choices(fd)
		items := []components.MenuItem{{Label: "All", Action: s.pick(fd, "")}}
		selected := 0
		for i, v := range values {
			items = append(items, components.MenuItem{Label: v, Action: s.pick(fd, v)})
			if v == current {
				selected = i + 1
			}
		}
		s.picker = components.NewMenu(items)
		s.picker.Selected = selected
		s.picking = fd
		return nil
	}
}

func (s *FiltersScreen) choices(fd field) (values []string, current string) {
	switch fd {
	case fieldExam:
		return s.facets.Exams, s.filter.Exam
	case fieldSubject:
		return s.facets.Subjects, s.filter.Subject
	case fieldType:
		return s.facets.Types, s.filter.Type
	case fieldTag:
		return s.tags, s.filter.Tag
	}
	return nil, ""
}

func (s *FiltersScreen) pick(fd field, v string) func() tea.Cmd {
	return func() tea.Cmd {
		switch fd {
		case fieldExam:
			s.filter.Exam = v
		case fieldSubject:
			s.filter.Subject = v
		case fieldType:
			s.filter.Type = v
		case fieldTag:
			s.filter.Tag = v
		}
		s.picking = fieldNone
		return nil
	}
}

func orAll(v string) string {
	if v == "" {
		return "All"
	}
	return v
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
