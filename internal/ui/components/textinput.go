package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examreview/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label line, for tag, note and
// search entry.
type TextInput struct {
	Model textinput.Model
	Label string
}

// NewTextInput creates a focused text input. charLimit <= 0 means no limit.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()

	return TextInput{
		Model: ti,
		Label: label,
	}
}

// WithSuggestions enables tab completion from suggestions.
func (t TextInput) WithSuggestions(suggestions []string) TextInput {
	t.Model.ShowSuggestions = len(suggestions) > 0
	t.Model.SetSuggestions(suggestions)
	return t
}

// WithValue pre-fills the input and moves the cursor to the end.
func (t TextInput) WithValue(v string) TextInput {
	t.Model.SetValue(v)
	t.Model.CursorEnd()
	return t
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label above the input.
func (t TextInput) View() string {
	if t.Label == "" {
		return t.Model.View()
	}
	label := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(t.Label)
	return label + "\n" + t.Model.View()
}

// Value returns the current input value with surrounding space removed.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}
