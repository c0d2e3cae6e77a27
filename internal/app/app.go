package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/examreview/internal/question"
	"github.com/abhisek/examreview/internal/router"
	"github.com/abhisek/examreview/internal/screen"
	"github.com/abhisek/examreview/internal/screens/loading"
	"github.com/abhisek/examreview/internal/screens/quiz"
	"github.com/abhisek/examreview/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	QuestionsPath string
	Quiz          quiz.Deps
	Logger        *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel that starts by loading the question bank.
func newAppModel(opts Options) AppModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Quiz.Logger == nil {
		opts.Quiz.Logger = log
	}
	next := func(pool *question.Pool) screen.Screen {
		return quiz.New(pool, opts.Quiz)
	}
	return AppModel{
		router: router.New(loading.New(opts.QuestionsPath, next, log)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if ic, ok := m.router.Active().(screen.InputCapturer); ok && ic.CapturingInput() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	var status layout.Status
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	}
	if m.router.Depth() > 1 {
		footerHints = append(footerHints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// failedScreen is implemented by screens that end the program on a fatal
// error, such as a question bank that could not be loaded.
type failedScreen interface {
	Err() error
}

// exitErr returns the fatal error left on the active screen of the final
// model, if any.
func exitErr(final tea.Model) error {
	m, ok := final.(AppModel)
	if !ok {
		return nil
	}
	if fs, ok := m.router.Active().(failedScreen); ok {
		return fs.Err()
	}
	return nil
}

// Run starts the Bubble Tea program. It returns the load error when the
// question bank could not be read.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	final, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return exitErr(final)
}
