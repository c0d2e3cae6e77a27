// Package quiz is the main question screen: answering, navigation,
// annotations, filters and export.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/examreview/internal/export"
	"github.com/abhisek/examreview/internal/question"
	"github.com/abhisek/examreview/internal/review"
	"github.com/abhisek/examreview/internal/router"
	"github.com/abhisek/examreview/internal/screen"
	"github.com/abhisek/examreview/internal/screens/filters"
	"github.com/abhisek/examreview/internal/screens/history"
	"github.com/abhisek/examreview/internal/screens/summary"
	"github.com/abhisek/examreview/internal/store"
	"github.com/abhisek/examreview/internal/ui/components"
	"github.com/abhisek/examreview/internal/ui/layout"
)

// DefaultBannerDuration is used when Deps.BannerDuration is unset.
const DefaultBannerDuration = 2 * time.Second

// Deps are the collaborators of the quiz screen.
type Deps struct {
	Journal        store.EventRepo // optional answer journal
	Logger         *zap.Logger
	SessionID      string
	ExportPath     string
	BannerDuration time.Duration
	EssayType      string
	Review         review.Config
}

// inputMode is the prompt currently capturing keys.
type inputMode int

const (
	modeNone inputMode = iota
	modeTag
	modeNote
	modeSearch
	modePickRemove // choose which tag to remove
	modePickFilter // choose a tag to filter by
	modeConfirmRemove
)

// QuizScreen implements screen.Screen for the quiz.
type QuizScreen struct {
	sess       review.Session
	deps       Deps
	mode       inputMode
	input      components.TextInput
	pendingTag string
	banner     review.Notice
	bannerSeq  int
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)
var _ screen.InputCapturer = (*QuizScreen)(nil)

// New creates a QuizScreen over pool.
func New(pool *question.Pool, deps Deps) *QuizScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.BannerDuration <= 0 {
		deps.BannerDuration = DefaultBannerDuration
	}
	if deps.ExportPath == "" {
		deps.ExportPath = "exam-notes.csv"
	}
	return &QuizScreen{
		sess: review.NewSession(pool, deps.Review),
		deps: deps,
	}
}

// Session returns the current quiz state.
func (s *QuizScreen) Session() review.Session { return s.sess }

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) CapturingInput() bool {
	return s.mode != modeNone
}

func (s *QuizScreen) Status() layout.Status {
	st := s.sess.Stats()
	pos := 0
	if s.sess.Len() > 0 {
		pos = s.sess.Position() + 1
	}
	return layout.Status{
		Mode:      s.sess.Mode().String(),
		Position:  pos,
		Total:     s.sess.Len(),
		Correct:   st.Correct,
		Incorrect: st.Incorrect,
	}
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeTag, modeNote:
		return []layout.KeyHint{{Key: "Enter", Description: "Save"}, {Key: "Esc", Description: "Cancel"}}
	case modeSearch:
		return []layout.KeyHint{{Key: "Enter", Description: "Filter by first match"}, {Key: "Esc", Description: "Cancel"}}
	case modePickRemove, modePickFilter:
		return []layout.KeyHint{{Key: "1-9", Description: "Pick tag"}, {Key: "Esc", Description: "Cancel"}}
	case modeConfirmRemove:
		return []layout.KeyHint{{Key: "Y", Description: "Remove"}, {Key: "N", Description: "Keep"}}
	}
	if s.sess.Len() == 0 {
		return []layout.KeyHint{
			{Key: "F", Description: "Filters"},
			{Key: "V", Description: "Mode"},
			{Key: "/", Description: "Tags"},
		}
	}
	return []layout.KeyHint{
		{Key: "A-D", Description: "Answer"},
		{Key: "Space", Description: "Show"},
		{Key: "N/P", Description: "Next/Prev"},
		{Key: "M", Description: "Mark"},
		{Key: "T/X", Description: "Tag"},
		{Key: "E", Description: "Note"},
		{Key: "F", Description: "Filters"},
		{Key: "V", Description: "Mode"},
		{Key: "H", Description: "Log"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case bannerExpiredMsg:
		if msg.seq == s.bannerSeq {
			s.banner = review.Notice{}
		}
		return s, nil

	case filters.AppliedMsg:
		return s, s.applyFilter(msg.Filter)

	case summary.RestartMsg:
		return s, s.reset()

	case summary.ReviewWrongMsg:
		f := s.sess.Filter()
		f.Mode = review.ModeReview
		return s, s.applyFilter(f.WithWrongOnly(true))

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Forward to input if active.
	if s.mode == modeTag || s.mode == modeNote || s.mode == modeSearch {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.mode {
	case modeTag, modeNote, modeSearch:
		return s.handlePromptKey(msg)
	case modePickRemove, modePickFilter:
		return s, s.handlePickKey(key)
	case modeConfirmRemove:
		return s, s.handleConfirmKey(key)
	}

	switch key {
	case "a", "b", "c", "d", "A", "B", "C", "D":
		return s, s.choose(strings.ToUpper(key))
	case "1", "2", "3", "4":
		return s, s.choose(question.OptionLabels[key[0]-'1'])
	case "up", "down":
		return s, s.moveStaged(key)
	case "enter":
		return s, s.confirm()
	case "space":
		s.sess = s.sess.ToggleShowAnswer()
		return s, nil
	case "n", "right":
		return s, s.next()
	case "p", "left":
		s.sess = s.sess.Prev()
		return s, nil
	case "m":
		return s, s.apply(s.sess.ToggleMark())
	case "t":
		return s, s.openPrompt(modeTag)
	case "e":
		return s, s.openPrompt(modeNote)
	case "/":
		return s, s.openPrompt(modeSearch)
	case "x":
		return s, s.startPick(modePickRemove)
	case "g":
		if s.sess.Filter().Tag != "" {
			s.sess = s.sess.FilterByTag("")
			return s, s.notify(review.Notice{Kind: review.NoticeInfo, Text: "Tag filter cleared"})
		}
		return s, s.startPick(modePickFilter)
	case "f":
		scr := filters.New(s.sess.Filter(), s.sess.Options(), s.sess.Annotations().Vocabulary())
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
	case "w", "k":
		f := s.sess.Filter()
		if f.Mode != review.ModeReview {
			return s, s.notify(review.Notice{Kind: review.NoticeRejected, Text: "Wrong-only and marked-only apply in review mode (press v)"})
		}
		if key == "w" {
			f = f.WithWrongOnly(!f.WrongOnly)
		} else {
			f = f.WithMarkedOnly(!f.MarkedOnly)
		}
		return s, s.applyFilter(f)
	case "v":
		f := s.sess.Filter()
		if f.Mode == review.ModeReview {
			f.Mode = review.ModeTest
		} else {
			f.Mode = review.ModeReview
		}
		return s, s.applyFilter(f)
	case "r":
		return s, s.reset()
	case "h":
		scr := history.New(s.deps.Journal, s.deps.SessionID)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
	case "ctrl+e":
		return s, s.export()
	}
	return s, nil
}

// --- answering ---

func (s *QuizScreen) choose(label string) tea.Cmd {
	return s.answer(label, func() (review.Session, review.Notice, error) {
		return s.sess.Choose(label)
	})
}

func (s *QuizScreen) confirm() tea.Cmd {
	staged := s.sess.View().Staged
	return s.answer(staged, s.sess.Confirm)
}

// answer runs an answering reducer and journals the answer if one was
// recorded.
func (s *QuizScreen) answer(selected string, act func() (review.Session, review.Notice, error)) tea.Cmd {
	q, qerr := s.sess.Current()
	if qerr == nil && s.isEssay(q) {
		return s.apply(s.sess, review.Notice{}, review.ErrNotAnswerable)
	}
	before := s.sess.Stats().Attempted

	next, n, err := act()
	cmd := s.apply(next, n, err)
	if qerr != nil || next.Stats().Attempted == before {
		return cmd
	}

	correct := n.Kind == review.NoticeCorrect
	s.deps.Logger.Info("answer",
		zap.String("question", q.ID().String()),
		zap.String("selected", selected),
		zap.Bool("correct", correct),
		zap.String("mode", string(s.sess.Mode())))
	s.journalAnswer(q, selected, correct)
	return cmd
}

func (s *QuizScreen) moveStaged(key string) tea.Cmd {
	q, err := s.sess.Current()
	if err != nil || s.sess.View().Answered || s.isEssay(q) {
		return nil
	}
	delta := 1
	if key == "up" {
		delta = -1
	}
	label := s.optionList(q).Move(delta)
	if label == "" || label == s.sess.View().Staged {
		return nil
	}
	return s.apply(s.sess.Choose(label))
}

func (s *QuizScreen) next() tea.Cmd {
	next, n := s.sess.Next()
	s.sess = next
	if n.Kind != review.NoticeQuizComplete {
		return nil
	}

	s.deps.Logger.Info("test complete",
		zap.Int("correct", next.Stats().Correct),
		zap.Int("incorrect", next.Stats().Incorrect))
	data := summary.Data{
		Stats:     next.Stats(),
		Results:   next.Results(),
		Breakdown: s.breakdown(),
	}
	scr := summary.New(data)
	return tea.Batch(
		s.notify(n),
		func() tea.Msg { return router.PushScreenMsg{Screen: scr} },
	)
}

// --- filters ---

func (s *QuizScreen) applyFilter(f review.Filter) tea.Cmd {
	prev := s.sess
	s.sess = prev.Apply(f)
	if s.sess.Mode() != prev.Mode() {
		s.journalReset(prev)
	}
	s.deps.Logger.Debug("filter applied",
		zap.String("mode", string(s.sess.Mode())),
		zap.String("exam", f.Exam),
		zap.String("subject", f.Subject),
		zap.String("type", f.Type),
		zap.String("tag", f.Tag),
		zap.Int("selected", s.sess.Len()))

	if s.sess.Len() == 0 {
		return s.notify(review.Notice{Kind: review.NoticeRejected, Text: "No questions match these filters"})
	}
	return s.notify(review.Notice{Kind: review.NoticeInfo, Text: fmt.Sprintf("%s mode: %d questions", s.sess.Mode(), s.sess.Len())})
}

func (s *QuizScreen) reset() tea.Cmd {
	prev := s.sess
	s.sess = prev.Reset()
	s.journalReset(prev)
	return s.notify(review.Notice{Kind: review.NoticeInfo, Text: "Quiz reset"})
}

// --- prompts ---

func (s *QuizScreen) openPrompt(mode inputMode) tea.Cmd {
	q, err := s.sess.Current()
	if err != nil && mode != modeSearch {
		return s.apply(s.sess, review.Notice{}, err)
	}

	switch mode {
	case modeTag:
		s.input = components.NewTextInput("Add tag", "e.g. 利率", 40).
			WithSuggestions(s.sess.Annotations().Vocabulary())
	case modeNote:
		s.input = components.NewTextInput("Note (empty removes it)", "", 0).
			WithValue(s.sess.Annotations().Note(q.ID()))
	case modeSearch:
		s.input = components.NewTextInput("Search tags", "type to filter, enter to apply", 40)
	}
	s.mode = mode
	return s.input.Init()
}

func (s *QuizScreen) handlePromptKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.mode = modeNone
		return s, nil
	case "enter":
		mode, value := s.mode, s.input.Value()
		s.mode = modeNone
		switch mode {
		case modeTag:
			return s, s.apply(s.sess.AddTag(value))
		case modeNote:
			return s, s.apply(s.sess.SetNote(value))
		case modeSearch:
			return s, s.filterBySearch(value)
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// searchMatches returns the vocabulary entries matching the search prompt.
func (s *QuizScreen) searchMatches() []string {
	return s.sess.Annotations().SearchTags(s.input.Value())
}

func (s *QuizScreen) filterBySearch(query string) tea.Cmd {
	if query == "" {
		s.sess = s.sess.FilterByTag("")
		return s.notify(review.Notice{Kind: review.NoticeInfo, Text: "Tag filter cleared"})
	}
	matches := s.sess.Annotations().SearchTags(query)
	if len(matches) == 0 {
		return s.notify(review.Notice{Kind: review.NoticeRejected, Text: fmt.Sprintf("No tag matches %q", query)})
	}
	s.sess = s.sess.FilterByTag(matches[0])
	return s.notify(review.Notice{Kind: review.NoticeInfo, Text: fmt.Sprintf("Filtering by #%s: %d questions", matches[0], s.sess.Len())})
}

// currentTags returns the tags of the current question.
func (s *QuizScreen) currentTags() []string {
	q, err := s.sess.Current()
	if err != nil {
		return nil
	}
	return s.sess.Annotations().Tags(q.ID())
}

func (s *QuizScreen) startPick(mode inputMode) tea.Cmd {
	if _, err := s.sess.Current(); err != nil {
		return s.apply(s.sess, review.Notice{}, err)
	}
	tags := s.currentTags()
	switch {
	case len(tags) == 0:
		return s.notify(review.Notice{Kind: review.NoticeRejected, Text: "This question has no tags"})
	case len(tags) == 1:
		return s.pickTag(mode, tags[0])
	}
	s.mode = mode
	return nil
}

func (s *QuizScreen) handlePickKey(key string) tea.Cmd {
	if key == "esc" || key == "n" {
		s.mode = modeNone
		return nil
	}
	tags := s.currentTags()
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		if i := int(key[0] - '1'); i < len(tags) {
			mode := s.mode
			s.mode = modeNone
			return s.pickTag(mode, tags[i])
		}
	}
	return nil
}

func (s *QuizScreen) pickTag(mode inputMode, tag string) tea.Cmd {
	if mode == modePickFilter {
		s.mode = modeNone
		s.sess = s.sess.FilterByTag(tag)
		return s.notify(review.Notice{Kind: review.NoticeInfo, Text: fmt.Sprintf("Filtering by #%s: %d questions", tag, s.sess.Len())})
	}
	// Removal needs an explicit yes.
	_, _, err := s.sess.RemoveTag(tag, false)
	if !errors.Is(err, review.ErrConfirmationRequired) {
		return s.apply(s.sess, review.Notice{}, err)
	}
	s.pendingTag = tag
	s.mode = modeConfirmRemove
	return nil
}

func (s *QuizScreen) handleConfirmKey(key string) tea.Cmd {
	switch key {
	case "y", "Y":
		tag := s.pendingTag
		s.mode, s.pendingTag = modeNone, ""
		return s.apply(s.sess.RemoveTag(tag, true))
	case "n", "N", "esc":
		s.mode, s.pendingTag = modeNone, ""
	}
	return nil
}

// --- export ---

func (s *QuizScreen) export() tea.Cmd {
	path := s.deps.ExportPath
	n, err := export.WriteFile(path, s.sess)
	switch {
	case errors.Is(err, export.ErrNothingToExport):
		return s.notify(review.Notice{Kind: review.NoticeNothingToExport, Text: "No notes to export"})
	case err != nil:
		s.deps.Logger.Error("export notes", zap.String("path", path), zap.Error(err))
		return s.notify(review.Notice{Kind: review.NoticeRejected, Text: fmt.Sprintf("Export failed: %v", err)})
	}
	s.deps.Logger.Info("notes exported", zap.String("path", path), zap.Int("rows", n))
	return s.notify(review.Notice{Kind: review.NoticeExported, Text: fmt.Sprintf("Exported %d notes to %s", n, path)})
}

// --- plumbing ---

// apply installs the result of a reducer and shows its notice. Rejected
// reducers leave the session as it was.
func (s *QuizScreen) apply(next review.Session, n review.Notice, err error) tea.Cmd {
	s.sess = next
	if err != nil {
		s.deps.Logger.Debug("action rejected", zap.Error(err))
		if n.IsZero() {
			n = review.Notice{Kind: review.NoticeRejected, Text: err.Error()}
		}
	}
	return s.notify(n)
}

// notify shows n as a timed banner.
func (s *QuizScreen) notify(n review.Notice) tea.Cmd {
	if n.Text == "" {
		return nil
	}
	s.banner = n
	s.bannerSeq++
	seq := s.bannerSeq
	return tea.Tick(s.deps.BannerDuration, func(time.Time) tea.Msg {
		return bannerExpiredMsg{seq: seq}
	})
}

func (s *QuizScreen) journalAnswer(q question.Question, selected string, correct bool) {
	if s.deps.Journal == nil {
		return
	}
	err := s.deps.Journal.AppendAnswer(context.Background(), store.AnswerEventData{
		SessionID: s.deps.SessionID,
		Exam:      q.Exam,
		Subject:   q.Subject,
		Number:    q.Number,
		Mode:      string(s.sess.Mode()),
		Selected:  selected,
		Correct:   correct,
		Timestamp: time.Now(),
	})
	if err != nil {
		s.deps.Logger.Warn("journal answer", zap.Error(err))
	}
}

func (s *QuizScreen) journalReset(prev review.Session) {
	if s.deps.Journal == nil {
		return
	}
	st := prev.Stats()
	err := s.deps.Journal.AppendReset(context.Background(), store.ResetEventData{
		SessionID: s.deps.SessionID,
		Mode:      string(prev.Mode()),
		Attempted: st.Attempted,
		Correct:   st.Correct,
		Timestamp: time.Now(),
	})
	if err != nil {
		s.deps.Logger.Warn("journal reset", zap.Error(err))
	}
}

func (s *QuizScreen) breakdown() []store.SubjectAccuracy {
	if s.deps.Journal == nil {
		return nil
	}
	out, err := s.deps.Journal.SubjectBreakdown(context.Background(), s.deps.SessionID)
	if err != nil {
		s.deps.Logger.Warn("subject breakdown", zap.Error(err))
		return nil
	}
	return out
}
