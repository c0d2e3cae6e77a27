package review

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/examreview/internal/question"
)

// Config configures a new Session.
type Config struct {
	// DefaultType is the question-type filter applied at start.
	DefaultType string

	// Now supplies timestamps for wrong attempts. Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the configuration used for the original exam data.
func DefaultConfig() Config {
	return Config{
		DefaultType: "選擇題",
		Now:         time.Now,
	}
}

// ViewState is the transient state of the question currently on screen.
// It returns to its zero value whenever the cursor moves.
type ViewState struct {
	Staged     string // option label chosen but not yet confirmed
	Answered   bool
	Correct    bool
	ShowAnswer bool
}

// Session is the complete quiz state. It is a value: every operation
// returns a new Session and never modifies the receiver, so a Session can
// be kept as a snapshot and compared in tests.
type Session struct {
	pool    *question.Pool
	now     func() time.Time
	filter  Filter
	working []question.Question
	cursor  int
	view    ViewState
	stats   Stats
	results []TestResult
	ann     Annotations
}

// NewSession creates a test-mode session over pool.
func NewSession(pool *question.Pool, cfg Config) Session {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := Session{
		pool:   pool,
		now:    cfg.Now,
		filter: Filter{Type: cfg.DefaultType, Mode: ModeTest},
	}
	return s.rederive(true)
}

// Pool returns the underlying question pool.
func (s Session) Pool() *question.Pool { return s.pool }

// Options returns the distinct exams, subjects and types in the pool, for
// building filter choices.
func (s Session) Options() question.Facets {
	if s.pool == nil {
		return question.Facets{}
	}
	return s.pool.Facets()
}

// Filter returns the active filter.
func (s Session) Filter() Filter { return s.filter }

// Mode returns the active mode.
func (s Session) Mode() Mode { return s.filter.Mode }

// Len returns the size of the working set.
func (s Session) Len() int { return len(s.working) }

// Position returns the cursor index into the working set.
func (s Session) Position() int { return s.cursor }

// View returns the transient state of the current question.
func (s Session) View() ViewState { return s.view }

// Stats returns the session counters.
func (s Session) Stats() Stats { return s.stats }

// Results returns the test-mode answer log.
func (s Session) Results() []TestResult { return slices.Clone(s.results) }

// Annotations returns the per-question annotation tables.
func (s Session) Annotations() Annotations { return s.ann }

// Working returns a copy of the working set.
func (s Session) Working() []question.Question { return slices.Clone(s.working) }

// Current returns the question under the cursor, or ErrEmptySelection.
func (s Session) Current() (question.Question, error) {
	if s.cursor < 0 || s.cursor >= len(s.working) {
		return question.Question{}, ErrEmptySelection
	}
	return s.working[s.cursor], nil
}

// WrongQuestions returns the questions ever answered incorrectly.
func (s Session) WrongQuestions() []question.Question {
	var out []question.Question
	for _, id := range s.ann.wrong {
		if q, ok := s.pool.Lookup(id); ok {
			out = append(out, q)
		}
	}
	return out
}

// --- filter edits ---

// SetFilter replaces the exam, subject, type and tag criteria. Mode and
// review sub-filters are kept; use SetMode, SetWrongOnly and SetMarkedOnly.
func (s Session) SetFilter(f Filter) Session {
	s.filter.Exam = f.Exam
	s.filter.Subject = f.Subject
	s.filter.Type = f.Type
	s.filter.Tag = f.Tag
	return s.rederive(true)
}

// FilterByTag restricts the working set to questions carrying tag.
// An empty tag clears the tag filter.
func (s Session) FilterByTag(tag string) Session {
	s.filter.Tag = tag
	return s.rederive(true)
}

// SetWrongOnly toggles the wrong-only review sub-filter.
func (s Session) SetWrongOnly(on bool) Session {
	s.filter = s.filter.WithWrongOnly(on)
	return s.rederive(true)
}

// SetMarkedOnly toggles the marked-only review sub-filter.
func (s Session) SetMarkedOnly(on bool) Session {
	s.filter = s.filter.WithMarkedOnly(on)
	return s.rederive(true)
}

// Apply replaces the whole filter at once. A mode change resets the quiz
// as SetMode does.
func (s Session) Apply(f Filter) Session {
	f = f.normalized()
	if f.Mode != s.filter.Mode {
		s = s.Reset()
	}
	s.filter = f
	return s.rederive(true)
}

// SetMode switches between test and review mode and resets the quiz.
func (s Session) SetMode(m Mode) Session {
	s.filter.Mode = m
	return s.Reset().rederive(true)
}

// Reset zeroes the session counters and the test log and moves to the
// first question. Annotations are kept.
func (s Session) Reset() Session {
	s.cursor = 0
	s.view = ViewState{}
	s.stats = Stats{}
	s.results = nil
	return s
}

// --- navigation ---

// Next advances the cursor. On the last question in test mode it returns a
// completion notice instead.
func (s Session) Next() (Session, Notice) {
	if s.cursor < len(s.working)-1 {
		s.cursor++
		s.view = ViewState{}
		return s, Notice{}
	}
	if s.filter.Mode == ModeTest && len(s.working) > 0 {
		return s, completeNotice(s.stats)
	}
	return s, Notice{}
}

// Prev moves the cursor back one question.
func (s Session) Prev() Session {
	if s.cursor > 0 {
		s.cursor--
		s.view = ViewState{}
	}
	return s
}

// IsLast reports whether the cursor is on the final question.
func (s Session) IsLast() bool {
	return len(s.working) > 0 && s.cursor == len(s.working)-1
}

// --- answering ---

// Choose stages an option. Choosing the staged option again confirms it.
func (s Session) Choose(label string) (Session, Notice, error) {
	q, err := s.Current()
	if err != nil {
		return s, Notice{}, err
	}
	if s.view.Answered {
		return s, rejected(ErrAlreadyAnswered), ErrAlreadyAnswered
	}
	if s.view.ShowAnswer {
		return s, rejected(ErrAnswerRevealed), ErrAnswerRevealed
	}
	if len(q.Choices()) == 0 {
		return s, rejected(ErrNotAnswerable), ErrNotAnswerable
	}
	if !q.HasOption(label) {
		return s, rejected(ErrUnknownOption), ErrUnknownOption
	}
	if s.view.Staged == label {
		return s.Confirm()
	}
	s.view.Staged = label
	return s, Notice{}, nil
}

// Confirm records the staged choice as the answer to the current question.
// It is valid once per view; repeated calls return ErrAlreadyAnswered and
// change nothing.
func (s Session) Confirm() (Session, Notice, error) {
	q, err := s.Current()
	if err != nil {
		return s, Notice{}, err
	}
	switch {
	case s.view.Answered:
		return s, rejected(ErrAlreadyAnswered), ErrAlreadyAnswered
	case s.view.ShowAnswer:
		return s, rejected(ErrAnswerRevealed), ErrAnswerRevealed
	case s.view.Staged == "":
		return s, rejected(ErrNoChoice), ErrNoChoice
	}

	correct := s.view.Staged == q.Answer
	s.stats = s.stats.record(correct)
	if !correct {
		s.ann = s.ann.recordWrong(q.ID(), s.now())
	}
	if s.filter.Mode == ModeTest {
		s.results = append(slices.Clip(s.results), TestResult{
			Question: q,
			Selected: s.view.Staged,
			Correct:  correct,
		})
	}

	s.view.Answered = true
	s.view.Correct = correct
	s.view.ShowAnswer = true

	if s.filter.Mode == ModeReview {
		s = s.follow(q.ID())
	}
	return s, answerNotice(correct), nil
}

// ToggleShowAnswer reveals or hides the correct answer.
func (s Session) ToggleShowAnswer() Session {
	if _, err := s.Current(); err != nil {
		return s
	}
	s.view.ShowAnswer = !s.view.ShowAnswer
	return s
}

// --- annotations ---

// ToggleMark flips the "don't know" mark on the current question.
func (s Session) ToggleMark() (Session, Notice, error) {
	q, err := s.Current()
	if err != nil {
		return s, Notice{}, err
	}
	var marked bool
	s.ann, marked = s.ann.toggleMark(q.ID())
	if s.filter.Mode == ModeReview {
		s = s.follow(q.ID())
	}
	if marked {
		return s, Notice{Kind: NoticeMarked, Text: `Marked as "don't know"`}, nil
	}
	return s, Notice{Kind: NoticeUnmarked, Text: `Removed "don't know" mark`}, nil
}

// SetNote replaces the note on the current question. Empty text removes it.
func (s Session) SetNote(text string) (Session, Notice, error) {
	q, err := s.Current()
	if err != nil {
		return s, Notice{}, err
	}
	s.ann = s.ann.setNote(q.ID(), text)
	return s, Notice{Kind: NoticeNoteSaved, Text: "Note saved"}, nil
}

// AddTag attaches a tag to the current question.
func (s Session) AddTag(tag string) (Session, Notice, error) {
	q, err := s.Current()
	if err != nil {
		return s, Notice{}, err
	}
	tag = strings.TrimSpace(tag)
	ann, err := s.ann.addTag(q.ID(), tag)
	switch {
	case errors.Is(err, ErrDuplicateTag):
		return s, Notice{Kind: NoticeTagExists, Text: "This tag already exists"}, err
	case err != nil:
		return s, Notice{Kind: NoticeInvalidTag, Text: "Tag cannot be blank"}, err
	}
	s.ann = ann
	if s.filter.Tag != "" {
		s = s.follow(q.ID())
	}
	return s, Notice{Kind: NoticeTagAdded, Text: fmt.Sprintf("Tag %q added", tag)}, nil
}

// RemoveTag detaches a tag from the current question. The caller must pass
// confirmed=true once the user has acknowledged the removal; otherwise
// ErrConfirmationRequired is returned and nothing changes. When the last
// holder of a tag loses it, the tag leaves the vocabulary and an active
// tag filter on it is cleared.
func (s Session) RemoveTag(tag string, confirmed bool) (Session, Notice, error) {
	q, err := s.Current()
	if err != nil {
		return s, Notice{}, err
	}
	if !s.ann.HasTag(q.ID(), tag) {
		return s, rejected(ErrUnknownTag), ErrUnknownTag
	}
	if !confirmed {
		return s, Notice{}, ErrConfirmationRequired
	}

	ann, dropped, err := s.ann.removeTag(q.ID(), tag)
	if err != nil {
		return s, rejected(err), err
	}
	s.ann = ann
	notice := Notice{Kind: NoticeTagRemoved, Text: fmt.Sprintf("Tag %q removed", tag)}

	switch {
	case dropped && s.filter.Tag == tag:
		s.filter.Tag = ""
		s = s.rederive(true)
	case s.filter.Tag != "":
		s = s.follow(q.ID())
	}
	return s, notice, nil
}

// --- derivation ---

// rederive rebuilds the working set after a filter edit. Outside test mode
// the cursor returns to the first question; in test mode it is kept unless
// it falls out of range.
func (s Session) rederive(filterEdit bool) Session {
	var all []question.Question
	if s.pool != nil {
		all = s.pool.All()
	}
	s.working = Select(all, s.filter, s.ann)
	if filterEdit {
		s.view = ViewState{}
		if s.filter.Mode != ModeTest || s.cursor >= len(s.working) || s.cursor < 0 {
			s.cursor = 0
		}
	}
	return s
}

// follow rebuilds the working set after an annotation change and keeps the
// cursor on question id. If id dropped out of the working set the cursor is
// clamped and the view resets.
func (s Session) follow(id question.ID) Session {
	s = s.rederive(false)
	for i, q := range s.working {
		if q.ID() == id {
			s.cursor = i
			return s
		}
	}
	s.view = ViewState{}
	if s.cursor >= len(s.working) {
		s.cursor = max(len(s.working)-1, 0)
	}
	return s
}

func rejected(err error) Notice {
	return Notice{Kind: NoticeRejected, Text: err.Error()}
}
