package quiz

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examreview/internal/question"
	"github.com/abhisek/examreview/internal/review"
	"github.com/abhisek/examreview/internal/router"
	"github.com/abhisek/examreview/internal/screens/filters"
	"github.com/abhisek/examreview/internal/screens/summary"
	"github.com/abhisek/examreview/internal/store"
)

// mockEventRepo implements store.EventRepo for testing.
type mockEventRepo struct {
	answers []store.AnswerEventData
	resets  []store.ResetEventData
}

func (m *mockEventRepo) AppendAnswer(_ context.Context, data store.AnswerEventData) error {
	m.answers = append(m.answers, data)
	return nil
}
func (m *mockEventRepo) AppendReset(_ context.Context, data store.ResetEventData) error {
	m.resets = append(m.resets, data)
	return nil
}
func (m *mockEventRepo) LastReset(_ context.Context, _ string) (int64, error) {
	return 0, nil
}
func (m *mockEventRepo) Answers(_ context.Context, _ string, _ store.QueryOpts) ([]store.AnswerEvent, error) {
	return nil, nil
}
func (m *mockEventRepo) SubjectBreakdown(_ context.Context, _ string) ([]store.SubjectAccuracy, error) {
	return []store.SubjectAccuracy{{Subject: "Finance", Attempted: 1, Correct: 1}}, nil
}

func testPool() *question.Pool {
	q := func(num, answer string) question.Question {
		return question.Question{
			Exam:    "2023 Bank Exam",
			Subject: "Finance",
			Number:  num,
			Type:    "選擇題",
			Text:    "Question " + num,
			Options: [4]string{"alpha", "beta", "gamma", "delta"},
			Answer:  answer,
		}
	}
	return question.NewPool([]question.Question{q("1", "A"), q("2", "B")})
}

func newTestScreen(t *testing.T) (*QuizScreen, *mockEventRepo) {
	t.Helper()
	repo := &mockEventRepo{}
	s := New(testPool(), Deps{
		Journal:        repo,
		SessionID:      "test-session",
		ExportPath:     filepath.Join(t.TempDir(), "notes.csv"),
		BannerDuration: time.Millisecond,
		Review:         review.Config{DefaultType: "選擇題"},
	})
	return s, repo
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func press(s *QuizScreen, keys ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = s.Update(k)
	}
	return cmd
}

func typeText(s *QuizScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

// collectMsgs runs cmd and flattens batches into their messages.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func currentNumber(t *testing.T, s *QuizScreen) string {
	t.Helper()
	q, err := s.Session().Current()
	require.NoError(t, err)
	return q.Number
}

func TestQuizScreen_ChooseAndConfirm(t *testing.T) {
	s, repo := newTestScreen(t)

	press(s, keyPress('a'))
	if got := s.Session().View().Staged; got != "A" {
		t.Fatalf("Staged = %q, want %q", got, "A")
	}
	if len(repo.answers) != 0 {
		t.Fatalf("answers journaled before confirm: %d", len(repo.answers))
	}

	press(s, specialKey(tea.KeyEnter))
	st := s.Session().Stats()
	if st.Correct != 1 || st.Attempted != 1 {
		t.Errorf("stats = %+v, want 1 correct of 1", st)
	}
	require.Len(t, repo.answers, 1)
	assert.Equal(t, "A", repo.answers[0].Selected)
	assert.True(t, repo.answers[0].Correct)
	assert.Equal(t, "1", repo.answers[0].Number)
	assert.Equal(t, "test-session", repo.answers[0].SessionID)
	assert.Equal(t, review.NoticeCorrect, s.banner.Kind)
}

func TestQuizScreen_SameKeyTwiceConfirms(t *testing.T) {
	s, repo := newTestScreen(t)

	press(s, keyPress('2'), keyPress('b'))
	assert.True(t, s.Session().View().Answered)
	assert.Equal(t, 1, s.Session().Stats().Incorrect)
	require.Len(t, repo.answers, 1)
	assert.False(t, repo.answers[0].Correct)
}

func TestQuizScreen_ConfirmWithoutChoice(t *testing.T) {
	s, repo := newTestScreen(t)

	press(s, specialKey(tea.KeyEnter))
	assert.Equal(t, 0, s.Session().Stats().Attempted)
	assert.Empty(t, repo.answers)
	assert.Equal(t, review.NoticeRejected, s.banner.Kind)
}

func TestQuizScreen_ArrowsMoveStagedChoice(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, specialKey(tea.KeyDown))
	assert.Equal(t, "A", s.Session().View().Staged)
	press(s, specialKey(tea.KeyDown))
	assert.Equal(t, "B", s.Session().View().Staged)
	press(s, specialKey(tea.KeyUp), specialKey(tea.KeyUp))
	assert.Equal(t, "D", s.Session().View().Staged)
	assert.False(t, s.Session().View().Answered)
}

func TestQuizScreen_Navigation(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, keyPress('n'))
	assert.Equal(t, "2", currentNumber(t, s))
	press(s, specialKey(tea.KeyLeft))
	assert.Equal(t, "1", currentNumber(t, s))
	press(s, keyPress('p'))
	assert.Equal(t, "1", currentNumber(t, s))
}

func TestQuizScreen_NextOnLastPushesSummary(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, keyPress('a'), keyPress('a'), keyPress('n'))
	cmd := press(s, keyPress('n'))
	require.NotNil(t, cmd)

	var pushed bool
	for _, msg := range collectMsgs(cmd) {
		if push, ok := msg.(router.PushScreenMsg); ok {
			pushed = true
			assert.Equal(t, "Test Summary", push.Screen.Title())
			assert.Contains(t, push.Screen.View(100, 30), "Finance")
		}
	}
	assert.True(t, pushed, "expected summary screen to be pushed")
	assert.Equal(t, review.NoticeQuizComplete, s.banner.Kind)
}

func TestQuizScreen_ToggleShowAnswer(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, specialKey(tea.KeySpace))
	assert.True(t, s.Session().View().ShowAnswer)
	assert.Contains(t, s.View(120, 40), "Answer: A")
	press(s, specialKey(tea.KeySpace))
	assert.False(t, s.Session().View().ShowAnswer)
}

func TestQuizScreen_Mark(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, keyPress('m'))
	q, _ := s.Session().Current()
	assert.True(t, s.Session().Annotations().IsMarked(q.ID()))
	assert.Contains(t, s.View(120, 40), "marked")

	press(s, keyPress('m'))
	assert.False(t, s.Session().Annotations().IsMarked(q.ID()))
}

func TestQuizScreen_AddTag(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, keyPress('t'))
	require.True(t, s.CapturingInput())
	typeText(s, "rates")
	press(s, specialKey(tea.KeyEnter))

	assert.False(t, s.CapturingInput())
	q, _ := s.Session().Current()
	assert.Equal(t, []string{"rates"}, s.Session().Annotations().Tags(q.ID()))
	assert.Contains(t, s.View(120, 40), "#rates")
}

func TestQuizScreen_NoteEditAndCancel(t *testing.T) {
	s, _ := newTestScreen(t)
	q, _ := s.Session().Current()

	press(s, keyPress('e'))
	typeText(s, "check the formula")
	press(s, specialKey(tea.KeyEnter))
	assert.Equal(t, "check the formula", s.Session().Annotations().Note(q.ID()))

	// Esc leaves the saved note untouched.
	press(s, keyPress('e'))
	typeText(s, " again")
	press(s, specialKey(tea.KeyEscape))
	assert.False(t, s.CapturingInput())
	assert.Equal(t, "check the formula", s.Session().Annotations().Note(q.ID()))
}

func TestQuizScreen_RemoveTagNeedsConfirmation(t *testing.T) {
	s, _ := newTestScreen(t)
	q, _ := s.Session().Current()

	press(s, keyPress('t'))
	typeText(s, "rates")
	press(s, specialKey(tea.KeyEnter))

	press(s, keyPress('x'))
	require.True(t, s.CapturingInput())
	assert.Contains(t, s.View(120, 40), "Remove tag #rates")

	press(s, keyPress('n'))
	assert.Equal(t, []string{"rates"}, s.Session().Annotations().Tags(q.ID()))

	press(s, keyPress('x'), keyPress('y'))
	assert.Empty(t, s.Session().Annotations().Tags(q.ID()))
	assert.Empty(t, s.Session().Annotations().Vocabulary())
}

func TestQuizScreen_RemoveTagPicksFromSeveral(t *testing.T) {
	s, _ := newTestScreen(t)
	q, _ := s.Session().Current()

	for _, tag := range []string{"rates", "bonds"} {
		press(s, keyPress('t'))
		typeText(s, tag)
		press(s, specialKey(tea.KeyEnter))
	}

	press(s, keyPress('x'))
	assert.Equal(t, modePickRemove, s.mode)
	press(s, keyPress('2'), keyPress('y'))
	assert.Equal(t, []string{"rates"}, s.Session().Annotations().Tags(q.ID()))
}

func TestQuizScreen_TagSearchAppliesFirstMatch(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, keyPress('n'), keyPress('t'))
	typeText(s, "Rates")
	press(s, specialKey(tea.KeyEnter))

	press(s, keyPress('/'))
	typeText(s, "rat")
	assert.Contains(t, s.View(120, 40), "#Rates")
	press(s, specialKey(tea.KeyEnter))

	assert.Equal(t, "Rates", s.Session().Filter().Tag)
	assert.Equal(t, 1, s.Session().Len())
	assert.Equal(t, "2", currentNumber(t, s))

	// An empty search clears the tag filter.
	press(s, keyPress('/'), specialKey(tea.KeyEnter))
	assert.Equal(t, "", s.Session().Filter().Tag)
	assert.Equal(t, 2, s.Session().Len())
}

func TestQuizScreen_FilterByCurrentTag(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, keyPress('t'))
	typeText(s, "rates")
	press(s, specialKey(tea.KeyEnter))

	press(s, keyPress('g'))
	assert.Equal(t, "rates", s.Session().Filter().Tag)
	assert.Equal(t, 1, s.Session().Len())

	press(s, keyPress('g'))
	assert.Equal(t, "", s.Session().Filter().Tag)
}

func TestQuizScreen_FiltersScreenPushed(t *testing.T) {
	s, _ := newTestScreen(t)

	cmd := press(s, keyPress('f'))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	fs, ok := push.Screen.(*filters.FiltersScreen)
	require.True(t, ok)
	assert.Equal(t, s.Session().Filter(), fs.Filter())
}

func TestQuizScreen_AppliedFilterSwitchesMode(t *testing.T) {
	s, repo := newTestScreen(t)
	press(s, keyPress('a'), keyPress('a'))

	f := s.Session().Filter()
	f.Mode = review.ModeReview
	s.Update(filters.AppliedMsg{Filter: f})

	assert.Equal(t, review.ModeReview, s.Session().Mode())
	assert.Equal(t, 0, s.Session().Stats().Attempted)
	require.Len(t, repo.resets, 1)
	assert.Equal(t, "test", repo.resets[0].Mode)
	assert.Equal(t, 1, repo.resets[0].Attempted)
}

func TestQuizScreen_SubFiltersNeedReviewMode(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, keyPress('w'))
	assert.False(t, s.Session().Filter().WrongOnly)
	assert.Equal(t, review.NoticeRejected, s.banner.Kind)

	press(s, keyPress('v'), keyPress('w'))
	assert.True(t, s.Session().Filter().WrongOnly)
	assert.Equal(t, 0, s.Session().Len())
	assert.Contains(t, s.View(120, 40), "No questions match the current filters.")

	press(s, keyPress('k'))
	assert.True(t, s.Session().Filter().MarkedOnly)
	assert.False(t, s.Session().Filter().WrongOnly)
}

func TestQuizScreen_ReviewWrongFromSummary(t *testing.T) {
	s, _ := newTestScreen(t)
	press(s, keyPress('b'), keyPress('b'))

	s.Update(summary.ReviewWrongMsg{})
	assert.Equal(t, review.ModeReview, s.Session().Mode())
	assert.True(t, s.Session().Filter().WrongOnly)
	assert.Equal(t, 1, s.Session().Len())
}

func TestQuizScreen_RestartFromSummary(t *testing.T) {
	s, repo := newTestScreen(t)
	press(s, keyPress('a'), keyPress('a'), keyPress('n'))

	s.Update(summary.RestartMsg{})
	assert.Equal(t, 0, s.Session().Stats().Attempted)
	assert.Equal(t, "1", currentNumber(t, s))
	assert.Len(t, repo.resets, 1)
}

func TestQuizScreen_Export(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, keyPress('e'), specialKey(tea.KeyEnter))
	press(s, tea.KeyPressMsg{Code: 'e', Mod: tea.ModCtrl})
	assert.Equal(t, review.NoticeNothingToExport, s.banner.Kind)
	_, err := os.Stat(s.deps.ExportPath)
	assert.True(t, os.IsNotExist(err))

	press(s, keyPress('e'))
	typeText(s, "memorise")
	press(s, specialKey(tea.KeyEnter))
	press(s, tea.KeyPressMsg{Code: 'e', Mod: tea.ModCtrl})
	assert.Equal(t, review.NoticeExported, s.banner.Kind)

	data, err := os.ReadFile(s.deps.ExportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "memorise")
}

func TestQuizScreen_BannerExpiry(t *testing.T) {
	s, _ := newTestScreen(t)

	press(s, specialKey(tea.KeyEnter))
	first := s.bannerSeq
	press(s, keyPress('m'))
	require.NotEqual(t, first, s.bannerSeq)

	s.Update(bannerExpiredMsg{seq: first})
	assert.Equal(t, review.NoticeMarked, s.banner.Kind, "stale timer must not clear a newer banner")

	s.Update(bannerExpiredMsg{seq: s.bannerSeq})
	assert.True(t, s.banner.IsZero())
}

func TestQuizScreen_StatusAndHints(t *testing.T) {
	s, _ := newTestScreen(t)
	press(s, keyPress('a'), keyPress('a'), keyPress('n'))

	st := s.Status()
	assert.Equal(t, "Test", st.Mode)
	assert.Equal(t, 2, st.Position)
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.Correct)

	if hints := s.KeyHints(); len(hints) == 0 {
		t.Error("expected key hints")
	}
	press(s, keyPress('t'))
	var keys []string
	for _, h := range s.KeyHints() {
		keys = append(keys, h.Key)
	}
	assert.Equal(t, "Enter Esc", strings.Join(keys, " "))
}

func TestQuizScreen_AnswerLogPushed(t *testing.T) {
	s, _ := newTestScreen(t)

	cmd := press(s, keyPress('h'))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Answer Log", push.Screen.Title())
}

func TestQuizScreen_EssayCannotBeAnswered(t *testing.T) {
	pool := question.NewPool([]question.Question{{
		Exam: "2023 Bank Exam", Subject: "Law", Number: "1", Type: "申論題",
		Text: "Discuss.", Answer: "Reference answer",
	}})
	repo := &mockEventRepo{}
	s := New(pool, Deps{Journal: repo, EssayType: "申論題", Review: review.Config{DefaultType: "申論題"}})

	press(s, keyPress('a'), specialKey(tea.KeyEnter))
	assert.Equal(t, 0, s.Session().Stats().Attempted)
	assert.Empty(t, repo.answers)
	assert.Contains(t, s.View(120, 40), "Open question")

	press(s, specialKey(tea.KeySpace))
	assert.Contains(t, s.View(120, 40), "Reference answer")
}
