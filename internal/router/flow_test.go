package router_test

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/abhisek/examreview/internal/question"
	"github.com/abhisek/examreview/internal/review"
	"github.com/abhisek/examreview/internal/router"
	"github.com/abhisek/examreview/internal/screen"
	"github.com/abhisek/examreview/internal/screens/loading"
	"github.com/abhisek/examreview/internal/screens/quiz"
)

func TestLoadingHandsOverToQuiz(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.csv")
	bank := "exam_title,subject,question_number,question_type,question_text,option_a,option_b,answer\n" +
		"2023 Bank Exam,Finance,1,選擇題,Q1?,yes,no,A\n" +
		"2023 Bank Exam,Finance,2,選擇題,Q2?,yes,no,B\n"
	if err := os.WriteFile(path, []byte(bank), 0o644); err != nil {
		t.Fatalf("write bank: %v", err)
	}

	next := func(pool *question.Pool) screen.Screen {
		return quiz.New(pool, quiz.Deps{Review: review.Config{DefaultType: "選擇題"}})
	}
	r := router.New(loading.New(path, next, zap.NewNop()))

	// Load, then apply the replace the loading screen asks for.
	cmd := r.Update(r.Active().Init()())
	if cmd == nil {
		t.Fatal("expected replace command after load")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("cmd() = %T, want router.ReplaceScreenMsg", cmd())
	}
	r.Update(msg)

	if r.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", r.Depth())
	}
	q, ok := r.Active().(*quiz.QuizScreen)
	if !ok {
		t.Fatalf("Active() = %T, want *quiz.QuizScreen", r.Active())
	}
	if n := q.Session().Len(); n != 2 {
		t.Errorf("quiz questions = %d, want 2", n)
	}
}
