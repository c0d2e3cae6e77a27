package review

import "github.com/abhisek/examreview/internal/question"

// Stats counts answers confirmed since the last reset.
// Attempted always equals Correct + Incorrect.
type Stats struct {
	Attempted int
	Correct   int
	Incorrect int
}

// Accuracy returns Correct / Attempted, or 0 before any attempt.
func (s Stats) Accuracy() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempted)
}

func (s Stats) record(correct bool) Stats {
	s.Attempted++
	if correct {
		s.Correct++
	} else {
		s.Incorrect++
	}
	return s
}

// TestResult is one confirmed answer given in test mode.
type TestResult struct {
	Question question.Question
	Selected string
	Correct  bool
}
