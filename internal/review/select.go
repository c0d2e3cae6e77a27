package review

import (
	"sort"

	"github.com/abhisek/examreview/internal/question"
)

// Select derives the working set from questions. Exact-match criteria are
// ANDed together. In review mode the marked-only or wrong-only sub-filter
// is applied and the result is ordered by reviewLess. Test mode keeps
// file order.
func Select(questions []question.Question, f Filter, ann Annotations) []question.Question {
	f = f.normalized()

	out := make([]question.Question, 0, len(questions))
	for _, q := range questions {
		if matches(q, f, ann) {
			out = append(out, q)
		}
	}

	if f.Mode == ModeReview {
		sort.SliceStable(out, func(i, j int) bool {
			return reviewLess(out[i].ID(), out[j].ID(), ann)
		})
	}
	return out
}

func matches(q question.Question, f Filter, ann Annotations) bool {
	if f.Exam != "" && q.Exam != f.Exam {
		return false
	}
	if f.Subject != "" && q.Subject != f.Subject {
		return false
	}
	if f.Type != "" && q.Type != f.Type {
		return false
	}
	id := q.ID()
	if f.Tag != "" && !ann.HasTag(id, f.Tag) {
		return false
	}
	if f.Mode != ModeReview {
		return true
	}
	switch {
	case f.MarkedOnly:
		return ann.IsMarked(id)
	case f.WrongOnly:
		return ann.IsWrong(id)
	}
	return true
}

// reviewLess orders marked questions first, then by wrong count and most
// recent wrong attempt, both descending. Never-attempted questions have a
// zero timestamp and so sort last among equal counts.
func reviewLess(a, b question.ID, ann Annotations) bool {
	am, bm := ann.IsMarked(a), ann.IsMarked(b)
	if am != bm {
		return am
	}
	as, _ := ann.Attempt(a)
	bs, _ := ann.Attempt(b)
	if as.WrongCount != bs.WrongCount {
		return as.WrongCount > bs.WrongCount
	}
	return as.LastAttempted.After(bs.LastAttempted)
}
