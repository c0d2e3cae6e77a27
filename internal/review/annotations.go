package review

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/examreview/internal/question"
)

// AttemptStats records the wrong attempts on one question. It exists only
// once the question has been answered incorrectly.
type AttemptStats struct {
	WrongCount    int
	LastAttempted time.Time
}

// Annotations holds the per-question facts gathered during a session.
// Every mutating method returns a new value and leaves the receiver
// untouched; only the tables being modified are copied.
type Annotations struct {
	attempts map[question.ID]AttemptStats
	wrong    []question.ID
	marked   map[question.ID]struct{}
	notes    map[question.ID]string
	tags     map[question.ID][]string
	vocab    []string // sorted union of all tag sets
}

// Attempt returns the attempt stats for id, if any.
func (a Annotations) Attempt(id question.ID) (AttemptStats, bool) {
	st, ok := a.attempts[id]
	return st, ok
}

// WrongCount returns the wrong-answer count for id (0 when never wrong).
func (a Annotations) WrongCount(id question.ID) int {
	return a.attempts[id].WrongCount
}

// IsWrong reports whether id is in the wrong-question list.
func (a Annotations) IsWrong(id question.ID) bool {
	return slices.Contains(a.wrong, id)
}

// WrongList returns the wrong-question IDs in first-wrong order.
func (a Annotations) WrongList() []question.ID {
	return slices.Clone(a.wrong)
}

// IsMarked reports whether id is marked as "don't know".
func (a Annotations) IsMarked(id question.ID) bool {
	_, ok := a.marked[id]
	return ok
}

// MarkedCount returns the size of the marked set.
func (a Annotations) MarkedCount() int {
	return len(a.marked)
}

// Note returns the note for id, or "".
func (a Annotations) Note(id question.ID) string {
	return a.notes[id]
}

// Tags returns the tags on id in insertion order.
func (a Annotations) Tags(id question.ID) []string {
	return slices.Clone(a.tags[id])
}

// HasTag reports whether id carries tag.
func (a Annotations) HasTag(id question.ID, tag string) bool {
	return slices.Contains(a.tags[id], tag)
}

// Vocabulary returns every tag in use, sorted.
func (a Annotations) Vocabulary() []string {
	return slices.Clone(a.vocab)
}

// SearchTags returns the vocabulary entries containing query,
// case-insensitively. A blank query returns the whole vocabulary.
func (a Annotations) SearchTags(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return a.Vocabulary()
	}
	var out []string
	for _, t := range a.vocab {
		if strings.Contains(strings.ToLower(t), q) {
			out = append(out, t)
		}
	}
	return out
}

// recordWrong bumps the attempt stats for id and adds it to the wrong list.
func (a Annotations) recordWrong(id question.ID, now time.Time) Annotations {
	attempts := maps.Clone(a.attempts)
	if attempts == nil {
		attempts = make(map[question.ID]AttemptStats)
	}
	st := attempts[id]
	st.WrongCount++
	st.LastAttempted = now
	attempts[id] = st
	a.attempts = attempts

	if !slices.Contains(a.wrong, id) {
		a.wrong = append(slices.Clip(a.wrong), id)
	}
	return a
}

// toggleMark flips the marked state of id and reports the new state.
func (a Annotations) toggleMark(id question.ID) (Annotations, bool) {
	marked := maps.Clone(a.marked)
	if marked == nil {
		marked = make(map[question.ID]struct{})
	}
	_, was := marked[id]
	if was {
		delete(marked, id)
	} else {
		marked[id] = struct{}{}
	}
	a.marked = marked
	return a, !was
}

// setNote stores text for id. A blank text removes the note.
func (a Annotations) setNote(id question.ID, text string) Annotations {
	notes := maps.Clone(a.notes)
	if notes == nil {
		notes = make(map[question.ID]string)
	}
	if strings.TrimSpace(text) == "" {
		delete(notes, id)
	} else {
		notes[id] = text
	}
	a.notes = notes
	return a
}

// addTag attaches tag to id. tag must already be trimmed.
func (a Annotations) addTag(id question.ID, tag string) (Annotations, error) {
	if tag == "" {
		return a, ErrBlankTag
	}
	if slices.Contains(a.tags[id], tag) {
		return a, ErrDuplicateTag
	}

	tags := maps.Clone(a.tags)
	if tags == nil {
		tags = make(map[question.ID][]string)
	}
	tags[id] = append(slices.Clip(tags[id]), tag)
	a.tags = tags

	if i, found := slices.BinarySearch(a.vocab, tag); !found {
		a.vocab = slices.Insert(slices.Clone(a.vocab), i, tag)
	}
	return a, nil
}

// removeTag detaches tag from id. It reports whether the tag dropped out
// of the vocabulary because no other question holds it.
func (a Annotations) removeTag(id question.ID, tag string) (Annotations, bool, error) {
	cur := a.tags[id]
	i := slices.Index(cur, tag)
	if i < 0 {
		return a, false, ErrUnknownTag
	}

	tags := maps.Clone(a.tags)
	next := slices.Delete(slices.Clone(cur), i, i+1)
	if len(next) == 0 {
		delete(tags, id)
	} else {
		tags[id] = next
	}
	a.tags = tags

	for _, held := range tags {
		if slices.Contains(held, tag) {
			return a, false, nil
		}
	}
	if j, found := slices.BinarySearch(a.vocab, tag); found {
		a.vocab = slices.Delete(slices.Clone(a.vocab), j, j+1)
	}
	return a, true, nil
}

// TagUsage returns how many questions carry tag.
func (a Annotations) TagUsage(tag string) int {
	n := 0
	for _, held := range a.tags {
		if slices.Contains(held, tag) {
			n++
		}
	}
	return n
}
