package question

import "fmt"

// OptionLabels are the option letters in display order.
var OptionLabels = [4]string{"A", "B", "C", "D"}

// ID is the composite identity of a question. Question numbers are only
// unique within an (exam, subject) pair, so all three parts are required.
type ID struct {
	Exam    string
	Subject string
	Number  string
}

// String renders the ID for display and log fields.
func (id ID) String() string {
	return fmt.Sprintf("%s / %s / #%s", id.Exam, id.Subject, id.Number)
}

// Question is a single immutable row of the question bank.
type Question struct {
	Exam    string
	Subject string
	Number  string
	Type    string
	Text    string
	Options [4]string // A-D; empty when the option is absent
	Answer  string
}

// ID returns the question's composite identity.
func (q Question) ID() ID {
	return ID{Exam: q.Exam, Subject: q.Subject, Number: q.Number}
}

// Option is a labelled answer choice.
type Option struct {
	Label string
	Text  string
}

// Choices returns the non-empty options in A-D order.
func (q Question) Choices() []Option {
	var out []Option
	for i, text := range q.Options {
		if text == "" {
			continue
		}
		out = append(out, Option{Label: OptionLabels[i], Text: text})
	}
	return out
}

// HasOption reports whether label names a present option.
func (q Question) HasOption(label string) bool {
	for i, l := range OptionLabels {
		if l == label {
			return q.Options[i] != ""
		}
	}
	return false
}

// Pool is the full question bank in file order.
type Pool struct {
	questions []Question
	index     map[ID]int
}

// NewPool builds a pool from questions. When two rows share an ID, Lookup
// resolves to the first one.
func NewPool(questions []Question) *Pool {
	qs := make([]Question, len(questions))
	copy(qs, questions)
	index := make(map[ID]int, len(qs))
	for i, q := range qs {
		if _, ok := index[q.ID()]; !ok {
			index[q.ID()] = i
		}
	}
	return &Pool{questions: qs, index: index}
}

// All returns a copy of every question in file order.
func (p *Pool) All() []Question {
	out := make([]Question, len(p.questions))
	copy(out, p.questions)
	return out
}

// Len returns the number of loaded rows.
func (p *Pool) Len() int {
	return len(p.questions)
}

// Lookup returns the question with the given ID.
func (p *Pool) Lookup(id ID) (Question, bool) {
	i, ok := p.index[id]
	if !ok {
		return Question{}, false
	}
	return p.questions[i], true
}

// Facets lists the distinct filter values of a pool in first-seen order.
type Facets struct {
	Exams    []string
	Subjects []string
	Types    []string
}

// Facets collects the distinct exam titles, subjects and question types.
func (p *Pool) Facets() Facets {
	var f Facets
	seen := map[string]map[string]bool{"exam": {}, "subject": {}, "type": {}}
	add := func(kind, v string, dst *[]string) {
		if seen[kind][v] {
			return
		}
		seen[kind][v] = true
		*dst = append(*dst, v)
	}
	for _, q := range p.questions {
		add("exam", q.Exam, &f.Exams)
		add("subject", q.Subject, &f.Subjects)
		add("type", q.Type, &f.Types)
	}
	return f
}
