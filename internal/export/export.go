// Package export writes annotated questions to CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/abhisek/examreview/internal/question"
	"github.com/abhisek/examreview/internal/review"
)

// ErrNothingToExport is returned when no question carries a note.
var ErrNothingToExport = errors.New("export: no notes to export")

// Header is the first record of every export.
var Header = []string{
	"exam_title",
	"subject",
	"question_number",
	"question_text",
	"answer",
	"note",
	"tags",
	"wrong_count",
	"marked",
}

// Row is one exported question.
type Row struct {
	Question   question.Question
	Note       string
	Tags       []string
	WrongCount int
	Marked     bool
}

// Record renders r in Header column order.
func (r Row) Record() []string {
	marked := "no"
	if r.Marked {
		marked = "yes"
	}
	return []string{
		r.Question.Exam,
		r.Question.Subject,
		r.Question.Number,
		r.Question.Text,
		r.Question.Answer,
		r.Note,
		strings.Join(r.Tags, ", "),
		strconv.Itoa(r.WrongCount),
		marked,
	}
}

// Notes collects one row per question with a non-empty note, in pool
// order. A question ID repeated in the pool is exported once.
func Notes(pool *question.Pool, ann review.Annotations) []Row {
	var rows []Row
	seen := make(map[question.ID]bool)
	for _, q := range pool.All() {
		id := q.ID()
		if seen[id] {
			continue
		}
		seen[id] = true

		note := ann.Note(id)
		if note == "" {
			continue
		}
		rows = append(rows, Row{
			Question:   q,
			Note:       note,
			Tags:       ann.Tags(id),
			WrongCount: ann.WrongCount(id),
			Marked:     ann.IsMarked(id),
		})
	}
	return rows
}

// Write encodes rows as CSV with a header record.
func Write(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return ErrNothingToExport
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return fmt.Errorf("write %s: %w", r.Question.ID(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile exports the notes of sess to path and returns the number of
// rows written. No file is created when there is nothing to export.
func WriteFile(path string, sess review.Session) (int, error) {
	if sess.Pool() == nil {
		return 0, ErrNothingToExport
	}
	rows := Notes(sess.Pool(), sess.Annotations())

	var buf bytes.Buffer
	if err := Write(&buf, rows); err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("write export %s: %w", path, err)
	}
	return len(rows), nil
}
