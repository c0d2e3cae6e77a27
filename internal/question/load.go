package question

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoQuestions indicates a well-formed file that contains no question rows.
var ErrNoQuestions = errors.New("no questions loaded")

// LoadError reports a question bank that could not be read or parsed.
type LoadError struct {
	Path string
	Line int // 0 when the failure is not tied to a line
	Err  error
}

func (e *LoadError) Error() string {
	src := e.Path
	if src == "" {
		src = "question bank"
	}
	if e.Line > 0 {
		return fmt.Sprintf("load %s (line %d): %v", src, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", src, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

type column int

const (
	colExam column = iota
	colSubject
	colNumber
	colType
	colText
	colOptionA
	colOptionB
	colOptionC
	colOptionD
	colAnswer
	numColumns
)

// columnNames maps each column to the header names it is recognised by.
// The first name is the one used by the original exam data set.
var columnNames = [numColumns][]string{
	colExam:    {"考試標題", "exam_title"},
	colSubject: {"科目", "subject"},
	colNumber:  {"題號", "question_number"},
	colType:    {"題型", "question_type"},
	colText:    {"題目", "question_text"},
	colOptionA: {"選項A", "option_a"},
	colOptionB: {"選項B", "option_b"},
	colOptionC: {"選項C", "option_c"},
	colOptionD: {"選項D", "option_d"},
	colAnswer:  {"答案", "answer"},
}

var requiredColumns = []column{colExam, colSubject, colNumber, colType, colText, colAnswer}

// LoadFile reads a question bank from a CSV file.
func LoadFile(path string) (*Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	pool, err := Load(f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return pool, nil
}

// Load parses a CSV question bank with a header row. Rows whose cells are
// all blank are skipped. A file with a header and no rows returns
// ErrNoQuestions.
func Load(r io.Reader) (*Pool, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &LoadError{Err: errors.New("missing header row")}
	}
	if err != nil {
		return nil, csvLoadError(err)
	}

	pos, err := mapHeader(header)
	if err != nil {
		return nil, &LoadError{Line: 1, Err: err}
	}

	var questions []Question
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvLoadError(err)
		}
		if blankRecord(rec) {
			continue
		}
		questions = append(questions, recordToQuestion(rec, pos))
	}

	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return NewPool(questions), nil
}

// mapHeader resolves each known column to its index in the header, or -1.
func mapHeader(header []string) ([numColumns]int, error) {
	var pos [numColumns]int
	for i := range pos {
		pos[i] = -1
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		for c, names := range columnNames {
			for _, n := range names {
				if strings.EqualFold(h, n) && pos[c] < 0 {
					pos[c] = i
				}
			}
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if pos[c] < 0 {
			missing = append(missing, columnNames[c][0])
		}
	}
	if len(missing) > 0 {
		return pos, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return pos, nil
}

func recordToQuestion(rec []string, pos [numColumns]int) Question {
	get := func(c column) string {
		i := pos[c]
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	return Question{
		Exam:    get(colExam),
		Subject: get(colSubject),
		Number:  get(colNumber),
		Type:    get(colType),
		Text:    get(colText),
		Options: [4]string{get(colOptionA), get(colOptionB), get(colOptionC), get(colOptionD)},
		Answer:  get(colAnswer),
	}
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func csvLoadError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &LoadError{Line: pe.Line, Err: pe.Err}
	}
	return &LoadError{Err: err}
}
