package question

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBank = "\ufeff考試標題,科目,題號,題型,題目,選項A,選項B,選項C,選項D,答案\n" +
	"112年第1次,證券投資,1,選擇題,何者為非系統風險？,利率風險,通膨風險,經營風險,匯率風險,C\n" +
	"112年第1次,證券投資,2,選擇題,\"本益比, 簡稱 PE\",甲,乙,丙,丁,A\n" +
	"\n" +
	"112年第1次,財務分析,1,申論題,試述杜邦分析。,,,,,ROE = ...\n"

func TestLoad(t *testing.T) {
	pool, err := Load(strings.NewReader(sampleBank))
	require.NoError(t, err)
	require.Equal(t, 3, pool.Len())

	all := pool.All()
	assert.Equal(t, "112年第1次", all[0].Exam)
	assert.Equal(t, "C", all[0].Answer)
	assert.Equal(t, "本益比, 簡稱 PE", all[1].Text)
	assert.Equal(t, "申論題", all[2].Type)
	assert.Empty(t, all[2].Choices())
	assert.Len(t, all[0].Choices(), 4)
}

func TestLoad_EnglishHeader(t *testing.T) {
	in := "exam_title,subject,question_number,question_type,question_text,option_a,option_b,answer\n" +
		"E,S,7,single,Q?,yes,no,A\n"
	pool, err := Load(strings.NewReader(in))
	require.NoError(t, err)

	q, ok := pool.Lookup(ID{Exam: "E", Subject: "S", Number: "7"})
	require.True(t, ok)
	assert.Equal(t, []Option{{"A", "yes"}, {"B", "no"}}, q.Choices())
	assert.True(t, q.HasOption("B"))
	assert.False(t, q.HasOption("C"))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		noQs    bool
		line    int
		errText string
	}{
		{"empty file", "", false, 0, "missing header"},
		{"missing columns", "考試標題,科目\nA,B\n", false, 1, "missing columns"},
		{"header only", "考試標題,科目,題號,題型,題目,答案\n", true, 0, ""},
		{"bare quote", "考試標題,科目,題號,題型,題目,答案\nA,B,1,選擇題,x\"y,A\n", false, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.noQs {
				assert.ErrorIs(t, err, ErrNoQuestions)
				var le *LoadError
				assert.False(t, errors.As(err, &le), "no-questions must not be a LoadError")
				return
			}
			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.line, le.Line)
			if tt.errText != "" {
				assert.Contains(t, err.Error(), tt.errText)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleBank), 0o644))

	pool, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, pool.Len())

	_, err = LoadFile(filepath.Join(dir, "missing.csv"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, filepath.Join(dir, "missing.csv"), le.Path)
}

func TestPoolFacets(t *testing.T) {
	pool, err := Load(strings.NewReader(sampleBank))
	require.NoError(t, err)

	f := pool.Facets()
	assert.Equal(t, []string{"112年第1次"}, f.Exams)
	assert.Equal(t, []string{"證券投資", "財務分析"}, f.Subjects)
	assert.Equal(t, []string{"選擇題", "申論題"}, f.Types)
}

func TestIDEqualityAcrossCopies(t *testing.T) {
	a := Question{Exam: "E", Subject: "S", Number: "1", Text: "first"}
	b := Question{Exam: "E", Subject: "S", Number: "1", Text: "copy"}
	c := Question{Exam: "E_S", Subject: "", Number: "1"}

	if a.ID() != b.ID() {
		t.Error("expected equal IDs for same exam/subject/number")
	}
	if a.ID() == c.ID() {
		t.Error("expected distinct IDs when fields differ only by separator placement")
	}
}
