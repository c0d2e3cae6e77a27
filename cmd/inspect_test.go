package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examreview/internal/question"
)

func TestPrintInventory(t *testing.T) {
	pool := question.NewPool([]question.Question{
		{Exam: "2023 Bank Exam", Subject: "Finance", Number: "1", Type: "選擇題"},
		{Exam: "2023 Bank Exam", Subject: "Finance", Number: "2", Type: "選擇題"},
		{Exam: "2023 Bank Exam", Subject: "Law", Number: "1", Type: "申論題"},
		{Exam: "2024 Bank Exam", Subject: "Finance", Number: "1", Type: "選擇題"},
	})

	var buf bytes.Buffer
	require.NoError(t, printInventory(&buf, "bank.csv", pool))
	out := buf.String()

	assert.Contains(t, out, "bank.csv: 4 questions, 2 exams, 2 subjects")

	lines := strings.Split(out, "\n")
	var rows []string
	for _, l := range lines {
		rows = append(rows, strings.Join(strings.Fields(l), " "))
	}
	assert.Contains(t, rows, "2023 Bank Exam Finance 2")
	assert.Contains(t, rows, "2023 Bank Exam Law 1")
	assert.Contains(t, rows, "2024 Bank Exam Finance 1")
	assert.NotContains(t, rows, "2024 Bank Exam Law 0")
	assert.Contains(t, rows, "選擇題 3")
	assert.Contains(t, rows, "申論題 1")
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	t.Setenv("EXAMREVIEW_QUESTIONS_PATH", "from-env.csv")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cmd := rootCmd
	require.NoError(t, cmd.Flags().Set("journal", "journal.db"))
	t.Cleanup(func() {
		_ = cmd.Flags().Set("journal", "")
		cmd.Flags().Lookup("journal").Changed = false
	})

	cfg, err := loadConfig(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env.csv", cfg.QuestionsPath)
	assert.Equal(t, "journal.db", cfg.JournalDSN)

	cfg, err = loadConfig(cmd, []string{"positional.csv"})
	require.NoError(t, err)
	assert.Equal(t, "positional.csv", cfg.QuestionsPath)
}
