package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/examreview/internal/config"
)

func TestNew_EmptyFileIsNop(t *testing.T) {
	l, err := New(config.Log{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(0) {
		t.Error("nop logger should not enable any level")
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "examreview.log")
	l, err := New(config.Log{File: path, Level: "warn"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("dropped")
	l.Warn("kept")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "dropped") {
		t.Errorf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"kept"`) {
		t.Errorf("log = %s, want warn message", out)
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(config.Log{File: filepath.Join(t.TempDir(), "x.log"), Level: "loud"})
	if err == nil {
		t.Error("expected error for unknown level")
	}
}
