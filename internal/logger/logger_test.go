package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{" warn ", WARN},
		{"warning", WARN},
		{"error", ERROR},
		{"fatal", FATAL},
		{"bogus", INFO},
		{"", INFO},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Debug("hidden debug")
	l.Infof("hidden %s", "info")
	l.Warn("shown warning")
	l.Errorf("shown %d", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("messages below WARN were written: %q", out)
	}
	if !strings.Contains(out, "[WARN ]") || !strings.Contains(out, "shown warning") {
		t.Fatalf("warning missing from output: %q", out)
	}
	if !strings.Contains(out, "shown 42") {
		t.Fatalf("error missing from output: %q", out)
	}
	if !strings.Contains(out, "logger_test.go:") {
		t.Fatalf("caller location missing from output: %q", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	root := New(&buf, "debug")
	child := root.With("erosion").With("brush")

	child.Info("built")
	if !strings.Contains(buf.String(), "[erosion.brush] built") {
		t.Fatalf("component tag missing: %q", buf.String())
	}

	// Derived loggers share the level with their parent.
	root.SetLevel("error")
	buf.Reset()
	child.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("child ignored parent level: %q", buf.String())
	}
}

func TestFatalExits(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info")
	code := -1
	l.sink.exit = func(c int) { code = c }

	l.Fatal("boom")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "landscape.log")
	l, err := NewFileLogger("info", path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	l.Info("to file")
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Fatalf("log file content = %q", data)
	}
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	if l.Level() != FATAL {
		t.Fatalf("Nop level = %v, want FATAL", l.Level())
	}
}
