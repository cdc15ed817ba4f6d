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
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"Error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for input %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for input %q: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if LevelWarn.String() != "WARN" {
		t.Errorf("LevelWarn.String() = %q", LevelWarn.String())
	}
	if Level(42).String() != "UNKNOWN" {
		t.Errorf("unknown level should render as UNKNOWN, got %q", Level(42).String())
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelWarn)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("messages below WARN should be dropped, got %q", output)
	}
	if !strings.Contains(output, "[WARN] warn message") {
		t.Errorf("warn message missing, got %q", output)
	}
	if !strings.Contains(output, "[ERROR] error message") {
		t.Errorf("error message missing, got %q", output)
	}
}

func TestLogger_EnvVars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stylewiz.log")
	t.Setenv("STYLEWIZ_LOG_LEVEL", "debug")
	t.Setenv("STYLEWIZ_LOG_FILE", path)

	l := New()
	defer l.Close()

	if l.level != LevelDebug {
		t.Errorf("expected debug level from env var, got %v", l.level)
	}

	l.Debug("generation started for %s", "golang tips")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "generation started for golang tips") {
		t.Errorf("log file should contain the message, got %q", content)
	}
}

func TestLogger_Configure(t *testing.T) {
	t.Setenv("STYLEWIZ_LOG_LEVEL", "")
	t.Setenv("STYLEWIZ_LOG_FILE", "")

	path := filepath.Join(t.TempDir(), "configured.log")
	l := New()
	defer l.Close()

	if err := l.Configure("error", path); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	l.Warn("dropped")
	l.Error("kept")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(content), "dropped") {
		t.Error("warn message should be filtered at error level")
	}
	if !strings.Contains(string(content), "kept") {
		t.Error("error message should be written to configured file")
	}

	if err := l.Configure("loud", ""); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestLogger_CloseIsIdempotent(t *testing.T) {
	t.Setenv("STYLEWIZ_LOG_FILE", filepath.Join(t.TempDir(), "close.log"))

	l := New()
	if err := l.Close(); err != nil {
		t.Errorf("unexpected error closing logger: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
	l.Info("after close")
}

func TestLogger_Enabled(t *testing.T) {
	l := New()
	l.SetLevel(LevelWarn)
	if l.Enabled(LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !l.Enabled(LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestLogger_StderrPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "first.log")
	l := New()
	if err := l.Configure("", path); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if err := l.Configure("", StderrPath); err != nil {
		t.Fatalf("Configure(stderr) failed: %v", err)
	}
	if l.file != nil {
		t.Error("switching to stderr should release the log file")
	}
	if err := l.Close(); err != nil {
		t.Errorf("close after stderr switch: %v", err)
	}
}

func TestLogger_InvalidEnvLevelKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.log")
	t.Setenv("STYLEWIZ_LOG_LEVEL", "chatty")
	t.Setenv("STYLEWIZ_LOG_FILE", path)

	l := New()
	defer l.Close()
	if l.level != LevelInfo {
		t.Errorf("invalid env level should fall back to info, got %v", l.level)
	}
	l.Info("still logged")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "still logged") {
		t.Errorf("log file should contain the message, got %q", content)
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	Default.SetOutput(&buf)
	Default.SetLevel(LevelDebug)

	Debug("debug %s", "test")
	Info("info %s", "test")
	Warn("warn %s", "test")
	Error("error %s", "test")

	output := buf.String()
	for _, want := range []string{"debug test", "info test", "warn test", "error test"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q", want)
		}
	}
}
