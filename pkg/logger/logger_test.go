package logger

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	mu.Lock()
	orig := sugar
	sugar = newSugar(zapcore.AddSync(&buf))
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		sugar = orig
		mu.Unlock()
		Init("info")
	})
	return &buf
}

func TestInitAndLevelString(t *testing.T) {
	t.Cleanup(func() { Init("info") })
	Init("debug")
	if got := LevelString(); got != "debug" {
		t.Fatalf("LevelString() = %q, want %q", got, "debug")
	}
	Init("WARN")
	if got := LevelString(); got != "warn" {
		t.Fatalf("LevelString() = %q, want %q", got, "warn")
	}
	Init("Error")
	if got := LevelString(); got != "error" {
		t.Fatalf("LevelString() = %q, want %q", got, "error")
	}
	Init("nonsense")
	if got := LevelString(); got != "info" {
		t.Fatalf("LevelString() = %q, want %q for unknown input", got, "info")
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureOutput(t)

	Init("warn")
	Debugf("debug-msg")
	Infof("info-msg")
	Warnf("warn-msg")
	Errorf("error-msg")

	out := buf.String()
	if strings.Contains(out, "debug-msg") {
		t.Fatalf("debug messages should be suppressed at warn level")
	}
	if strings.Contains(out, "info-msg") {
		t.Fatalf("info messages should be suppressed at warn level")
	}
	if !strings.Contains(out, "warn-msg") || !strings.Contains(out, "WARN") {
		t.Fatalf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "error-msg") {
		t.Fatalf("error message missing: %q", out)
	}

	Init("info")
	buf.Reset()
	Infof("hello %d", 1)
	if !strings.Contains(buf.String(), "hello 1") {
		t.Fatalf("info message expected at info level, got: %q", buf.String())
	}
}

func TestStructuredFields(t *testing.T) {
	buf := captureOutput(t)
	Init("info")
	Infow("HTTP request", "path", "/api/health", "status", 200)
	out := buf.String()
	if !strings.Contains(out, `"path": "/api/health"`) || !strings.Contains(out, `"status": 200`) {
		t.Fatalf("expected structured fields in output, got: %q", out)
	}
}
