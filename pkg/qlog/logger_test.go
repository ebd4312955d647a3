package qlog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.LevelWarn, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info record should be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown key=value") {
		t.Errorf("Expected warn record with attrs, got %q", out)
	}
}

func TestLogger_WithKeepsAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.LevelDebug, &buf).With("job", "abc")

	logger.Debug("resolved", "restart", "input_lammps.restart")

	if got := buf.String(); !strings.Contains(got, "resolved job=abc, restart=input_lammps.restart") {
		t.Errorf("Unexpected output %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("Expected error for unknown level")
	}
}
