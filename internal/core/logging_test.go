package core

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNewLogger_TextLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithLogOutput(&buf), WithLogLevel(slog.LevelInfo))

	logger.Debug("hidden")
	logger.Info("shown", "skill", "pdf")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line logged at info level: %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "skill=pdf") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestNewLogger_JSONTimeFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithLogOutput(&buf), WithLogFormat(FormatJSON))
	logger.Warn("slow download")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	ts, _ := rec["time"].(string)
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC 3339", ts)
	}
}

func TestNewLogger_DefaultLevelIsWarn(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(WithLogOutput(&buf)).Info("quiet")
	if buf.Len() != 0 {
		t.Errorf("info logged by default: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
