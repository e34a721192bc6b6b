package logging

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"
	"testing"
)

func TestNew_LevelAndTimeFormat(t *testing.T) {
	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(slog.LevelInfo)

	logger := New(&buf, &level)
	logger.Debug("hidden")
	logger.Info("analyzing capture.csv")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Debug record must be dropped at info level: %q", out)
	}
	if !strings.Contains(out, "analyzing capture.csv") {
		t.Errorf("Expected info record, got %q", out)
	}

	ts := regexp.MustCompile(`^time="?\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}"? level=INFO`)
	if !ts.MatchString(out) {
		t.Errorf("Unexpected record format: %q", out)
	}

	buf.Reset()
	level.Set(slog.LevelDebug)
	logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("Debug record expected after level change, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			level, err := ParseLevel(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if level != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, level)
			}
		})
	}
}
