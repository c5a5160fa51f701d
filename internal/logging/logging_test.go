package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("restoring repositories", "count", 3)

	out := buf.String()
	if !strings.Contains(out, "restoring repositories") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "count=3") {
		t.Errorf("output missing attribute: %q", out)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatJSON,
		Output: &buf,
	})

	logger.Warn("download failed", "package", "rocky-release")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "download failed" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["package"] != "rocky-release" {
		t.Errorf("package = %v", record["package"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelWarn,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("info message not filtered at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message missing")
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{0, slog.LevelInfo},
		{1, slog.LevelDebug},
		{2, slog.Level(-8)},
		{5, slog.Level(-8)},
	}

	for _, tt := range tests {
		got := LevelFromVerbosity(tt.verbosity)
		if got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := NewDiscard()
	ctx := NewContext(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Error("FromContext did not return the stored logger")
	}

	// Missing logger falls back to the default.
	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext returned nil for empty context")
	}
}

func TestMultiHandler(t *testing.T) {
	var a, b bytes.Buffer
	handler := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)
	logger := slog.New(handler)

	logger.Info("pruned snapshot", "id", "20240101_000000")

	if !strings.Contains(a.String(), "pruned snapshot") {
		t.Error("text handler missed the record")
	}
	if !strings.Contains(b.String(), "pruned snapshot") {
		t.Error("json handler missed the record")
	}
}

func TestSupportsColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if supportsColor(&bytes.Buffer{}, true) {
		t.Error("NO_COLOR must disable color")
	}
}
