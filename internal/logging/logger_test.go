package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_WritesToFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Info("edge added", "plan_id", "plan-1", "edge_id", "e-1")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "engine.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("log entry is not valid JSON: %v", err)
	}
	if entry["msg"] != "edge added" {
		t.Errorf("msg = %v, want %q", entry["msg"], "edge added")
	}
	if entry["edge_id"] != "e-1" {
		t.Errorf("edge_id = %v, want %q", entry["edge_id"], "e-1")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelWarn)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "engine.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)

	if strings.Contains(content, "debug message") || strings.Contains(content, "info message") {
		t.Error("messages below WARN should be filtered")
	}
	if !strings.Contains(content, "warn message") || !strings.Contains(content, "error message") {
		t.Error("WARN and ERROR messages should be present")
	}
}

func TestLogger_PersistentAttributes(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelDebug)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	child := logger.WithPlan("plan-7").WithTask("task-3").WithPrincipal("user-1")
	child.Info("blocked check")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "engine.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("log entry is not valid JSON: %v", err)
	}
	if entry["plan_id"] != "plan-7" {
		t.Errorf("plan_id = %v, want plan-7", entry["plan_id"])
	}
	if entry["task_id"] != "task-3" {
		t.Errorf("task_id = %v, want task-3", entry["task_id"])
	}
	if entry["principal_id"] != "user-1" {
		t.Errorf("principal_id = %v, want user-1", entry["principal_id"])
	}
}

func TestLogger_ChildDoesNotMutateParent(t *testing.T) {
	logger := NopLogger()
	child := logger.WithPlan("plan-1")

	if len(logger.attrs) != 0 {
		t.Errorf("parent attrs mutated: %v", logger.attrs)
	}
	if len(child.attrs) != 1 {
		t.Errorf("child attrs = %d, want 1", len(child.attrs))
	}
}

func TestLogger_WithIgnoresNonStringKeys(t *testing.T) {
	logger := NopLogger().With(42, "value", "component", "engine")
	if len(logger.attrs) != 1 {
		t.Fatalf("attrs = %d, want 1", len(logger.attrs))
	}
	if logger.attrs[0].Key != "component" {
		t.Errorf("attr key = %q, want %q", logger.attrs[0].Key, "component")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	// Must not panic and Close must be a no-op.
	logger.Info("discarded")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}
