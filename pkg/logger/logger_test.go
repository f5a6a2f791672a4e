package logger

import (
	"log/slog"
	"path/filepath"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expect    slog.Level
		expectErr bool
	}{
		{"debug", "debug", slog.LevelDebug, false},
		{"default-info", "", slog.LevelInfo, false},
		{"warn", "warn", slog.LevelWarn, false},
		{"warning-alias", "warning", slog.LevelWarn, false},
		{"error", "error", slog.LevelError, false},
		{"invalid", "verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := levelFromString(tt.input)
			if tt.expectErr && err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
			if !tt.expectErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Errorf("level = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestNewWithFileSink(t *testing.T) {
	dir := t.TempDir()
	l, err := New(Config{Level: "info", File: filepath.Join(dir, "server.log")})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Info("boot", "component", "test")
}
