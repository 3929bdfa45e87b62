package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Warn("Test warning message", "habit", "read")
	Error("Test error message")

	if _, err := os.Stat(filepath.Join(logDir, "garden.log")); os.IsNotExist(err) {
		t.Error("expected garden.log to be written")
	}
}

func TestInitCustomFileAndPrefix(t *testing.T) {
	configDir := t.TempDir()

	err := Init(Config{ConfigDir: configDir, Console: true, Prefix: "gardend", FileName: "server.log"})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if got := Logger.GetPrefix(); got != "gardend" {
		t.Errorf("prefix = %q, want %q", got, "gardend")
	}

	Info("request served", "status", 200)

	if _, err := os.Stat(filepath.Join(configDir, "logs", "server.log")); os.IsNotExist(err) {
		t.Error("expected server.log to be written")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
