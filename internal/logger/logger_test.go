package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer Close()

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if Logger.GetLevel() != log.WarnLevel {
		t.Errorf("expected warn level, got %v", Logger.GetLevel())
	}

	Debug("test debug message")
	Info("test info message")
	Warn("test warning message", "habit", "read")
	Error("test error message")
}

func TestInitDebugMode(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: true, ConfigDir: configDir}); err != nil {
		t.Fatalf("failed to initialize logger in debug mode: %v", err)
	}
	defer Close()

	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("expected debug level, got %v", Logger.GetLevel())
	}
	Debug("test debug message in debug mode")
}

func TestInitLevelOverride(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir, Level: "info"}); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if Logger.GetLevel() != log.InfoLevel {
		t.Errorf("expected info level, got %v", Logger.GetLevel())
	}

	Info("written to file")
	if err := Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(configDir, "logs", "habitkit.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("expected message in log file, got %q", string(data))
	}

	if err := Init(Config{ConfigDir: configDir, Level: "loud"}); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// Must not panic
	Debug("test debug message")
	Info("test info message")
	Warn("test warning message")
	Error("test error message")
}
