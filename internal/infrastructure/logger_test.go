package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gstattrade/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "gstat.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: "ignored.log",
	}

	logger, err := InitializeLogger(cfg, logFile)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger is nil")
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}

	logger.Info("sheet transformed", "sheet", "1.1")

	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Errorf("Log output is not valid JSON: %v", err)
	}

	if logEntry["msg"] != "sheet transformed" {
		t.Errorf("Expected msg='sheet transformed', got %v", logEntry["msg"])
	}
	if logEntry["sheet"] != "1.1" {
		t.Errorf("Expected sheet='1.1', got %v", logEntry["sheet"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", logEntry["level"])
	}
}

func TestRunAndTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug")

	ctx := WithRunID(context.Background(), "run-123")
	ctx = WithTraceID(ctx, "trace-456")
	logger.InfoContext(ctx, "run started")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}

	if logEntry["run_id"] != "run-123" {
		t.Errorf("Expected run_id='run-123', got %v", logEntry["run_id"])
	}
	if logEntry["trace_id"] != "trace-456" {
		t.Errorf("Expected trace_id='trace-456', got %v", logEntry["trace_id"])
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level      string
		debugShown bool
		warnShown  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, true},
		{"error", false, false},
		{"bogus", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level)

			logger.Debug("debug line")
			logger.Warn("warn line")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.debugShown {
				t.Errorf("debug shown = %v, want %v", got, tt.debugShown)
			}
			if got := strings.Contains(out, "warn line"); got != tt.warnShown {
				t.Errorf("warn shown = %v, want %v", got, tt.warnShown)
			}
		})
	}
}

func TestEnsureRunID(t *testing.T) {
	ctx := EnsureRunID(context.Background())
	runID := GetRunID(ctx)
	if runID == "" {
		t.Fatal("Expected run ID to be generated")
	}

	if GetRunID(EnsureRunID(ctx)) != runID {
		t.Error("EnsureRunID changed existing run ID")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	WithComponent(logger, "loader").Info("table loaded")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if logEntry["component"] != "loader" {
		t.Errorf("Expected component='loader', got %v", logEntry["component"])
	}
}
