package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(Config{Level: "shout"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_InvalidFormat(t *testing.T) {
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("run complete", "errors", 2, "warnings", 1)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "run complete" {
		t.Errorf("unexpected message: %v", record["msg"])
	}
	if record["errors"] != float64(2) {
		t.Errorf("unexpected errors field: %v", record["errors"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	out := buf.String()
	if strings.Contains(out, "info message") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "warn message") {
		t.Error("warn message missing from output")
	}
}

func TestLogger_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "text", RedactSecrets: true, Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("storage configured",
		"url", "postgres://app:hunter2@db:5432/exchange",
		"password", "hunter2",
	)

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Errorf("credential leaked into log output: %s", out)
	}
	if !strings.Contains(out, "postgres://app:***@db:5432/exchange") {
		t.Errorf("connection URL not redacted in place: %s", out)
	}
}

func TestLogger_SlogRedacts(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "text", RedactSecrets: true, Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// The binary installs this logger with slog.SetDefault; records
	// logged through it must come out scrubbed as well.
	logger.Slog().Warn("storage configured",
		"password", "hunter2",
		"url", "postgres://app:hunter2@db:5432/exchange",
	)

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Errorf("credential leaked through the slog logger: %s", out)
	}
	if !strings.Contains(out, "password=***") {
		t.Errorf("credential-named key not replaced: %s", out)
	}
}

func TestLogger_SlogWithAttrsRedacts(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "text", RedactSecrets: true, Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Slog().With("api_key", "sk-deadbeef01").Info("provider ready")

	out := buf.String()
	if strings.Contains(out, "sk-deadbeef01") {
		t.Errorf("credential leaked through With: %s", out)
	}
	if !strings.Contains(out, "api_key=***") {
		t.Errorf("credential-named key not replaced: %s", out)
	}
}

func TestLogger_SlogRedactsErrorValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "text", RedactSecrets: true, Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	recordErr := fmt.Errorf("dial postgres://app:hunter2@db:5432/exchange: refused")
	logger.Slog().Warn("failed to record validation run", "error", recordErr)

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Errorf("credential leaked through error value: %s", out)
	}
	if !strings.Contains(out, "postgres://app:***@db:5432/exchange") {
		t.Errorf("connection URL not redacted in place: %s", out)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.With("component", "pipeline").Info("started")

	if !strings.Contains(buf.String(), "component=pipeline") {
		t.Errorf("expected component field, got %s", buf.String())
	}
}

func TestLogger_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := WithConfigPath(context.Background(), "config.yaml")
	ctx = WithRunID(ctx, "run-123")
	logger.InfoContext(ctx, "validated")

	out := buf.String()
	if !strings.Contains(out, "config_path=config.yaml") {
		t.Errorf("expected config_path field, got %s", out)
	}
	if !strings.Contains(out, "run_id=run-123") {
		t.Errorf("expected run_id field, got %s", out)
	}
}
