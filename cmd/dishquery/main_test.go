package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dishquery/internal/store"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected log output: %q", buf.String())
	}

	if _, err := newLogger(&buf, "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	db, err := openStore(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer db.Close(ctx)
	if _, err := db.GetRun(ctx, "missing"); !errors.Is(err, store.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}

	if _, err := openStore(ctx, "mysql://localhost/db"); err == nil {
		t.Fatalf("expected error for unsupported dsn")
	}
}

func TestJoinIDs(t *testing.T) {
	if got := joinIDs([]int{1, 12, 30}); got != "[1, 12, 30]" {
		t.Fatalf("unexpected output %q", got)
	}
	if got := joinIDs(nil); got != "[]" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRunInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dishquery.yaml")
	if err := runInit(path, "cosmic"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "project: cosmic") {
		t.Fatalf("unexpected config:\n%s", data)
	}
	if err := runInit(path, "cosmic"); err == nil {
		t.Fatalf("expected error when file exists")
	}
}

func TestStartMetricsDisabled(t *testing.T) {
	shutdown := startMetrics("")
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
