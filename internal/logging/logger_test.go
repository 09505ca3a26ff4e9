package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewWritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "export.log")

	logger, err := New(Options{Level: "info", File: path, Console: &console})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	logger.Info("export started")
	_ = logger.Sync()

	if strings.Contains(console.String(), "hidden") {
		t.Error("debug entry written at info level")
	}
	if !strings.Contains(console.String(), "export started") {
		t.Errorf("console output = %q", console.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log file is not JSON: %v (%q)", err, data)
	}
	if entry["msg"] != "export started" {
		t.Errorf("msg = %v", entry["msg"])
	}
	run, _ := entry["run"].(string)
	if _, err := uuid.Parse(run); err != nil {
		t.Errorf("run = %v, want a UUID", entry["run"])
	}
	if _, ok := entry["pid"]; !ok {
		t.Error("pid field missing")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("New() with unknown level should fail")
	}
}
