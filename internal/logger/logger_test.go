package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"TRAVELPACK_BACK-END/internal/config"
)

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(config.LoggingConfig{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewFileOutputCreatesDir(t *testing.T) {
	dir := t.TempDir()
	l, err := New(config.LoggingConfig{
		Level:    "info",
		Output:   "file",
		FilePath: filepath.Join(dir, "nested", "app.log"),
		MaxSize:  1,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Info("hello")
}

func TestLogRequestLevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LoggingConfig{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	l.SetOutput(&buf)

	l.LogRequest("GET", "/api/packages", "127.0.0.1", 503, 12)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	if entry["level"] != logrus.ErrorLevel.String() {
		t.Fatalf("level = %v", entry["level"])
	}
	if entry["path"] != "/api/packages" || entry["type"] != "request" {
		t.Fatalf("entry = %v", entry)
	}
}
