package jsonlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.PrintInfo("server started", map[string]string{"addr": ":4000"})

	var entry struct {
		Level      string            `json:"level"`
		Message    string            `json:"message"`
		Properties map[string]string `json:"properties"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}
	if entry.Level != "INFO" {
		t.Errorf("expected level INFO, got %s", entry.Level)
	}
	if entry.Message != "server started" {
		t.Errorf("unexpected message: %s", entry.Message)
	}
	if entry.Properties["addr"] != ":4000" {
		t.Errorf("unexpected properties: %v", entry.Properties)
	}
}

func TestLoggerMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelError)

	l.PrintInfo("suppressed", nil)
	if buf.Len() != 0 {
		t.Error("INFO entry written despite ERROR min level")
	}

	l.PrintError(errors.New("boom"), nil)
	if buf.Len() == 0 {
		t.Error("ERROR entry not written")
	}
}

func TestLoggerErrorIncludesTrace(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.PrintError(errors.New("boom"), nil)

	var entry struct {
		Trace string `json:"trace"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}
	if entry.Trace == "" {
		t.Error("expected stack trace on ERROR entries")
	}
}
