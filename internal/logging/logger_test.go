package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, "warn", "json")

	logger.Info("dropped")
	logger.Warn("kept", "address", "0xabc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "kept" || entry["address"] != "0xabc" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, "loud", "text")
	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestComponentTagsLogger(t *testing.T) {
	var buf bytes.Buffer
	Component(newWithWriter(&buf, "info", "text"), "wallet").Info("connected")
	if !strings.Contains(buf.String(), "component=wallet") {
		t.Fatalf("expected component attribute, got %q", buf.String())
	}
}
