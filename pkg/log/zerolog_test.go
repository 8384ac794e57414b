package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	elmgoErrors "github.com/elmgo-ml/elmgo/pkg/errors"
)

func parseLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestZerologLoggerStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Info("training started", "samples", 100, "features", 4)

	entries := parseLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry["message"] != "training started" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["samples"] != float64(100) {
		t.Errorf("samples = %v", entry["samples"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestZerologLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelWarn)

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("visible")

	entries := parseLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1: %s", len(entries), buf.String())
	}
	if entries[0]["message"] != "visible" {
		t.Errorf("message = %v", entries[0]["message"])
	}
}

func TestZerologLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo).With(ModelNameKey, "ELMRegressor")

	logger.Info("fit complete")

	entries := parseLines(t, &buf)
	if entries[0][ModelNameKey] != "ELMRegressor" {
		t.Errorf("bound field lost: %v", entries[0])
	}
}

func TestZerologLoggerMarshalsWarningObjects(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	warning := elmgoErrors.NewConvergenceWarning("GA", 150, "")
	logger.Warn("search stalled", "warning", warning)

	entries := parseLines(t, &buf)
	obj, ok := entries[0]["warning"].(map[string]interface{})
	if !ok {
		t.Fatalf("warning not structured: %v", entries[0]["warning"])
	}
	if obj["algorithm"] != "GA" || obj["epochs"] != float64(150) {
		t.Errorf("warning fields = %v", obj)
	}
}

func TestZerologLoggerAddsStacktraceForErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Error("solve failed", ErrAttrKey, elmgoErrors.New("singular matrix"))

	entries := parseLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry[ErrAttrKey] != "singular matrix" {
		t.Errorf("error field = %v", entry[ErrAttrKey])
	}
	st, ok := entry[StacktraceAttrKey].(string)
	if !ok || st == "" {
		t.Errorf("expected a stacktrace field, got %v", entry[StacktraceAttrKey])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"ERROR", LevelError},
		{"verbose", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProviderGetLoggerWithName(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProvider(&buf, LevelInfo)

	provider.GetLoggerWithName("elm").Info("hello")

	entries := parseLines(t, &buf)
	if entries[0][ComponentKey] != "elm" {
		t.Errorf("component field = %v", entries[0][ComponentKey])
	}
}

func TestWarnBridgeRoutesThroughDefaultProvider(t *testing.T) {
	provider, buf := NewTestLoggerProvider(LevelDebug)
	SetDefaultProvider(provider)
	defer SetDefaultProvider(NewZerologProvider(bytes.NewBuffer(nil), LevelInfo))

	elmgoErrors.Warn(elmgoErrors.NewConvergenceWarning("PSO", 200, ""))

	if !strings.Contains(buf.String(), "elmgo warning") {
		t.Errorf("warning not routed through the default provider: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "PSO failed to converge after 200 epochs") {
		t.Errorf("warning detail missing: %s", buf.String())
	}
}

func TestToZerologLevelOrdering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelError)

	logger.Warn("suppressed")
	logger.Error("kept")

	entries := parseLines(t, &buf)
	if len(entries) != 1 || entries[0]["message"] != "kept" {
		t.Errorf("error-level filtering broken: %s", buf.String())
	}
}
