package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func newJSONLogger(buf *bytes.Buffer, level slog.Level) *Logger {
	return New(Config{Level: level, Format: "json", Component: "test", Output: buf})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLogger_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, slog.LevelInfo)

	logger.Info("hello", "k", "v")
	logger.WithComponent(ComponentLedger).Warn("careful")
	logger.Debug("filtered out")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0][FieldComponent] != "test" || lines[0]["k"] != "v" {
		t.Errorf("first line = %v", lines[0])
	}
	if lines[1][FieldComponent] != ComponentLedger {
		t.Errorf("second line component = %v", lines[1][FieldComponent])
	}
}

func TestStructuredLogger_LogStoreError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newJSONLogger(&buf, slog.LevelInfo))

	sl.LogStoreError(context.Background(), ComponentReporting, OpStats, errors.New("database is locked"))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines", len(lines))
	}
	l := lines[0]
	if l["level"] != "ERROR" || l[FieldErrorType] != ErrorTypeDatabase || l[FieldOperation] != OpStats || l[FieldComponent] != ComponentReporting {
		t.Errorf("line = %v", l)
	}
}

func TestStructuredLogger_LogHTTPEndLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "INFO"},
		{404, "WARN"},
		{500, "ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewStructuredLogger(newJSONLogger(&buf, slog.LevelInfo))
		r := httptest.NewRequest(http.MethodGet, "/api/stats", nil)

		sl.LogHTTPEnd(context.Background(), r, tt.status, 3, "req-1", "10.0.0.1")

		lines := decodeLines(t, &buf)
		if len(lines) != 1 || lines[0]["level"] != tt.level {
			t.Errorf("status %d: lines = %v, want level %s", tt.status, lines, tt.level)
		}
	}
}

func TestMiddleware_CarriesLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, slog.LevelInfo)

	handler := Middleware(logger)(RequestIDMiddleware(func(*http.Request) string { return "abc" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).Info("inside")
		})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0][FieldRequestID] != "abc" {
		t.Errorf("lines = %v", lines)
	}
}

func TestFromContext_Default(t *testing.T) {
	if l := FromContext(context.Background()); l == nil || l.Component() != "unknown" {
		t.Errorf("FromContext() = %v", l)
	}
}
