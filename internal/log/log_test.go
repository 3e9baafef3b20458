package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
)

func newJSONLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{Level: slog.LevelDebug, Component: component, Format: "json", Output: buf})
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &rec); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	return rec
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, ComponentAdvisor)
	l.Info("analysis requested", FieldProjectID, "p1")

	rec := lastRecord(t, &buf)
	if rec[FieldComponent] != ComponentAdvisor || rec[FieldProjectID] != "p1" {
		t.Fatalf("unexpected record %v", rec)
	}

	l.WithComponent(ComponentAuth).Warn("login failed")
	if got := lastRecord(t, &buf)[FieldComponent]; got != ComponentAuth {
		t.Fatalf("component = %v, want %s", got, ComponentAuth)
	}
}

func TestFromContextFallsBack(t *testing.T) {
	if l := FromContext(context.Background()); l == nil || l.Component() != ComponentApp {
		t.Fatalf("unexpected fallback logger %+v", l)
	}
	var buf bytes.Buffer
	l := newJSONLogger(&buf, ComponentHTTP)
	if got := FromContext(WithLogger(context.Background(), l)); got != l {
		t.Fatal("logger not carried by context")
	}
}

func TestLogHTTPEndLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "INFO"},
		{422, "WARN"},
		{500, "ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewStructuredLogger(newJSONLogger(&buf, ComponentApp))
		r := httptest.NewRequest("POST", "/projects?x=1", nil)
		sl.LogHTTPEnd(context.Background(), r, "req_1", tt.status, 12, "10.0.0.1")

		rec := lastRecord(t, &buf)
		if rec["level"] != tt.level {
			t.Errorf("status %d: level %v, want %s", tt.status, rec["level"], tt.level)
		}
		if rec[FieldRequestID] != "req_1" || rec[FieldQuery] != "x=1" {
			t.Errorf("status %d: unexpected fields %v", tt.status, rec)
		}
	}
}

func TestLogMutationAndError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newJSONLogger(&buf, ComponentApp))

	sl.LogMutation(context.Background(), "material", OpCreate, "m1", "p1")
	rec := lastRecord(t, &buf)
	if rec[FieldEntity] != "material" || rec[FieldEntityID] != "m1" || rec[FieldComponent] != ComponentProject {
		t.Fatalf("unexpected mutation record %v", rec)
	}

	sl.LogError(context.Background(), "export failed", errors.New("boom"), ComponentReport, OpExport, nil)
	rec = lastRecord(t, &buf)
	if rec[FieldError] != "boom" || rec[FieldOperation] != OpExport || rec[FieldComponent] != ComponentReport {
		t.Fatalf("unexpected error record %v", rec)
	}
}
