package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentStorage, Output: &buf})
	l.Info("saved", FieldID, 3)
	l.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "component=storage") || !strings.Contains(out, "id=3") {
		t.Fatalf("missing fields: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record leaked at info level: %q", out)
	}

	buf.Reset()
	l.WithComponent(ComponentEvents).Warn("publish failed")
	if !strings.Contains(buf.String(), "component=events") {
		t.Fatalf("component not replaced: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		" warn": slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %v err=%v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().WithOperation(OpInsert).WithRecord("expenses", 9).WithError(errors.New("boom"))
	if len(f.ToSlice()) != 8 {
		t.Fatalf("unexpected fields %v", f)
	}
	if _, ok := NewFields().WithError(nil)[FieldError]; ok {
		t.Fatalf("nil error must not add a field")
	}
}
