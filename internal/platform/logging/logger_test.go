package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        LevelInfo,
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestConsoleLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsole(&buf, LevelInfo)

	logger.Debug("hidden")
	logger.Info("link run finished", "linked", 3, "error", errors.New("none"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry should be filtered: %q", out)
	}
	if !strings.Contains(out, "link run finished") || !strings.Contains(out, `"linked": 3`) {
		t.Fatalf("unexpected console output: %q", out)
	}
}

func TestMirrorReceivesContextEntries(t *testing.T) {
	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		got = append(got, level.String()+":"+msg)
	})
	t.Cleanup(func() { SetMirror(nil) })

	var buf bytes.Buffer
	logger := NewConsole(&buf, LevelInfo)
	logger.DebugContext(context.Background(), "filtered")
	logger.WarnContext(context.Background(), "skip record", "index", 2)

	if len(got) != 1 || got[0] != "warn:skip record" {
		t.Fatalf("unexpected mirrored entries: %v", got)
	}
}
