package observability

import (
	"errors"
	"testing"

	"github.com/riskibarqy/statlink/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
)

func TestIsQuietRequest(t *testing.T) {
	if !isQuietRequest("http_request", []any{"http_status", 200, "http_path", "/healthz"}) {
		t.Fatalf("expected health check log to be quiet")
	}
	if isQuietRequest("http_request", []any{"http_path", "/v1/internal/jobs/link-players"}) {
		t.Fatalf("did not expect link job request to be quiet")
	}
	if isQuietRequest("link run finished", []any{"http_path", "/healthz"}) {
		t.Fatalf("did not expect non-request event to be quiet")
	}
}

func TestLogAttributes(t *testing.T) {
	attrs := logAttributes([]any{"run_id", "link-1", "linked", 3, "", 0.91, "dangling"})
	if len(attrs) != 4 {
		t.Fatalf("expected 4 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "run_id" || attrs[0].Value.AsString() != "link-1" {
		t.Fatalf("unexpected run_id attribute: %+v", attrs[0])
	}
	if attrs[1].Value.Kind() != otellog.KindInt64 || attrs[1].Value.AsInt64() != 3 {
		t.Fatalf("unexpected linked attribute: %+v", attrs[1])
	}
	if attrs[2].Key != "arg_2" || attrs[2].Value.AsFloat64() != 0.91 {
		t.Fatalf("unexpected unnamed attribute: %+v", attrs[2])
	}
	if attrs[3].Key != "dangling" || attrs[3].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected dangling attribute: %+v", attrs[3])
	}
}

func TestLogValue(t *testing.T) {
	m := logValue(map[string]any{"linked": uint16(2), "types": []string{"exact", "alias"}}, 0)
	if m.Kind() != otellog.KindMap || len(m.AsMap()) != 2 {
		t.Fatalf("expected 2 item map, got %s", m.Kind())
	}
	if got := logValue(errors.New("boom"), 0).AsString(); got != "boom" {
		t.Fatalf("unexpected error rendering: %q", got)
	}
	nested := logValue([]any{[]any{[]any{[]any{"deep"}}}}, 0)
	if nested.Kind() != otellog.KindSlice {
		t.Fatalf("expected slice, got %s", nested.Kind())
	}
}

func TestSeverityOf(t *testing.T) {
	if severityOf(logging.LevelWarn) != otellog.SeverityWarn {
		t.Fatalf("warn should map to SeverityWarn")
	}
	if severityOf(logging.LevelError) != otellog.SeverityError {
		t.Fatalf("error should map to SeverityError")
	}
}
