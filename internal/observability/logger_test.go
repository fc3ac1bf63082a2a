package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLogger_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "dev")

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	log.InfoContext(ctx, "hello")
	span.End()

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v body=%s", err, buf.String())
	}

	if rec["trace_id"] != span.SpanContext().TraceID().String() {
		t.Fatalf("trace_id = %v, want %s", rec["trace_id"], span.SpanContext().TraceID())
	}
	if rec["span_id"] == nil {
		t.Fatalf("missing span_id in %v", rec)
	}
	if rec["trace_sampled"] != true {
		t.Fatalf("trace_sampled = %v, want true", rec["trace_sampled"])
	}
}

func TestLogger_NoTraceWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "prod")

	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered outside dev, got %s", buf.String())
	}

	log.Info("shown")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if _, ok := rec["trace_id"]; ok {
		t.Fatalf("unexpected trace_id in %v", rec)
	}
}
