package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestSetupWithoutEndpoint(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Setup(ctx, "", "test")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	_, span := otel.Tracer("test").Start(ctx, "op")
	if !span.SpanContext().IsValid() {
		t.Error("expected a recording span from the installed provider")
	}
	span.End()

	if err := shutdown(ctx); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestExporterOptions(t *testing.T) {
	if n := len(exporterOptions("collector:4318")); n != 2 {
		t.Errorf("host:port options = %d, want 2", n)
	}
	if n := len(exporterOptions("https://collector.example.com/v1/traces")); n != 1 {
		t.Errorf("URL options = %d, want 1", n)
	}
}
