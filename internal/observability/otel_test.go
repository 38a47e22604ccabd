package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tbourn/recettes/internal/config"
)

func preserveOTelGlobals(t *testing.T) func() {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	return func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	}
}

func TestSetupOTel_Disabled_NoOp(t *testing.T) {
	restore := preserveOTelGlobals(t)
	defer restore()

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{
		Enabled:     false,
		Insecure:    true,
		Endpoint:    "ignored:4317",
		ServiceName: "svc",
		SampleRatio: 1.0,
	}, "v0.0.0")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if shutdown == nil {
		t.Fatalf("expected non-nil shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown returned error: %v", err)
	}
}

func TestSetupOTel_Enabled_SetsProviderAndPropagator(t *testing.T) {
	for _, insecure := range []bool{true, false} {
		restore := preserveOTelGlobals(t)

		shutdown, err := SetupOTel(context.Background(), config.OTELConfig{
			Enabled:     true,
			Insecure:    insecure,
			Endpoint:    "localhost:4317",
			ServiceName: "recettes-test",
			SampleRatio: 1.0,
		}, "v1.2.3")
		if err != nil {
			t.Fatalf("insecure=%v: unexpected err: %v", insecure, err)
		}
		if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
			t.Fatalf("insecure=%v: expected *sdktrace.TracerProvider", insecure)
		}

		// Exercise propagator: inject/extract
		prop := otel.GetTextMapPropagator()
		carrier := propagation.MapCarrier{}
		ctx2, span := otel.Tracer("test").Start(context.Background(), "span")
		span.End()
		prop.Inject(ctx2, carrier)
		_ = prop.Extract(context.Background(), carrier)

		_ = shutdown(context.Background())
		restore()
	}
}

func enabledConfig(name string) config.OTELConfig {
	return config.OTELConfig{
		Enabled:     true,
		Insecure:    true,
		Endpoint:    "localhost:4317",
		ServiceName: name,
		SampleRatio: 1.0,
	}
}

// The exporter connects lazily: a canceled setup context is harmless and
// shutdown returns promptly without a collector.
func TestSetupOTel_LazyExporter(t *testing.T) {
	restore := preserveOTelGlobals(t)
	defer restore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	shutdown, err := SetupOTel(ctx, enabledConfig("recettes-lazy"), "dev")
	if err != nil {
		t.Fatalf("setup with canceled ctx: %v", err)
	}
	sctx, scancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer scancel()
	if err := shutdown(sctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupOTel_Failures_LeaveGlobalsIntact(t *testing.T) {
	origExp, origRes := newOTLPExporterFn, newServiceResourceFn
	defer func() { newOTLPExporterFn, newServiceResourceFn = origExp, origRes }()

	cases := map[string]func(){
		"exporter": func() {
			newOTLPExporterFn = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
				return nil, errors.New("exporter down")
			}
		},
		"resource": func() {
			newServiceResourceFn = func(context.Context, string, string) (*resource.Resource, error) {
				return nil, errors.New("bad resource")
			}
		},
	}
	for name, inject := range cases {
		t.Run(name, func(t *testing.T) {
			restore := preserveOTelGlobals(t)
			defer restore()
			newOTLPExporterFn, newServiceResourceFn = origExp, origRes
			inject()

			prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
			if _, err := SetupOTel(context.Background(), enabledConfig("recettes"), "dev"); err == nil {
				t.Fatal("expected error")
			}
			if otel.GetTracerProvider() != prevTP || otel.GetTextMapPropagator() != prevProp {
				t.Fatal("globals changed on failure")
			}
		})
	}
}

func TestStartSpan_RecordsErrorStatus(t *testing.T) {
	restore := preserveOTelGlobals(t)
	defer restore()

	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))

	run := func(fail bool) (err error) {
		_, end := StartSpan(context.Background(), "DishService", "Create", attribute.Int("dish.id", 7))
		defer end(&err)
		if fail {
			return errors.New("boom")
		}
		return nil
	}
	_ = run(false)
	_ = run(true)

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 ended spans, got %d", len(spans))
	}
	if spans[0].Name() != "Create" || spans[0].InstrumentationScope().Name != "services/DishService" {
		t.Fatalf("unexpected span: %s / %s", spans[0].Name(), spans[0].InstrumentationScope().Name)
	}
	if spans[0].Status().Code != codes.Unset {
		t.Fatalf("successful span should keep unset status, got %v", spans[0].Status())
	}
	if spans[1].Status().Code != codes.Error || spans[1].Status().Description != "boom" {
		t.Fatalf("failed span status = %v", spans[1].Status())
	}
	if len(spans[1].Events()) == 0 {
		t.Fatalf("expected error event on failed span")
	}

	// A nil error pointer is tolerated.
	_, end := StartSpan(context.Background(), "X", "Y")
	end(nil)
}
