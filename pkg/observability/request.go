package observability

import (
	"context"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/praxiskit/praxis_backend/pkg/reqctx"
)

const instrumentationName = "github.com/praxiskit/praxis_backend/pkg/observability"

// StatusStarted is the provisional status label recorded right after span
// creation, before any gating decision, so in-flight volume is observable
// even for requests that later fail.
const StatusStarted = "started"

// Instruments bundles the tracer and the request metrics the edge pipeline
// records. Instrument creation errors are logged and the affected metric is
// skipped; recording must never be able to fail a request.
type Instruments struct {
	tracer          trace.Tracer
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
}

// NewInstruments builds the per-request tracer and metric instruments from
// the globally registered OTel providers.
func NewInstruments(logger *slog.Logger) *Instruments {
	tracer := otel.Tracer(instrumentationName)
	meter := otel.Meter(instrumentationName)

	requestCount, err := meter.Int64Counter(
		"http_server_request_count",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		logger.Error("failed to create request counter", "error", err)
		requestCount = nil
	}

	requestDuration, err := meter.Float64Histogram(
		"http_server_request_duration_ms",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		logger.Error("failed to create request duration histogram", "error", err)
		requestDuration = nil
	}

	return &Instruments{
		tracer:          tracer,
		requestCount:    requestCount,
		requestDuration: requestDuration,
	}
}

// Extract pulls W3C trace context from incoming request headers so the root
// span joins an existing distributed trace when one is propagated.
func Extract(ctx context.Context, headers map[string][]string) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(headers))
}

// StartRequest opens the root span for one request. The span name is
// "<METHOD> <path>" and the attributes are captured from the immutable
// request snapshot, never mutated afterwards.
func (in *Instruments) StartRequest(ctx context.Context, meta *reqctx.RequestMeta) (context.Context, trace.Span) {
	return in.tracer.Start(ctx, meta.Method+" "+meta.Path,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.method", meta.Method),
			attribute.String("http.route", meta.Path),
			attribute.String("http.query", meta.Query),
			attribute.String("http.user_agent", meta.UserAgent),
			attribute.String("http.client_ip", meta.ClientIP),
		),
	)
}

// MarkStarted increments the request counter with the provisional status
// label. Called exactly once per non-skipped request, before gating logic.
func (in *Instruments) MarkStarted(ctx context.Context, meta *reqctx.RequestMeta) {
	if in.requestCount == nil {
		return
	}
	in.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.method", meta.Method),
		attribute.String("http.route", meta.Path),
		attribute.String("http.status", StatusStarted),
	))
}

// RecordTerminal records the terminal counter increment and the duration
// histogram observation, labeled with the final HTTP status. Called exactly
// once per non-skipped request, at finalization.
func (in *Instruments) RecordTerminal(ctx context.Context, meta *reqctx.RequestMeta, status int, durationMs float64) {
	attrs := metric.WithAttributes(
		attribute.String("http.method", meta.Method),
		attribute.String("http.route", meta.Path),
		attribute.String("http.status", strconv.Itoa(status)),
	)

	if in.requestCount != nil {
		in.requestCount.Add(ctx, 1, attrs)
	}
	if in.requestDuration != nil {
		in.requestDuration.Record(ctx, durationMs, attrs)
	}
}

// SpanStatus maps a final HTTP status to the span's terminal status.
func SpanStatus(span trace.Span, status int) {
	if status >= 500 || status == 429 {
		span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(status))
		return
	}
	span.SetStatus(codes.Ok, "")
}
