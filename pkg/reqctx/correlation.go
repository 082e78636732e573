package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// Correlation holds the identifiers propagated back to the caller for
// cross-system log and trace correlation. It is created exactly once per
// request and scoped to the request's lifetime.
type Correlation struct {
	// RequestID is a unique identifier for this request.
	// Format: UUID v4 string. Echoed as the X-Request-ID response header.
	RequestID string

	// TraceID is a 32-character hex string (128-bit) identifying the
	// distributed trace. Echoed as the X-Trace-ID response header.
	TraceID string
}

// NewCorrelation creates a Correlation with a fresh request ID. traceID
// normally comes from the root span; when tracing is disabled an independent
// random ID is generated so the response headers stay non-empty.
func NewCorrelation(traceID string) *Correlation {
	if traceID == "" {
		traceID = GenerateTraceID()
	}
	return &Correlation{
		RequestID: uuid.NewString(),
		TraceID:   traceID,
	}
}

// WithCorrelation stores correlation identifiers in the context.
func WithCorrelation(ctx context.Context, corr *Correlation) context.Context {
	return context.WithValue(ctx, keyCorrelation, corr)
}

// CorrelationFromContext retrieves correlation identifiers from the context.
// Returns nil, false if not set.
func CorrelationFromContext(ctx context.Context) (*Correlation, bool) {
	v := ctx.Value(keyCorrelation)
	if v == nil {
		return nil, false
	}
	corr, ok := v.(*Correlation)
	return corr, ok
}

// RequestIDFromContext is a convenience function to get just the request ID.
// Returns empty string if Correlation is not set.
func RequestIDFromContext(ctx context.Context) string {
	corr, ok := CorrelationFromContext(ctx)
	if !ok || corr == nil {
		return ""
	}
	return corr.RequestID
}

// TraceIDFromContext returns the trace ID, or empty string if not set.
func TraceIDFromContext(ctx context.Context) string {
	corr, ok := CorrelationFromContext(ctx)
	if !ok || corr == nil {
		return ""
	}
	return corr.TraceID
}

// GenerateTraceID creates a new random 128-bit trace ID as a 32-char hex string.
func GenerateTraceID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
