// Package reqctx provides centralized request context management.
//
// This package is the single source of truth for all request-scoped data:
// the immutable request snapshot taken at pipeline entry, the correlation
// identifiers echoed back to the client, and the verified user identity.
//
// # Context Keys
//
// All context keys are private unexported types to prevent collisions.
// Access is provided through type-safe getter and setter functions.
//
// # Usage
//
// Setting values (typically in the edge pipeline):
//
//	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{
//	    Method:      "GET",
//	    Path:        "/dashboard",
//	    UserAgent:   "Mozilla/5.0",
//	    RequestedAt: time.Now(),
//	})
//
//	ctx = reqctx.WithCorrelation(ctx, corr)
//
// Getting values (in handlers, services, etc.):
//
//	meta, ok := reqctx.RequestMetaFromContext(ctx)
//	corr, ok := reqctx.CorrelationFromContext(ctx)
//	if user, ok := reqctx.UserFromContext(ctx); ok {
//	    _ = user.ID
//	}
//
// # Contracts
//
// The following contracts are guaranteed:
//
//   - RequestMeta is set by the edge pipeline for every non-skipped request
//     and is never mutated afterwards
//   - Correlation is set together with RequestMeta; its identifiers match
//     the X-Request-ID and X-Trace-ID response headers
//   - User is set only after the session verifier produced an
//     authenticated outcome
//
// Request-scoped data is carried exclusively on context.Context values
// threaded through each call. There is no ambient per-request state, so
// concurrent requests on the same process can never observe each other's
// values.
package reqctx
