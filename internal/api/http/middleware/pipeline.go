package middleware

import (
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/praxiskit/praxis_backend/config"
	"github.com/praxiskit/praxis_backend/pkg/observability"
	"github.com/praxiskit/praxis_backend/pkg/reqctx"
)

// Response header names the pipeline writes.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
	HeaderUserID    = "x-user-id"
	HeaderUserEmail = "x-user-email"
)

// Pipeline gates every inbound request before it reaches a handler:
// classification, span/context creation, metrics, optional rate limiting,
// and session verification, all funneled into a single finalization point.
//
// Stage order: classify (skip check) → open span + correlation → started
// counter → security headers → rate-limit gate (API paths) → session
// verifier (protected paths) → handler → finish. Every exit path goes
// through finish exactly once.
type Pipeline struct {
	instruments *observability.Instruments
	headers     *SecurityHeaders
	verifier    *SessionVerifier
	gate        RateLimitGate

	loginPath   string
	apiPrefix   string
	logRequests bool
	logger      *slog.Logger
}

func NewPipeline(
	instruments *observability.Instruments,
	headers *SecurityHeaders,
	verifier *SessionVerifier,
	gate RateLimitGate,
	cfg *config.Config,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		instruments: instruments,
		headers:     headers,
		verifier:    verifier,
		gate:        gate,
		loginPath:   cfg.Session.LoginPath,
		apiPrefix:   cfg.RateLimit.APIPrefix,
		logRequests: cfg.Logging.Requests,
		logger:      logger,
	}
}

// requestState is the per-request finalization state. finished guards the
// span close and the terminal metrics so finish is exactly-once even if a
// future refactor introduces a second call site on some path.
type requestState struct {
	meta     *reqctx.RequestMeta
	corr     *reqctx.Correlation
	span     trace.Span
	finished bool
}

// Handler returns the pipeline as a single Fiber middleware.
func (p *Pipeline) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		class := Classify(c.Path())
		if class == RouteSkip {
			return c.Next()
		}

		// Immutable snapshot, captured at entry.
		meta := &reqctx.RequestMeta{
			Method:      c.Method(),
			Path:        c.Path(),
			Query:       string(c.Request().URI().QueryString()),
			ClientIP:    c.IP(),
			UserAgent:   c.Get("User-Agent"),
			RequestedAt: time.Now(),
		}

		ctx := observability.Extract(c.Context(), c.GetReqHeaders())
		ctx, span := p.instruments.StartRequest(ctx, meta)
		span.SetAttributes(attribute.String("http.route_class", class.String()))

		corr := reqctx.NewCorrelation(traceID(span))
		ctx = reqctx.WithRequestMeta(ctx, meta)
		ctx = reqctx.WithCorrelation(ctx, corr)
		c.SetContext(ctx)

		st := &requestState{meta: meta, corr: corr, span: span}

		// In-flight volume is observable before any gating decision.
		p.instruments.MarkStarted(ctx, meta)

		c.Set(HeaderRequestID, corr.RequestID)
		c.Set(HeaderTraceID, corr.TraceID)
		p.headers.Apply(c)

		// Rate-limit gate, API namespace only.
		if strings.HasPrefix(meta.Path, p.apiPrefix) && p.gate != nil && p.gate.Enabled() {
			rejection, err := p.gate.Check(ctx, meta.ClientIP)
			if err != nil {
				// Fail open: a limiter outage must not become a full
				// API outage.
				p.logger.Error("rate limit check failed, allowing request",
					"error", err,
					"path", meta.Path,
					"request_id", corr.RequestID,
				)
				span.AddEvent("rate_limit_check_failed")
			} else if rejection != nil {
				span.AddEvent("rate_limited")
				if rejection.RetryAfter > 0 {
					c.Set("Retry-After", strconv.Itoa(int(rejection.RetryAfter.Seconds())))
				}
				err := c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "rate limit exceeded",
					"limit": rejection.Limit,
				})
				p.finish(c, st, "rate limited")
				return err
			}
		}

		if class == RouteProtected {
			outcome := p.verifier.Verify(c)
			switch outcome.State {
			case AuthAuthenticated:
				user := outcome.User
				c.Set(HeaderUserID, user.ID.String())
				c.Set(HeaderUserEmail, user.Email)
				ctx = reqctx.WithUser(ctx, &reqctx.User{ID: user.ID, Email: user.Email})
				c.SetContext(ctx)
				span.AddEvent("authenticated", trace.WithAttributes(
					attribute.String("user.id", user.ID.String()),
				))

			case AuthUnauthenticated:
				span.AddEvent("auth_required")
				loc := p.loginPath + "?redirectTo=" + url.QueryEscape(meta.Path)
				err := c.Redirect().Status(fiber.StatusFound).To(loc)
				p.finish(c, st, "auth required")
				return err

			case AuthProviderError:
				p.logger.Error("session verification failed",
					"error", outcome.Err,
					"path", meta.Path,
					"request_id", corr.RequestID,
					"trace_id", corr.TraceID,
				)
				span.AddEvent("auth_error")
				loc := p.loginPath + "?error=session_error"
				err := c.Redirect().Status(fiber.StatusFound).To(loc)
				p.finish(c, st, "session error")
				return err
			}
		}

		err := p.runHandler(c, st)
		p.finish(c, st, "")
		return err
	}
}

// runHandler invokes the route handler, converting a panic into a 500 so
// the request still reaches finalization with a real status.
func (p *Pipeline) runHandler(c fiber.Ctx, st *requestState) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("handler panic",
				"panic", r,
				"path", st.meta.Path,
				"request_id", st.corr.RequestID,
			)
			st.span.AddEvent("handler_panic")
			err = c.SendStatus(fiber.StatusInternalServerError)
		}
	}()
	return c.Next()
}

// finish is the single finalization point every exit path routes through.
// It records the terminal metrics, writes the request log line, appends
// the final span event, and closes the span. Exactly once per request.
func (p *Pipeline) finish(c fiber.Ctx, st *requestState, detail string) {
	if st.finished {
		return
	}
	st.finished = true

	status := c.Response().StatusCode()
	durationMs := time.Since(st.meta.RequestedAt).Seconds() * 1000

	p.instruments.RecordTerminal(c.Context(), st.meta, status, durationMs)

	if p.logRequests {
		attrs := []slog.Attr{
			slog.String("method", st.meta.Method),
			slog.String("path", st.meta.Path),
			slog.Int("status", status),
			slog.Float64("duration_ms", durationMs),
			slog.String("request_id", st.corr.RequestID),
			slog.String("trace_id", st.corr.TraceID),
		}
		if detail != "" {
			attrs = append(attrs, slog.String("detail", detail))
		}
		p.logger.LogAttrs(c.Context(), slog.LevelInfo, "request completed", attrs...)
	}

	st.span.AddEvent("finalized", trace.WithAttributes(
		attribute.Int("http.status_code", status),
		attribute.Float64("http.duration_ms", durationMs),
	))
	st.span.SetAttributes(attribute.Int("http.status_code", status))
	observability.SpanStatus(st.span, status)
	st.span.End()
}

func traceID(span trace.Span) string {
	if span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
