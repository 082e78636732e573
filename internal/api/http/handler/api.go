package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"github.com/praxiskit/praxis_backend/config"
	"github.com/praxiskit/praxis_backend/pkg/reqctx"
)

// APIHandler serves the JSON endpoints outside the auth lifecycle: the
// public service endpoints and the session-scoped /api/v1 namespace.
type APIHandler struct {
	cfg *config.Config
	rdb *redis.Client
}

func NewAPIHandler(cfg *config.Config, rdb *redis.Client) *APIHandler {
	return &APIHandler{cfg: cfg, rdb: rdb}
}

// GET /api/health
func (h *APIHandler) Health(c fiber.Ctx) error {
	status := "ok"
	if h.rdb != nil {
		if err := h.rdb.Ping(c.Context()).Err(); err != nil {
			status = "degraded"
		}
	}
	return ok(c, fiber.Map{"status": status})
}

// GET /api/version
func (h *APIHandler) Version(c fiber.Ctx) error {
	return ok(c, fiber.Map{
		"service": h.cfg.Observability.ServiceName,
		"version": h.cfg.Observability.ServiceVersion,
	})
}

// GET /api/v1/me
//
// The user is attached to the context by the edge pipeline; the route
// cannot be reached without a verified session.
func (h *APIHandler) Me(c fiber.Ctx) error {
	user, found := reqctx.UserFromContext(c.Context())
	if !found || user == nil {
		return unauthorized(c, "no session")
	}
	return ok(c, fiber.Map{
		"id":    user.ID,
		"email": user.Email,
	})
}

// GET /api/v1/session
//
// Returns the request's correlation identifiers, mainly so clients can
// surface them in support requests.
func (h *APIHandler) Session(c fiber.Ctx) error {
	corr, _ := reqctx.CorrelationFromContext(c.Context())
	if corr == nil {
		return internalError(c)
	}
	return ok(c, fiber.Map{
		"request_id": corr.RequestID,
		"trace_id":   corr.TraceID,
	})
}
