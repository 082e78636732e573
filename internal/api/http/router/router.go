package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/praxiskit/praxis_backend/config"
	"github.com/praxiskit/praxis_backend/internal/api/http/handler"
	"github.com/praxiskit/praxis_backend/internal/api/http/middleware"
	"github.com/praxiskit/praxis_backend/internal/identity"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg      *config.Config
	Redis    *redis.Client
	Provider identity.Provider
	Verifier *middleware.SessionVerifier
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	pagesH := handler.NewPageHandler()
	authH := handler.NewAuthHandler(r.p.Provider, r.p.Verifier)
	apiH := handler.NewAPIHandler(r.p.Cfg, r.p.Redis)

	// Public pages. The edge pipeline classifies these as public; no
	// session is consulted.
	app.Get("/", pagesH.Home)
	app.Get("/login", pagesH.Login)
	app.Get("/logout", authH.LogoutPage)
	app.Get("/kontakt", pagesH.Contact)
	app.Get("/impressum", pagesH.Imprint)
	app.Get("/datenschutz", pagesH.Privacy)

	// Protected pages. The pipeline redirects to login before these run.
	app.Get("/dashboard", pagesH.Dashboard)
	app.Get("/clients", pagesH.Clients)
	app.Get("/clients/:id", pagesH.ClientDetail)
	app.Get("/appointments", pagesH.Appointments)
	app.Get("/appointments/:id", pagesH.AppointmentDetail)
	app.Get("/documents", pagesH.Documents)
	app.Get("/documents/:id", pagesH.DocumentDetail)
	app.Get("/settings", pagesH.Settings)

	// Public API.
	app.Get("/api/health", apiH.Health)
	app.Get("/api/version", apiH.Version)
	app.Post("/api/auth/login", authH.Login)
	app.Post("/api/auth/logout", authH.Logout)

	// Session-scoped API.
	api := app.Group("/api/v1")
	api.Get("/me", apiH.Me)
	api.Get("/session", apiH.Session)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			return r.p.Redis == nil || r.p.Redis.Ping(c.Context()).Err() == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
