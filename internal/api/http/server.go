package http

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/fx"

	"github.com/praxiskit/praxis_backend/config"
	"github.com/praxiskit/praxis_backend/internal/api/http/middleware"
	"github.com/praxiskit/praxis_backend/internal/api/http/router"
)

// Module provides the HTTP Server to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Pipeline  *middleware.Pipeline
	Router    *router.Router
	Logger    *slog.Logger
}

func NewServer(p Params) *fiber.App {
	app := fiber.New()

	// The pipeline contains handler panics itself; the recoverer covers
	// skipped routes and anything registered outside the pipeline.
	app.Use(recoverer.New())

	if p.Cfg.Server.CORS.Enabled {
		app.Use(cors.New(cors.Config{AllowOrigins: p.Cfg.Server.CORS.AllowOrigins}))
	}

	app.Use(p.Pipeline.Handler())

	p.Router.Register(app)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := fmt.Sprintf(":%d", p.Cfg.Server.Port)
			go func() {
				if err := app.Listen(addr); err != nil {
					p.Logger.Error("HTTP server error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})

	return app
}
