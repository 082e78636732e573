package app

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/praxiskit/praxis_backend/config"
	"github.com/praxiskit/praxis_backend/internal/api/http/middleware"
	"github.com/praxiskit/praxis_backend/internal/identity"
	"github.com/praxiskit/praxis_backend/pkg/observability"
	pasetotoken "github.com/praxiskit/praxis_backend/pkg/paseto"
)

// ServiceModule provides the request-pipeline collaborators.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideIdentityProvider,
		ProvideSessionVerifier,
		ProvideRateLimitGate,
		ProvideSecurityHeaders,
		ProvidePipeline,
	),
)

func ProvideIdentityProvider(rdb *redis.Client, tokens *pasetotoken.Manager, cfg *config.Config, logger *slog.Logger) (identity.Provider, error) {
	return identity.NewStore(rdb, tokens, cfg, logger)
}

func ProvideSessionVerifier(provider identity.Provider, cfg *config.Config, logger *slog.Logger) *middleware.SessionVerifier {
	return middleware.NewSessionVerifier(provider, cfg.Session, logger)
}

func ProvideRateLimitGate(rdb *redis.Client, cfg *config.Config) middleware.RateLimitGate {
	return middleware.NewRedisGate(rdb, cfg.RateLimit)
}

func ProvideSecurityHeaders(cfg *config.Config) *middleware.SecurityHeaders {
	return middleware.NewSecurityHeaders(cfg.Server.Headers)
}

func ProvidePipeline(
	instruments *observability.Instruments,
	headers *middleware.SecurityHeaders,
	verifier *middleware.SessionVerifier,
	gate middleware.RateLimitGate,
	cfg *config.Config,
	logger *slog.Logger,
) *middleware.Pipeline {
	return middleware.NewPipeline(instruments, headers, verifier, gate, cfg, logger)
}
