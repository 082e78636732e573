package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/praxiskit/praxis_backend/config"
	"github.com/praxiskit/praxis_backend/pkg/logs"
	"github.com/praxiskit/praxis_backend/pkg/observability"
	pasetotoken "github.com/praxiskit/praxis_backend/pkg/paseto"
	redispkg "github.com/praxiskit/praxis_backend/pkg/redis"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideLogger),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideInstruments),
	fx.Provide(ProvidePasetoManager),
)

func ProvideLogger(cfg *config.Config) *slog.Logger {
	logger := logs.New(cfg)
	slog.SetDefault(logger)
	return logger
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.New(cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		Environment:    cfg.Server.Environment,
		OTLPEndpoint:   cfg.Observability.Tracing.OTLPEndpoint,
		OTLPInsecure:   cfg.Observability.Tracing.OTLPInsecure,
		SamplingRate:   cfg.Observability.Tracing.SamplingRate,
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down telemetry")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}

// ProvideInstruments depends on *observability.Provider so the global
// OTel providers are registered before the instruments are created.
func ProvideInstruments(_ *observability.Provider, logger *slog.Logger) *observability.Instruments {
	return observability.NewInstruments(logger)
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.New(pasetotoken.Config{
		Issuer:   cfg.Session.Paseto.Issuer,
		Audience: cfg.Session.Paseto.Audience,
		TTL:      time.Duration(cfg.Session.TTLMinutes) * time.Minute,
	}, cfg.Session.Paseto.LocalKeyHex)
}
