package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prperemyshlev/habit-tracker/internal/config"
	"github.com/prperemyshlev/habit-tracker/internal/identity"
	"github.com/prperemyshlev/habit-tracker/pkg/database"
	"github.com/prperemyshlev/habit-tracker/pkg/observability"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const serviceName = "habit-tracker"

type Infrastructure interface {
	Postgres() *database.Postgres
	Redis() *database.Redis
	Logger() *zap.Logger
	Metrics() *observability.Metrics
	MetricsHandler() http.Handler
	MeterProvider() *metric.MeterProvider
	Verifier() identity.Verifier

	Shutdown(ctx context.Context) error
}

type infrastructure struct {
	postgres       *database.Postgres
	redis          *database.Redis
	logger         *zap.Logger
	metrics        *observability.Metrics
	metricsHandler http.Handler
	meterProvider  *metric.MeterProvider
	verifier       identity.Verifier
}

var _ Infrastructure = &infrastructure{}

func NewInfrastructure(ctx context.Context, cfg config.Config) (*infrastructure, error) {
	i := &infrastructure{}

	logger, err := observability.InitLogger(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	i.logger = logger

	postgres, err := database.NewPostgres(cfg.Postgres.DSN(), database.PoolOptions{
		MaxOpenConns:   cfg.Postgres.MaxOpenConns,
		AcquireTimeout: cfg.Postgres.AcquireTimeout.Duration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	i.postgres = postgres

	if cfg.Postgres.AutoMigrate {
		if err := database.Migrate(ctx, postgres.DB); err != nil {
			_ = i.postgres.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("Database schema is up to date")
	}

	redis, err := database.NewRedis(ctx, cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		_ = i.postgres.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	i.redis = redis

	meterProvider, metricsHandler, err := observability.InitTelemetry(serviceName)
	if err != nil {
		i.closeStores()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	i.meterProvider = meterProvider
	i.metricsHandler = metricsHandler

	meter := meterProvider.Meter(serviceName)
	metrics, err := observability.NewMetrics(meter)
	if err != nil {
		i.closeStores()
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	i.metrics = metrics

	if err := observability.RegisterPoolGauges(meter, postgres.DB); err != nil {
		i.closeStores()
		return nil, fmt.Errorf("failed to register pool metrics: %w", err)
	}

	verifier, err := identity.NewGoogleVerifier(ctx, cfg.Google.Issuer, cfg.Google.ClientID)
	if err != nil {
		i.closeStores()
		return nil, fmt.Errorf("failed to initialize Google verifier: %w", err)
	}
	i.verifier = verifier

	return i, nil
}

func (i *infrastructure) closeStores() {
	_ = i.postgres.Close()
	_ = i.redis.Close()
}

func (i *infrastructure) Postgres() *database.Postgres {
	return i.postgres
}

func (i *infrastructure) Redis() *database.Redis {
	return i.redis
}

func (i *infrastructure) Logger() *zap.Logger {
	return i.logger
}

func (i *infrastructure) Metrics() *observability.Metrics {
	return i.metrics
}

func (i *infrastructure) MetricsHandler() http.Handler {
	return i.metricsHandler
}

func (i *infrastructure) MeterProvider() *metric.MeterProvider {
	return i.meterProvider
}

func (i *infrastructure) Verifier() identity.Verifier {
	return i.verifier
}

func (i *infrastructure) Shutdown(ctx context.Context) error {
	errs := make(chan error, 3)

	go func() { errs <- i.postgres.Close() }()
	go func() { errs <- i.redis.Close() }()
	go func() { errs <- observability.Shutdown(ctx, i.meterProvider, i.logger) }()

	return errors.Join(<-errs, <-errs, <-errs)
}
