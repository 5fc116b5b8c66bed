package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/habit-tracker/internal/config"
	"github.com/prperemyshlev/habit-tracker/internal/handler"
	"github.com/prperemyshlev/habit-tracker/internal/repository"
	"github.com/prperemyshlev/habit-tracker/internal/service"
	"github.com/prperemyshlev/habit-tracker/internal/session"
	"github.com/prperemyshlev/habit-tracker/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

type handlers struct {
	auth   *handler.AuthHandler
	habit  *handler.HabitHandler
	stats  *handler.StatsHandler
	health *HealthChecker
}

func NewApp(infra Infrastructure, cfg *config.Config) (*App, error) {
	repos := repository.NewRepositories(infra.Postgres())

	codec := session.NewCodec(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.Expiry.Duration)
	transport, err := session.NewTransport(codec, cfg.Cookie, infra.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to configure session cookie: %w", err)
	}

	rateLimiter := service.NewRateLimiter(infra.Redis())

	authService := service.NewAuthService(repos.User, infra.Verifier(), codec, infra.Metrics(), infra.Logger())
	habitService := service.NewHabitService(repos.Habit, repos.HabitLog, infra.Metrics(), nil)
	statsService := service.NewStatsService(repos.Stats, infra.Metrics(), nil)

	h := handlers{
		auth:   handler.NewAuthHandler(authService, transport),
		habit:  handler.NewHabitHandler(habitService),
		stats:  handler.NewStatsHandler(statsService),
		health: NewHealthChecker(infra),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))
	router.Use(handler.SessionMiddleware(transport))

	setupRoutes(router, cfg, h, rateLimiter, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	h handlers,
	rateLimiter *service.RateLimiter,
	metricsHandler http.Handler,
) {
	router.GET("/", handler.Index)
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", h.health.Handler)

	router.POST("/auth/google",
		handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.ClientIPKey("google_login")),
		h.auth.GoogleLogin,
	)
	router.GET("/me", h.auth.Me)
	router.POST("/logout", h.auth.Logout)

	api := router.Group("/api")
	{
		habits := api.Group("", handler.RequireSession())
		{
			habits.GET("/checklist/today", h.habit.Checklist)
			habits.POST("/habit_log", h.habit.LogHabit)
			habits.POST("/habits", h.habit.CreateHabit)
		}

		stats := api.Group("/stats")
		{
			stats.GET("/ping", h.stats.Ping)
			stats.GET("/daily_completion", h.stats.DailyCompletion)
			stats.GET("/daily_completion_v2", h.stats.DailyCompletion)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

// Shutdown stops accepting requests, waits for in-flight ones, then
// releases the pool and the other infrastructure.
func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	serverErr := a.server.Shutdown(ctx)
	infraErr := a.infra.Shutdown(ctx)

	if err := errors.Join(serverErr, infraErr); err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
