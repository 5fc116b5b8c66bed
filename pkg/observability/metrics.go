package observability

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the application counters. A nil *Metrics records nothing.
type Metrics struct {
	logins        metric.Int64Counter
	habitsCreated metric.Int64Counter
	habitLogs     metric.Int64Counter
	statsQueries  metric.Int64Counter
}

// NewMetrics registers the application instruments on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	logins, err := meter.Int64Counter("habit_tracker.logins",
		metric.WithDescription("Google sign-in attempts by outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create logins counter: %w", err)
	}

	habitsCreated, err := meter.Int64Counter("habit_tracker.habits_created",
		metric.WithDescription("Habits created"))
	if err != nil {
		return nil, fmt.Errorf("failed to create habits counter: %w", err)
	}

	habitLogs, err := meter.Int64Counter("habit_tracker.habit_logs",
		metric.WithDescription("Habit log upserts"))
	if err != nil {
		return nil, fmt.Errorf("failed to create habit logs counter: %w", err)
	}

	statsQueries, err := meter.Int64Counter("habit_tracker.stats_queries",
		metric.WithDescription("Daily completion queries served"))
	if err != nil {
		return nil, fmt.Errorf("failed to create stats counter: %w", err)
	}

	return &Metrics{
		logins:        logins,
		habitsCreated: habitsCreated,
		habitLogs:     habitLogs,
		statsQueries:  statsQueries,
	}, nil
}

// RecordLogin counts a sign-in attempt with its outcome
func (m *Metrics) RecordLogin(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordHabitCreated counts a created habit
func (m *Metrics) RecordHabitCreated(ctx context.Context, period string) {
	if m == nil {
		return
	}
	m.habitsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("period", period)))
}

// RecordHabitLog counts a habit log upsert
func (m *Metrics) RecordHabitLog(ctx context.Context, completed bool) {
	if m == nil {
		return
	}
	m.habitLogs.Add(ctx, 1, metric.WithAttributes(attribute.Bool("completed", completed)))
}

// RecordStatsQuery counts a daily completion query
func (m *Metrics) RecordStatsQuery(ctx context.Context, days int) {
	if m == nil {
		return
	}
	m.statsQueries.Add(ctx, 1, metric.WithAttributes(attribute.Int("days", days)))
}

// RegisterPoolGauges reports database pool usage on every collection
func RegisterPoolGauges(meter metric.Meter, db *sql.DB) error {
	inUse, err := meter.Int64ObservableGauge("habit_tracker.db.connections_in_use",
		metric.WithDescription("Pooled database connections currently checked out"))
	if err != nil {
		return fmt.Errorf("failed to create pool gauge: %w", err)
	}

	waits, err := meter.Int64ObservableCounter("habit_tracker.db.wait_count",
		metric.WithDescription("Total number of times a caller waited for a pooled connection"))
	if err != nil {
		return fmt.Errorf("failed to create pool wait counter: %w", err)
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := db.Stats()
		o.ObserveInt64(inUse, int64(stats.InUse))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, inUse, waits)
	if err != nil {
		return fmt.Errorf("failed to register pool callback: %w", err)
	}

	return nil
}

// PrometheusHandler returns a Gin handler for Prometheus metrics
func PrometheusHandler(handler http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if handler != nil {
			handler.ServeHTTP(c.Writer, c.Request)
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "metrics handler not initialized",
			})
		}
	}
}
