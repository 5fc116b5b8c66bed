package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prperemyshlev/habit-tracker/internal/domain"
	"github.com/prperemyshlev/habit-tracker/internal/dto"
	"github.com/prperemyshlev/habit-tracker/internal/repository"
	"github.com/prperemyshlev/habit-tracker/internal/utils"
	"github.com/prperemyshlev/habit-tracker/pkg/observability"
)

const (
	// DefaultWindowDays is used when no days parameter is given
	DefaultWindowDays = 21
	// MaxWindowDays is the largest accepted window
	MaxWindowDays = 365
)

var errInvalidEndDay = domain.NewError(domain.ErrUnprocessable, "end_day must be a date in YYYY-MM-DD format")

// statsService implements StatsService interface
type statsService struct {
	statsRepo repository.StatsRepository
	metrics   *observability.Metrics
	now       func() time.Time
}

// NewStatsService creates a new stats service. A nil now uses the wall clock.
func NewStatsService(statsRepo repository.StatsRepository, metrics *observability.Metrics, now func() time.Time) StatsService {
	if now == nil {
		now = time.Now
	}
	return &statsService{
		statsRepo: statsRepo,
		metrics:   metrics,
		now:       now,
	}
}

// DailyCompletion validates the query and returns one row per day of the
// window. Nothing is read from the store when validation fails.
func (s *statsService) DailyCompletion(ctx context.Context, q *dto.DailyCompletionQuery) ([]domain.DailyCompletion, error) {
	userID, err := utils.ParseUUID(q.UserID)
	if err != nil {
		return nil, domain.ErrInvalidUserID
	}

	days, err := parseWindow(q.Days)
	if err != nil {
		return nil, err
	}

	endDay := utils.Today(s.now())
	if strings.TrimSpace(q.EndDay) != "" {
		endDay, err = utils.ParseDay(q.EndDay)
		if err != nil {
			return nil, errInvalidEndDay
		}
	}

	from := endDay.AddDate(0, 0, -(days - 1))

	slots, logs, err := s.statsRepo.CompletionInputs(ctx, userID, from, endDay)
	if err != nil {
		return nil, fmt.Errorf("failed to compute daily completion: %w", err)
	}

	s.metrics.RecordStatsQuery(ctx, days)

	return Aggregate(slots, logs, endDay, days), nil
}

func parseWindow(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultWindowDays, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > MaxWindowDays {
		return 0, domain.ErrInvalidWindow
	}

	return days, nil
}
