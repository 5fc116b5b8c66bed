package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prperemyshlev/habit-tracker/internal/domain"
	"github.com/prperemyshlev/habit-tracker/internal/dto"
	"github.com/prperemyshlev/habit-tracker/internal/repository"
	"github.com/prperemyshlev/habit-tracker/internal/utils"
	"github.com/prperemyshlev/habit-tracker/pkg/observability"
)

var (
	errInvalidHabitID   = domain.NewError(domain.ErrUnprocessable, "habit_id must be a valid UUID")
	errInvalidPeriod    = domain.NewError(domain.ErrUnprocessable, "period must be one of MORNING, AFTERNOON, NIGHT")
	errInvalidDay       = domain.NewError(domain.ErrUnprocessable, "day must be a date in YYYY-MM-DD format")
	errMissingName      = domain.NewError(domain.ErrUnprocessable, "name is required")
	errInvalidLocalTime = domain.NewError(domain.ErrInvalidInput, "Invalid time format, expected HH:MM")
	errHabitNotFound    = domain.NewError(domain.ErrNotFound, "Habit not found")
)

// habitService implements HabitService interface
type habitService struct {
	habitRepo repository.HabitRepository
	logRepo   repository.HabitLogRepository
	metrics   *observability.Metrics
	now       func() time.Time
}

// NewHabitService creates a new habit service. A nil now uses the wall clock.
func NewHabitService(
	habitRepo repository.HabitRepository,
	logRepo repository.HabitLogRepository,
	metrics *observability.Metrics,
	now func() time.Time,
) HabitService {
	if now == nil {
		now = time.Now
	}
	return &habitService{
		habitRepo: habitRepo,
		logRepo:   logRepo,
		metrics:   metrics,
		now:       now,
	}
}

// Checklist returns the user's slots for day, or for today when day is empty
func (s *habitService) Checklist(ctx context.Context, userID, day string) ([]domain.ChecklistItem, error) {
	target := utils.Today(s.now())
	if strings.TrimSpace(day) != "" {
		parsed, err := utils.ParseDay(day)
		if err != nil {
			return nil, errInvalidDay
		}
		target = parsed
	}

	items, err := s.habitRepo.Checklist(ctx, userID, target)
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist: %w", err)
	}

	return items, nil
}

// CreateHabit creates a habit together with its first slot
func (s *habitService) CreateHabit(ctx context.Context, userID string, req *dto.CreateHabitRequest) (*domain.Habit, *domain.HabitSlot, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, nil, errMissingName
	}

	period := domain.Period(req.Period)
	if !period.Valid() {
		return nil, nil, errInvalidPeriod
	}

	var localTime *string
	if req.LocalTime != nil && strings.TrimSpace(*req.LocalTime) != "" {
		parsed, err := utils.ParseLocalTime(*req.LocalTime)
		if err != nil {
			return nil, nil, errInvalidLocalTime
		}
		localTime = &parsed
	}

	habit := &domain.Habit{UserID: userID, Name: name}
	slot := &domain.HabitSlot{Period: period, LocalTime: localTime}

	if err := s.habitRepo.CreateWithSlot(ctx, habit, slot); err != nil {
		return nil, nil, fmt.Errorf("failed to create habit: %w", err)
	}

	s.metrics.RecordHabitCreated(ctx, string(period))

	return habit, slot, nil
}

// LogHabit records whether a habit slot was completed on a day
func (s *habitService) LogHabit(ctx context.Context, userID string, req *dto.HabitLogRequest) (*domain.HabitLog, error) {
	habitID, err := utils.ParseUUID(req.HabitID)
	if err != nil {
		return nil, errInvalidHabitID
	}

	period := domain.Period(req.Period)
	if !period.Valid() {
		return nil, errInvalidPeriod
	}

	day, err := utils.ParseDay(req.Day)
	if err != nil {
		return nil, errInvalidDay
	}

	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	saved, err := s.logRepo.Upsert(ctx, userID, &domain.HabitLog{
		HabitID:   habitID,
		Period:    period,
		Day:       day,
		Completed: completed,
		Note:      req.Note,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errHabitNotFound
		}
		return nil, fmt.Errorf("failed to log habit: %w", err)
	}

	s.metrics.RecordHabitLog(ctx, saved.Completed)

	return saved, nil
}
