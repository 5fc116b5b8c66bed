package repository

import (
	"context"
	"time"

	"github.com/prperemyshlev/habit-tracker/internal/domain"
)

// UserRepository is the user directory keyed by email
type UserRepository interface {
	Upsert(ctx context.Context, claims domain.ProviderClaims) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// HabitRepository stores habits and their slots
type HabitRepository interface {
	CreateWithSlot(ctx context.Context, habit *domain.Habit, slot *domain.HabitSlot) error
	Checklist(ctx context.Context, userID string, day time.Time) ([]domain.ChecklistItem, error)
}

// HabitLogRepository stores per-day completion records
type HabitLogRepository interface {
	Upsert(ctx context.Context, userID string, log *domain.HabitLog) (*domain.HabitLog, error)
}

// StatsRepository loads the rows the daily completion aggregation works on
type StatsRepository interface {
	CompletionInputs(ctx context.Context, userID string, from, to time.Time) ([]domain.SlotKey, []domain.CompletedLog, error)
}
