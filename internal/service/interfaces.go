package service

import (
	"context"

	"github.com/prperemyshlev/habit-tracker/internal/domain"
	"github.com/prperemyshlev/habit-tracker/internal/dto"
)

// AuthService defines methods for authentication operations
type AuthService interface {
	LoginWithGoogle(ctx context.Context, req *dto.GoogleCredentialRequest) (*LoginResult, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// HabitService defines methods for habits and their daily logs
type HabitService interface {
	Checklist(ctx context.Context, userID, day string) ([]domain.ChecklistItem, error)
	CreateHabit(ctx context.Context, userID string, req *dto.CreateHabitRequest) (*domain.Habit, *domain.HabitSlot, error)
	LogHabit(ctx context.Context, userID string, req *dto.HabitLogRequest) (*domain.HabitLog, error)
}

// StatsService defines methods for derived completion statistics
type StatsService interface {
	DailyCompletion(ctx context.Context, q *dto.DailyCompletionQuery) ([]domain.DailyCompletion, error)
}

// TokenIssuer signs session tokens
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// LoginResult is a signed-in user together with its fresh session token
type LoginResult struct {
	User  *domain.User
	Token string
}
