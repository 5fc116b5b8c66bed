package repository

import (
	"github.com/prperemyshlev/habit-tracker/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User     UserRepository
	Habit    HabitRepository
	HabitLog HabitLogRepository
	Stats    StatsRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Habit:    NewHabitRepository(db),
		HabitLog: NewHabitLogRepository(db),
		Stats:    NewStatsRepository(db),
	}
}
