package domain

import "time"

// Period is one of the fixed daily buckets a habit can be scheduled in.
type Period string

const (
	PeriodMorning   Period = "MORNING"
	PeriodAfternoon Period = "AFTERNOON"
	PeriodNight     Period = "NIGHT"
)

// Valid reports whether p is a known period
func (p Period) Valid() bool {
	switch p {
	case PeriodMorning, PeriodAfternoon, PeriodNight:
		return true
	}
	return false
}

// Habit represents a habit owned by exactly one user
type Habit struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Archived  bool      `json:"archived" db:"archived"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HabitSlot binds a habit to a period and an optional "HH:MM" reminder time
type HabitSlot struct {
	HabitID   string  `json:"habit_id" db:"habit_id"`
	Period    Period  `json:"period" db:"period"`
	LocalTime *string `json:"local_time" db:"local_time"`
}

// HabitLog is the completion record for one habit, period and calendar day.
// Day is a UTC midnight timestamp.
type HabitLog struct {
	HabitID   string    `json:"habit_id" db:"habit_id"`
	Period    Period    `json:"period" db:"period"`
	Day       time.Time `json:"day" db:"day"`
	Completed bool      `json:"completed" db:"completed"`
	Note      *string   `json:"note" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ChecklistItem is one slot of a user's checklist for a given day
type ChecklistItem struct {
	HabitID   string  `json:"habit_id"`
	Name      string  `json:"name"`
	Period    Period  `json:"period"`
	LocalTime *string `json:"local_time"`
	Completed bool    `json:"completed"`
}
