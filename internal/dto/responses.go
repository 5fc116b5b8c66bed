package dto

import (
	"time"

	"github.com/prperemyshlev/habit-tracker/internal/domain"
	"github.com/prperemyshlev/habit-tracker/internal/utils"
)

// UserEnvelope wraps the signed-in user. User is null when nobody is signed in.
type UserEnvelope struct {
	User *domain.User `json:"user"`
}

// OKResponse is returned by endpoints with nothing else to report
type OKResponse struct {
	OK bool `json:"ok"`
}

// HabitResponse represents a newly created habit
type HabitResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Period    domain.Period `json:"period"`
	LocalTime *string       `json:"local_time"`
}

// NewHabitResponse builds the response for a habit and its slot
func NewHabitResponse(habit *domain.Habit, slot *domain.HabitSlot) HabitResponse {
	return HabitResponse{
		ID:        habit.ID,
		Name:      habit.Name,
		Period:    slot.Period,
		LocalTime: slot.LocalTime,
	}
}

// HabitLogResponse represents a stored habit log
type HabitLogResponse struct {
	HabitID   string        `json:"habit_id"`
	Period    domain.Period `json:"period"`
	Day       string        `json:"day"`
	Completed bool          `json:"completed"`
	Note      *string       `json:"note"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewHabitLogResponse renders a habit log with its day as YYYY-MM-DD
func NewHabitLogResponse(log *domain.HabitLog) HabitLogResponse {
	return HabitLogResponse{
		HabitID:   log.HabitID,
		Period:    log.Period,
		Day:       utils.FormatDay(log.Day),
		Completed: log.Completed,
		Note:      log.Note,
		CreatedAt: log.CreatedAt,
	}
}

// PingResponse answers the stats router ping
type PingResponse struct {
	OK     bool   `json:"ok"`
	Router string `json:"router"`
	Path   string `json:"path"`
}

// IndexResponse describes the API at the root path
type IndexResponse struct {
	Name            string   `json:"name"`
	AuthEndpoints   []string `json:"auth_endpoints"`
	HabitEndpoints  []string `json:"habit_endpoints"`
	StreakEndpoints []string `json:"streak_endpoints"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
