package dto

// GoogleCredentialRequest carries the ID token returned by Google Sign-In
type GoogleCredentialRequest struct {
	Credential string `json:"credential"`
}

// CreateHabitRequest represents a request to create a habit with its first slot
type CreateHabitRequest struct {
	Name      string  `json:"name"`
	Period    string  `json:"period"`
	LocalTime *string `json:"local_time"`
}

// HabitLogRequest represents a completion record for one habit slot and day.
// Completed defaults to true when omitted.
type HabitLogRequest struct {
	HabitID   string  `json:"habit_id"`
	Period    string  `json:"period"`
	Day       string  `json:"day"`
	Completed *bool   `json:"completed"`
	Note      *string `json:"note"`
}

// DailyCompletionQuery holds the raw stats query parameters
type DailyCompletionQuery struct {
	UserID string `form:"user_id"`
	Days   string `form:"days"`
	EndDay string `form:"end_day"`
}
