package domain

import "time"

// SlotKey identifies a scheduled (habit, period) pair
type SlotKey struct {
	HabitID string
	Period  Period
}

// CompletedLog is a completed habit_log row reduced to what aggregation needs
type CompletedLog struct {
	SlotKey
	Day time.Time
}

// DailyCompletion is one row of the daily completion time series
type DailyCompletion struct {
	Date      string  `json:"date"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Pct       float64 `json:"pct"`
}
