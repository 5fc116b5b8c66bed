package service

import (
	"time"

	"github.com/prperemyshlev/habit-tracker/internal/domain"
	"github.com/prperemyshlev/habit-tracker/internal/utils"
)

// Aggregate builds the daily completion series for the days ending at
// endDay. Every day reports the same total, the number of distinct active
// slots, and counts only completed logs whose slot is still active.
func Aggregate(slots []domain.SlotKey, logs []domain.CompletedLog, endDay time.Time, days int) []domain.DailyCompletion {
	if days < 1 {
		return []domain.DailyCompletion{}
	}

	active := make(map[domain.SlotKey]struct{}, len(slots))
	for _, slot := range slots {
		active[slot] = struct{}{}
	}
	total := len(active)

	start := endDay.AddDate(0, 0, -(days - 1))

	completed := make(map[string]int)
	counted := make(map[domain.CompletedLog]struct{}, len(logs))
	for _, log := range logs {
		if _, ok := active[log.SlotKey]; !ok {
			continue
		}
		if log.Day.Before(start) || log.Day.After(endDay) {
			continue
		}
		if _, dup := counted[log]; dup {
			continue
		}
		counted[log] = struct{}{}
		completed[utils.FormatDay(log.Day)]++
	}

	series := make([]domain.DailyCompletion, 0, days)
	for i := 0; i < days; i++ {
		date := utils.FormatDay(start.AddDate(0, 0, i))
		done := completed[date]

		var pct float64
		if total > 0 {
			pct = float64(done) / float64(total)
		}

		series = append(series, domain.DailyCompletion{
			Date:      date,
			Completed: done,
			Total:     total,
			Pct:       pct,
		})
	}

	return series
}
