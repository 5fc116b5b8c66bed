package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/prperemyshlev/habit-tracker/internal/domain"
	"github.com/prperemyshlev/habit-tracker/internal/utils"
	"github.com/prperemyshlev/habit-tracker/pkg/database"
)

// statsRepository implements StatsRepository interface
type statsRepository struct {
	db *database.Postgres
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *database.Postgres) StatsRepository {
	return &statsRepository{db: db}
}

// CompletionInputs loads the user's active (habit, period) slots and the
// completed logs dated within [from, to]. Both reads share one connection.
func (r *statsRepository) CompletionInputs(ctx context.Context, userID string, from, to time.Time) ([]domain.SlotKey, []domain.CompletedLog, error) {
	slotsQuery := `
		SELECT s.habit_id::text, s.period::text
		FROM habit h
		JOIN habit_slot s ON s.habit_id = h.id
		WHERE h.user_id = $1::uuid AND h.archived = FALSE`

	logsQuery := `
		SELECT l.habit_id::text, l.period::text, to_char(l.day, 'YYYY-MM-DD')
		FROM habit_log l
		JOIN habit h ON h.id = l.habit_id
		WHERE h.user_id = $1::uuid
		  AND h.archived = FALSE
		  AND l.completed = TRUE
		  AND l.day BETWEEN $2::date AND $3::date`

	slots := []domain.SlotKey{}
	logs := []domain.CompletedLog{}

	err := r.db.WithConn(ctx, func(q database.Querier) error {
		rows, err := q.QueryContext(ctx, slotsQuery, userID)
		if err != nil {
			return err
		}
		for rows.Next() {
			var key domain.SlotKey
			var period string
			if err := rows.Scan(&key.HabitID, &period); err != nil {
				rows.Close()
				return err
			}
			key.Period = domain.Period(period)
			slots = append(slots, key)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		rows, err = q.QueryContext(ctx, logsQuery, userID, utils.FormatDay(from), utils.FormatDay(to))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var entry domain.CompletedLog
			var period, day string
			if err := rows.Scan(&entry.HabitID, &period, &day); err != nil {
				return err
			}
			entry.Period = domain.Period(period)
			if entry.Day, err = utils.ParseDay(day); err != nil {
				return err
			}
			logs = append(logs, entry)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load completion inputs: %w", err)
	}

	return slots, logs, nil
}
