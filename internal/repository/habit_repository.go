package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prperemyshlev/habit-tracker/internal/domain"
	"github.com/prperemyshlev/habit-tracker/internal/utils"
	"github.com/prperemyshlev/habit-tracker/pkg/database"
)

// habitRepository implements HabitRepository interface
type habitRepository struct {
	db *database.Postgres
}

// NewHabitRepository creates a new habit repository
func NewHabitRepository(db *database.Postgres) HabitRepository {
	return &habitRepository{db: db}
}

// CreateWithSlot inserts the habit and its first slot in one transaction.
// habit.ID, habit.CreatedAt and slot.HabitID are filled in on success.
func (r *habitRepository) CreateWithSlot(ctx context.Context, habit *domain.Habit, slot *domain.HabitSlot) error {
	habitQuery := `
		INSERT INTO habit (user_id, "name", archived)
		VALUES ($1::uuid, $2, FALSE)
		RETURNING id::text, created_at`

	slotQuery := `
		INSERT INTO habit_slot (habit_id, period, local_time)
		VALUES ($1::uuid, $2::time_period, $3::time)`

	err := r.db.WithTx(ctx, func(q database.Querier) error {
		if err := q.QueryRowContext(ctx, habitQuery, habit.UserID, habit.Name).Scan(&habit.ID, &habit.CreatedAt); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("user %s: %w", habit.UserID, ErrNotFound)
			}
			return fmt.Errorf("failed to insert habit: %w", err)
		}

		slot.HabitID = habit.ID
		if _, err := q.ExecContext(ctx, slotQuery, slot.HabitID, string(slot.Period), slot.LocalTime); err != nil {
			return fmt.Errorf("failed to insert habit slot: %w", err)
		}

		return nil
	})
	if err != nil {
		habit.ID = ""
		slot.HabitID = ""
		return fmt.Errorf("failed to create habit: %w", err)
	}

	return nil
}

// Checklist returns every slot of the user's active habits together with
// whether it was completed on day.
func (r *habitRepository) Checklist(ctx context.Context, userID string, day time.Time) ([]domain.ChecklistItem, error) {
	query := `
		SELECT h.id::text, h."name", s.period::text, to_char(s.local_time, 'HH24:MI'),
		       COALESCE(l.completed, FALSE)
		FROM habit h
		JOIN habit_slot s ON s.habit_id = h.id
		LEFT JOIN habit_log l
		       ON l.habit_id = h.id AND l.period = s.period AND l.day = $2::date
		WHERE h.user_id = $1::uuid AND h.archived = FALSE
		ORDER BY s.period, COALESCE(s.local_time, '23:59'::time), h."name"`

	items := []domain.ChecklistItem{}
	err := r.db.WithConn(ctx, func(q database.Querier) error {
		rows, err := q.QueryContext(ctx, query, userID, utils.FormatDay(day))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var item domain.ChecklistItem
			var period string
			var localTime sql.NullString
			if err := rows.Scan(&item.HabitID, &item.Name, &period, &localTime, &item.Completed); err != nil {
				return err
			}
			item.Period = domain.Period(period)
			item.LocalTime = nullableString(localTime)
			items = append(items, item)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load checklist: %w", err)
	}

	return items, nil
}
