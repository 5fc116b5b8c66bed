package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prperemyshlev/habit-tracker/internal/domain"
	"github.com/prperemyshlev/habit-tracker/internal/utils"
	"github.com/prperemyshlev/habit-tracker/pkg/database"
)

// habitLogRepository implements HabitLogRepository interface
type habitLogRepository struct {
	db *database.Postgres
}

// NewHabitLogRepository creates a new habit log repository
func NewHabitLogRepository(db *database.Postgres) HabitLogRepository {
	return &habitLogRepository{db: db}
}

// Upsert records the log for (habit, day, period) after checking that the
// habit belongs to userID. An existing note is kept when log.Note is nil.
func (r *habitLogRepository) Upsert(ctx context.Context, userID string, log *domain.HabitLog) (*domain.HabitLog, error) {
	ownerQuery := `SELECT 1 FROM habit WHERE id = $1::uuid AND user_id = $2::uuid`

	upsertQuery := `
		INSERT INTO habit_log (habit_id, period, day, completed, note)
		VALUES ($1::uuid, $2::time_period, $3::date, $4, $5)
		ON CONFLICT (habit_id, day, period) DO UPDATE
		   SET completed = EXCLUDED.completed,
		       note      = COALESCE(EXCLUDED.note, habit_log.note)
		RETURNING habit_id::text, period::text, to_char(day, 'YYYY-MM-DD'), completed, note, created_at`

	saved := &domain.HabitLog{}
	err := r.db.WithTx(ctx, func(q database.Querier) error {
		var one int
		if err := q.QueryRowContext(ctx, ownerQuery, log.HabitID, userID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("habit %s: %w", log.HabitID, ErrNotFound)
			}
			return err
		}

		var period, day string
		var note sql.NullString
		err := q.QueryRowContext(ctx, upsertQuery,
			log.HabitID,
			string(log.Period),
			utils.FormatDay(log.Day),
			log.Completed,
			log.Note,
		).Scan(&saved.HabitID, &period, &day, &saved.Completed, &note, &saved.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("habit %s: %w", log.HabitID, ErrNotFound)
			}
			return err
		}

		saved.Period = domain.Period(period)
		saved.Note = nullableString(note)
		saved.Day, err = utils.ParseDay(day)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert habit log: %w", err)
	}

	return saved, nil
}
