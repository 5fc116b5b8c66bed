package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prperemyshlev/habit-tracker/internal/domain"
	"github.com/prperemyshlev/habit-tracker/pkg/database"
)

const userColumns = `id::text, email, "name", image_url, timezone, created_at`

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

// Upsert creates the user for claims.Email or refreshes its profile.
// A null name or picture never overwrites a stored value.
func (r *userRepository) Upsert(ctx context.Context, claims domain.ProviderClaims) (*domain.User, error) {
	query := `
		INSERT INTO app_user (email, "name", image_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		   SET "name"    = COALESCE(EXCLUDED."name", app_user."name"),
		       image_url = COALESCE(EXCLUDED.image_url, app_user.image_url)
		RETURNING ` + userColumns

	var user *domain.User
	err := r.db.WithConn(ctx, func(q database.Querier) error {
		var err error
		user, err = scanUser(q.QueryRowContext(ctx, query, claims.Email, claims.Name, claims.Picture))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user %s: %w", claims.Email, err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM app_user WHERE id = $1::uuid`

	var user *domain.User
	err := r.db.WithConn(ctx, func(q database.Querier) error {
		var err error
		user, err = scanUser(q.QueryRowContext(ctx, query, id))
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var name, imageURL, timezone sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Email,
		&name,
		&imageURL,
		&timezone,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Name = nullableString(name)
	user.ImageURL = nullableString(imageURL)
	user.Timezone = nullableString(timezone)

	return user, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
