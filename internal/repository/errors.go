package repository

import (
	"errors"

	"github.com/lib/pq"
	"github.com/prperemyshlev/habit-tracker/internal/domain"
)

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = domain.ErrNotFound
)

const pqForeignKeyViolation = "23503"

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isForeignKeyViolation(err error) bool {
	return pqCode(err) == pqForeignKeyViolation
}
