package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prperemyshlev/habit-tracker/pkg/database"
	"github.com/stretchr/testify/require"
)

const (
	testUserID  = "7b0f8a56-6a0e-4f8c-9b61-2f3c8f4f1e2a"
	testHabitID = "2c1d5f1e-93a8-4b7e-8f0a-51d1c3c6e9b4"
)

var testCreatedAt = time.Date(2024, 1, 10, 8, 30, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*database.Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return database.NewPostgresFromDB(db, database.PoolOptions{MaxOpenConns: 5}), mock
}

func strPtr(s string) *string {
	return &s
}
