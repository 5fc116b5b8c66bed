package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/prperemyshlev/habit-tracker/internal/domain"
)

const defaultAcquireTimeout = 5 * time.Second

// Querier is satisfied by both *sql.Conn and *sql.Tx
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PoolOptions bounds the connection pool
type PoolOptions struct {
	MaxOpenConns   int
	AcquireTimeout time.Duration
}

// Postgres represents a bounded PostgreSQL connection pool
type Postgres struct {
	DB             *sql.DB
	acquireTimeout time.Duration
}

// NewPostgres opens a PostgreSQL pool and checks it is reachable
func NewPostgres(dsn string, opts PoolOptions) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	p := NewPostgresFromDB(db, opts)

	ctx, cancel := context.WithTimeout(context.Background(), p.acquireTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return p, nil
}

// NewPostgresFromDB wraps an already opened *sql.DB
func NewPostgresFromDB(db *sql.DB, opts PoolOptions) *Postgres {
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxOpenConns)
	}

	timeout := opts.AcquireTimeout
	if timeout <= 0 {
		timeout = defaultAcquireTimeout
	}

	return &Postgres{DB: db, acquireTimeout: timeout}
}

// WithConn checks a connection out of the pool, runs fn on it and always
// returns it. Waiting longer than the acquire timeout fails with
// domain.ErrResourceExhausted.
func (p *Postgres) WithConn(ctx context.Context, fn func(q Querier) error) error {
	conn, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(conn)
}

// WithTx runs fn inside a transaction on a pooled connection. The
// transaction is rolled back when fn returns an error and committed otherwise.
func (p *Postgres) WithTx(ctx context.Context, fn func(q Querier) error) error {
	conn, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("failed to roll back: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (p *Postgres) acquire(ctx context.Context) (*sql.Conn, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()

	conn, err := p.DB.Conn(acquireCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire database connection: %w: %w", domain.ErrResourceExhausted, err)
	}

	return conn, nil
}

// Close closes the database connection
func (p *Postgres) Close() error {
	return p.DB.Close()
}

// Ping checks if the database is available
func (p *Postgres) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}
