// Package db implements the store interfaces on PostgreSQL via pgx. Trip
// documents live whole in a JSONB column; participant membership is
// denormalized into rows kept in sync with the document on every replace.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planejatrip/planejatrip-backend/logger"
)

// PGXPool is the subset of pgxpool.Pool the stores use. pgxmock satisfies
// it too, which keeps store tests off a live database.
type PGXPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// DatabaseClient wraps the shared connection pool handed to the stores.
type DatabaseClient struct {
	pool PGXPool
}

func NewDatabaseClient(pool PGXPool) *DatabaseClient {
	return &DatabaseClient{pool: pool}
}

func (c *DatabaseClient) GetPool() PGXPool {
	return c.pool
}

// ConnectPool opens a pgx connection pool with the given settings.
func ConnectPool(ctx context.Context, connString string, maxConns int) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

// WithTx runs fn inside a transaction, rolling back on error or panic.
func WithTx(ctx context.Context, pool PGXPool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.GetLogger().Errorw("Failed to rollback after panic", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
			logger.GetLogger().Errorw("Failed to rollback transaction", "error", rbErr)
		}
		return err
	}
	return tx.Commit(ctx)
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
