// Package db opens the optional Postgres database that backs the audit
// trail.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const maxTxAttempts = 5

var ErrRetryLimit = errors.New("transaction retry limit exceeded")

// Connect opens and pings the database. The pool is small: only audit
// writes and operator audit queries use it.
func Connect(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	database, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("db.Connect: %w", err)
	}
	database.SetConnMaxIdleTime(5 * time.Minute)
	database.SetMaxIdleConns(2)
	database.SetMaxOpenConns(10)
	database.SetConnMaxLifetime(30 * time.Minute)
	return database, nil
}

// WithTx runs fn in a serializable transaction, retrying serialization
// failures and deadlocks.
func WithTx(ctx context.Context, database *sqlx.DB, fn func(*sqlx.Tx) error) error {
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		tx, err := database.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return err
		}
		err = fn(tx)
		if err == nil {
			err = tx.Commit()
		} else {
			_ = tx.Rollback()
		}
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		if attempt < maxTxAttempts {
			if err := backoff(ctx, attempt); err != nil {
				return err
			}
		}
	}
	return ErrRetryLimit
}

func retryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

func backoff(ctx context.Context, attempt int) error {
	wait := time.Duration(attempt*attempt)*20*time.Millisecond + time.Duration(rand.Int63n(int64(10*time.Millisecond)))
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
