// Package database wraps a pgx-backed *sql.DB with pool tuning, health checks
// and transaction helpers. database/sql is used (via pgx/v5/stdlib) rather than
// pgxpool so the same *sql.Tx can be shared with Watermill's SQL publisher.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ghuser/auctionhouse/pkg/logger"
)

// Database is the shared PostgreSQL handle passed to repositories.
type Database struct {
	db  *sql.DB
	log logger.Logger
}

// NewPool opens a pgx connection pool for url and verifies connectivity.
func NewPool(ctx context.Context, url string, log logger.Logger) (*Database, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return &Database{db: db, log: log}, nil
}

// New wraps an already opened *sql.DB. Used by tests with sqlmock.
func New(db *sql.DB, log logger.Logger) *Database {
	return &Database{db: db, log: log}
}

// DB returns the underlying *sql.DB for non-transactional queries.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Ping checks the database connection health.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (d *Database) Close() error {
	return d.db.Close()
}

// WithTx runs fn inside a transaction with the default isolation level.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return d.WithTxOptions(ctx, nil, fn)
}

// WithTxOptions runs fn inside a transaction started with opts.
// The transaction is committed when fn returns nil and rolled back otherwise,
// including when fn panics (the panic is re-raised after rollback).
func (d *Database) WithTxOptions(ctx context.Context, opts *sql.TxOptions, fn func(tx *sql.Tx) error) (err error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("database: begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			d.log.WarnContext(ctx, "database: rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("database: commit: %w", err)
	}
	return nil
}
