// Package postgres implements the auction repositories on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/auctionhouse/pkg/database"
	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

// PostgreSQL error codes the repositories translate.
const (
	pgNumericOverflow      = "22003"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// Row locks are waited for at most this long before the transaction fails with 55P03.
const setLockTimeout = `SET LOCAL lock_timeout = '5s'`

// TxPublisherFactory returns a Watermill publisher writing into tx.
// *events.EventBus.NewTxPublisher satisfies it.
type TxPublisherFactory func(tx *sql.Tx) (message.Publisher, error)

// Store runs auction units of work in REPEATABLE READ transactions.
type Store struct {
	db        *database.Database
	publisher TxPublisherFactory
}

// NewStore returns a Store. publisher backs the transactional outbox; when
// nil, emitting inside a transaction fails.
func NewStore(d *database.Database, publisher TxPublisherFactory) *Store {
	return &Store{db: d, publisher: publisher}
}

// WithinTx implements repositories.Store.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r repositories.Repositories) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead}
	err := s.db.WithTxOptions(ctx, opts, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, setLockTimeout); err != nil {
			return fmt.Errorf("set lock timeout: %w", err)
		}
		out := &outbox{tx: tx, factory: s.publisher}
		return fn(ctx, repositories.Repositories{
			Items:         NewItemRepository(tx),
			Bids:          NewBidRepository(tx),
			Users:         NewUserRepository(tx),
			Notifications: out,
			Events:        out,
		})
	})
	return mapConflict(err)
}

// mapConflict turns isolation and locking failures into ErrConcurrentModification.
func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if err == nil || !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return fmt.Errorf("%w: code %s", domain.ErrConcurrentModification, pgErr.Code)
	}
	return err
}

// rejected reports a constraint violation as target with a fixed reason. The
// driver error, which names tables and constraints, only goes to the span.
func rejected(ctx context.Context, err, target error, reason string) error {
	trace.SpanFromContext(ctx).RecordError(err)
	return fmt.Errorf("%w: %s", target, reason)
}

func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

var _ repositories.Store = (*Store)(nil)
