package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	customError "github.com/satriojati/loan-ledger/pkg/errors"
)

type txKey struct{}

// Transactor runs units of work inside sqlx transactions.
type Transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx begins a transaction, stores it on the context and runs fn.
// The transaction commits only if fn returns nil; any error rolls it back.
// Postgres serialization failures surface as ErrConcurrencyConflict.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return markConflict(err)
	}

	if err := tx.Commit(); err != nil {
		if conflictErr := markConflict(err); conflictErr != err {
			return conflictErr
		}
		return customError.WrapDatabaseError(err)
	}

	return nil
}

// ext resolves the executor for the current call: the context's transaction
// if one is open, the bare connection pool otherwise.
func ext(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

// Postgres error codes that mean the unit of work lost a race with a
// concurrent transaction and is safe to retry.
var conflictCodes = map[pq.ErrorCode]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
}

func markConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && conflictCodes[pqErr.Code] {
		return fmt.Errorf("%w: %v", customError.ErrConcurrencyConflict, err)
	}
	return err
}
