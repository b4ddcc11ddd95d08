package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/roach88/minikb/internal/ir"
)

// timestampLayout is the storage format of Statement.Timestamp.
const timestampLayout = time.RFC3339Nano

// Tx is a write transaction over the statement table.
// Obtain one through Store.WithTx; it is invalid after WithTx returns.
type Tx struct {
	tx *sql.Tx
}

// WithTx runs fn inside a single transaction. If fn returns an error or
// panics, the transaction is rolled back and nothing fn wrote is visible.
// Otherwise it commits; a failed commit is STORAGE_UNAVAILABLE.
//
// Errors returned by fn are passed through unchanged.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ir.NewStorageUnavailable("begin tx", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(&Tx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return ir.NewStorageUnavailable("commit tx", err)
	}
	return nil
}

// Insert adds a statement unless one with the same hash already exists.
// Uses ON CONFLICT(hash) DO NOTHING for idempotency - duplicates are
// silently ignored and the stored row (timestamp, inferred flag) is kept.
//
// Returns whether a new row was inserted.
func (t *Tx) Insert(ctx context.Context, st ir.Statement) (bool, error) {
	if st.Hash == "" {
		return false, ir.NewInvalidArgument("insert statement", "statement has no hash")
	}

	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO triples
		(hash, subject, predicate, object, model, timestamp, inferred)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`,
		st.Hash,
		st.Subject.Value(),
		st.Predicate.Value(),
		st.Object.Value(),
		st.Model,
		st.Timestamp.UTC().Format(timestampLayout),
		boolToInt(st.Inferred),
	)
	if err != nil {
		return false, ir.NewStorageUnavailable("insert statement", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, ir.NewStorageUnavailable("insert statement", err)
	}
	return n > 0, nil
}

// DeleteByHash removes the statement with the given hash.
// Returns whether a row was removed; a missing hash is not an error.
func (t *Tx) DeleteByHash(ctx context.Context, hash string) (bool, error) {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM triples WHERE hash = ?`, hash)
	if err != nil {
		return false, ir.NewStorageUnavailable("delete statement", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, ir.NewStorageUnavailable("delete statement", err)
	}
	return n > 0, nil
}

// DeleteInferred removes every inferred statement in every model and
// returns how many were removed.
func (t *Tx) DeleteInferred(ctx context.Context) (int64, error) {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM triples WHERE inferred = 1`)
	if err != nil {
		return 0, ir.NewStorageUnavailable("delete inferred", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, ir.NewStorageUnavailable("delete inferred", err)
	}
	return n, nil
}

// DeleteAll removes every statement in every model and returns how many
// were removed.
func (t *Tx) DeleteAll(ctx context.Context) (int64, error) {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM triples`)
	if err != nil {
		return 0, ir.NewStorageUnavailable("clear", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, ir.NewStorageUnavailable("clear", err)
	}
	return n, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
