package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/minikb/internal/ir"
)

// testTime is the fixed timestamp stamped on test statements.
var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestStatement builds an asserted statement in the given model.
func createTestStatement(t *testing.T, s, p, o, model string) ir.Statement {
	t.Helper()
	st, err := ir.NewStatement(ir.NewTriple(s, p, o), model, testTime, false)
	if err != nil {
		t.Fatalf("NewStatement() failed: %v", err)
	}
	return st
}

// insertStatements writes statements in one transaction.
func insertStatements(t *testing.T, s *Store, statements ...ir.Statement) {
	t.Helper()
	err := s.WithTx(context.Background(), func(tx *Tx) error {
		for _, st := range statements {
			if _, err := tx.Insert(context.Background(), st); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
}

// countRows returns the number of rows in the triples table.
func countRows(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM triples").Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}
