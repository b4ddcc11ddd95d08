package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/minikb/internal/ir"
)

// Stats summarizes the statement table.
type Stats struct {
	Statements int            `json:"statements"`
	Inferred   int            `json:"inferred"`
	Models     map[string]int `json:"models"`
}

// HasHash reports whether a statement with the given hash exists.
func (s *Store) HasHash(ctx context.Context, hash string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM triples WHERE hash = ?`, hash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, ir.NewStorageUnavailable("has hash", err)
	}
	return true, nil
}

// Statements returns full statement rows in the given models, or in every
// model when models is empty. Results are ordered by model, subject,
// predicate, object.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) Statements(ctx context.Context, models []string) ([]ir.Statement, error) {
	query := `
		SELECT hash, subject, predicate, object, model, timestamp, inferred
		FROM triples`
	var args []any
	if len(models) > 0 {
		query += " WHERE model IN (" + placeholders(len(models)) + ")"
		for _, m := range models {
			args = append(args, m)
		}
	}
	query += `
		ORDER BY model COLLATE BINARY ASC, subject COLLATE BINARY ASC,
		         predicate COLLATE BINARY ASC, object COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ir.NewStorageUnavailable("read statements", err)
	}
	defer rows.Close()

	statements := []ir.Statement{}
	for rows.Next() {
		st, err := scanStatement(rows)
		if err != nil {
			return nil, err
		}
		statements = append(statements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, ir.NewStorageUnavailable("read statements", err)
	}

	return statements, nil
}

// Stats counts statements overall, inferred statements, and statements per
// model.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Models: map[string]int{}}

	rows, err := s.db.QueryContext(ctx, `
		SELECT model, COUNT(*), COALESCE(SUM(inferred), 0)
		FROM triples
		GROUP BY model
		ORDER BY model COLLATE BINARY ASC
	`)
	if err != nil {
		return Stats{}, ir.NewStorageUnavailable("stats", err)
	}
	defer rows.Close()

	for rows.Next() {
		var model string
		var total, inferred int
		if err := rows.Scan(&model, &total, &inferred); err != nil {
			return Stats{}, ir.NewStorageUnavailable("stats", err)
		}
		stats.Models[model] = total
		stats.Statements += total
		stats.Inferred += inferred
	}
	if err := rows.Err(); err != nil {
		return Stats{}, ir.NewStorageUnavailable("stats", err)
	}

	return stats, nil
}

// scanStatement scans a full row into a Statement.
func scanStatement(rows *sql.Rows) (ir.Statement, error) {
	var st ir.Statement
	var subject, predicate, object, ts string
	var inferred int64

	if err := rows.Scan(&st.Hash, &subject, &predicate, &object, &st.Model, &ts, &inferred); err != nil {
		return ir.Statement{}, ir.NewStorageUnavailable("scan statement", err)
	}

	parsed, err := time.Parse(timestampLayout, ts)
	if err != nil {
		return ir.Statement{}, ir.NewStorageUnavailable("scan statement",
			fmt.Errorf("bad timestamp %q for %s: %w", ts, st.Hash, err))
	}

	st.Triple = ir.NewTriple(subject, predicate, object)
	st.Timestamp = parsed
	st.Inferred = inferred != 0
	return st, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
