package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/roach88/minikb/internal/ir"
	"github.com/roach88/minikb/internal/queryir"
)

// statementTable is the store table scanned by the matcher.
const statementTable = "triples"

// MatchOptions narrows a match.
type MatchOptions struct {
	// AssertedOnly skips statements flagged inferred.
	AssertedOnly bool
}

// Match returns the distinct bindings of pattern's variables over the
// statements in models.
//
// A pattern with no variables is an existence check: the result is a single
// empty binding if the fact exists in any of the models, otherwise empty.
// A variable used in several slots only matches statements where those
// slots hold the same value.
//
// Returns an empty slice (not nil) when nothing matches.
func (e *Engine) Match(ctx context.Context, pattern ir.Pattern, models []string, opts MatchOptions) ([]ir.Binding, error) {
	if err := pattern.ValidatePattern("match"); err != nil {
		return nil, err
	}
	if err := ir.ValidateModels("match", models); err != nil {
		return nil, err
	}

	query := buildPatternQuery(pattern, models, opts)

	sqlStr, params, err := e.compiler.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %s: %w", pattern, err)
	}

	rows, err := e.store.Query(ctx, sqlStr, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := query.Columns()
	bindings := []ir.Binding{}
	for rows.Next() {
		binding, err := scanBinding(rows, columns, query.Bindings)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, binding)
	}
	if err := rows.Err(); err != nil {
		return nil, ir.NewStorageUnavailable("match", err)
	}

	bindings = ir.DedupBindings(bindings)
	slog.Debug("pattern matched",
		"pattern", pattern.String(),
		"models", models,
		"bindings", len(bindings),
	)
	return bindings, nil
}

// MatchTriples returns the distinct statements matching pattern in models,
// as ground triples. Each binding is substituted back into the pattern.
func (e *Engine) MatchTriples(ctx context.Context, pattern ir.Pattern, models []string, opts MatchOptions) ([]ir.Triple, error) {
	bindings, err := e.Match(ctx, pattern, models, opts)
	if err != nil {
		return nil, err
	}

	triples := make([]ir.Triple, 0, len(bindings))
	for _, b := range bindings {
		triples = append(triples, substitute(pattern, b))
	}
	return triples, nil
}

// buildPatternQuery translates one pattern into a filtered scan.
//
// Example: (?x, likes, ?x) over {default} becomes
//
//	SELECT DISTINCT subject FROM triples
//	WHERE model IN (?) AND predicate = ? AND subject = object
func buildPatternQuery(pattern ir.Pattern, models []string, opts MatchOptions) queryir.Select {
	predicates := []queryir.Predicate{
		queryir.In{Field: "model", Values: models},
	}
	bindings := make(map[string]string, 3)
	firstSlot := make(map[string]ir.Slot, 3)

	for _, slot := range ir.Slots {
		term := pattern.Term(slot)
		if !term.IsVariable() {
			predicates = append(predicates, queryir.Equals{Field: string(slot), Value: term.Value()})
			continue
		}
		if first, seen := firstSlot[term.Value()]; seen {
			predicates = append(predicates, queryir.SameColumn{Left: string(first), Right: string(slot)})
			continue
		}
		firstSlot[term.Value()] = slot
		bindings[string(slot)] = term.Value()
	}

	if opts.AssertedOnly {
		predicates = append(predicates, queryir.Equals{Field: "inferred", Value: false})
	}

	query := queryir.Select{
		From:     statementTable,
		Filter:   queryir.And{Predicates: predicates},
		Bindings: bindings,
		Distinct: true,
	}
	if len(bindings) == 0 {
		query.Limit = 1
	}
	return query
}

// scanBinding scans one result row. columns must be in Select.Columns()
// order; names maps each column to its variable name.
func scanBinding(rows *sql.Rows, columns []string, names map[string]string) (ir.Binding, error) {
	if len(columns) == 0 {
		// Existence probe: the row carries only the hash.
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, ir.NewStorageUnavailable("scan binding", err)
		}
		return ir.Binding{}, nil
	}

	values := make([]string, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, ir.NewStorageUnavailable("scan binding", err)
	}

	binding := make(ir.Binding, len(columns))
	for i, col := range columns {
		binding[names[col]] = values[i]
	}
	return binding, nil
}

// substitute replaces the variables of pattern with their bound values.
func substitute(pattern ir.Pattern, b ir.Binding) ir.Triple {
	var terms [3]ir.Term
	for i, term := range pattern.Terms() {
		if term.IsVariable() {
			term = ir.Const(b[term.Value()])
		}
		terms[i] = term
	}
	return ir.Triple{Subject: terms[0], Predicate: terms[1], Object: terms[2]}
}
