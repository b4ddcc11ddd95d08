package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/minikb/internal/ir"
)

// Query evaluates the conjunction of patterns over models and returns one
// tuple per distinct assignment of vars, in vars order.
//
// An empty pattern list, or any pattern with no matches, gives an empty
// result. A variable in vars that no pattern mentions is InvalidArgument.
// With an empty vars list a satisfiable join yields a single empty tuple.
//
// Tuples are sorted lexicographically so output is reproducible; callers
// should treat the result as a set.
func (e *Engine) Query(ctx context.Context, vars []string, patterns []ir.Pattern, models []string) ([][]string, error) {
	if err := ir.ValidateModels("query", models); err != nil {
		return nil, err
	}
	if err := validatePatterns("query", patterns); err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return [][]string{}, nil
	}

	mentioned := make(map[string]bool)
	for _, p := range patterns {
		for _, v := range p.Variables() {
			mentioned[v] = true
		}
	}
	for _, v := range vars {
		if !mentioned[v] {
			return nil, ir.NewInvalidArgument("query",
				fmt.Sprintf("variable %s does not appear in any pattern", ir.Var(v)))
		}
	}

	bindings, err := e.solve(ctx, patterns, models)
	if err != nil {
		return nil, err
	}

	tuples := [][]string{}
	seen := make(map[string]bool, len(bindings))
	for _, b := range bindings {
		values, ok := b.Project(vars)
		if !ok {
			continue
		}
		key := ir.TupleKey(values)
		if seen[key] {
			continue
		}
		seen[key] = true
		tuples = append(tuples, values)
	}

	slices.SortFunc(tuples, func(a, b []string) int {
		return slices.Compare(a, b)
	})
	return tuples, nil
}

// Satisfiable reports whether the conjunction of patterns has at least one
// solution in models. An empty pattern list is not satisfiable.
func (e *Engine) Satisfiable(ctx context.Context, patterns []ir.Pattern, models []string) (bool, error) {
	if err := ir.ValidateModels("has", models); err != nil {
		return false, err
	}
	if err := validatePatterns("has", patterns); err != nil {
		return false, err
	}
	if len(patterns) == 0 {
		return false, nil
	}

	bindings, err := e.solve(ctx, patterns, models)
	if err != nil {
		return false, err
	}
	return len(bindings) > 0, nil
}

// solve runs the left-to-right join and returns the surviving bindings.
func (e *Engine) solve(ctx context.Context, patterns []ir.Pattern, models []string) ([]ir.Binding, error) {
	current := []ir.Binding{{}}
	bound := make(map[string]bool)

	for i, p := range patterns {
		matches, err := e.Match(ctx, p, models, MatchOptions{})
		if err != nil {
			return nil, err
		}

		var shared []string
		for _, v := range p.Variables() {
			if bound[v] {
				shared = append(shared, v)
			}
			bound[v] = true
		}

		current = hashJoin(current, matches, shared)
		if len(current) == 0 {
			slog.Debug("join short-circuited", "step", i, "pattern", p.String())
			return current, nil
		}
	}
	return current, nil
}

// hashJoin joins left and right on the shared variables. Every binding on
// each side binds all of shared. With no shared variables it is a cartesian
// product.
func hashJoin(left, right []ir.Binding, shared []string) []ir.Binding {
	index := make(map[string][]ir.Binding, len(right))
	for _, r := range right {
		values, _ := r.Project(shared)
		key := ir.TupleKey(values)
		index[key] = append(index[key], r)
	}

	out := make([]ir.Binding, 0, len(left))
	for _, l := range left {
		values, ok := l.Project(shared)
		if !ok {
			continue
		}
		for _, r := range index[ir.TupleKey(values)] {
			out = append(out, l.Merge(r))
		}
	}
	return ir.DedupBindings(out)
}

func validatePatterns(op string, patterns []ir.Pattern) error {
	for _, p := range patterns {
		if err := p.ValidatePattern(op); err != nil {
			return err
		}
	}
	return nil
}
