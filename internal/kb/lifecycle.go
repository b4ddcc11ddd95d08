package kb

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/minikb/internal/engine"
	"github.com/roach88/minikb/internal/ir"
	"github.com/roach88/minikb/internal/store"
)

// RDFType is the predicate classesof looks for.
const RDFType = "rdf:type"

// classVar names the variable bound by classesof.
const classVar = "class"

// Delete retracts triples from model.
//
// Retraction is non-monotonic: every inferred statement in the store is
// removed first, in the same transaction, even when none of the triples
// exist. Deleting absent facts is not an error.
func (k *KB) Delete(ctx context.Context, triples []ir.Triple, model string) error {
	model = ir.ModelOrDefault(model)
	if err := validateGround("delete", triples); err != nil {
		return err
	}

	opID := k.ids.Generate()

	var purged int64
	removed := 0
	err := k.store.WithTx(ctx, func(tx *store.Tx) error {
		var err error
		purged, err = tx.DeleteInferred(ctx)
		if err != nil {
			return err
		}
		for _, t := range triples {
			ok, err := tx.DeleteByHash(ctx, ir.HashTriple(t, model))
			if err != nil {
				return err
			}
			if ok {
				removed++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	k.logger.Info("inferred statements purged", "op_id", opID, "purged", purged)
	k.logger.Debug("statements deleted",
		"op_id", opID,
		"model", model,
		"requested", len(triples),
		"removed", removed,
	)
	return nil
}

// About returns every triple in models in which resource appears as
// subject, predicate or object. It is the union of three single-pattern
// matches. Triples are sorted by subject, predicate, object.
func (k *KB) About(ctx context.Context, resource string, models []string) ([]ir.Triple, error) {
	res, err := constantTerm("about", resource)
	if err != nil {
		return nil, err
	}
	if err := ir.ValidateModels("about", models); err != nil {
		return nil, err
	}

	patterns := []ir.Pattern{
		{Subject: res, Predicate: ir.Var("p"), Object: ir.Var("o")},
		{Subject: ir.Var("s"), Predicate: res, Object: ir.Var("o")},
		{Subject: ir.Var("s"), Predicate: ir.Var("p"), Object: res},
	}

	var triples []ir.Triple
	seen := make(map[string]bool)
	for _, p := range patterns {
		matches, err := k.engine.MatchTriples(ctx, p, models, engine.MatchOptions{})
		if err != nil {
			return nil, err
		}
		for _, t := range matches {
			key := ir.TupleKey(t.Strings())
			if seen[key] {
				continue
			}
			seen[key] = true
			triples = append(triples, t)
		}
	}

	slices.SortFunc(triples, func(a, b ir.Triple) int {
		return slices.Compare(a.Strings(), b.Strings())
	})
	if triples == nil {
		triples = []ir.Triple{}
	}
	return triples, nil
}

// ClassesOf returns the classes of concept: the objects of its rdf:type
// statements in models, sorted.
//
// With direct set only asserted statements count. Direct classes are
// approximated by the asserted rdf:type facts; no subclass reasoning is
// done.
func (k *KB) ClassesOf(ctx context.Context, concept string, direct bool, models []string) ([]string, error) {
	c, err := constantTerm("classesof", concept)
	if err != nil {
		return nil, err
	}

	if direct {
		k.logger.Warn("direct classes are assumed to be the asserted rdf:type relations")
	}

	pattern := ir.Pattern{Subject: c, Predicate: ir.Const(RDFType), Object: ir.Var(classVar)}
	bindings, err := k.engine.Match(ctx, pattern, models, engine.MatchOptions{AssertedOnly: direct})
	if err != nil {
		return nil, err
	}

	classes := make([]string, 0, len(bindings))
	for _, b := range bindings {
		classes = append(classes, b[classVar])
	}
	slices.Sort(classes)
	return classes, nil
}

// constantTerm parses raw and requires a constant.
func constantTerm(op, raw string) (ir.Term, error) {
	t, err := ir.ParseTerm(raw)
	if err != nil {
		return ir.Term{}, err
	}
	if !t.IsConstant() {
		return ir.Term{}, ir.NewInvalidArgument(op,
			fmt.Sprintf("%s must be a constant, got variable %s", op, t))
	}
	return t, nil
}
