package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/minikb/internal/ir"
	"github.com/roach88/minikb/internal/store"
)

// fact is a test statement: a triple in a model, optionally inferred.
type fact struct {
	s, p, o  string
	model    string
	inferred bool
}

// setupEngine opens an in-memory store, loads facts, and returns an engine
// over it.
func setupEngine(t *testing.T, facts ...fact) *Engine {
	t.Helper()

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	err = st.WithTx(context.Background(), func(tx *store.Tx) error {
		for _, f := range facts {
			stmt, err := ir.NewStatement(ir.NewTriple(f.s, f.p, f.o), f.model, ts, f.inferred)
			if err != nil {
				return err
			}
			if _, err := tx.Insert(context.Background(), stmt); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	return New(st)
}

// pattern parses three raw terms, failing the test on error.
func pattern(t *testing.T, s, p, o string) ir.Pattern {
	t.Helper()
	pat, err := ir.ParseTriple(s, p, o)
	require.NoError(t, err)
	return pat
}

// dogs is the fixture used by most join tests.
var dogs = []fact{
	{s: "Rex", p: "type", o: "Dog", model: "default"},
	{s: "Rex", p: "owner", o: "Alice", model: "default"},
	{s: "Fido", p: "type", o: "Dog", model: "default"},
	{s: "Fido", p: "owner", o: "Bob", model: "default"},
	{s: "Tom", p: "type", o: "Cat", model: "default"},
	{s: "Tom", p: "owner", o: "Alice", model: "default"},
	{s: "Alice", p: "likes", o: "Alice", model: "default"},
	{s: "Bob", p: "likes", o: "Alice", model: "default"},
}
