package engine

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/minikb/internal/ir"
	"github.com/roach88/minikb/internal/queryir"
)

var sortBindings = cmpopts.SortSlices(func(a, b ir.Binding) bool { return a.Key() < b.Key() })

func TestMatch_SingleVariable(t *testing.T) {
	e := setupEngine(t, dogs...)

	got, err := e.Match(context.Background(), pattern(t, "?x", "type", "Dog"), []string{"default"}, MatchOptions{})
	require.NoError(t, err)

	want := []ir.Binding{{"x": "Rex"}, {"x": "Fido"}}
	if diff := cmp.Diff(want, got, sortBindings); diff != "" {
		t.Errorf("Match() mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_AllVariables(t *testing.T) {
	e := setupEngine(t,
		fact{s: "a", p: "p", o: "b", model: "default"},
		fact{s: "c", p: "q", o: "d", model: "default"},
	)

	got, err := e.Match(context.Background(), pattern(t, "?s", "?p", "?o"), []string{"default"}, MatchOptions{})
	require.NoError(t, err)

	want := []ir.Binding{
		{"s": "a", "p": "p", "o": "b"},
		{"s": "c", "p": "q", "o": "d"},
	}
	if diff := cmp.Diff(want, got, sortBindings); diff != "" {
		t.Errorf("Match() mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_RepeatedVariableIsSelfConsistent(t *testing.T) {
	e := setupEngine(t, dogs...)

	got, err := e.Match(context.Background(), pattern(t, "?x", "likes", "?x"), []string{"default"}, MatchOptions{})
	require.NoError(t, err)

	assert.Equal(t, []ir.Binding{{"x": "Alice"}}, got, "only Alice likes herself")
}

func TestMatch_GroundPattern(t *testing.T) {
	e := setupEngine(t, dogs...)
	ctx := context.Background()

	got, err := e.Match(ctx, pattern(t, "Rex", "type", "Dog"), []string{"default"}, MatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []ir.Binding{{}}, got, "existing fact yields one empty binding")

	got, err = e.Match(ctx, pattern(t, "Rex", "type", "Cat"), []string{"default"}, MatchOptions{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got, "empty result should be an empty slice")
}

func TestMatch_GroundPatternInSeveralModels(t *testing.T) {
	e := setupEngine(t,
		fact{s: "Rex", p: "type", o: "Dog", model: "m1"},
		fact{s: "Rex", p: "type", o: "Dog", model: "m2"},
	)

	got, err := e.Match(context.Background(), pattern(t, "Rex", "type", "Dog"), []string{"m1", "m2"}, MatchOptions{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMatch_DeduplicatesAcrossModels(t *testing.T) {
	e := setupEngine(t,
		fact{s: "Rex", p: "type", o: "Dog", model: "m1"},
		fact{s: "Rex", p: "type", o: "Dog", model: "m2"},
	)

	got, err := e.Match(context.Background(), pattern(t, "?x", "type", "Dog"), []string{"m1", "m2"}, MatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []ir.Binding{{"x": "Rex"}}, got)
}

func TestMatch_ModelScoping(t *testing.T) {
	e := setupEngine(t, fact{s: "Rex", p: "type", o: "Dog", model: "m1"})
	ctx := context.Background()

	got, err := e.Match(ctx, pattern(t, "?x", "type", "Dog"), []string{"m2"}, MatchOptions{})
	require.NoError(t, err)
	assert.Empty(t, got, "statement in m1 must be invisible to m2")

	got, err = e.Match(ctx, pattern(t, "?x", "type", "Dog"), []string{"m1"}, MatchOptions{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMatch_AssertedOnly(t *testing.T) {
	e := setupEngine(t,
		fact{s: "Rex", p: "rdf:type", o: "Dog", model: "default"},
		fact{s: "Rex", p: "rdf:type", o: "Animal", model: "default", inferred: true},
	)
	ctx := context.Background()
	p := pattern(t, "Rex", "rdf:type", "?c")

	all, err := e.Match(ctx, p, []string{"default"}, MatchOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	asserted, err := e.Match(ctx, p, []string{"default"}, MatchOptions{AssertedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []ir.Binding{{"c": "Dog"}}, asserted)
}

func TestMatch_EmptyModelSet(t *testing.T) {
	e := setupEngine(t)

	_, err := e.Match(context.Background(), pattern(t, "?x", "type", "Dog"), nil, MatchOptions{})
	require.Error(t, err)
	assert.True(t, ir.IsInvalidArgument(err))
}

func TestMatch_EmptyTerm(t *testing.T) {
	e := setupEngine(t)

	_, err := e.Match(context.Background(), ir.Pattern{}, []string{"default"}, MatchOptions{})
	require.Error(t, err)
	assert.True(t, ir.IsInvalidArgument(err))
}

func TestMatch_StorageFailure(t *testing.T) {
	e := New(failingQuerier{})

	_, err := e.Match(context.Background(), pattern(t, "?x", "type", "Dog"), []string{"default"}, MatchOptions{})
	require.Error(t, err)
	assert.True(t, ir.IsStorageUnavailable(err))
}

func TestMatchTriples_Substitutes(t *testing.T) {
	e := setupEngine(t, dogs...)

	got, err := e.MatchTriples(context.Background(), pattern(t, "Rex", "?p", "?o"), []string{"default"}, MatchOptions{})
	require.NoError(t, err)

	want := []ir.Triple{
		ir.NewTriple("Rex", "owner", "Alice"),
		ir.NewTriple("Rex", "type", "Dog"),
	}
	if diff := cmp.Diff(want, got, cmpopts.SortSlices(func(a, b ir.Triple) bool {
		return a.String() < b.String()
	}), cmp.AllowUnexported(ir.Term{})); diff != "" {
		t.Errorf("MatchTriples() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPatternQuery(t *testing.T) {
	tests := []struct {
		name    string
		pattern ir.Pattern
		opts    MatchOptions
		want    queryir.Select
	}{
		{
			name:    "one variable",
			pattern: ir.MustParseTriple("?x", "type", "Dog"),
			want: queryir.Select{
				From: "triples",
				Filter: queryir.And{Predicates: []queryir.Predicate{
					queryir.In{Field: "model", Values: []string{"default"}},
					queryir.Equals{Field: "predicate", Value: "type"},
					queryir.Equals{Field: "object", Value: "Dog"},
				}},
				Bindings: map[string]string{"subject": "x"},
				Distinct: true,
			},
		},
		{
			name:    "repeated variable",
			pattern: ir.MustParseTriple("?x", "likes", "?x"),
			want: queryir.Select{
				From: "triples",
				Filter: queryir.And{Predicates: []queryir.Predicate{
					queryir.In{Field: "model", Values: []string{"default"}},
					queryir.Equals{Field: "predicate", Value: "likes"},
					queryir.SameColumn{Left: "subject", Right: "object"},
				}},
				Bindings: map[string]string{"subject": "x"},
				Distinct: true,
			},
		},
		{
			name:    "ground asserted only",
			pattern: ir.MustParseTriple("Rex", "type", "Dog"),
			opts:    MatchOptions{AssertedOnly: true},
			want: queryir.Select{
				From: "triples",
				Filter: queryir.And{Predicates: []queryir.Predicate{
					queryir.In{Field: "model", Values: []string{"default"}},
					queryir.Equals{Field: "subject", Value: "Rex"},
					queryir.Equals{Field: "predicate", Value: "type"},
					queryir.Equals{Field: "object", Value: "Dog"},
					queryir.Equals{Field: "inferred", Value: false},
				}},
				Bindings: map[string]string{},
				Distinct: true,
				Limit:    1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildPatternQuery(tt.pattern, []string{"default"}, tt.opts)
			assert.Equal(t, tt.want, got)
		})
	}
}

// failingQuerier simulates an unreachable store.
type failingQuerier struct{}

func (failingQuerier) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, ir.NewStorageUnavailable("query", errors.New("database is locked"))
}
