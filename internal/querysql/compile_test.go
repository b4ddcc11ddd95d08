package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/minikb/internal/queryir"
)

func TestCompile_PatternScan(t *testing.T) {
	compiler := NewSQLCompiler()

	query := queryir.Select{
		From: "triples",
		Filter: queryir.And{Predicates: []queryir.Predicate{
			queryir.In{Field: "model", Values: []string{"default", "m1"}},
			queryir.Equals{Field: "predicate", Value: "type"},
			queryir.Equals{Field: "object", Value: "Dog"},
		}},
		Bindings: map[string]string{"subject": "x"},
		Distinct: true,
	}

	sql, params, err := compiler.Compile(query)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT DISTINCT subject FROM triples WHERE model IN (?, ?) AND predicate = ? AND object = ? ORDER BY subject COLLATE BINARY ASC",
		sql)
	assert.Equal(t, []any{"default", "m1", "type", "Dog"}, params)
}

func TestCompile_ValuesNeverInterpolated(t *testing.T) {
	compiler := NewSQLCompiler()

	query := &queryir.Select{
		From:     "triples",
		Filter:   &queryir.Equals{Field: "subject", Value: "Robert'); DROP TABLE triples;--"},
		Bindings: map[string]string{"object": "o"},
	}

	sql, params, err := compiler.Compile(query)
	require.NoError(t, err)
	assert.NotContains(t, sql, "DROP")
	assert.Equal(t, []any{"Robert'); DROP TABLE triples;--"}, params)
}

func TestCompile_ColumnsInSortedOrder(t *testing.T) {
	compiler := NewSQLCompiler()

	sql, _, err := compiler.Compile(queryir.Select{
		From: "triples",
		Bindings: map[string]string{
			"subject":   "s",
			"predicate": "p",
			"object":    "o",
		},
	})
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT object, predicate, subject FROM triples")
	assert.Contains(t, sql, "ORDER BY object COLLATE BINARY ASC, predicate COLLATE BINARY ASC, subject COLLATE BINARY ASC")
}

func TestCompile_ExistenceProbe(t *testing.T) {
	compiler := NewSQLCompiler()

	sql, params, err := compiler.Compile(queryir.Select{
		From:   "triples",
		Filter: queryir.Equals{Field: "subject", Value: "Rex"},
		Limit:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT hash FROM triples WHERE subject = ? ORDER BY hash COLLATE BINARY ASC LIMIT ?", sql)
	assert.Equal(t, []any{"Rex", int64(1)}, params)
}

func TestCompile_SameColumn(t *testing.T) {
	compiler := NewSQLCompiler()

	sql, params, err := compiler.Compile(queryir.Select{
		From: "triples",
		Filter: queryir.And{Predicates: []queryir.Predicate{
			queryir.Equals{Field: "predicate", Value: "likes"},
			queryir.SameColumn{Left: "subject", Right: "object"},
		}},
		Bindings: map[string]string{"subject": "x"},
	})
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE predicate = ? AND subject = object")
	assert.Equal(t, []any{"likes"}, params)
}

func TestCompile_BoolBecomesInteger(t *testing.T) {
	compiler := NewSQLCompiler()

	_, params, err := compiler.Compile(queryir.Select{
		From:   "triples",
		Filter: queryir.Equals{Field: "inferred", Value: false},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(0)}, params)
}

func TestCompile_EmptyInMatchesNothing(t *testing.T) {
	compiler := NewSQLCompiler()

	sql, params, err := compiler.Compile(queryir.Select{
		From:   "triples",
		Filter: queryir.In{Field: "model"},
	})
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE 1 = 0")
	assert.Empty(t, params)
}

func TestCompile_EmptyAndIsTrue(t *testing.T) {
	compiler := NewSQLCompiler()

	sql, _, err := compiler.Compile(queryir.Select{From: "triples", Filter: queryir.And{}})
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE 1 = 1")
}

func TestCompile_Errors(t *testing.T) {
	compiler := NewSQLCompiler()

	tests := []struct {
		name  string
		query queryir.Query
	}{
		{"nil", nil},
		{"invalid query", queryir.Select{}},
		{"bad table", queryir.Select{From: "triples; DROP"}},
		{"bad column", queryir.Select{From: "triples", Bindings: map[string]string{"Subject": "x"}}},
		{"bad field", queryir.Select{From: "triples", Filter: queryir.Equals{Field: "a b", Value: "x"}}},
		{"bad value", queryir.Select{From: "triples", Filter: queryir.Equals{Field: "subject", Value: 3.14}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := compiler.Compile(tt.query)
			assert.Error(t, err)
		})
	}
}
