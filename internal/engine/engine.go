package engine

import (
	"context"
	"database/sql"

	"github.com/roach88/minikb/internal/querysql"
)

// Querier runs a compiled scan. *store.Store implements it.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Engine evaluates patterns and joins over a Querier.
type Engine struct {
	store    Querier
	compiler *querysql.SQLCompiler
}

// New creates an Engine reading from store.
func New(store Querier) *Engine {
	return &Engine{
		store:    store,
		compiler: querysql.NewSQLCompiler(),
	}
}
