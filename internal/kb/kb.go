package kb

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/minikb/internal/engine"
	"github.com/roach88/minikb/internal/ir"
	"github.com/roach88/minikb/internal/loader"
	"github.com/roach88/minikb/internal/store"
)

// KB is a knowledge base over a single store.
//
// The store is owned by the caller; KB never closes it.
// Thread-safety: KB is safe for concurrent use. Writes serialise on the
// store's single connection.
type KB struct {
	store  *store.Store
	engine *engine.Engine
	logger *slog.Logger
	clock  func() time.Time
	ids    IDGenerator
}

// Option configures a KB.
type Option func(*KB)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(k *KB) {
		k.logger = logger
	}
}

// WithClock sets the source of statement timestamps.
func WithClock(now func() time.Time) Option {
	return func(k *KB) {
		k.clock = now
	}
}

// WithIDGenerator sets the generator of operation IDs used in log lines.
func WithIDGenerator(ids IDGenerator) Option {
	return func(k *KB) {
		k.ids = ids
	}
}

// New creates a KB over st.
func New(st *store.Store, opts ...Option) *KB {
	k := &KB{
		store:  st,
		engine: engine.New(st),
		clock:  time.Now,
		ids:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.logger == nil {
		k.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return k
}

// Add asserts triples in model. Statements already present are left
// untouched. An empty model means ir.DefaultModel.
func (k *KB) Add(ctx context.Context, triples []ir.Triple, model string) error {
	return k.insert(ctx, "add", triples, model, false)
}

// AddInferred stores triples in model flagged as inferred. Inferred
// statements are dropped by the next Delete.
func (k *KB) AddInferred(ctx context.Context, triples []ir.Triple, model string) error {
	return k.insert(ctx, "add inferred", triples, model, true)
}

// Update is Add. It does not remove conflicting values.
func (k *KB) Update(ctx context.Context, triples []ir.Triple, model string) error {
	k.logger.Warn("update is equivalent to add; no functional property check is made")
	return k.insert(ctx, "update", triples, model, false)
}

func (k *KB) insert(ctx context.Context, op string, triples []ir.Triple, model string, inferred bool) error {
	model = ir.ModelOrDefault(model)
	if err := validateGround(op, triples); err != nil {
		return err
	}

	opID := k.ids.Generate()
	ts := k.clock()

	inserted := 0
	err := k.store.WithTx(ctx, func(tx *store.Tx) error {
		for _, t := range triples {
			st, err := ir.NewStatement(t, model, ts, inferred)
			if err != nil {
				return err
			}
			ok, err := tx.Insert(ctx, st)
			if err != nil {
				return err
			}
			if ok {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	k.logger.Debug("statements written",
		"op", op,
		"op_id", opID,
		"model", model,
		"requested", len(triples),
		"inserted", inserted,
		"inferred", inferred,
	)
	return nil
}

// Clear removes every statement in every model.
func (k *KB) Clear(ctx context.Context) error {
	opID := k.ids.Generate()

	var removed int64
	err := k.store.WithTx(ctx, func(tx *store.Tx) error {
		var err error
		removed, err = tx.DeleteAll(ctx)
		return err
	})
	if err != nil {
		return err
	}

	k.logger.Info("knowledge base cleared", "op_id", opID, "removed", removed)
	return nil
}

// Has reports whether the conjunction of patterns has a solution in models.
// An empty pattern list is false.
func (k *KB) Has(ctx context.Context, patterns []ir.Pattern, models []string) (bool, error) {
	return k.engine.Satisfiable(ctx, patterns, models)
}

// Query returns the distinct tuples of vars satisfying every pattern in
// models. Variable names may be given with or without the leading "?".
func (k *KB) Query(ctx context.Context, vars []string, patterns []ir.Pattern, models []string) ([][]string, error) {
	names := make([]string, 0, len(vars))
	for _, v := range vars {
		name, err := variableName(v)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return k.engine.Query(ctx, names, patterns, models)
}

// HasStmt reports whether the exact fact exists in any of models. It looks
// up the content hash once per model and stops at the first hit.
func (k *KB) HasStmt(ctx context.Context, t ir.Triple, models []string) (bool, error) {
	if err := t.ValidateGround("has_stmt"); err != nil {
		return false, err
	}
	if err := ir.ValidateModels("has_stmt", models); err != nil {
		return false, err
	}

	for _, m := range models {
		ok, err := k.store.HasHash(ctx, ir.HashTriple(t, m))
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Statements returns the stored statements in models, or in every model
// when models is empty.
func (k *KB) Statements(ctx context.Context, models []string) ([]ir.Statement, error) {
	for _, m := range models {
		if m == "" {
			return nil, ir.NewInvalidArgument("statements", "model name is empty")
		}
	}
	return k.store.Statements(ctx, models)
}

// Stats summarises the store.
func (k *KB) Stats(ctx context.Context) (store.Stats, error) {
	return k.store.Stats(ctx)
}

// LoadResult reports what Load wrote.
type LoadResult struct {
	Graphs   int `json:"graphs"`
	Triples  int `json:"triples"`
	Inserted int `json:"inserted"`
}

// Load writes every graph of doc in a single transaction. Asserted and
// inferred triples keep their flag. Nothing is written if any triple is
// invalid.
func (k *KB) Load(ctx context.Context, doc *loader.Document) (LoadResult, error) {
	if err := doc.Validate(); err != nil {
		return LoadResult{}, err
	}

	opID := k.ids.Generate()
	ts := k.clock()
	result := LoadResult{Graphs: len(doc.Graphs), Triples: doc.Count()}

	err := k.store.WithTx(ctx, func(tx *store.Tx) error {
		for _, g := range doc.Graphs {
			model := ir.ModelOrDefault(g.Model)
			for _, part := range []struct {
				rows     loader.Triples
				inferred bool
			}{{g.Asserted, false}, {g.Inferred, true}} {
				triples, err := part.rows.Parse()
				if err != nil {
					return err
				}
				for _, t := range triples {
					st, err := ir.NewStatement(t, model, ts, part.inferred)
					if err != nil {
						return err
					}
					ok, err := tx.Insert(ctx, st)
					if err != nil {
						return err
					}
					if ok {
						result.Inserted++
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return LoadResult{}, err
	}

	k.logger.Info("document loaded",
		"op_id", opID,
		"graphs", result.Graphs,
		"triples", result.Triples,
		"inserted", result.Inserted,
	)
	return result, nil
}

func validateGround(op string, triples []ir.Triple) error {
	for _, t := range triples {
		if err := t.ValidateGround(op); err != nil {
			return err
		}
	}
	return nil
}

// variableName accepts "x" or "?x" and returns "x".
func variableName(raw string) (string, error) {
	if raw == "" || raw == "?" {
		return "", ir.NewInvalidArgument("query", "variable name is empty")
	}
	if raw[0] == '?' {
		return raw[1:], nil
	}
	return raw, nil
}
