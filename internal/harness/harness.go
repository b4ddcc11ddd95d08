package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/minikb/internal/ir"
	"github.com/roach88/minikb/internal/kb"
	"github.com/roach88/minikb/internal/loader"
	"github.com/roach88/minikb/internal/store"
	"github.com/roach88/minikb/internal/testutil"
)

// Harness executes one scenario against an isolated knowledge base.
type Harness struct {
	store *store.Store
	kb    *kb.KB
	seq   int64
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Apply steps in order, recording one trace event per step
// 3. Evaluate assertions against the final state
// 4. Return result with pass/fail, trace, and errors
//
// The returned error is reserved for harness failures (the store could not be
// opened or read). Misbehaving steps and failed assertions are reported in
// Result.Errors.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store: st,
		kb: kb.New(st,
			kb.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
			kb.WithClock(testutil.NewDeterministicClock().Now),
			kb.WithIDGenerator(testutil.NewSequenceGenerator("")),
		),
	}

	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	actx := &AssertionContext{
		Ctx:    ctx,
		KB:     h.kb,
		Models: scenarioModels(scenario),
		Trace:  result.Trace,
	}
	for _, errMsg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// RunAll executes scenarios concurrently, at most limit at a time (no limit
// when limit <= 0). Results are returned in scenario order.
func RunAll(ctx context.Context, scenarios []*Scenario, limit int) ([]*Result, error) {
	results := make([]*Result, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, s := range scenarios {
		i, s := i, s
		g.Go(func() error {
			r, err := Run(ctx, s)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// executeSteps applies every step and checks its error expectation.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		h.seq++
		event := TraceEvent{Seq: h.seq, Op: step.Op}
		if step.Op != OpClear {
			event.Model = ir.ModelOrDefault(step.Model)
			event.Triples = writtenTriples(step.Triples)
		}

		stepErr := h.apply(ctx, step)
		if errors.Is(stepErr, context.Canceled) || errors.Is(stepErr, context.DeadlineExceeded) {
			return stepErr
		}
		event.Error = errorCode(stepErr)

		stats, err := h.kb.Stats(ctx)
		if err != nil {
			return fmt.Errorf("step %d: failed to read stats: %w", i, err)
		}
		event.Statements = stats.Statements
		event.Inferred = stats.Inferred
		result.AddStep(event)

		switch {
		case step.Error == "" && stepErr != nil:
			result.AddError(fmt.Sprintf("step %d (%s): unexpected error: %v", i, step.Op, stepErr))
		case step.Error != "" && stepErr == nil:
			result.AddError(fmt.Sprintf("step %d (%s): expected %s, got success", i, step.Op, step.Error))
		case step.Error != "" && event.Error != step.Error:
			result.AddError(fmt.Sprintf("step %d (%s): expected %s, got %v", i, step.Op, step.Error, stepErr))
		}
	}
	return nil
}

func (h *Harness) apply(ctx context.Context, step Step) error {
	if step.Op == OpClear {
		return h.kb.Clear(ctx)
	}

	triples, err := parseRows(step.Triples)
	if err != nil {
		return err
	}
	model := ir.ModelOrDefault(step.Model)

	switch step.Op {
	case OpAdd:
		return h.kb.Add(ctx, triples, model)
	case OpAddInferred:
		return h.kb.AddInferred(ctx, triples, model)
	case OpUpdate:
		return h.kb.Update(ctx, triples, model)
	case OpDelete:
		return h.kb.Delete(ctx, triples, model)
	default:
		return ir.NewInvalidArgument("harness", "unknown op "+step.Op)
	}
}

// parseRows converts rows into triples without requiring them to be ground,
// so the knowledge base itself reports variables in mutations.
func parseRows(rows [][]string) ([]ir.Triple, error) {
	triples := make([]ir.Triple, 0, len(rows))
	for _, row := range rows {
		t, err := ir.ParseTriple(row...)
		if err != nil {
			return nil, err
		}
		triples = append(triples, t)
	}
	return triples, nil
}

func writtenTriples(rows loader.Triples) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, strings.Join(row, " "))
	}
	return out
}

// errorCode returns the code of an ir.Error, or "ERROR" for anything else.
func errorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *ir.Error
	if errors.As(err, &e) {
		return string(e.Code)
	}
	return "ERROR"
}

func scenarioModels(s *Scenario) []string {
	if len(s.Models) > 0 {
		return s.Models
	}
	return []string{ir.DefaultModel}
}
