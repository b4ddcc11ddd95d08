package harness

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/minikb/internal/kb"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s %v", event.Seq, event.Op, event.Model, event.Triples)
			if event.Error != "" {
				fmt.Fprintf(&buf, " -> %s", event.Error)
			}
			buf.WriteString("\n")
		}
	}

	return buf.String()
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Ctx    context.Context
	KB     *kb.KB
	Models []string     // default read scope
	Trace  []TraceEvent // attached to failures
}

// outcome is what one read operation produced, rendered for comparison.
type outcome struct {
	expected string
	actual   string
	ok       bool
}

// EvaluateAssertions evaluates all assertions against the knowledge base.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error
		if actx == nil || actx.KB == nil {
			err = fmt.Errorf("assertion[%d]: %s requires a knowledge base", i, assertion.Type)
		} else {
			err = evaluate(actx, assertion)
		}
		if err != nil {
			errors = append(errors, fmt.Sprintf("assertion[%d]: %v", i, err))
		}
	}

	return errors
}

func evaluate(actx *AssertionContext, a Assertion) error {
	models := a.Models
	if len(models) == 0 {
		models = actx.Models
	}

	var (
		out   outcome
		opErr error
	)
	switch a.Type {
	case AssertQuery:
		out, opErr = assertQuery(actx.Ctx, actx.KB, a, models)
	case AssertHas:
		out, opErr = assertHas(actx.Ctx, actx.KB, a, models)
	case AssertHasStmt:
		out, opErr = assertHasStmt(actx.Ctx, actx.KB, a, models)
	case AssertAbout:
		out, opErr = assertAbout(actx.Ctx, actx.KB, a, models)
	case AssertClassesOf:
		out, opErr = assertClassesOf(actx.Ctx, actx.KB, a, models)
	case AssertCount, AssertInferredCount:
		out, opErr = assertCount(actx.Ctx, actx.KB, a, models)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}

	fail := &AssertionError{Type: a.Type, Expected: out.expected, Trace: actx.Trace}
	switch {
	case a.Error != "":
		fail.Expected = "error " + a.Error
		if opErr == nil {
			fail.Actual = out.actual
			return fail
		}
		if code := errorCode(opErr); code != a.Error {
			fail.Actual = fmt.Sprintf("error %s: %v", code, opErr)
			return fail
		}
		return nil
	case opErr != nil:
		fail.Actual = fmt.Sprintf("error %s: %v", errorCode(opErr), opErr)
		return fail
	case !out.ok:
		fail.Actual = out.actual
		return fail
	}
	return nil
}

// assertQuery compares query answers with the expected rows as sets.
func assertQuery(ctx context.Context, k *kb.KB, a Assertion, models []string) (outcome, error) {
	patterns, err := parseRows(a.Patterns)
	if err != nil {
		return outcome{}, err
	}
	rows, err := k.Query(ctx, a.Vars, patterns, models)
	if err != nil {
		return outcome{}, err
	}

	want := sortedRows(a.Rows)
	got := sortedRows(rows)
	return outcome{
		expected: fmt.Sprintf("rows %v", want),
		actual:   fmt.Sprintf("rows %v", got),
		ok:       equalRows(want, got),
	}, nil
}

func assertHas(ctx context.Context, k *kb.KB, a Assertion, models []string) (outcome, error) {
	patterns, err := parseRows(a.Patterns)
	if err != nil {
		return outcome{}, err
	}
	got, err := k.Has(ctx, patterns, models)
	if err != nil {
		return outcome{}, err
	}
	return boolOutcome(a.Want, got), nil
}

func assertHasStmt(ctx context.Context, k *kb.KB, a Assertion, models []string) (outcome, error) {
	triples, err := parseRows([][]string{a.Triple})
	if err != nil {
		return outcome{}, err
	}
	got, err := k.HasStmt(ctx, triples[0], models)
	if err != nil {
		return outcome{}, err
	}
	return boolOutcome(a.Want, got), nil
}

func assertAbout(ctx context.Context, k *kb.KB, a Assertion, models []string) (outcome, error) {
	triples, err := k.About(ctx, a.Resource, models)
	if err != nil {
		return outcome{}, err
	}
	rows := make([][]string, 0, len(triples))
	for _, t := range triples {
		rows = append(rows, t.Strings())
	}

	want := sortedRows(a.Triples)
	got := sortedRows(rows)
	return outcome{
		expected: fmt.Sprintf("triples %v", want),
		actual:   fmt.Sprintf("triples %v", got),
		ok:       equalRows(want, got),
	}, nil
}

func assertClassesOf(ctx context.Context, k *kb.KB, a Assertion, models []string) (outcome, error) {
	got, err := k.ClassesOf(ctx, a.Concept, a.Direct, models)
	if err != nil {
		return outcome{}, err
	}
	want := slices.Clone(a.Classes)
	if want == nil {
		want = []string{}
	}
	sort.Strings(want)
	got = slices.Clone(got)
	sort.Strings(got)
	return outcome{
		expected: fmt.Sprintf("classes %v", want),
		actual:   fmt.Sprintf("classes %v", got),
		ok:       slices.Equal(want, got),
	}, nil
}

// assertCount counts the statements visible in models.
func assertCount(ctx context.Context, k *kb.KB, a Assertion, models []string) (outcome, error) {
	statements, err := k.Statements(ctx, models)
	if err != nil {
		return outcome{}, err
	}
	want := 0
	if a.Count != nil {
		want = *a.Count
	}
	got := 0
	for _, st := range statements {
		if a.Type == AssertCount || st.Inferred {
			got++
		}
	}
	return outcome{
		expected: fmt.Sprintf("%s %d", a.Type, want),
		actual:   fmt.Sprintf("%s %d", a.Type, got),
		ok:       got == want,
	}, nil
}

func boolOutcome(want *bool, got bool) outcome {
	if want == nil {
		return outcome{expected: "a value for want", actual: fmt.Sprint(got)}
	}
	return outcome{
		expected: fmt.Sprint(*want),
		actual:   fmt.Sprint(got),
		ok:       *want == got,
	}
}

func equalRows(a, b [][]string) bool {
	return slices.EqualFunc(a, b, func(x, y []string) bool { return slices.Equal(x, y) })
}

// sortedRows returns a sorted copy of rows, never nil.
func sortedRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, slices.Clone(r))
	}
	slices.SortFunc(out, func(a, b []string) int { return slices.Compare(a, b) })
	return out
}
