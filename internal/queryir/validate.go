package queryir

import (
	"fmt"
)

// ValidationResult contains the problems found in a query.
type ValidationResult struct {
	// Valid is true when the query can be executed by every backend.
	Valid bool

	// Problems lists what makes the query invalid. Empty when Valid is true.
	Problems []string
}

// Validate checks a query against the fragment rules:
//  1. Select names a table
//  2. Bound variables have names
//  3. Literal values are string, bool or int64
//  4. Field names are non-empty; SameColumn compares two distinct fields
//  5. Limit is not negative
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{
		problems: []string{},
	}
	v.validateQuery(query)

	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	if q == nil {
		v.addProblem("nil query")
		return
	}

	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		v.validateSelect(*query)
	default:
		v.addProblem("unknown query type: %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	if sel.From == "" {
		v.addProblem("select has no table")
	}
	if sel.Limit < 0 {
		v.addProblem("negative limit %d", sel.Limit)
	}
	for _, col := range sel.Columns() {
		if col == "" {
			v.addProblem("binding with empty source column")
		}
		if sel.Bindings[col] == "" {
			v.addProblem("column %q bound to empty variable name", col)
		}
	}
	if sel.Filter != nil {
		v.validatePredicate(sel.Filter)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	if p == nil {
		return
	}

	switch pred := p.(type) {
	case Equals:
		v.validateEquals(pred)
	case *Equals:
		v.validateEquals(*pred)
	case In:
		v.validateIn(pred)
	case *In:
		v.validateIn(*pred)
	case SameColumn:
		v.validateSameColumn(pred)
	case *SameColumn:
		v.validateSameColumn(*pred)
	case And:
		v.validateAnd(pred)
	case *And:
		v.validateAnd(*pred)
	default:
		v.addProblem("unknown predicate type: %T", p)
	}
}

func (v *validator) validateEquals(eq Equals) {
	if eq.Field == "" {
		v.addProblem("equals with empty field")
	}
	switch eq.Value.(type) {
	case string, bool, int64:
	case nil:
		v.addProblem("field %q compared to nil", eq.Field)
	default:
		v.addProblem("field %q compared to unsupported value type %T", eq.Field, eq.Value)
	}
}

func (v *validator) validateIn(in In) {
	if in.Field == "" {
		v.addProblem("in with empty field")
	}
}

func (v *validator) validateSameColumn(sc SameColumn) {
	if sc.Left == "" || sc.Right == "" {
		v.addProblem("same-column with empty field")
		return
	}
	if sc.Left == sc.Right {
		v.addProblem("same-column compares %q with itself", sc.Left)
	}
}

func (v *validator) validateAnd(and And) {
	for _, sub := range and.Predicates {
		v.validatePredicate(sub)
	}
}
