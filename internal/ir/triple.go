package ir

import (
	"fmt"
	"strings"
)

// Slot names one of the three positions of a triple. The string values are
// also the storage column names.
type Slot string

const (
	SlotSubject   Slot = "subject"
	SlotPredicate Slot = "predicate"
	SlotObject    Slot = "object"
)

// Slots lists the triple positions in order.
var Slots = [3]Slot{SlotSubject, SlotPredicate, SlotObject}

// Triple is an ordered (subject, predicate, object) tuple.
//
// A Triple whose terms are all constants is a ground fact. A Triple with one
// or more variables is a pattern; see Pattern.
type Triple struct {
	Subject   Term `json:"subject"`
	Predicate Term `json:"predicate"`
	Object    Term `json:"object"`
}

// Pattern is a Triple in which any slot may hold a variable.
type Pattern = Triple

// NewTriple builds a ground triple from three constant values.
func NewTriple(s, p, o string) Triple {
	return Triple{Subject: Const(s), Predicate: Const(p), Object: Const(o)}
}

// ParseTriple classifies three raw terms into a Triple.
// Any count other than three is an InvalidArgument (wrong arity).
func ParseTriple(parts ...string) (Triple, error) {
	if len(parts) != 3 {
		return Triple{}, NewInvalidArgument("parse triple",
			fmt.Sprintf("expected 3 terms, got %d", len(parts)))
	}
	var terms [3]Term
	for i, raw := range parts {
		t, err := ParseTerm(raw)
		if err != nil {
			return Triple{}, err
		}
		terms[i] = t
	}
	return Triple{Subject: terms[0], Predicate: terms[1], Object: terms[2]}, nil
}

// MustParseTriple is like ParseTriple but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustParseTriple(parts ...string) Triple {
	t, err := ParseTriple(parts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Term returns the term occupying the given slot.
func (t Triple) Term(slot Slot) Term {
	switch slot {
	case SlotSubject:
		return t.Subject
	case SlotPredicate:
		return t.Predicate
	default:
		return t.Object
	}
}

// Terms returns the three terms in slot order.
func (t Triple) Terms() [3]Term {
	return [3]Term{t.Subject, t.Predicate, t.Object}
}

// IsGround reports whether every slot holds a constant.
func (t Triple) IsGround() bool {
	for _, term := range t.Terms() {
		if !term.IsConstant() {
			return false
		}
	}
	return true
}

// Variables returns the distinct variable names in slot order.
func (t Triple) Variables() []string {
	var names []string
	seen := make(map[string]bool, 3)
	for _, term := range t.Terms() {
		if term.IsVariable() && !seen[term.Value()] {
			seen[term.Value()] = true
			names = append(names, term.Value())
		}
	}
	return names
}

// Freedom is the number of distinct variables in the pattern:
// 0 is a ground fact check, 3 a fully open pattern.
func (t Triple) Freedom() int {
	return len(t.Variables())
}

// ValidateGround returns an InvalidArgument unless the triple is a ground fact.
func (t Triple) ValidateGround(op string) error {
	for i, term := range t.Terms() {
		if term.IsVariable() {
			return NewInvalidArgument(op,
				fmt.Sprintf("%s is variable %s; a ground triple is required", Slots[i], term))
		}
		if !term.IsConstant() {
			return NewInvalidArgument(op, fmt.Sprintf("%s is empty", Slots[i]))
		}
	}
	return nil
}

// ValidatePattern returns an InvalidArgument if any slot is the empty term.
func (t Triple) ValidatePattern(op string) error {
	for i, term := range t.Terms() {
		if !term.IsVariable() && !term.IsConstant() {
			return NewInvalidArgument(op, fmt.Sprintf("%s is empty", Slots[i]))
		}
	}
	return nil
}

// String renders the triple as three space-separated terms. Terms that
// contain whitespace are double-quoted so the output parses back.
func (t Triple) String() string {
	parts := make([]string, 0, 3)
	for _, term := range t.Terms() {
		s := term.String()
		if strings.ContainsAny(s, " \t\n\"") {
			s = fmt.Sprintf("%q", s)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// Strings returns the written form of each slot.
func (t Triple) Strings() []string {
	return []string{t.Subject.String(), t.Predicate.String(), t.Object.String()}
}
