package queryir

import "slices"

// Query represents an abstract query in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Predicate represents a filter condition in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Select represents a filtered scan of one table.
//
// Semantics:
//
//	SELECT [DISTINCT] <bindings> FROM <from> WHERE <filter> [LIMIT <limit>]
//
// Example (pattern (?x, type, Dog) over models {default}):
//
//	Select{
//	  From: "triples",
//	  Filter: And{Predicates: []Predicate{
//	    In{Field: "model", Values: []string{"default"}},
//	    Equals{Field: "predicate", Value: "type"},
//	    Equals{Field: "object", Value: "Dog"},
//	  }},
//	  Bindings: map[string]string{"subject": "x"},
//	  Distinct: true,
//	}
//
// Produces bindings: {"x": <subject>} once per distinct subject.
//
// An empty Bindings map is an existence probe: backends select a constant
// column and callers only inspect whether any row came back.
type Select struct {
	From     string            // Table name
	Filter   Predicate         // WHERE conditions (nil = no filter)
	Bindings map[string]string // source column → bound variable
	Distinct bool              // Collapse duplicate projected rows
	Limit    int               // Maximum rows (0 = unlimited)
}

func (Select) queryNode() {}

// Columns returns the bound source columns in sorted order. Backends must
// emit result columns in this order so callers can scan positionally.
func (s Select) Columns() []string {
	cols := make([]string, 0, len(s.Bindings))
	for c := range s.Bindings {
		cols = append(cols, c)
	}
	slices.Sort(cols)
	return cols
}

// Equals represents a field-equals-literal predicate.
//
// Semantics:
//
//	<field> = <value>
//
// Value must be a string, bool or int64.
type Equals struct {
	Field string
	Value any
}

func (Equals) predicateNode() {}

// In represents set membership of a field.
//
// Semantics:
//
//	<field> IN (<values>...)
//
// An empty Values list matches nothing.
type In struct {
	Field  string
	Values []string
}

func (In) predicateNode() {}

// SameColumn requires two fields of the same row to be equal. The matcher
// uses it when one variable occupies several slots of a pattern.
//
// Semantics:
//
//	<left> = <right>
type SameColumn struct {
	Left  string
	Right string
}

func (SameColumn) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
// An empty Predicates slice means "always true".
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}
