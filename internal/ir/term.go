package ir

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// VariableSigil marks a raw term as a variable.
const VariableSigil = "?"

// TermKind distinguishes constants from variables.
type TermKind uint8

const (
	// KindConstant is a concrete identifier stored in the knowledge base.
	KindConstant TermKind = iota
	// KindVariable is a placeholder bound by pattern matching.
	KindVariable
)

// String returns a human-readable kind name.
func (k TermKind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindVariable:
		return "variable"
	default:
		return fmt.Sprintf("TermKind(%d)", uint8(k))
	}
}

// Term is a tagged variant: either a Constant carrying its value or a
// Variable carrying its name (without the sigil).
//
// The zero Term is the empty constant, which is never valid in a triple.
type Term struct {
	kind  TermKind
	value string
}

// Const creates a constant term. The value is NFC normalized.
func Const(value string) Term {
	return Term{kind: KindConstant, value: norm.NFC.String(value)}
}

// Var creates a variable term from a bare name ("x", not "?x").
func Var(name string) Term {
	return Term{kind: KindVariable, value: name}
}

// ParseTerm classifies a raw string. A leading "?" makes a variable; anything
// else is a constant. Empty strings and a lone "?" are invalid.
func ParseTerm(raw string) (Term, error) {
	if raw == "" {
		return Term{}, NewInvalidArgument("parse term", "empty term")
	}
	if strings.HasPrefix(raw, VariableSigil) {
		name := strings.TrimPrefix(raw, VariableSigil)
		if name == "" {
			return Term{}, NewInvalidArgument("parse term", "variable has no name")
		}
		return Var(name), nil
	}
	return Const(raw), nil
}

// MustParseTerm is like ParseTerm but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustParseTerm(raw string) Term {
	t, err := ParseTerm(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// Kind reports whether the term is a constant or a variable.
func (t Term) Kind() TermKind { return t.kind }

// IsVariable reports whether the term is a variable.
func (t Term) IsVariable() bool { return t.kind == KindVariable }

// IsConstant reports whether the term is a non-empty constant.
func (t Term) IsConstant() bool { return t.kind == KindConstant && t.value != "" }

// Value returns the constant value, or the variable name for variables.
func (t Term) Value() string { return t.value }

// String renders the term the way it is written: variables keep their sigil.
func (t Term) String() string {
	if t.kind == KindVariable {
		return VariableSigil + t.value
	}
	return t.value
}

// MarshalJSON encodes the term in its written form.
func (t Term) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON parses the written form.
func (t *Term) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTerm(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
