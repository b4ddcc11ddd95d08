package ir

import (
	"slices"
)

// Binding maps variable names (without sigil) to constant values.
type Binding map[string]string

// SortedKeys returns variable names in lexicographic order for deterministic
// iteration.
func (b Binding) SortedKeys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Key returns a canonical string identifying the assignment. Two bindings
// have equal keys iff they bind the same variables to the same values.
func (b Binding) Key() string {
	keys := b.SortedKeys()
	flat := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		flat = append(flat, k, b[k])
	}
	return string(canonicalStrings(flat...))
}

// Clone returns an independent copy.
func (b Binding) Clone() Binding {
	out := make(Binding, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Compatible reports whether b and other agree on every variable they share.
func (b Binding) Compatible(other Binding) bool {
	small, large := b, other
	if len(small) > len(large) {
		small, large = large, small
	}
	for k, v := range small {
		if ov, ok := large[k]; ok && ov != v {
			return false
		}
	}
	return true
}

// Merge returns the union of b and other. Callers must check Compatible
// first; on conflict other's value wins.
func (b Binding) Merge(other Binding) Binding {
	out := make(Binding, len(b)+len(other))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Project returns the values of vars in order. ok is false if any variable
// is unbound.
func (b Binding) Project(vars []string) (values []string, ok bool) {
	values = make([]string, len(vars))
	for i, v := range vars {
		val, bound := b[v]
		if !bound {
			return nil, false
		}
		values[i] = val
	}
	return values, true
}

// DedupBindings removes bindings with identical assignments, keeping the
// first occurrence. Returns an empty (non-nil) slice for empty input.
func DedupBindings(bindings []Binding) []Binding {
	out := make([]Binding, 0, len(bindings))
	seen := make(map[string]bool, len(bindings))
	for _, b := range bindings {
		k := b.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, b)
	}
	return out
}

// TupleKey returns a canonical key for a projected tuple.
func TupleKey(values []string) string {
	return string(canonicalStrings(values...))
}
