// Package kb is the knowledge base operation surface.
//
// A KB wraps one store and one engine and exposes the operations add,
// delete, update, clear, has, query, about, classesof and has_stmt, plus
// AddInferred, Load, Statements and Stats.
//
// Every mutation runs as one store transaction. Delete is non-monotonic:
// before removing anything it purges every inferred statement in every
// model, whether or not the purge is related to the deleted facts. Update is
// the same as add; no functional-property or uniqueness check is made.
//
// Reads never return a not-found error. Absence is an empty result.
package kb
