// Package ir provides the data model shared by every minikb package.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal. This keeps the
// data model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Terms are a tagged variant (Constant or Variable) decided once at parse
//     time and never re-inspected by string prefix afterwards
//   - Constants are NFC normalized on entry so hashing, storage and matching
//     all see the same spelling
//   - A statement's identity is its content hash over (subject, predicate,
//     object, model); timestamp and provenance are metadata
//   - Absence is an empty result, never an error
package ir
