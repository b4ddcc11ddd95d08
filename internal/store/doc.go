// Package store provides SQLite-backed durable storage for minikb statements.
//
// The store holds a single table of statements keyed by content hash
// (see ir.StatementHash) and exposes the narrow contract the query core
// needs:
//   - Insert-if-absent: re-adding a statement is a silent no-op
//   - Delete by key: remove the statement with a given hash
//   - Delete by flag: remove every inferred statement
//   - Scan with filter: parameterized SELECT compiled from queryir
//
// # Atomicity
//
// Every mutation runs inside WithTx. A transaction either commits entirely
// or leaves the table untouched; readers observe the pre- or post-state,
// never a partial write.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Single open connection: one writer, no SQLITE_BUSY between our own calls
//
// Two drivers are supported: "sqlite3" (github.com/mattn/go-sqlite3, cgo)
// and "sqlite" (modernc.org/sqlite, pure Go). Both read and write the same
// file format.
//
// Every database failure is returned as an ir.Error with code
// STORAGE_UNAVAILABLE.
package store
