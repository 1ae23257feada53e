// Package ledger persists per-dataset progress and the manifest records each
// processed dataset produced.
//
// The ledger lives in SQLite (modernc.org/sqlite, no cgo) beside the
// processed output. It lets a later run rebuild the cumulative manifest
// without re-reading every per-dataset manifest, and backs the status command.
package ledger
