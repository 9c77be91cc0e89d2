// Package ledger persists one row per rip in a SQLite database so past runs
// can be inspected with the history command.
package ledger
