// Package csync provides a generic map guarded by a read-write mutex.
//
// The engine keys its per-document state (locks, diagnostics) by document
// id and receives events on arbitrary goroutines, so every access goes
// through Map.
package csync
