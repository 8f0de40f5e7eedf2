// Package types defines the small set of interfaces shared across snipsync
// packages. Keeping them here lets the synchronizer, the workspace host and
// the tests agree on the file system without importing each other.
package types
