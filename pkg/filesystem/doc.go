// Package filesystem implements types.FS on top of afero: the OS file
// system for the CLI and an in-memory one for tests.
package filesystem
