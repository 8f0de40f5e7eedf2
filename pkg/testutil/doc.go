// Package testutil provides utilities for testing snipsync components.
//
// Key components:
//   - TestEnvironment: an in-memory workspace with a snippet root and
//     helpers to write sources and documents
//   - FakeWatcher: a watch.Watcher whose changes are triggered by the test
//   - MockHost: a testify mock of host.Host
//
// All test data should be defined inline, not in external files.
package testutil
