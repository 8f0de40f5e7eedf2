// pkg/testutil/environment.go
// DEPENDENCIES: pkg/filesystem, pkg/paths
// PURPOSE: In-memory workspace for engine, host and synchronizer tests

package testutil

import (
	"testing"

	"github.com/arthur-debert/snipsync/pkg/filesystem"
	"github.com/arthur-debert/snipsync/pkg/paths"
	"github.com/arthur-debert/snipsync/pkg/types"
	"github.com/stretchr/testify/require"
)

// WorkspaceRoot is the root of every test environment.
const WorkspaceRoot = "/ws"

// TestEnvironment is an in-memory workspace.
type TestEnvironment struct {
	FS    types.FS
	Paths *paths.Paths

	t *testing.T
}

// NewTestEnvironment creates an empty workspace rooted at WorkspaceRoot with
// the default snippet root.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	p, err := paths.New(WorkspaceRoot)
	require.NoError(t, err)

	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll(p.SnippetRoot(), 0755))

	return &TestEnvironment{FS: fs, Paths: p, t: t}
}

// WriteSource writes a snippet source under the snippet root and returns
// its absolute path.
func (e *TestEnvironment) WriteSource(ref, content string) string {
	e.t.Helper()
	abs := e.Paths.Resolve(ref)
	require.NoError(e.t, e.FS.WriteFile(abs, []byte(content), 0644))
	return abs
}

// RemoveSource deletes a snippet source.
func (e *TestEnvironment) RemoveSource(ref string) {
	e.t.Helper()
	require.NoError(e.t, e.FS.Remove(e.Paths.Resolve(ref)))
}

// WriteDoc writes a document relative to the workspace root and returns its
// absolute path.
func (e *TestEnvironment) WriteDoc(rel, content string) string {
	e.t.Helper()
	abs := e.Paths.Abs(rel)
	require.NoError(e.t, e.FS.WriteFile(abs, []byte(content), 0644))
	return abs
}

// ReadFile returns the content of an absolute path.
func (e *TestEnvironment) ReadFile(abs string) string {
	e.t.Helper()
	data, err := e.FS.ReadFile(abs)
	require.NoError(e.t, err)
	return string(data)
}
