package syncdocs_test

import (
	"testing"

	"github.com/arthur-debert/snipsync/pkg/commands/syncdocs"
	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/fence"
	"github.com/arthur-debert/snipsync/pkg/testutil"
	"github.com/arthur-debert/snipsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docA = "# A\n\n```ts snippetPath=\"a.ts\"\n```\n"

func setup(t *testing.T) (*testutil.TestEnvironment, string, string) {
	env := testutil.NewTestEnvironment(t)
	env.WriteSource("a.ts", "const a = 1;\n")
	a := env.WriteDoc("docs/a.mdx", docA)
	b := env.WriteDoc("docs/b.mdx", "```ts snippetPath=\"missing.ts\"\n```\n")
	return env, a, b
}

func TestSyncDocuments(t *testing.T) {
	env, a, _ := setup(t)

	result, err := syncdocs.SyncDocuments(syncdocs.SyncDocumentsOptions{Paths: env.Paths, FS: env.FS})
	require.NoError(t, err)
	require.Len(t, result.Documents, 2)

	docA := result.Documents[0]
	assert.Equal(t, "docs/a.mdx", docA.Path)
	assert.True(t, docA.Changed)
	require.Len(t, docA.Blocks, 1)
	assert.Equal(t, types.DisplayBlock{Ref: "a.ts", Line: 3, Column: 1, Status: types.StatusReplaced}, docA.Blocks[0])

	assert.Equal(t,
		"# A\n\n```ts snippetPath=\"a.ts\"\n"+fence.BeginSentinel+"\nconst a = 1;\n"+fence.EndSentinel+"\n```\n",
		env.ReadFile(a))

	docB := result.Documents[1]
	assert.False(t, docB.Changed)
	require.Len(t, docB.Blocks, 1)
	assert.Equal(t, types.StatusError, docB.Blocks[0].Status)
	assert.Equal(t, string(errors.ErrFileNotFound), docB.Blocks[0].Code)
	assert.Contains(t, docB.Blocks[0].Message, "/ws/codesnippets/src/missing.ts")
	assert.True(t, result.Failed())

	t.Run("second run is a no-op", func(t *testing.T) {
		again, err := syncdocs.SyncDocuments(syncdocs.SyncDocumentsOptions{Paths: env.Paths, FS: env.FS, Documents: []string{"docs/a.mdx"}})
		require.NoError(t, err)
		require.Len(t, again.Documents, 1)
		assert.False(t, again.Documents[0].Changed)
		assert.Equal(t, types.StatusUnchanged, again.Documents[0].Blocks[0].Status)
	})
}

func TestSyncDocumentsDryRun(t *testing.T) {
	env, a, _ := setup(t)

	result, err := syncdocs.SyncDocuments(syncdocs.SyncDocumentsOptions{
		Paths: env.Paths, FS: env.FS, Documents: []string{a}, DryRun: true,
	})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.True(t, result.Documents[0].Changed)
	assert.Equal(t, docA, env.ReadFile(a))
}

func TestSyncDocumentsLinesAfterEdits(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteSource("a.ts", "one\ntwo\n")
	env.WriteDoc("d.mdx", "```ts snippetPath=\"a.ts\"\n```\n\n```ts snippetPath=\"a.ts\"\n```\n")

	result, err := syncdocs.SyncDocuments(syncdocs.SyncDocumentsOptions{Paths: env.Paths, FS: env.FS, Documents: []string{"d.mdx"}})
	require.NoError(t, err)

	blocks := result.Documents[0].Blocks
	require.Len(t, blocks, 2)
	assert.Equal(t, 1, blocks[0].Line)
	// The first block grew by four lines
	assert.Equal(t, 8, blocks[1].Line)
}

func TestSyncDocumentsRejectsNonDocuments(t *testing.T) {
	env, _, _ := setup(t)
	_, err := syncdocs.SyncDocuments(syncdocs.SyncDocumentsOptions{Paths: env.Paths, FS: env.FS, Documents: []string{"notes.txt"}})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
