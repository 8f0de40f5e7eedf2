package links_test

import (
	"testing"

	"github.com/arthur-debert/snipsync/pkg/commands/links"
	"github.com/arthur-debert/snipsync/pkg/testutil"
	"github.com/arthur-debert/snipsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListLinks(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteSource("a.ts", "x\n")
	env.WriteDoc("a.mdx", "See `snippetPath=\"a.ts\"`.\n\n```ts snippetPath=\"gone.ts\"\n```\n")

	result, err := links.ListLinks(links.ListLinksOptions{Paths: env.Paths, FS: env.FS, Documents: []string{"a.mdx"}})
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)

	assert.Equal(t, []types.DisplayBlock{
		{Ref: "a.ts", Line: 1, Column: 6, Target: "codesnippets/src/a.ts", Status: types.StatusFound},
		{Ref: "gone.ts", Line: 3, Column: 7, Target: "codesnippets/src/gone.ts", Status: types.StatusMissing},
	}, result.Documents[0].Blocks)
	assert.Equal(t, 1, result.Count(types.StatusFound))
	assert.True(t, result.Failed())
}
