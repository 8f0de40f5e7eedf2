package fence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrip(t *testing.T) {
	doc := strings.Join([]string{
		"# Doc",
		"```ts snippetPath=\"a.ts\" title=\"A\"",
		BeginSentinel,
		"const a = 1;",
		EndSentinel,
		"```",
		"",
		"```ts snippetPath=\"b.ts\"",
		"hand written",
		"```",
	}, "\n")

	out, n := Strip(doc)
	assert.Equal(t, 1, n)
	assert.Equal(t, strings.Join([]string{
		"# Doc",
		"```ts snippetPath=\"a.ts\" title=\"A\"",
		"```",
		"",
		"```ts snippetPath=\"b.ts\"",
		"hand written",
		"```",
	}, "\n"), out)
}

func TestStripSkipsInexactWrapper(t *testing.T) {
	doc := "```ts snippetPath=\"a.ts\"\n" + BeginSentinel + "\ncode\n" + EndSentinel + "\nnote added by hand\n```"
	out, n := Strip(doc)
	assert.Equal(t, 0, n)
	assert.Equal(t, doc, out)
}

func TestStripNothingToDo(t *testing.T) {
	doc := "plain text"
	out, n := Strip(doc)
	assert.Equal(t, 0, n)
	assert.Equal(t, doc, out)
	assert.Empty(t, StripEdits(doc))
}

func missingEndSentinelDoc() string {
	return strings.Join([]string{
		"```ts snippetPath=\"a.ts\"",
		BeginSentinel,
		"a();",
		"```",
		"Prose the author wrote between blocks.",
		"```ts snippetPath=\"b.ts\"",
		BeginSentinel,
		"b();",
		EndSentinel,
		"```",
	}, "\n")
}

func TestLocateMissingEndSentinelStopsAtNextBlock(t *testing.T) {
	blocks := Locate(missingEndSentinelDoc())
	if assert.Len(t, blocks, 2) {
		assert.Equal(t, "a.ts", blocks[0].Ref)
		assert.Equal(t, 3, blocks[0].CloseLine)
		assert.False(t, blocks[0].Generated)

		assert.Equal(t, "b.ts", blocks[1].Ref)
		assert.Equal(t, 5, blocks[1].OpenLine)
		assert.True(t, blocks[1].Generated)
		assert.True(t, blocks[1].Exact)
	}
}

func TestStripMissingEndSentinelKeepsProse(t *testing.T) {
	out, n := Strip(missingEndSentinelDoc())
	assert.Equal(t, 1, n)
	assert.Equal(t, strings.Join([]string{
		"```ts snippetPath=\"a.ts\"",
		BeginSentinel,
		"a();",
		"```",
		"Prose the author wrote between blocks.",
		"```ts snippetPath=\"b.ts\"",
		"```",
	}, "\n"), out)
}
