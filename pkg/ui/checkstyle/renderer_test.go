package checkstyle_test

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/types"
	"github.com/arthur-debert/snipsync/pkg/ui/checkstyle"
	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, buf *bytes.Buffer) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))
	return doc
}

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	r, err := checkstyle.New(&buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderResult(&types.DisplayResult{
		Command: "check",
		Documents: []types.DisplayDocument{
			{Path: "docs/a.mdx", Blocks: []types.DisplayBlock{
				{Ref: "a.ts", Status: types.StatusReplaced},
				{Ref: "b.ts", Line: 5, Column: 3, Status: types.StatusError, Severity: "error", Code: "INJECTED_CODE", Message: "injected"},
			}},
			{Path: "docs/b.mdx"},
		},
	}))

	doc := parse(t, &buf)
	root := doc.SelectElement("checkstyle")
	require.NotNil(t, root)
	assert.Equal(t, checkstyle.Version, root.SelectAttrValue("version", ""))

	files := root.SelectElements("file")
	require.Len(t, files, 2)
	assert.Equal(t, "docs/a.mdx", files[0].SelectAttrValue("name", ""))

	errs := files[0].SelectElements("error")
	require.Len(t, errs, 1)
	assert.Equal(t, "5", errs[0].SelectAttrValue("line", ""))
	assert.Equal(t, "3", errs[0].SelectAttrValue("column", ""))
	assert.Equal(t, "error", errs[0].SelectAttrValue("severity", ""))
	assert.Equal(t, "injected", errs[0].SelectAttrValue("message", ""))
	assert.Equal(t, "snipsync.INJECTED_CODE", errs[0].SelectAttrValue("source", ""))

	assert.Empty(t, files[1].SelectElements("error"))
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	r, _ := checkstyle.New(&buf)
	require.NoError(t, r.RenderError(errors.New(errors.ErrSnippetMissing, "Snippet file a.ts does not exist")))

	el := parse(t, &buf).FindElement("//error")
	require.NotNil(t, el)
	assert.Equal(t, "Snippet file a.ts does not exist", el.SelectAttrValue("message", ""))
	assert.Equal(t, "snipsync.SNIPPET_MISSING", el.SelectAttrValue("source", ""))
	assert.Empty(t, el.SelectAttrValue("line", ""))
}

func TestRenderMessageWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	r, _ := checkstyle.New(&buf)
	require.NoError(t, r.RenderMessage("ignored"))
	assert.Zero(t, buf.Len())
}
