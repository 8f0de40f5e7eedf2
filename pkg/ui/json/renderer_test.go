package json_test

import (
	"bytes"
	stdjson "encoding/json"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/ui/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, stdjson.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	r, err := json.New(&buf)
	require.NoError(t, err)

	coded := errors.New(errors.ErrSnippetMissing, "1 snippet could not be resolved").WithDetail("refs", []string{"gone.ts"})
	require.NoError(t, r.RenderError(coded))
	got := decode(t, &buf)
	assert.Equal(t, "1 snippet could not be resolved", got["error"])
	assert.Equal(t, "SNIPPET_MISSING", got["code"])
	assert.Equal(t, map[string]interface{}{"refs": []interface{}{"gone.ts"}}, got["details"])

	buf.Reset()
	require.NoError(t, r.RenderError(stderrors.New("boom")))
	assert.Equal(t, map[string]interface{}{"error": "boom"}, decode(t, &buf))
}

func TestRenderMessageAndNil(t *testing.T) {
	var buf bytes.Buffer
	r, _ := json.New(&buf)

	require.NoError(t, r.RenderMessage("done"))
	assert.Equal(t, map[string]interface{}{"message": "done"}, decode(t, &buf))
	assert.True(t, errors.IsErrorCode(r.RenderResult(nil), errors.ErrInvalidInput))
}
