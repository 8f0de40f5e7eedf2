package region

import (
	"testing"

	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractWholeFileWithoutMarkers(t *testing.T) {
	src := "package main\n\nfunc main() {}\n"

	got, err := Extract(src, Options{})
	require.NoError(t, err)
	assert.Equal(t, src, got)
	assert.False(t, HasMarkers(src))
}

func TestExtractNested(t *testing.T) {
	src := "A\n//[[start]]\nB\n  //[[start]]\nC\n  //[[end]]\nD\n//[[end]]\nE"

	got, err := Extract(src, Options{})
	require.NoError(t, err)
	assert.Equal(t, "B\nC\nD", got)
}

func TestExtractDedentsAgainstMarkerIndent(t *testing.T) {
	src := "" +
		"class Auth {\n" +
		"    // [[start]]\n" +
		"    signOut() {\n" +
		"      return true;\n" +
		"    }\n" +
		"    // [[end]]\n" +
		"}\n"

	got, err := Extract(src, Options{})
	require.NoError(t, err)
	assert.Equal(t, "signOut() {\n  return true;\n}", got)
}

func TestExtractNestedInnerResolvedFirst(t *testing.T) {
	src := "" +
		"// [[start]]\n" +
		"outer()\n" +
		"    // [[start]]\n" +
		"    inner()\n" +
		"        deeper()\n" +
		"    // [[end]]\n" +
		"// [[end]]\n"

	regions, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, regions, 2)

	inner, outer := regions[0], regions[1]
	assert.Equal(t, 1, inner.Depth)
	assert.Equal(t, []string{"inner()", "    deeper()"}, inner.Lines)
	assert.Equal(t, 3, inner.StartLine)
	assert.Equal(t, 6, inner.EndLine)

	assert.Equal(t, 0, outer.Depth)
	assert.Equal(t, "outer()\ninner()\n    deeper()", outer.Text())
	assert.Equal(t, 1, outer.StartLine)
	assert.Equal(t, 7, outer.EndLine)
}

func TestMarkerRecognition(t *testing.T) {
	tests := []struct {
		line string
		want markerKind
	}{
		{"//[[start]]", openMarker},
		{"// [[start]]", openMarker},
		{"   //  [[ start ]]  ", openMarker},
		{"\t//[[end]]", closeMarker},
		{"// [[end]] trailing words", closeMarker},
		{"foo() // [[start]]", noMarker},
		{"const s = '[[start]]'", noMarker},
		{"/* [[start]] */", noMarker},
		{"", noMarker},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.line), "classify(%q)", tt.line)
	}
}

func TestExtractMultipleTopLevelRegions(t *testing.T) {
	src := "//[[start]]\none\n//[[end]]\nskipped\n//[[start]]\ntwo\n//[[end]]\n"

	concat, err := Extract(src, Options{Join: JoinConcat})
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", concat)

	first, err := Extract(src, Options{Join: JoinFirst})
	require.NoError(t, err)
	assert.Equal(t, "one", first)
}

func TestUnmatchedMarkers(t *testing.T) {
	t.Run("unmatched_open", func(t *testing.T) {
		_, err := Extract("a\n//[[start]]\nb\n", Options{})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnmatchedOpen))
		assert.Equal(t, 2, errors.GetErrorDetails(err)["line"])
	})

	t.Run("unmatched_close", func(t *testing.T) {
		_, err := Extract("a\n//[[end]]\n", Options{})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnmatchedClose))
	})

	t.Run("unmatched_inner_open", func(t *testing.T) {
		_, err := Parse("//[[start]]\n  //[[start]]\n//[[end]]\n")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnmatchedOpen))
	})
}

func TestDedentNeverEatsCode(t *testing.T) {
	src := "    //[[start]]\n  two\nnone\n      six\n    //[[end]]"

	got, err := Extract(src, Options{})
	require.NoError(t, err)
	assert.Equal(t, "two\nnone\n  six", got)
}

func TestParseJoinMode(t *testing.T) {
	mode, err := ParseJoinMode("")
	require.NoError(t, err)
	assert.Equal(t, JoinConcat, mode)

	mode, err = ParseJoinMode(" First ")
	require.NoError(t, err)
	assert.Equal(t, JoinFirst, mode)

	_, err = ParseJoinMode("last")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}
