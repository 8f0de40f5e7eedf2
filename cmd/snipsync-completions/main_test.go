package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSingleShell(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run([]string{"fish"}, &buf))
	assert.Contains(t, buf.String(), "snipsync")
}

func TestRunAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, run([]string{"all", dir}, &bytes.Buffer{}))

	for _, g := range generators {
		info, err := os.Stat(filepath.Join(dir, g.file))
		require.NoError(t, err, g.file)
		assert.NotZero(t, info.Size(), g.file)
	}
}

func TestRunErrors(t *testing.T) {
	assert.ErrorContains(t, run(nil, &bytes.Buffer{}), "bash|fish|powershell|zsh")
	assert.ErrorContains(t, run([]string{"tcsh"}, &bytes.Buffer{}), `unknown shell "tcsh"`)
	assert.ErrorContains(t, run([]string{"all"}, &bytes.Buffer{}), "output directory")
}
