package snipsync

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it wrote.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := NewRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCmd_NoCommand(t *testing.T) {
	out, err := execute(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
	assert.Contains(t, out, "sync")
	assert.Contains(t, out, "watch")
}

func TestRootCmd_Commands(t *testing.T) {
	rootCmd := NewRootCmd()

	names := make(map[string]string)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = c.GroupID
	}

	for name, group := range map[string]string{
		"sync":       "core",
		"watch":      "core",
		"clean":      "core",
		"check":      "core",
		"render":     "core",
		"links":      "inspect",
		"extract":    "inspect",
		"genconfig":  "misc",
		"topics":     "misc",
		"version":    "misc",
		"completion": "misc",
	} {
		got, ok := names[name]
		if assert.True(t, ok, "missing command %s", name) {
			assert.Equal(t, group, got, name)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "snipsync version dev"))
	assert.Contains(t, out, "commit: unknown")
}

func TestCompletionCmd(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "snipsync")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestTopics(t *testing.T) {
	out, err := execute(t, "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "Available help topics:")
	for _, topic := range []string{"configuration", "pre-commit", "regions", "snippet-paths", "watch-mode"} {
		assert.Contains(t, out, "  "+topic+" ")
	}

	out, err = execute(t, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "regions")

	// Commands still get their regular help
	out, err = execute(t, "help", "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "--dry-run")
}

func TestUnknownFormat(t *testing.T) {
	_, err := execute(t, "sync", "--format", "yaml", "-C", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestHelpFuncs(t *testing.T) {
	plain := helpFuncs(false)
	assert.Equal(t, "usage", plain["bold"].(func(string) string)("usage"))
	assert.Equal(t, "FLAGS", plain["boldUpper"].(func(string) string)("flags"))

	styled := helpFuncs(true)
	assert.Contains(t, styled["boldUpper"].(func(string) string)("flags"), "FLAGS")
}
