package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor(t *testing.T) {
	cases := map[int]zerolog.Level{
		-1: zerolog.WarnLevel,
		0:  zerolog.WarnLevel,
		1:  zerolog.InfoLevel,
		2:  zerolog.DebugLevel,
		3:  zerolog.TraceLevel,
		7:  zerolog.TraceLevel,
	}
	for v, want := range cases {
		assert.Equal(t, want, LevelFor(v), "verbosity %d", v)
	}
}

func TestSetupLoggerCreatesStateFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	t.Setenv(EnvLogFile, "")

	SetupLogger(1)
	t.Cleanup(func() { _, _ = swapLogFile("") })

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	log.Warn().Msg("hello file")

	data, err := os.ReadFile(filepath.Join(dir, "snipsync", "snipsync.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestSetupLoggerFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "run.log")
	t.Setenv(EnvLogFile, path)

	SetupLogger(0)
	SetupLogger(2)
	t.Cleanup(func() { _, _ = swapLogFile("") })

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestLogFilePath(t *testing.T) {
	t.Setenv(EnvLogFile, "")
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	assert.Equal(t, filepath.ToSlash("/custom/state/snipsync/snipsync.log"), filepath.ToSlash(LogFilePath()))

	t.Setenv(EnvLogFile, "off")
	assert.Empty(t, LogFilePath())

	t.Setenv(EnvLogFile, "/tmp/x.log")
	assert.Equal(t, "/tmp/x.log", LogFilePath())
}

func TestGetLogger(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	logger := GetLogger("synchronizer")
	logger.Info().Msg("test message")

	assert.Contains(t, buf.String(), `"component":"synchronizer"`)
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	LogOperationStart(logger, "sync")()

	out := buf.String()
	assert.Contains(t, out, "Operation started")
	assert.Contains(t, out, "Operation completed")
	assert.Contains(t, out, `"duration"`)
}
