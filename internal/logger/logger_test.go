package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesToLogFile(t *testing.T) {
	original := log.Logger
	t.Cleanup(func() { log.Logger = original })

	dir := filepath.Join(t.TempDir(), "logs")
	closer, err := Setup(dir, "debug", false)
	require.NoError(t, err)

	log.Error().Str("video_id", "dQw4w9WgXcQ").Msg("upstream exploded")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "upstream exploded"))
	assert.True(t, strings.Contains(string(data), `"video_id":"dQw4w9WgXcQ"`))
}

func TestSetupInvalidLevelFallsBackToInfo(t *testing.T) {
	original := log.Logger
	t.Cleanup(func() { log.Logger = original })

	closer, err := Setup(t.TempDir(), "loud", false)
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, "info", log.Logger.GetLevel().String())
}
