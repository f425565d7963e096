package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestNewFiltersAndStructures(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Int("segment", 2).Msg("shown")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, 2.0, line["segment"])
	assert.Contains(t, line, "time")
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camedit.log")
	log, closer, err := File(path, "info")
	require.NoError(t, err)
	log.Info().Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)

	_, _, err = File(filepath.Join(t.TempDir(), "missing", "x.log"), "info")
	assert.Error(t, err)
}
