package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/lightbnb/lightbnb/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.Config{Env: "prod", LogLevel: "warn"}, &buf)

	log.Info().Msg("dropped")
	log.Warn().Str("op", "getUserWithId").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "lightbnb", entry["service"])
	assert.Equal(t, "getUserWithId", entry["op"])
}

func TestNewWithWriterUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.Config{Env: "prod", LogLevel: "loud"}, &buf)

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}
