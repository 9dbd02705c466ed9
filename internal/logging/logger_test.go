package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type label string

func (l label) String() string { return "label:" + string(l) }

func configure(t *testing.T, jsonOut, debug bool) *bytes.Buffer {
	t.Helper()
	LogJson, LogDebug = jsonOut, debug
	t.Cleanup(func() {
		LogJson, LogDebug = false, false
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	var buf bytes.Buffer
	ConfigureLoggerTo(&buf)
	return &buf
}

func TestConfigureLogger_JSON(t *testing.T) {
	buf := configure(t, true, false)

	log.Info().Str("op", "trim").Msg("done")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "trim", entry["op"])
	assert.Equal(t, "done", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestConfigureLogger_Levels(t *testing.T) {
	buf := configure(t, true, false)
	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	buf = configure(t, true, true)
	log.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigureLogger_Console(t *testing.T) {
	buf := configure(t, false, false)
	log.Info().Msg("plain")
	assert.Contains(t, buf.String(), "INF")
	assert.Contains(t, buf.String(), "plain")
}

func TestConfigureLogger_Stringers(t *testing.T) {
	buf := configure(t, true, false)
	log.Info().Interface("v", label("x")).Msg("")
	assert.Contains(t, buf.String(), `"v":"label:x"`)
}

func TestConfigureLogger_ErrorStack(t *testing.T) {
	buf := configure(t, true, false)
	log.Error().Stack().Err(errors.New("boom")).Msg("failed")
	assert.Contains(t, buf.String(), `"stack"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)
}
