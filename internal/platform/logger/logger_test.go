package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// グローバルロガーを書き換えるため並列実行しない。
func TestSetupWithWriter(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	t.Run("json output with component", func(t *testing.T) {
		var buf bytes.Buffer
		SetupWithWriter(Config{Level: "debug", Format: "json"}, &buf)

		l := Component("ingest")
		l.Debug().Str("asset", "BTC").Msg("fetched")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "debug", entry["level"])
		assert.Equal(t, "ingest", entry["component"])
		assert.Equal(t, "BTC", entry["asset"])
		assert.Contains(t, entry, "time")
	})

	t.Run("level filters lower entries", func(t *testing.T) {
		var buf bytes.Buffer
		SetupWithWriter(Config{Level: "WARN", Format: "json"}, &buf)

		log.Info().Msg("hidden")
		assert.Zero(t, buf.Len())

		log.Warn().Msg("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		SetupWithWriter(Config{Level: "verbose", Format: "json"}, &buf)

		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("console format", func(t *testing.T) {
		var buf bytes.Buffer
		SetupWithWriter(Config{Level: "info", Format: "console"}, &buf)

		log.Info().Msg("hello")
		assert.Contains(t, buf.String(), "hello")
		assert.False(t, json.Valid(buf.Bytes()))
	})
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	assert.Equal(t, Config{Level: "info", Format: "json"}, LoadConfig())

	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")
	assert.Equal(t, Config{Level: "debug", Format: "console"}, LoadConfig())
}
