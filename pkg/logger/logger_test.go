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

func TestSetupWriter(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("json format emits parseable lines", func(t *testing.T) {
		var buf bytes.Buffer
		SetupWriter(&buf, "debug", "json")

		log.Info().Str("op", "test").Msg("hello")

		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "hello", line["message"])
		assert.Equal(t, "test", line["op"])
		assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		SetupWriter(&buf, "loud", "json")

		log.Debug().Msg("hidden")
		assert.Empty(t, buf.String())
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("console format is not json", func(t *testing.T) {
		var buf bytes.Buffer
		SetupWriter(&buf, "info", "console")

		log.Info().Msg("pretty")
		assert.Contains(t, buf.String(), "pretty")
		assert.False(t, json.Valid(buf.Bytes()))
	})
}
