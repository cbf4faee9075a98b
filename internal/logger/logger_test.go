package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsAreStructured(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	SetOutput(&buf)

	Error("session store unavailable", map[string]any{
		"endpoint": "login",
		"stage":    "session_binding",
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "session store unavailable", line["message"])
	assert.Equal(t, "login", line["endpoint"])
	assert.Equal(t, "session_binding", line["stage"])
}

func TestNilFields(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	SetOutput(&buf)

	Info("ready", nil)

	assert.Contains(t, buf.String(), `"message":"ready"`)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Info("hidden", nil)
	Warn("shown", nil)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
