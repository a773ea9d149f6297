package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestLoggerAddsModuleAndVersion(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "recipes-api", "v1.2.3", slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("recipe created", slog.Int("id", 7))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "recipe created", record["msg"])
	assert.Equal(t, "recipes-api", record["module"])
	assert.Equal(t, "v1.2.3", record["version"])
	assert.EqualValues(t, 7, record["id"])
}
