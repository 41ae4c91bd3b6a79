package infrastructure

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i94cli/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestCreateLoggerFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	logger, err := createLogger(config.LoggingConfig{
		Level:    "info",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)
	t.Cleanup(CloseLogger)

	logger.Info("pipeline started", slog.Int("rows", 42))
	CloseLogger()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "pipeline started", entry["msg"])
	assert.Equal(t, float64(42), entry["rows"])
}

func TestCreateLoggerRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, err := createLogger(config.LoggingConfig{
		Level:    "error",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)
	t.Cleanup(CloseLogger)

	logger.Info("dropped")
	CloseLogger()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}
