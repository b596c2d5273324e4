package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outfitting-go/internal/application/common"
	"github.com/andrescamacho/outfitting-go/internal/infrastructure/config"
	"github.com/andrescamacho/outfitting-go/internal/infrastructure/logging"
)

// the slog logger satisfies the handler logging port
var _ common.Logger = (*logging.Logger)(nil)

func TestLogger_JSONWithMetadata(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger, err := logging.NewWriterLogger(&buf, config.LoggingConfig{Level: "info", Format: "json"})
	require.NoError(t, err)

	// Act
	logger.Log("WARNING", "Build code rejected", map[string]interface{}{"ship_id": "eagle", "position": 3})

	// Assert
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "Build code rejected", entry["msg"])
	assert.Equal(t, "eagle", entry["ship_id"])
	assert.Equal(t, 3.0, entry["position"])
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewWriterLogger(&buf, config.LoggingConfig{Level: "warn", Format: "text"})
	require.NoError(t, err)

	logger.Log("DEBUG", "hidden", nil)
	logger.Log("INFO", "hidden too", nil)
	logger.Log("ERROR", "shown", nil)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for name, want := range tests {
		got, err := logging.ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := logging.ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewLogger_FileOutput(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "outfitter.log")
	logger, err := logging.NewLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "file", FilePath: path})
	require.NoError(t, err)

	// Act
	logger.Log("INFO", "Build saved", map[string]interface{}{"build_id": "b-1"})
	require.NoError(t, logger.Close())

	// Assert
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "build_id=b-1")
}

func TestNewLogger_Rejects(t *testing.T) {
	_, err := logging.NewLogger(config.LoggingConfig{Level: "info", Format: "xml", Output: "stderr"})
	assert.Error(t, err)

	_, err = logging.NewLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "syslog"})
	assert.Error(t, err)
}
