package observability

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lixenwraith/synapse/config"
)

func TestConsoleLoggerColors(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggerConfig{
		Level:       "debug",
		Format:      "console",
		ServiceName: "test",
		Colors:      config.ColorConfig{Info: "green"},
	}, &buf)

	logger.Info("scene reset", zap.Int("particles", 3))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, colorGreen+"INFO"+colorReset)
	assert.Contains(t, out, "scene reset")
	assert.Contains(t, out, `"particles": 3`)
	assert.Contains(t, out, "test")
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "svc"}, &buf)

	logger.Debug("hidden")
	logger.Warn("visible", zap.String("k", "v"))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "svc", entry["logger"])
	assert.Equal(t, "v", entry["k"])
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggerConfig{Level: "loud", Format: "json"}, &buf)
	logger.Debug("hidden")
	logger.Info("shown")
	require.NoError(t, logger.Sync())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFileOnlyLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synapse.log")
	logger := NewLogger(config.LoggerConfig{
		Level:   "info",
		Format:  "console",
		LogFile: path,
		MaxSize: 1,
	}, nil)

	logger.Info("to file")
	require.NoError(t, logger.Sync())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan())
	var entry map[string]any
	require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
	assert.Equal(t, "to file", entry["msg"])
}

func TestNoSinksIsNop(t *testing.T) {
	logger := NewLogger(config.LoggerConfig{Level: "info"}, nil)
	assert.NotPanics(t, func() { logger.Info("nowhere") })
}

func TestGlobalLogger(t *testing.T) {
	globalLogger.Store(nil)
	assert.NotNil(t, GetLogger())

	var buf bytes.Buffer
	logger := InitializeLogger(config.LoggerConfig{Level: "info", Format: "json"}, &buf)
	t.Cleanup(func() { globalLogger.Store(nil) })

	assert.Same(t, logger, GetLogger())
	zap.L().Info("via global")
	Sync()
	assert.Contains(t, buf.String(), "via global")
}
