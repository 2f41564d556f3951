package logger

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerAdapter_KeyValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.Named("agent").
		WithFields(map[string]any{"run_id": "abc", "dialect": "mysql"}).
		Info("Agent finished", "iterations", 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "Agent finished", e.Message)
	assert.Equal(t, "agent", e.LoggerName)

	ctx := e.ContextMap()
	assert.Equal(t, "abc", ctx["run_id"])
	assert.Equal(t, "mysql", ctx["dialect"])
	assert.EqualValues(t, 3, ctx["iterations"])
}

func TestLoggerAdapter_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromZap(zap.New(core))

	log.Debug("hidden")
	log.Warn("careful")
	log.WithField("error", "boom").Error("failed")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
}

func TestNewLoggerAdapter_WritesFile(t *testing.T) {
	dir := t.TempDir()
	log, err := NewLoggerAdapter(Config{Level: "debug", JSON: true, Dir: dir, Name: "serve :8501"})
	require.NoError(t, err)

	log.Info("hello")
	require.NoError(t, log.Close())

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0].Name(), "serve__8501")
}

func TestNewLoggerAdapter_BadLevel(t *testing.T) {
	_, err := NewLoggerAdapter(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "ask__how_many", sanitize("ask: how many?"))
	assert.Equal(t, "chatsql", sanitize("???"))
}
