package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetAndHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := L()
	Set(zap.New(core))
	t.Cleanup(func() { Set(prev) })

	Info("hello", zap.String("user", "u1"))
	Warn("careful")
	Debug("details")

	require.Equal(t, 3, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "u1", entry.ContextMap()["user"])
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
}

func TestInit_FileOutputAndLevel(t *testing.T) {
	prev := L()
	t.Cleanup(func() { Set(prev) })

	out := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, Init(Config{Level: "warn", Format: "json", Output: out}))

	assert.False(t, L().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, L().Core().Enabled(zapcore.WarnLevel))
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	prev := L()
	t.Cleanup(func() { Set(prev) })

	require.NoError(t, Init(Config{Level: "loud", Format: "console", Output: filepath.Join(t.TempDir(), "x.log")}))
	assert.True(t, L().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, L().Core().Enabled(zapcore.DebugLevel))
}
