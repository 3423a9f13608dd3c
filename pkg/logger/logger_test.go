package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &zapLogger{logger: zap.New(core)}, logs
}

func TestErrorAttachesErr(t *testing.T) {
	l, logs := observed(zapcore.DebugLevel)

	l.Error("Failed to publish catalog event", errors.New("broker down"), zap.String("video_id", "v1"))
	l.Error("Nothing wrapped", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	fields := entries[0].ContextMap()
	assert.Equal(t, "broker down", fields["error"])
	assert.Equal(t, "v1", fields["video_id"])
	assert.NotContains(t, entries[1].ContextMap(), "error")
}

func TestWithCarriesFields(t *testing.T) {
	l, logs := observed(zapcore.InfoLevel)

	l.With(zap.String("channel_id", "c1")).Info("Video updated")
	l.Debug("below level")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "c1", logs.All()[0].ContextMap()["channel_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("loud"))
}
