package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"go-gin-mongo-users/internal/core/logger"
)

func TestBuildJSON(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := logger.Build(logger.Options{Level: "warn", JSON: true, Output: zapcore.AddSync(&buf)})
	defer cleanup()

	l.Info("dropped")
	l.Warn("kept", zap.String("id", "507f1f77bcf86cd799439011"))
	require.NoError(t, l.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "507f1f77bcf86cd799439011", entry["id"])
	assert.Contains(t, entry, "ts")
}

func TestBuildBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := logger.Build(logger.Options{Level: "loud", JSON: true, Output: zapcore.AddSync(&buf)})
	defer cleanup()

	l.Debug("hidden")
	l.Info("shown")
	_ = l.Sync()
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestToWriter(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := logger.Build(logger.Options{Level: "debug", JSON: true, Output: zapcore.AddSync(&buf)})
	defer cleanup()

	w := logger.ToWriter(l, zapcore.InfoLevel)
	n, err := w.Write([]byte("[GIN-debug] GET /api/v1/users\n"))
	require.NoError(t, err)
	assert.Equal(t, len("[GIN-debug] GET /api/v1/users\n"), n)
	_ = l.Sync()
	assert.Contains(t, buf.String(), `"msg":"[GIN-debug] GET /api/v1/users"`)
}

func TestToStdLogger(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := logger.Build(logger.Options{Level: "debug", JSON: true, Output: zapcore.AddSync(&buf)})
	defer cleanup()

	std, err := logger.ToStdLogger(l, zapcore.WarnLevel)
	require.NoError(t, err)
	std.Print("slow sql")
	_ = l.Sync()
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "slow sql")
}

func TestForAttachesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := zap.New(core)

	logger.For(context.Background(), l).Info("plain")
	ctx := logger.WithRequestID(context.Background(), "rid-1")
	logger.For(ctx, l).Info("tagged")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[0].ContextMap(), "rid")
	assert.Equal(t, "rid-1", entries[1].ContextMap()["rid"])
	assert.Equal(t, "rid-1", logger.RequestID(ctx))
}
