package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, Config{Format: "json", Level: zapcore.InfoLevel})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("program finished", zap.Int("steps", 12))
	require.NoError(t, log.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "program finished", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 12, entry["steps"])
}

func TestNewAutoFallsBackToJSONForBuffers(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, NewConfig())
	require.NoError(t, err)
	log.Warn("careful")
	assert.Contains(t, buf.String(), `"msg":"careful"`)
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(&bytes.Buffer{}, Config{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	log := zap.NewExample()
	ctx := NewContextWithLogger(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
}
