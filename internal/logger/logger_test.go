package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, slog.LevelInfo))

	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log.With("file", "a.txt").WithGroup("stats").Warn("converted", "legacy", 3)
	out := buf.String()
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "converted")
	assert.Contains(t, out, "file"+reset+"=a.txt")
	assert.Contains(t, out, "stats.legacy"+reset+"=3")
}

func TestPrettyHandlerWithAttrsDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(NewPrettyHandler(&buf, slog.LevelInfo))
	_ = base.With("a", 1)

	base.Info("plain")
	assert.NotContains(t, buf.String(), "a"+reset+"=1")
}

func TestNewHandlerJSON(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, "json", slog.LevelDebug)
	require.True(t, h.Enabled(context.Background(), slog.LevelDebug))

	slog.New(h).Info("hello", "n", 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
