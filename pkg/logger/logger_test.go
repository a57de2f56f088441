package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gallery/internal/config"
	"gallery/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(level string) *config.Config {
	return &config.Config{
		App:    config.App{Name: "gallery-service", Version: "test"},
		Logger: config.Logger{Level: level},
		Env:    "local",
	}
}

func newBufferedLogger(t *testing.T, level string) (*logger.Adapter, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	log, err := logger.NewAdapter(testConfig(level), logger.Output(&buf), logger.WithoutFile())
	require.NoError(t, err)
	return log, &buf
}

func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestAdapter_LogAttrs(t *testing.T) {
	t.Parallel()

	log, buf := newBufferedLogger(t, "info")
	ctx := log.WithRequestID(context.Background(), "req-42")

	log.LogAttrs(ctx, logger.WarnLevel, "slow service operation",
		logger.String("operation", "service.order.ListDetailed"),
		logger.Duration("elapsed", 250*time.Millisecond),
		logger.Int("orders", 3),
		logger.Err(errors.New("boom")),
	)

	got := entries(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "warn", got[0]["level"])
	assert.Equal(t, "slow service operation", got[0]["msg"])
	assert.Equal(t, "req-42", got[0]["request_id"])
	assert.Equal(t, "service.order.ListDetailed", got[0]["operation"])
	assert.Equal(t, "250ms", got[0]["elapsed"])
	assert.EqualValues(t, 3, got[0]["orders"])
	assert.Equal(t, "boom", got[0]["error"])
	assert.Equal(t, "gallery-service", got[0]["service"])
}

func TestAdapter_LevelFiltering(t *testing.T) {
	t.Parallel()

	log, buf := newBufferedLogger(t, "warn")
	ctx := context.Background()

	log.LogAttrs(ctx, logger.DebugLevel, "hidden")
	log.LogAttrs(ctx, logger.InfoLevel, "hidden")
	log.LogAttrs(ctx, logger.ErrorLevel, "shown")
	log.Infow("hidden too", "k", "v")

	got := entries(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "shown", got[0]["msg"])
}

func TestAdapter_WithAndCtx(t *testing.T) {
	t.Parallel()

	log, buf := newBufferedLogger(t, "debug")
	ctx := log.WithRequestID(context.Background(), "req-7")

	log.With("component", "http", "dangling").Ctx(ctx).Infow("request handled")

	got := entries(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "http", got[0]["component"])
	assert.Equal(t, "<missing>", got[0]["dangling"])
	assert.Equal(t, "req-7", got[0]["request_id"])
}

func TestAdapter_RequestID(t *testing.T) {
	t.Parallel()

	log := logger.NewNop()

	id := log.GenerateRequestID()
	assert.Len(t, id, 36)
	assert.NotEqual(t, id, log.GenerateRequestID())

	assert.Empty(t, log.GetRequestID(context.Background()))
	assert.Equal(t, id, log.GetRequestID(log.WithRequestID(context.Background(), id)))
}

func TestNewAdapter_Validation(t *testing.T) {
	t.Parallel()

	cfg := testConfig("info")
	cfg.Logger.Filename = "gallery.log"

	_, err := logger.NewAdapter(cfg, logger.MaxSize(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxSize")

	_, err = logger.NewAdapter(cfg, logger.Output(nil))
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want logger.Level
	}{
		{in: "debug", want: logger.DebugLevel},
		{in: "info", want: logger.InfoLevel},
		{in: "warn", want: logger.WarnLevel},
		{in: "error", want: logger.ErrorLevel},
		{in: "verbose", want: logger.InfoLevel},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, logger.ParseLevel(tc.in), tc.in)
	}
	assert.Equal(t, "WARN", logger.WarnLevel.String())
}
