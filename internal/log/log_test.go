package log

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"trace": LevelTrace,
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestSetupLoggerSplitsByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, closers, err := setupLogger("debug", "", &stdout, &stderr)
	require.NoError(t, err)
	assert.Empty(t, closers)

	logger.Debug("chunk", "n", 3)
	logger.Error("capture broken")

	assert.Contains(t, stdout.String(), "msg=chunk")
	assert.NotContains(t, stdout.String(), "capture broken")
	assert.Contains(t, stderr.String(), "msg=\"capture broken\"")
	assert.NotContains(t, stderr.String(), "chunk")
}

func TestSetupLoggerHonoursLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, _, err := setupLogger("warn", "", &stdout, &stderr)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "shown")
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	r := &rawLogger{w: &buf, now: func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }}

	r.Log(true, []byte{0xe0, 0xf0, 0x11})
	r.Log(false, []byte{0xed, 0x02})
	r.Log(true, nil)

	assert.Equal(t,
		"2024/05/01 12:00:00 D->H chunk: 3 bytes, hex: e0 f0 11\n"+
			"2024/05/01 12:00:00 H->D chunk: 2 bytes, hex: ed 02\n",
		buf.String())
}

func TestRawLoggerNilWriter(t *testing.T) {
	assert.NotPanics(t, func() { NewRaw(nil).Log(true, []byte{0x1c}) })
}
