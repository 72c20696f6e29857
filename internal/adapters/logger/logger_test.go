package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zapret/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func newLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)
	return l, &buf
}

func TestLogger_Pretty(t *testing.T) {
	l, buf := newLogger(t)

	l.Info("server started", "executor", "local")
	l.Warn("slow command", "ms", 1500)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "server started executor=local", lines[0])
	assert.Equal(t, "! slow command ms=1500", lines[1])
}

func TestLogger_JSON(t *testing.T) {
	l, buf := newLogger(t)
	l.SetJSON(true)

	l.Info("saved log", "category", "service")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "saved log", record["msg"])
	assert.Equal(t, "service", record["category"])
}

func TestLogger_SetJSONKeepsOutput(t *testing.T) {
	l, buf := newLogger(t)
	l.SetJSON(true)
	l.SetJSON(false)

	l.Info("back to pretty")
	assert.Equal(t, "back to pretty\n", buf.String())
}

func TestLogger_Error_Chain(t *testing.T) {
	l, buf := newLogger(t)

	err := zerr.Wrap(zerr.Wrap(errors.New("connection refused"), "dial"), "transport failure")
	l.Error(err)

	out := buf.String()
	assert.Contains(t, out, "Error: transport failure")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "→ dial")
	assert.Contains(t, out, "→ connection refused")
}

func TestLogger_Error_JSON(t *testing.T) {
	l, buf := newLogger(t)
	l.SetJSON(true)

	l.Error(errors.New("boom"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "boom", record["error"])
}

func TestLogger_Error_Nil(t *testing.T) {
	l, buf := newLogger(t)
	l.Error(nil)
	assert.Empty(t, buf.String())
}

func TestCollectErrorEntries(t *testing.T) {
	t.Parallel()

	entries := logger.CollectErrorEntries(zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle"), "outer"))
	require.Len(t, entries, 3)
	assert.Equal(t, "outer", entries[0].Message)
	assert.Equal(t, "middle", entries[1].Message)
	assert.Equal(t, "root cause", entries[2].Message)
}

func TestFormatErrorEntries(t *testing.T) {
	t.Parallel()

	got := logger.FormatErrorEntries([]logger.ErrorEntry{
		{Message: "first\nsecond line"},
		{Message: "cause"},
	})
	assert.Equal(t, "Error: first\n       second line\n\n  Caused by:\n    → cause", got)
}
