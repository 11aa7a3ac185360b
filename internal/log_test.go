package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{
		"ERROR": LogLevelError, "warn": LogLevelWarn, " Info ": LogLevelInfo,
		"debug": LogLevelDebug, "TRACE": LogLevelTrace,
	} {
		got, ok := ParseLevel(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	got, ok := ParseLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, LogLevelInfo, got)
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, LogLevelWarn)

	l.Info("hidden %d", 1)
	l.Debug("hidden")
	l.Warn("shown %d", 2)
	l.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[WARN] shown 2")
	assert.Contains(t, buf.String(), "[ERROR] shown")
	assert.Equal(t, LogLevelWarn, l.GetLevel())
	assert.True(t, l.Enabled(LogLevelError))
	assert.False(t, l.Enabled(LogLevelInfo))
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "UNKNOWN", LogLevel(9).String())
}
