package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerTo(&buf, &Config{LogFormat: "json"})
	logger.Info("hello", "key", "value")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "hello", line["msg"])
	require.Equal(t, "value", line["key"])
}

func TestNewLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerTo(&buf, &Config{LogFormat: "pretty"})
	logger.Info("hello")
	require.Contains(t, buf.String(), "msg=hello")
}

func TestNewLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerTo(&buf, &Config{LogFormat: "pretty", LogLevel: "warn"})
	logger.Info("quiet")
	require.Empty(t, buf.String())

	logger.Warn("loud")
	require.Contains(t, buf.String(), "loud")
}

func TestNewLoggerDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerTo(&buf, &Config{LogLevel: "debug"})
	logger.Debug("tracing")
	require.Contains(t, buf.String(), "tracing")
}
