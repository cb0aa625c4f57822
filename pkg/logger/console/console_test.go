package console

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLogger_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(ConsoleLoggerParams{Writer: &buf})

	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l = NewConsoleLogger(ConsoleLoggerParams{Writer: &buf, Debug: true})
	l.Debug("shown", "node", "001")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "node=001")
}

func TestConsoleLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(ConsoleLoggerParams{Writer: &buf, JSON: true, Prefix: "audit"})

	l.Warn("minimap not set", "node", "001")

	line := strings.TrimSpace(buf.String())
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &out))
	assert.Equal(t, "minimap not set", out["msg"])
	assert.Equal(t, "001", out["node"])
	assert.Equal(t, "audit", out["prefix"])
}
