package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestLevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	SetLevel("warn")
	defer SetLevel("info")

	Infof("hidden %d", 1)
	Warnf("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.False(t, Enabled(slog.LevelDebug))
}

func TestWireDump(t *testing.T) {
	var buf bytes.Buffer
	SetWireWriter(&buf)
	defer SetWireWriter(nil)

	assert.True(t, WireEnabled())
	LogWireInbound("order", "evt-1", []byte(`{"type":"order"}`))
	LogWireRejected("bad json", []byte(`{`))

	out := buf.String()
	assert.Contains(t, out, "[WIRE][in][order][evt-1]")
	assert.Contains(t, out, "--- FRAME ---")
	assert.Contains(t, out, `"type": "order"`)
	assert.Contains(t, out, "--- REASON ---\nbad json")
	assert.Equal(t, 2, strings.Count(out, "====="))
}

func TestWireDumpDisabled(t *testing.T) {
	SetWireWriter(nil)
	assert.False(t, WireEnabled())
	LogWireOutbound("app_request", "x", []byte(`{}`))
}
