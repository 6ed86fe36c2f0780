package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  charmlog.Level
	}{
		{DebugLevel, charmlog.DebugLevel},
		{InfoLevel, charmlog.InfoLevel},
		{WarnLevel, charmlog.WarnLevel},
		{ErrorLevel, charmlog.ErrorLevel},
		{"WARN", charmlog.WarnLevel},
		{"", charmlog.InfoLevel},
		{"verbose", charmlog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.ToCharmlogLevel(), "level %q", tt.level)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	l := NewLogger(&Config{Level: DebugLevel, Output: &buf, JSON: true})
	l.With("package", "shapes").Debug("generated", "types", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "generated", entry["msg"])
	assert.Equal(t, "shapes", entry["package"])
	assert.InDelta(t, 2, entry["types"], 0)
	assert.Contains(t, entry, "time", "output that is not a terminal is timestamped by default")
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer

	noTime := false
	l := NewLogger(&Config{Level: WarnLevel, Output: &buf, Timestamps: &noTime})
	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFromContext(t *testing.T) {
	expected := NewLogger(&Config{Output: &bytes.Buffer{}})
	ctx := ContextWithLogger(context.Background(), expected)
	assert.Same(t, expected, FromContext(ctx))

	assert.NotNil(t, FromContext(context.Background()))
}
