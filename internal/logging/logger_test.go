package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"0", slog.LevelError},
		{"1", slog.LevelWarn},
		{"2", slog.LevelInfo},
		{"3", slog.LevelDebug},
		{"", slog.LevelWarn},
		{"invalid", slog.LevelWarn},
		{"-1", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	originalLevel := Level()
	defer SetLogLevel(originalLevel)

	SetLogLevel(slog.LevelDebug)
	assert.Equal(t, slog.LevelDebug, Level())

	SetLogLevel(slog.LevelError)
	assert.Equal(t, slog.LevelError, Level())
}

func TestLogger(t *testing.T) {
	require.NotNil(t, Logger())
	assert.Same(t, Logger(), Logger())
}

func TestSetLogger(t *testing.T) {
	original := Logger()
	defer SetLogger(original)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger().Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "k=v")

	SetLogger(nil)
	assert.NotSame(t, original, Logger(), "nil must not replace the logger")
}
