package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"DEBUG":   zapcore.DebugLevel,
		" warn ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	} {
		got, err := parseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseLevel("loud")
	assert.Error(t, err)
}

func TestInitialize(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev }()
	require.NoError(t, Initialize(true, "warn"))
	assert.NotNil(t, Logger)
	assert.Error(t, Initialize(false, "verbose"))
}
