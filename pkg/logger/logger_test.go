package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewWithLevel(t *testing.T) {
	l, err := NewWithLevel("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New()
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = NewWithLevel("chatty")
	assert.Error(t, err)
}

func TestNewConsole(t *testing.T) {
	l := Must(NewConsole(false))
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l = Must(NewConsole(true))
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNamed(t *testing.T) {
	assert.NotNil(t, Named(nil, "x"))
	assert.Panics(t, func() { Must(nil, assert.AnError) })
}
