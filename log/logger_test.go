package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	l := Init("debug")
	require.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	// unknown levels fall back to info
	l = Init("chatty")
	require.NotNil(t, l)
	require.NotNil(t, l.Core())
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestDefault(t *testing.T) {
	l := Init("info")
	assert.Same(t, l, Default())
	assert.NotNil(t, Default().Named("sub"))
}
