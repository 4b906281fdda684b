package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func restoreLog(t *testing.T) {
	t.Helper()
	prev := Log
	t.Cleanup(func() {
		_ = Log.Sync()
		Log = prev
	})
}

func TestInit(t *testing.T) {
	restoreLog(t)

	require.NoError(t, Init(false, true))
	assert.False(t, Log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, Log.Core().Enabled(zapcore.InfoLevel))

	require.NoError(t, Init(true, false))
	assert.True(t, Log.Core().Enabled(zapcore.DebugLevel))
}

func TestNamed(t *testing.T) {
	restoreLog(t)

	Log = zap.NewNop()
	before := Named("fill")
	assert.False(t, before.Core().Enabled(zapcore.ErrorLevel))

	require.NoError(t, Init(false, true))
	after := Named("fill")
	assert.True(t, after.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, after.Core().Enabled(zapcore.DebugLevel))
}
