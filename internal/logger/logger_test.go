package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestWrapperCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).
		WithFields(map[string]interface{}{"session_id": "s-1"}).
		WithError(errors.New("boom"))

	log.Warn("turn failed", map[string]interface{}{"phase": "needs_analysis"})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "turn failed", entries[0].Message)
		assert.Equal(t, "s-1", ctx["session_id"])
		assert.Equal(t, "needs_analysis", ctx["phase"])
		assert.Equal(t, "boom", ctx["error"])
	}
}

func TestMapToZapFieldsEmpty(t *testing.T) {
	assert.Nil(t, mapToZapFields(nil))
}

func TestNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()
	log.Info("ignored", nil)
	assert.NoError(t, log.Sync())
}
