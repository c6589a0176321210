package logger

import (
	"context"
	"testing"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	previous := logger
	logger = zap.New(core)
	t.Cleanup(func() { logger = previous })
	return logs
}

func TestCtxInfo_AddsContextFields(t *testing.T) {
	// Arrange
	logs := observe(t)
	ctx := WithRunID(WithRequestID(context.Background(), "req-1"), "run-1")

	// Act
	CtxInfo(ctx, "hello", LoggerInfo{
		ContextFunction: constant.CtxBulkRun,
		Error: &CustomError{
			Code:    constant.ErrCodeBulkRowSkipped,
			Message: "boom",
			Type:    constant.ErrTypeBulk,
		},
		Data: map[string]interface{}{constant.DataRow: 3},
	})

	// Assert
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields[constant.LogRequestIDKey])
	assert.Equal(t, "run-1", fields[constant.DataRunID])
	assert.Equal(t, constant.CtxBulkRun, fields[constant.LogFunctionKey])
	assert.Equal(t, constant.ErrCodeBulkRowSkipped, fields[constant.LogErrorCodeKey])
	assert.Equal(t, int64(3), fields[constant.DataRow])
}

func TestInfo_WithoutContext(t *testing.T) {
	logs := observe(t)

	Info("plain", LoggerInfo{})

	require.Equal(t, 1, logs.Len())
	assert.Empty(t, logs.All()[0].ContextMap())
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
	assert.Equal(t, "abc", RequestID(WithRequestID(context.Background(), "abc")))
}

func TestLevelsAreNoopsWhenUninitialized(t *testing.T) {
	previous := logger
	logger = nil
	t.Cleanup(func() { logger = previous })

	assert.NotPanics(t, func() {
		CtxDebug(context.Background(), "x", LoggerInfo{})
		CtxWarn(context.Background(), "x", LoggerInfo{})
		Error("x", LoggerInfo{})
		Close()
	})
}

func TestInitialize(t *testing.T) {
	previous := logger
	t.Cleanup(func() { logger = previous })

	Initialize("warn")

	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}
