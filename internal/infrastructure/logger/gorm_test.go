package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newGormTestLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), logs
}

func traceFunc(sql string) func() (string, int64) {
	return func() (string, int64) { return sql, 1 }
}

func TestGormLogger_TraceQueryAtInfoLevel(t *testing.T) {
	gl, logs := newGormTestLogger(gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), traceFunc("SELECT 1"), nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "sql query", entry.Message)
	assert.Equal(t, "SELECT 1", entry.ContextMap()["sql"])
}

func TestGormLogger_TraceErrorLogged(t *testing.T) {
	gl, logs := newGormTestLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), traceFunc("SELECT broken"), errors.New("syntax error"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "sql error", entry.Message)
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
}

func TestGormLogger_RecordNotFoundIgnored(t *testing.T) {
	gl, logs := newGormTestLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), traceFunc("SELECT 1"), gormlogger.ErrRecordNotFound)

	assert.Zero(t, logs.Len())
}

func TestGormLogger_RecordNotFoundLoggedWhenConfigured(t *testing.T) {
	gl, logs := newGormTestLogger(gormlogger.Error, WithIgnoreRecordNotFoundError(false))

	gl.Trace(context.Background(), time.Now(), traceFunc("SELECT 1"), gormlogger.ErrRecordNotFound)

	assert.Equal(t, 1, logs.Len())
}

func TestGormLogger_SlowQueryWarned(t *testing.T) {
	gl, logs := newGormTestLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))

	gl.Trace(context.Background(), time.Now().Add(-time.Millisecond), traceFunc("SELECT pg_sleep(10)"), nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestGormLogger_SilentProducesNothing(t *testing.T) {
	gl, logs := newGormTestLogger(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), traceFunc("SELECT 1"), errors.New("ignored"))

	assert.Zero(t, logs.Len())
}

func TestGormLogger_TraceIncludesContextIDs(t *testing.T) {
	gl, logs := newGormTestLogger(gormlogger.Info)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-9")
	ctx = context.WithValue(ctx, IntegrationIDKey, "int-9")
	gl.Trace(ctx, time.Now(), traceFunc("SELECT 1"), nil)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "int-9", fields["integration_uuid"])
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	gl, _ := newGormTestLogger(gormlogger.Info)

	silent := gl.LogMode(gormlogger.Silent)

	assert.NotSame(t, gl, silent)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything"))
}
