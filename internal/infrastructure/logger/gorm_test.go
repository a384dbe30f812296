package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLoggerTrace(t *testing.T) {
	query := func() (string, int64) {
		return "SELECT * FROM acq_accounts", 3
	}

	t.Run("logs queries at debug when info level", func(t *testing.T) {
		core, recorded := observer.New(zap.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info)

		gl.Trace(context.Background(), time.Now(), query, nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Query", entries[0].Message)
		assert.Equal(t, int64(3), entries[0].ContextMap()["rows"])
	})

	t.Run("logs errors", func(t *testing.T) {
		core, recorded := observer.New(zap.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Error)

		gl.Trace(context.Background(), time.Now(), query, errors.New("connection reset"))

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Error", entries[0].Message)
	})

	t.Run("suppresses record not found by default", func(t *testing.T) {
		core, recorded := observer.New(zap.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Error)

		gl.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)

		assert.Empty(t, recorded.All())
	})

	t.Run("flags slow queries", func(t *testing.T) {
		core, recorded := observer.New(zap.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(time.Nanosecond))

		gl.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.WarnLevel, entries[0].Level)
	})

	t.Run("silent level drops everything", func(t *testing.T) {
		core, recorded := observer.New(zap.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Silent)

		gl.Trace(context.Background(), time.Now(), query, errors.New("boom"))

		assert.Empty(t, recorded.All())
	})

	t.Run("includes request id from context", func(t *testing.T) {
		core, recorded := observer.New(zap.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info)

		ctx := context.WithValue(context.Background(), RequestIDKey, "req-9")
		gl.Trace(ctx, time.Now(), query, nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything"))
}
