package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// defaultSlowThreshold flags queries worth looking at. Ledger queries
// are small; anything slower than this is a missing index.
const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger adapts a zap logger to GORM's logger interface.
// SlowThreshold and SkipNotFound may be adjusted before the logger is
// handed to GORM.
type GormLogger struct {
	log   *zap.Logger
	level gormlogger.LogLevel

	// SlowThreshold is the elapsed time above which a query is logged
	// as slow. Zero disables slow query logging.
	SlowThreshold time.Duration

	// SkipNotFound suppresses record-not-found errors, which are
	// ordinary control flow in the repositories.
	SkipNotFound bool
}

// NewGormLogger creates a GORM logger backed by zap
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel) *GormLogger {
	return &GormLogger{
		log:           zapLogger.Named("gorm"),
		level:         level,
		SlowThreshold: defaultSlowThreshold,
		SkipNotFound:  true,
	}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.log.Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.log.Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.log.Sugar().Errorf(msg, data...)
	}
}

// Trace implements gormlogger.Interface. Each query is logged with its
// elapsed time and, when present, the request ID from the context.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	switch {
	case err != nil && l.level >= gormlogger.Error:
		if l.SkipNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		fields = append(fields, zap.Error(err))
		l.log.Error("query failed", fields...)

	case l.SlowThreshold != 0 && elapsed > l.SlowThreshold && l.level >= gormlogger.Warn:
		l.log.Warn(fmt.Sprintf("slow query >= %v", l.SlowThreshold), fields...)

	case l.level >= gormlogger.Info:
		l.log.Debug("query", fields...)
	}
}

// MapGormLogLevel maps the application log level to a GORM log level
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
