package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// GormLoggerConfig configures the GORM zap logger.
type GormLoggerConfig struct {
	Level         gormlogger.LogLevel
	SlowThreshold time.Duration
	// MaxSQLLength truncates logged statements; the product import batches
	// produce very long INSERTs.
	MaxSQLLength int
}

func DefaultGormLoggerConfig() GormLoggerConfig {
	return GormLoggerConfig{
		Level:         gormlogger.Warn,
		SlowThreshold: 250 * time.Millisecond,
		MaxSQLLength:  2048,
	}
}

// GormLogger routes GORM output through the request-scoped zap logger so
// query lines carry the request id and caller.
type GormLogger struct {
	cfg GormLoggerConfig
}

func NewGormLogger(cfg GormLoggerConfig) *GormLogger {
	return &GormLogger{cfg: cfg}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *l
	next.cfg.Level = level
	return &next
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) message(ctx context.Context, min gormlogger.LogLevel, level zapcore.Level, msg string, data []interface{}) {
	if l.cfg.Level < min {
		return
	}
	if len(data) > 0 {
		msg = fmt.Sprintf(msg, data...)
	}
	FromContext(ctx).Log(level, msg, zap.String("component", "db"))
}

// Trace logs failed queries at error, slow ones at warn and, in Info mode,
// everything else at debug. Missing rows are an expected lookup outcome and
// are not treated as failures.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.cfg.Level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)
	switch {
	case failed && l.cfg.Level >= gormlogger.Error:
		l.query(ctx, zapcore.ErrorLevel, fc, elapsed, err)
	case l.cfg.SlowThreshold > 0 && elapsed > l.cfg.SlowThreshold && l.cfg.Level >= gormlogger.Warn:
		l.query(ctx, zapcore.WarnLevel, fc, elapsed, nil)
	case l.cfg.Level >= gormlogger.Info:
		l.query(ctx, zapcore.DebugLevel, fc, elapsed, nil)
	}
}

// ParamsFilter drops bound values; they include password hashes and
// customer phone numbers.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, _ ...interface{}) (string, []interface{}) {
	return sql, nil
}

func (l *GormLogger) query(ctx context.Context, level zapcore.Level, fc func() (string, int64), elapsed time.Duration, err error) {
	sql, rows := fc()
	sql = strings.TrimSpace(sql)
	op, table := describeSQL(sql)
	if l.cfg.MaxSQLLength > 0 && len(sql) > l.cfg.MaxSQLLength {
		sql = sql[:l.cfg.MaxSQLLength] + "..."
	}

	fields := []zap.Field{
		zap.String("component", "db"),
		zap.String("operation", op),
		zap.String("table", table),
		zap.String("sql", sql),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows_affected", rows))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	FromContext(ctx).Log(level, "db.query", fields...)
}

// describeSQL returns the statement verb and the first table it names.
func describeSQL(sql string) (op, table string) {
	op = "UNKNOWN"
	tokens := strings.Fields(sql)
	for i, raw := range tokens {
		token := strings.ToUpper(strings.Trim(raw, "();"))
		switch token {
		case "SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "ALTER", "DROP":
			if op == "UNKNOWN" {
				op = token
			}
			if token == "UPDATE" && table == "" && i+1 < len(tokens) {
				table = cleanIdent(tokens[i+1])
			}
		case "FROM", "INTO", "TABLE":
			if table == "" && i+1 < len(tokens) {
				table = cleanIdent(tokens[i+1])
			}
		}
	}
	return op, table
}

func cleanIdent(s string) string {
	s = strings.Trim(s, "();,")
	return strings.Trim(s, "`\"")
}

var _ gormlogger.Interface = (*GormLogger)(nil)
