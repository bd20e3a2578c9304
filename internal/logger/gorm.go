package logger

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	slowQueryThreshold = 200 * time.Millisecond
	// Contact inserts carry whole message bodies.
	maxLoggedSQL = 300

	sqlStateUniqueViolation = "23505"
	sqlStateValueTooLong    = "22001"
)

// GormLogger implements gorm's logger.Interface on top of slog.
type GormLogger struct {
	logLevel      logger.LogLevel
	slowThreshold time.Duration
}

func NewGormLogger(level string) *GormLogger {
	var lvl logger.LogLevel
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "warn", "warning":
		lvl = logger.Warn
	default:
		lvl = logger.Info
	}
	return &GormLogger{logLevel: lvl, slowThreshold: slowQueryThreshold}
}

func (g *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &GormLogger{logLevel: level, slowThreshold: g.slowThreshold}
}

func (g *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.logLevel >= logger.Info {
		FromContext(ctx).Info("gorm: "+msg, "data", data)
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.logLevel >= logger.Warn {
		FromContext(ctx).Warn("gorm: "+msg, "data", data)
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.logLevel >= logger.Error {
		FromContext(ctx).Error("gorm: "+msg, "data", data)
	}
}

// Trace logs one line per statement. A subscriber lookup that finds nothing
// is the normal first-subscribe path and only shows at debug. A duplicate key
// means two subscribes for one address raced and is a warning.
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.logLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	attrs := []any{
		"sql", truncateSQL(sql),
		"rows", rows,
		"elapsed_ms", float64(elapsed.Microseconds()) / 1000.0,
	}
	l := FromContext(ctx)

	var pgErr *pgconn.PgError
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		l.Debug("query found no rows", attrs...)
		return
	case errors.Is(err, context.Canceled):
		l.Debug("query canceled", attrs...)
		return
	case errors.As(err, &pgErr) && pgErr.Code == sqlStateUniqueViolation:
		if g.logLevel >= logger.Warn {
			l.Warn("duplicate key", append(attrs, "constraint", pgErr.ConstraintName)...)
		}
		return
	default:
		if g.logLevel >= logger.Error {
			l.Error("query failed", append(attrs, errAttrs(err)...)...)
		}
		return
	}

	if g.slowThreshold > 0 && elapsed > g.slowThreshold {
		if g.logLevel >= logger.Warn {
			l.Warn("slow query", append(attrs, "threshold_ms", g.slowThreshold.Milliseconds())...)
		}
		return
	}

	if g.logLevel >= logger.Info {
		l.Debug("query", attrs...)
	}
}

func errAttrs(err error) []any {
	attrs := []any{"err", err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		attrs = append(attrs, "sqlstate", pgErr.Code)
		if pgErr.Code == sqlStateValueTooLong {
			attrs = append(attrs, "column", pgErr.ColumnName)
		}
	}
	return attrs
}

func truncateSQL(sql string) string {
	if len(sql) <= maxLoggedSQL {
		return sql
	}
	cut := maxLoggedSQL
	for cut > 0 && !utf8.RuneStart(sql[cut]) {
		cut--
	}
	return sql[:cut] + "…"
}
