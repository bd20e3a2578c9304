package logger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func traceWith(t *testing.T, gormLevel, slogLevel, sql string, err error) string {
	t.Helper()
	var buf bytes.Buffer
	Init(Config{Level: slogLevel, Output: &buf})

	NewGormLogger(gormLevel).Trace(context.Background(), time.Now(),
		func() (string, int64) { return sql, 0 }, err)
	return buf.String()
}

func TestGormTraceSubscriberLookupMiss(t *testing.T) {
	sql := `SELECT * FROM "newsletter_subscribers" WHERE email = 'a@x.io' LIMIT 1`

	assert.Empty(t, traceWith(t, "warn", "info", sql, gorm.ErrRecordNotFound))
	assert.Contains(t, traceWith(t, "info", "debug", sql, gorm.ErrRecordNotFound), "query found no rows")
}

func TestGormTraceDuplicateSubscriber(t *testing.T) {
	err := fmt.Errorf("create subscriber: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "newsletter_subscribers_pkey",
	})

	out := traceWith(t, "warn", "info", `INSERT INTO "newsletter_subscribers"`, err)

	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, "newsletter_subscribers_pkey")
}

func TestGormTraceQueryFailure(t *testing.T) {
	out := traceWith(t, "error", "info", `SELECT count(*) FROM "visitors"`, errors.New("connection reset"))
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, "connection reset")

	tooLong := &pgconn.PgError{Code: "22001", ColumnName: "subject"}
	out = traceWith(t, "error", "info", `INSERT INTO "contacts"`, tooLong)
	assert.Contains(t, out, `"sqlstate":"22001"`)
	assert.Contains(t, out, `"column":"subject"`)
}

func TestGormTraceSilent(t *testing.T) {
	assert.Empty(t, traceWith(t, "silent", "debug", "SELECT 1", errors.New("boom")))
}

func TestTruncateSQL(t *testing.T) {
	short := `SELECT 1`
	assert.Equal(t, short, truncateSQL(short))

	long := `INSERT INTO "contacts" VALUES ('` + strings.Repeat("é", 400) + `')`
	got := truncateSQL(long)
	assert.LessOrEqual(t, len(got), maxLoggedSQL+len("…"))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.True(t, strings.HasPrefix(got, `INSERT INTO "contacts"`))
}
