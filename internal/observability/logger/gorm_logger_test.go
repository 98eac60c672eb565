package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestDescribeSQL(t *testing.T) {
	cases := []struct {
		sql, op, table string
	}{
		{`SELECT * FROM "products" WHERE jewel_code = $1`, "SELECT", "products"},
		{"  insert into `footfall_records` (id) values (1)", "INSERT", "footfall_records"},
		{`UPDATE "orders" SET status = 'wip'`, "UPDATE", "orders"},
		{`DELETE FROM share_links WHERE expiry_date < ?`, "DELETE", "share_links"},
		{`CREATE TABLE foo (id int)`, "CREATE", "foo"},
		{"", "UNKNOWN", ""},
	}
	for _, tc := range cases {
		op, table := describeSQL(tc.sql)
		assert.Equal(t, tc.op, op, tc.sql)
		assert.Equal(t, tc.table, table, tc.sql)
	}
}

func TestTraceSkipsSilentAndNotFound(t *testing.T) {
	calls := 0
	fc := func() (string, int64) {
		calls++
		return "SELECT 1", 1
	}

	NewGormLogger(GormLoggerConfig{Level: gormlogger.Silent}).Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	assert.Zero(t, calls)

	NewGormLogger(GormLoggerConfig{Level: gormlogger.Error}).Trace(context.Background(), time.Now(), fc, gormlogger.ErrRecordNotFound)
	assert.Zero(t, calls)

	NewGormLogger(GormLoggerConfig{Level: gormlogger.Error}).Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	assert.Equal(t, 1, calls)
}

func TestLogModeReturnsCopy(t *testing.T) {
	base := NewGormLogger(DefaultGormLoggerConfig())
	verbose := base.LogMode(gormlogger.Info).(*GormLogger)
	assert.Equal(t, gormlogger.Info, verbose.cfg.Level)
	assert.Equal(t, gormlogger.Warn, base.cfg.Level)
}
