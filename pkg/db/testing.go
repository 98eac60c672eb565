package db

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testSeq atomic.Int64

// NewTest returns an isolated in-memory SQLite database for tests.
func NewTest(name ...string) (*gorm.DB, error) {
	label := "showroom"
	if len(name) > 0 && strings.TrimSpace(name[0]) != "" {
		label = strings.NewReplacer("/", "_", " ", "_").Replace(name[0])
	}
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_loc=auto", label, testSeq.Add(1))

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return conn, nil
}
