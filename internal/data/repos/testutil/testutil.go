package testutil

import (
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	dbpkg "github.com/yungbote/tutorialhub-backend/internal/data/db"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

var (
	pgOnce sync.Once
	pgDB   *gorm.DB
	pgErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("failed to init logger: %v", err)
	}
	return log
}

// DB returns an isolated, migrated database for one test. With TEST_POSTGRES_DSN
// set it is a Postgres transaction rolled back on cleanup, otherwise a private
// in-memory sqlite database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		return postgresTx(tb, dsn)
	}
	return sqliteDB(tb)
}

func sqliteDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })
	if err := dbpkg.AutoMigrateAll(db); err != nil {
		tb.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func postgresTx(tb testing.TB, dsn string) *gorm.DB {
	tb.Helper()
	pgOnce.Do(func() {
		pgDB, pgErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if pgErr != nil {
			return
		}
		pgErr = dbpkg.AutoMigrateAll(pgDB)
	})
	if pgErr != nil {
		tb.Fatalf("failed to init test db: %v", pgErr)
	}
	tx := pgDB.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() { _ = tx.Rollback().Error })
	return tx
}
