package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"StampVault/internal/model"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// ErrNotFound возвращается Get, если ключа нет в таблице.
var ErrNotFound = errors.New("not found")

// InitDB открывает хранилище по DSN и выполняет миграции таблиц stamps и images.
// postgres:// и postgresql:// открывают PostgreSQL, остальные DSN считаются путём к файлу SQLite.
func InitDB(dsn string) (*gorm.DB, error) {
	dial, err := dialector(dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if isSQLite(dsn) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// один писатель: одно соединение
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}
	if err := db.AutoMigrate(&model.Stamp{}, &model.Image{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return db, nil
}

// Close закрывает соединение gorm.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isSQLite(dsn string) bool {
	return !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://")
}

func dialector(dsn string) (gorm.Dialector, error) {
	if dsn == "" {
		return nil, errors.New("empty database dsn")
	}
	if !isSQLite(dsn) {
		return postgres.Open(dsn), nil
	}
	if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create db path: %w", err)
	}
	// busy_timeout — ожидание блокировки, WAL + synchronous(NORMAL) для журнала
	full := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", filepath.Clean(dsn))
	return gormsqlite.Dialector{DriverName: "sqlite", DSN: full}, nil
}
