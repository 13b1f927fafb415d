package db

import (
	"fmt"

	"expensezen/internal/config"
	"expensezen/internal/domain/budget"
	"expensezen/internal/domain/goal"
	"expensezen/internal/domain/group"
	"expensezen/internal/domain/idempotency"
	"expensezen/internal/domain/notification"
	"expensezen/internal/domain/user"
	"expensezen/pkg/logger"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&budget.Budget{},
		&goal.Goal{},
		&group.GroupBudget{},
		&group.Member{},
		&notification.Notification{},
		&idempotency.Record{},
	}
}

// NewSQLite opens an embedded database at path (":memory:" for a private
// in-memory one) and creates the schema with AutoMigrate.
func NewSQLite(path string, log logger.Logger) (*gorm.DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	// SQLite serialises writers; one connection keeps transactions from
	// failing with SQLITE_BUSY and keeps :memory: a single database.
	sqlDB.SetMaxOpenConns(1)

	if err := gormDB.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("sqlite automigrate: %w", err)
	}

	log.Info("db: connected", "driver", config.DriverSQLite, "path", path)
	return gormDB, nil
}
