// Package sqlitetest opens a migrated in-memory SQLite database for tests.
package sqlitetest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"realestate-backend/internal/adapter/repository/mysql"
	"realestate-backend/internal/domain/property"
	"realestate-backend/internal/domain/user"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// Open returns a fresh database with every table migrated. One connection is
// kept open so concurrent goroutines serialise on it, the way row locks would
// on MySQL.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:memdb%d?mode=memory&cache=shared&_busy_timeout=5000", seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := mysql.Migrate(db, true); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func SeedUser(t *testing.T, db *gorm.DB, name string, role user.Role) *user.User {
	t.Helper()
	u := &user.User{Name: name, Email: fmt.Sprintf("%s%d@example.com", name, seq.Add(1)), Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProperty(t *testing.T, db *gorm.DB, ownerID uint64, price string) *property.Property {
	t.Helper()
	p := &property.Property{
		Title:    "Lake view 2BHK",
		OwnerID:  ownerID,
		Price:    decimal.RequireFromString(price),
		IsActive: true,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return p
}
