package mysql

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	propertyDomain "realestate-backend/internal/domain/property"
	userDomain "realestate-backend/internal/domain/user"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// openTestDB creates a private in-memory sqlite DB with every table migrated.
// A single connection keeps the memory database alive for the whole test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo%d?mode=memory&cache=shared", dbSeq.Add(1))
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

	if err := Migrate(db, true); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role userDomain.Role) *userDomain.User {
	t.Helper()
	n := dbSeq.Add(1)
	u := &userDomain.User{Name: fmt.Sprintf("user%d", n), Email: fmt.Sprintf("user%d@example.com", n), Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedProperty(t *testing.T, db *gorm.DB, ownerID uint64) *propertyDomain.Property {
	t.Helper()
	p := &propertyDomain.Property{Title: "Plot 12", OwnerID: ownerID, Price: decimal.NewFromInt(2_500_000), IsActive: true}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return p
}

var testNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
