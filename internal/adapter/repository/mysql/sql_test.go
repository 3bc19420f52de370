package mysql

import (
	"context"
	"testing"
	"time"

	subDomain "realestate-backend/internal/domain/subscription"

	"github.com/DATA-DOG/go-sqlmock"
	mysqlDriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openMockDB renders real MySQL SQL against sqlmock so locking clauses can be asserted.
func openMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysqlDriver.New(mysqlDriver.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock
}

func TestGetByDealIDForUpdate_LocksRow(t *testing.T) {
	db, mock := openMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `deal_status` WHERE deal_id = \\? .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "deal_id", "stage"}).AddRow(1, "abc", "INQUIRY"))

	d, err := NewDealRepository(db).GetByDealIDForUpdate(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetByDealIDForUpdate: %v", err)
	}
	if d.ID != 1 || d.DealID != "abc" {
		t.Fatalf("unexpected deal: %+v", d)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPropertyLock_LocksRow(t *testing.T) {
	db, mock := openMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `property` WHERE id = \\? .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_active"}).AddRow(4, true))

	if _, err := NewPropertyRepository(db).GetByIDForUpdate(context.Background(), 4); err != nil {
		t.Fatalf("GetByIDForUpdate: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIncrementPosted_CompareAndIncrement(t *testing.T) {
	db, mock := openMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `broker_subscriptions` SET `properties_posted`=properties_posted \\+ 1 WHERE id = \\? AND status = \\? AND end_date > \\? AND properties_posted < max_properties").
		WithArgs(9, subDomain.StatusActive, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := NewSubscriptionRepository(db).IncrementPosted(context.Background(), 9, time.Now())
	if err != nil {
		t.Fatalf("IncrementPosted: %v", err)
	}
	if ok {
		t.Fatalf("no row updated must report quota exhausted")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
