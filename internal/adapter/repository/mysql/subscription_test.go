package mysql

import (
	"context"
	"errors"
	"testing"

	subDomain "realestate-backend/internal/domain/subscription"
	"realestate-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func makeSubscription(brokerID uint64, max int) *subDomain.BrokerSubscription {
	return &subDomain.BrokerSubscription{
		SubscriptionID: id.NewID32(),
		BrokerID:       brokerID,
		PlanType:       subDomain.PlanMonthly,
		Status:         subDomain.StatusPending,
		Amount:         decimal.NewFromInt(999),
		MaxProperties:  max,
	}
}

func TestSubscriptionOrderLookup(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	s := makeSubscription(7, 10)
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.SetOrderID(ctx, s.ID, "order_abc"); err != nil {
		t.Fatalf("SetOrderID: %v", err)
	}
	got, err := repo.GetByOrderIDForUpdate(ctx, "order_abc")
	if err != nil || got.SubscriptionID != s.SubscriptionID {
		t.Fatalf("GetByOrderIDForUpdate: %+v %v", got, err)
	}
	if _, err := repo.GetByOrderIDForUpdate(ctx, "order_none"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSubscriptionActiveAndExpire(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	current := makeSubscription(7, 10)
	current.Activate(testNow.AddDate(0, 0, -10), 1)
	lapsed := makeSubscription(7, 10)
	lapsed.Activate(testNow.AddDate(0, -3, 0), 1)
	pending := makeSubscription(7, 10)
	for _, s := range []*subDomain.BrokerSubscription{current, lapsed, pending} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.GetActiveByBroker(ctx, 7, testNow)
	if err != nil || got.ID != current.ID {
		t.Fatalf("GetActiveByBroker: %+v %v", got, err)
	}

	expired, err := repo.ExpireBefore(ctx, testNow)
	if err != nil {
		t.Fatalf("ExpireBefore: %v", err)
	}
	if len(expired) != 1 || expired[0].ID != lapsed.ID || expired[0].Status != subDomain.StatusExpired {
		t.Fatalf("unexpected expired batch: %+v", expired)
	}
	again, err := repo.ExpireBefore(ctx, testNow)
	if err != nil || len(again) != 0 {
		t.Fatalf("second ExpireBefore: %d rows, %v", len(again), err)
	}

	all, err := repo.ListByBroker(ctx, 7)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListByBroker: %d rows, %v", len(all), err)
	}
}

func TestSubscriptionIncrementPosted(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	s := makeSubscription(8, 1)
	s.Activate(testNow, 1)
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}
	ok, err := repo.IncrementPosted(ctx, s.ID, testNow)
	if err != nil || !ok {
		t.Fatalf("first IncrementPosted: %v %v", ok, err)
	}
	ok, err = repo.IncrementPosted(ctx, s.ID, testNow)
	if err != nil || ok {
		t.Fatalf("quota must be exhausted: %v %v", ok, err)
	}
}

func TestSubscriptionIncrementPosted_LapsedSubscription(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	s := makeSubscription(8, 5)
	s.Activate(testNow, 1)
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// past end_date but not yet swept
	ok, err := repo.IncrementPosted(ctx, s.ID, testNow.AddDate(0, 2, 0))
	if err != nil || ok {
		t.Fatalf("lapsed subscription must not consume a slot: %v %v", ok, err)
	}

	s.Status = subDomain.StatusCancelled
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ok, err = repo.IncrementPosted(ctx, s.ID, testNow)
	if err != nil || ok {
		t.Fatalf("cancelled subscription must not consume a slot: %v %v", ok, err)
	}

	var got subDomain.BrokerSubscription
	if err := db.First(&got, s.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.PropertiesPosted != 0 {
		t.Fatalf("properties_posted = %d, want 0", got.PropertiesPosted)
	}
}
