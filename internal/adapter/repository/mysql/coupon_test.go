package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	couponDomain "realestate-backend/internal/domain/coupon"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func makeRule(code string, limit *int) couponDomain.Rule {
	return couponDomain.Rule{
		Code:          code,
		DiscountType:  couponDomain.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(10),
		IsActive:      true,
		UsageLimit:    limit,
		ValidFrom:     testNow.Add(-time.Hour),
		ValidUntil:    testNow.Add(time.Hour),
	}
}

func TestCouponCreateNormalizesCode(t *testing.T) {
	db := openTestDB(t)
	repo := NewCouponRepository(db)
	ctx := context.Background()

	c := &couponDomain.Coupon{Rule: makeRule(" spring10 ", nil)}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByCode(ctx, "Spring10")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if got.Code != "SPRING10" || got.ID != c.ID {
		t.Fatalf("unexpected coupon: %+v", got)
	}

	err = repo.Create(ctx, &couponDomain.Coupon{Rule: makeRule("SPRING10", nil)})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}

func TestCouponIncrementUsageGuarded(t *testing.T) {
	db := openTestDB(t)
	repo := NewCouponRepository(db)
	ctx := context.Background()

	limit := 2
	c := &couponDomain.Coupon{Rule: makeRule("TWICE", &limit)}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := repo.IncrementUsage(ctx, c.ID); err != nil {
			t.Fatalf("IncrementUsage #%d: %v", i+1, err)
		}
	}
	if err := repo.IncrementUsage(ctx, c.ID); !errors.Is(err, couponDomain.ErrUsageLimitReached) {
		t.Fatalf("expected ErrUsageLimitReached, got %v", err)
	}
	got, err := repo.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.UsedCount != 2 {
		t.Fatalf("used_count = %d, want 2", got.UsedCount)
	}
}

func TestCouponDelete(t *testing.T) {
	db := openTestDB(t)
	repo := NewCouponRepository(db)
	ctx := context.Background()

	c := &couponDomain.Coupon{Rule: makeRule("GONE", nil)}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, c.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second Delete: expected ErrRecordNotFound, got %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("List after delete: %v %v", list, err)
	}
}

func TestBrokerCouponRedemptionOncePerBroker(t *testing.T) {
	db := openTestDB(t)
	repo := NewBrokerCouponRepository(db)
	ctx := context.Background()

	c := &couponDomain.BrokerCoupon{Rule: makeRule("welcome", nil), TrialMonths: 1}
	c.DiscountType = couponDomain.DiscountFreeTrial
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	used, err := repo.HasRedeemed(ctx, 42, c.ID)
	if err != nil || used {
		t.Fatalf("HasRedeemed before: %v %v", used, err)
	}
	if err := repo.RecordRedemption(ctx, &couponDomain.BrokerUsage{BrokerID: 42, CouponID: c.ID, SubscriptionID: 1, RedeemedAt: testNow}); err != nil {
		t.Fatalf("RecordRedemption: %v", err)
	}
	used, err = repo.HasRedeemed(ctx, 42, c.ID)
	if err != nil || !used {
		t.Fatalf("HasRedeemed after: %v %v", used, err)
	}

	err = repo.RecordRedemption(ctx, &couponDomain.BrokerUsage{BrokerID: 42, CouponID: c.ID, SubscriptionID: 2, RedeemedAt: testNow})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
	if err := repo.RecordRedemption(ctx, &couponDomain.BrokerUsage{BrokerID: 43, CouponID: c.ID, SubscriptionID: 3, RedeemedAt: testNow}); err != nil {
		t.Fatalf("other broker: %v", err)
	}

	got, err := repo.GetByCode(ctx, "WELCOME")
	if err != nil || got.TrialMonths != 1 {
		t.Fatalf("GetByCode: %+v %v", got, err)
	}
}
