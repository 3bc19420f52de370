package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"realestate-backend/internal/domain/coupon"
	"realestate-backend/internal/testutil/couponmock"
	"realestate-backend/internal/usecase/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var now = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func activeCoupon(code string, typ coupon.DiscountType, value int64) *coupon.Coupon {
	return &coupon.Coupon{
		ID: 7,
		Rule: coupon.Rule{
			Code:          code,
			DiscountType:  typ,
			DiscountValue: decimal.NewFromInt(value),
			IsActive:      true,
			ValidFrom:     now.Add(-24 * time.Hour),
			ValidUntil:    now.Add(24 * time.Hour),
		},
	}
}

func newUsecase(repo *couponmock.Repo, brokers *couponmock.BrokerRepo) *pricing.Usecase {
	return pricing.NewUsecase(repo, brokers).WithClock(func() time.Time { return now })
}

func TestValidate_Percentage(t *testing.T) {
	repo := &couponmock.Repo{
		GetByCodeFn: func(_ context.Context, code string) (*coupon.Coupon, error) {
			require.Equal(t, "SAVE10", code)
			return activeCoupon("SAVE10", coupon.DiscountPercentage, 10), nil
		},
	}
	q, err := newUsecase(repo, &couponmock.BrokerRepo{}).Validate(context.Background(), "SAVE10", decimal.NewFromInt(999))
	require.NoError(t, err)
	require.Equal(t, uint64(7), q.CouponID)
	require.True(t, q.DiscountAmount.Equal(decimal.RequireFromString("99.9")))
	require.True(t, q.FinalPrice.Equal(decimal.RequireFromString("899.1")))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		c    *coupon.Coupon
		err  error
		want error
	}{
		{name: "missing", err: gorm.ErrRecordNotFound, want: coupon.ErrNotFound},
		{name: "expired", c: func() *coupon.Coupon {
			c := activeCoupon("OLD", coupon.DiscountFlat, 50)
			c.ValidUntil = now
			return c
		}(), want: coupon.ErrExpired},
		{name: "broker-only type", c: activeCoupon("TRIAL", coupon.DiscountFreeTrial, 100), want: coupon.ErrNotApplicable},
		{name: "below minimum", c: func() *coupon.Coupon {
			c := activeCoupon("BIG", coupon.DiscountFlat, 50)
			min := decimal.NewFromInt(5000)
			c.MinOrderValue = &min
			return c
		}(), want: coupon.ErrBelowMinOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &couponmock.Repo{GetByCodeFn: func(context.Context, string) (*coupon.Coupon, error) {
				return tt.c, tt.err
			}}
			_, err := newUsecase(repo, &couponmock.BrokerRepo{}).Validate(context.Background(), "X", decimal.NewFromInt(999))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateBroker_AlreadyRedeemed(t *testing.T) {
	brokers := &couponmock.BrokerRepo{
		GetByCodeFn: func(context.Context, string) (*coupon.BrokerCoupon, error) {
			c := activeCoupon("WELCOME", coupon.DiscountFreeTrial, 100)
			return &coupon.BrokerCoupon{ID: 3, Rule: c.Rule, TrialMonths: 2}, nil
		},
		HasRedeemedFn: func(_ context.Context, brokerID, couponID uint64) (bool, error) {
			return brokerID == 42 && couponID == 3, nil
		},
	}
	uc := newUsecase(&couponmock.Repo{}, brokers)

	_, err := uc.ValidateBroker(context.Background(), 42, "WELCOME", decimal.Zero)
	require.ErrorIs(t, err, coupon.ErrAlreadyRedeemed)

	q, err := uc.ValidateBroker(context.Background(), 43, "WELCOME", decimal.Zero)
	require.NoError(t, err)
	require.Equal(t, 2, q.TrialMonths)
	require.Equal(t, coupon.DiscountFreeTrial, q.DiscountType)
}

func TestCreateCoupon_Definitions(t *testing.T) {
	valid := pricing.CouponInput{
		Code:          " summer25 ",
		DiscountType:  coupon.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(25),
		ValidFrom:     now,
		ValidUntil:    now.AddDate(0, 1, 0),
		IsActive:      true,
	}

	var stored *coupon.Coupon
	repo := &couponmock.Repo{CreateFn: func(_ context.Context, c *coupon.Coupon) error {
		stored = c
		return nil
	}}
	uc := newUsecase(repo, &couponmock.BrokerRepo{})

	c, err := uc.CreateCoupon(context.Background(), valid)
	require.NoError(t, err)
	require.Equal(t, "SUMMER25", c.Code)
	require.Same(t, c, stored)

	bad := []func(in *pricing.CouponInput){
		func(in *pricing.CouponInput) { in.Code = "  " },
		func(in *pricing.CouponInput) { in.ValidUntil = in.ValidFrom },
		func(in *pricing.CouponInput) { in.DiscountValue = decimal.NewFromInt(101) },
		func(in *pricing.CouponInput) { in.DiscountValue = decimal.Zero },
		func(in *pricing.CouponInput) { in.DiscountType = coupon.DiscountFreeTrial },
		func(in *pricing.CouponInput) { n := -1; in.UsageLimit = &n },
	}
	for i, mutate := range bad {
		in := valid
		mutate(&in)
		_, err := uc.CreateCoupon(context.Background(), in)
		require.ErrorIs(t, err, pricing.ErrInvalidDefinition, "case %d", i)
	}
}

func TestCreateCoupon_DuplicateCode(t *testing.T) {
	repo := &couponmock.Repo{CreateFn: func(context.Context, *coupon.Coupon) error {
		return gorm.ErrDuplicatedKey
	}}
	_, err := newUsecase(repo, &couponmock.BrokerRepo{}).CreateCoupon(context.Background(), pricing.CouponInput{
		Code:          "DUP",
		DiscountType:  coupon.DiscountFlat,
		DiscountValue: decimal.NewFromInt(10),
		ValidFrom:     now,
		ValidUntil:    now.Add(time.Hour),
	})
	require.ErrorIs(t, err, coupon.ErrCodeTaken)
}

func TestCreateBrokerCoupon_FreeTrialDefaults(t *testing.T) {
	brokers := &couponmock.BrokerRepo{}
	c, err := newUsecase(&couponmock.Repo{}, brokers).CreateBrokerCoupon(context.Background(), pricing.CouponInput{
		Code:         "TRIAL1",
		DiscountType: coupon.DiscountFreeTrial,
		ValidFrom:    now,
		ValidUntil:   now.AddDate(1, 0, 0),
		IsActive:     true,
	})
	require.NoError(t, err)
	require.Equal(t, 1, c.TrialMonths)
}

func TestCreateBrokerCoupon_FreeTrialRejectsMinOrderValue(t *testing.T) {
	created := 0
	brokers := &couponmock.BrokerRepo{CreateFn: func(context.Context, *coupon.BrokerCoupon) error {
		created++
		return nil
	}}
	uc := newUsecase(&couponmock.Repo{}, brokers)
	min := decimal.NewFromInt(500)

	_, err := uc.CreateBrokerCoupon(context.Background(), pricing.CouponInput{
		Code:          "TRIALMIN",
		DiscountType:  coupon.DiscountFreeTrial,
		MinOrderValue: &min,
		ValidFrom:     now,
		ValidUntil:    now.AddDate(1, 0, 0),
		IsActive:      true,
	})
	require.ErrorIs(t, err, pricing.ErrInvalidDefinition)
	require.Zero(t, created)

	// a floor still applies to paid-plan discounts
	_, err = uc.CreateBrokerCoupon(context.Background(), pricing.CouponInput{
		Code:          "PLAN10",
		DiscountType:  coupon.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(10),
		MinOrderValue: &min,
		ValidFrom:     now,
		ValidUntil:    now.AddDate(1, 0, 0),
		IsActive:      true,
	})
	require.NoError(t, err)
	require.Equal(t, 1, created)
}

func TestUpdateCoupon_KeepsUsedCount(t *testing.T) {
	existing := activeCoupon("KEEP", coupon.DiscountFlat, 10)
	existing.UsedCount = 9
	repo := &couponmock.Repo{
		GetByIDFn: func(context.Context, uint64) (*coupon.Coupon, error) { return existing, nil },
	}
	c, err := newUsecase(repo, &couponmock.BrokerRepo{}).UpdateCoupon(context.Background(), 7, pricing.CouponInput{
		Code:          "KEEP",
		DiscountType:  coupon.DiscountFlat,
		DiscountValue: decimal.NewFromInt(20),
		ValidFrom:     now,
		ValidUntil:    now.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, 9, c.UsedCount)
	require.True(t, c.DiscountValue.Equal(decimal.NewFromInt(20)))
}

func TestDeleteCoupon_NotFound(t *testing.T) {
	repo := &couponmock.Repo{DeleteFn: func(context.Context, uint64) error { return gorm.ErrRecordNotFound }}
	err := newUsecase(repo, &couponmock.BrokerRepo{}).DeleteCoupon(context.Background(), 1)
	require.True(t, errors.Is(err, coupon.ErrNotFound))
}
