package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"realestate-backend/internal/domain/coupon"
	"realestate-backend/internal/domain/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrInvalidDefinition = fmt.Errorf("invalid coupon definition: %w", errs.ErrInvalidState)

type Usecase struct {
	coupons coupon.Repository
	brokers coupon.BrokerRepository
	now     func() time.Time
}

func NewUsecase(coupons coupon.Repository, brokers coupon.BrokerRepository) *Usecase {
	return &Usecase{coupons: coupons, brokers: brokers, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source (tests).
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// QuoteCoupon validates a property coupon against orderValue without mutating it.
// Pass a tx-bound repository when the quote feeds a purchase.
func QuoteCoupon(ctx context.Context, repo coupon.Repository, code string, orderValue decimal.Decimal, now time.Time) (*Quote, error) {
	c, err := repo.GetByCode(ctx, code)
	if err != nil {
		return nil, notFound(err)
	}
	if err := c.CheckOrder(now, orderValue); err != nil {
		return nil, err
	}
	if c.DiscountType != coupon.DiscountPercentage && c.DiscountType != coupon.DiscountFlat {
		return nil, coupon.ErrNotApplicable
	}
	return &Quote{
		Discount:     Calculate(c.Rule, orderValue),
		CouponID:     c.ID,
		Code:         c.Code,
		DiscountType: c.DiscountType,
	}, nil
}

// QuoteBrokerCoupon is QuoteCoupon for broker coupons, plus the one-redemption-
// per-broker rule.
func QuoteBrokerCoupon(ctx context.Context, repo coupon.BrokerRepository, brokerID uint64, code string, orderValue decimal.Decimal, now time.Time) (*Quote, error) {
	c, err := repo.GetByCode(ctx, code)
	if err != nil {
		return nil, notFound(err)
	}
	if err := c.CheckOrder(now, orderValue); err != nil {
		return nil, err
	}
	used, err := repo.HasRedeemed(ctx, brokerID, c.ID)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, coupon.ErrAlreadyRedeemed
	}
	return &Quote{
		Discount:     Calculate(c.Rule, orderValue),
		CouponID:     c.ID,
		Code:         c.Code,
		DiscountType: c.DiscountType,
		TrialMonths:  c.TrialMonths,
	}, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return coupon.ErrNotFound
	}
	return err
}

func (u *Usecase) Validate(ctx context.Context, code string, orderValue decimal.Decimal) (*Quote, error) {
	return QuoteCoupon(ctx, u.coupons, code, orderValue, u.now())
}

func (u *Usecase) ValidateBroker(ctx context.Context, brokerID uint64, code string, orderValue decimal.Decimal) (*Quote, error) {
	return QuoteBrokerCoupon(ctx, u.brokers, brokerID, code, orderValue, u.now())
}

// IncrementUsage records one committed redemption.
func (u *Usecase) IncrementUsage(ctx context.Context, couponID uint64) error {
	return u.coupons.IncrementUsage(ctx, couponID)
}

func (u *Usecase) CreateCoupon(ctx context.Context, in CouponInput) (*coupon.Coupon, error) {
	if err := checkDefinition(in, coupon.DiscountPercentage, coupon.DiscountFlat); err != nil {
		return nil, err
	}
	c := &coupon.Coupon{Rule: ruleFrom(in)}
	if err := u.coupons.Create(ctx, c); err != nil {
		return nil, duplicate(err)
	}
	return c, nil
}

// UpdateCoupon replaces the definition; used_count is preserved.
func (u *Usecase) UpdateCoupon(ctx context.Context, id uint64, in CouponInput) (*coupon.Coupon, error) {
	if err := checkDefinition(in, coupon.DiscountPercentage, coupon.DiscountFlat); err != nil {
		return nil, err
	}
	c, err := u.coupons.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	used := c.UsedCount
	c.Rule = ruleFrom(in)
	c.UsedCount = used
	if err := u.coupons.Save(ctx, c); err != nil {
		return nil, duplicate(err)
	}
	return c, nil
}

func (u *Usecase) DeactivateCoupon(ctx context.Context, id uint64) (*coupon.Coupon, error) {
	c, err := u.coupons.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	c.IsActive = false
	if err := u.coupons.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *Usecase) DeleteCoupon(ctx context.Context, id uint64) error {
	return notFound(u.coupons.Delete(ctx, id))
}

func (u *Usecase) ListCoupons(ctx context.Context) ([]coupon.Coupon, error) {
	return u.coupons.List(ctx)
}

func (u *Usecase) CreateBrokerCoupon(ctx context.Context, in CouponInput) (*coupon.BrokerCoupon, error) {
	if in.DiscountType == coupon.DiscountFreeTrial {
		if in.TrialMonths == 0 {
			in.TrialMonths = 1
		}
		// value is not used by a free trial; keep the row self-describing
		in.DiscountValue = decimal.NewFromInt(100)
		// trials are quoted against a zero order value, so any floor locks them out
		if in.MinOrderValue != nil && in.MinOrderValue.IsPositive() {
			return nil, ErrInvalidDefinition
		}
	}
	if err := checkDefinition(in, coupon.DiscountFreeTrial, coupon.DiscountPercentage, coupon.DiscountFixedAmount); err != nil {
		return nil, err
	}
	if in.TrialMonths < 0 {
		return nil, ErrInvalidDefinition
	}
	c := &coupon.BrokerCoupon{Rule: ruleFrom(in), TrialMonths: in.TrialMonths}
	if err := u.brokers.Create(ctx, c); err != nil {
		return nil, duplicate(err)
	}
	return c, nil
}

func (u *Usecase) ListBrokerCoupons(ctx context.Context) ([]coupon.BrokerCoupon, error) {
	return u.brokers.List(ctx)
}

func checkDefinition(in CouponInput, allowed ...coupon.DiscountType) error {
	if coupon.NormalizeCode(in.Code) == "" || !in.ValidUntil.After(in.ValidFrom) {
		return ErrInvalidDefinition
	}
	ok := false
	for _, t := range allowed {
		if in.DiscountType == t {
			ok = true
		}
	}
	if !ok || !in.DiscountValue.IsPositive() {
		return ErrInvalidDefinition
	}
	if in.DiscountType == coupon.DiscountPercentage && in.DiscountValue.GreaterThan(hundred) {
		return ErrInvalidDefinition
	}
	if in.UsageLimit != nil && *in.UsageLimit < 0 {
		return ErrInvalidDefinition
	}
	return nil
}

func ruleFrom(in CouponInput) coupon.Rule {
	return coupon.Rule{
		Code:          coupon.NormalizeCode(in.Code),
		Description:   in.Description,
		DiscountType:  in.DiscountType,
		DiscountValue: in.DiscountValue,
		MaxDiscount:   in.MaxDiscount,
		MinOrderValue: in.MinOrderValue,
		IsActive:      in.IsActive,
		UsageLimit:    in.UsageLimit,
		ValidFrom:     in.ValidFrom.UTC(),
		ValidUntil:    in.ValidUntil.UTC(),
	}
}

func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return coupon.ErrCodeTaken
	}
	return err
}
