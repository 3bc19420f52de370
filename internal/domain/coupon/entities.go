package coupon

import (
	"fmt"
	"strings"
	"time"

	"realestate-backend/internal/domain/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = fmt.Errorf("coupon %w", errs.ErrNotFound)
	ErrCodeTaken         = fmt.Errorf("coupon code already exists: %w", errs.ErrConflict)
	ErrInactive          = fmt.Errorf("coupon is inactive: %w", errs.ErrInvalidState)
	ErrNotYetValid       = fmt.Errorf("coupon is not valid yet: %w", errs.ErrInvalidState)
	ErrExpired           = fmt.Errorf("coupon has expired: %w", errs.ErrInvalidState)
	ErrUsageLimitReached = fmt.Errorf("coupon usage limit reached: %w", errs.ErrInvalidState)
	ErrBelowMinOrder     = fmt.Errorf("order value is below the coupon minimum: %w", errs.ErrInvalidState)
	ErrNotApplicable     = fmt.Errorf("coupon cannot be used for this purchase: %w", errs.ErrInvalidState)
	ErrAlreadyRedeemed   = fmt.Errorf("coupon already used by this broker: %w", errs.ErrAlreadyUsed)
)

type DiscountType string

const (
	DiscountPercentage  DiscountType = "PERCENTAGE"
	DiscountFlat        DiscountType = "FLAT"
	DiscountFixedAmount DiscountType = "FIXED_AMOUNT"
	DiscountFreeTrial   DiscountType = "FREE_TRIAL"
)

// NormalizeCode is the stored form of a coupon code; lookups compare on it.
func NormalizeCode(code string) string { return strings.ToUpper(strings.TrimSpace(code)) }

// Rule is the discount definition shared by property and broker coupons.
type Rule struct {
	Code          string           `gorm:"column:code;size:64;not null;uniqueIndex" json:"code"`
	Description   string           `gorm:"column:description;size:255" json:"description"`
	DiscountType  DiscountType     `gorm:"column:discount_type;size:20;not null" json:"discount_type"`
	DiscountValue decimal.Decimal  `gorm:"column:discount_value;type:decimal(12,2);not null" json:"discount_value"`
	MaxDiscount   *decimal.Decimal `gorm:"column:max_discount;type:decimal(12,2)" json:"max_discount,omitempty"`
	MinOrderValue *decimal.Decimal `gorm:"column:min_order_value;type:decimal(12,2)" json:"min_order_value,omitempty"`
	IsActive      bool             `gorm:"column:is_active;not null" json:"is_active"`
	UsageLimit    *int             `gorm:"column:usage_limit" json:"usage_limit,omitempty"`
	UsedCount     int              `gorm:"column:used_count;not null" json:"used_count"`
	ValidFrom     time.Time        `gorm:"column:valid_from;not null" json:"valid_from"`
	ValidUntil    time.Time        `gorm:"column:valid_until;not null" json:"valid_until"`
}

// Check returns nil when the rule is redeemable at now: active, inside
// [ValidFrom, ValidUntil) and below its usage limit.
func (r Rule) Check(now time.Time) error {
	switch {
	case !r.IsActive:
		return ErrInactive
	case now.Before(r.ValidFrom):
		return ErrNotYetValid
	case !now.Before(r.ValidUntil):
		return ErrExpired
	case r.UsageLimit != nil && r.UsedCount >= *r.UsageLimit:
		return ErrUsageLimitReached
	}
	return nil
}

// CheckOrder additionally enforces the minimum order value.
func (r Rule) CheckOrder(now time.Time, orderValue decimal.Decimal) error {
	if err := r.Check(now); err != nil {
		return err
	}
	if r.MinOrderValue != nil && orderValue.LessThan(*r.MinOrderValue) {
		return ErrBelowMinOrder
	}
	return nil
}

// Table: coupons (featured-property purchases)
type Coupon struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Rule      `gorm:"embedded"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Coupon) TableName() string { return "coupons" }

// Table: broker_coupons (broker subscriptions)
type BrokerCoupon struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Rule        `gorm:"embedded"`
	TrialMonths int       `gorm:"column:trial_months;not null" json:"trial_months"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (BrokerCoupon) TableName() string { return "broker_coupons" }

// Table: broker_coupon_usage. One row per (broker, coupon).
type BrokerUsage struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	BrokerID       uint64    `gorm:"column:broker_id;not null;uniqueIndex:ux_broker_coupon_usage,priority:1"`
	CouponID       uint64    `gorm:"column:coupon_id;not null;uniqueIndex:ux_broker_coupon_usage,priority:2"`
	SubscriptionID uint64    `gorm:"column:subscription_id"`
	RedeemedAt     time.Time `gorm:"column:redeemed_at;not null"`
}

func (BrokerUsage) TableName() string { return "broker_coupon_usage" }
