package pricing

import (
	"time"

	"realestate-backend/internal/domain/coupon"

	"github.com/shopspring/decimal"
)

type Quote struct {
	Discount
	CouponID     uint64              `json:"coupon_id"`
	Code         string              `json:"code"`
	DiscountType coupon.DiscountType `json:"discount_type"`
	TrialMonths  int                 `json:"trial_months,omitempty"`
}

type CouponInput struct {
	Code          string
	Description   string
	DiscountType  coupon.DiscountType
	DiscountValue decimal.Decimal
	MaxDiscount   *decimal.Decimal
	MinOrderValue *decimal.Decimal
	UsageLimit    *int
	ValidFrom     time.Time
	ValidUntil    time.Time
	IsActive      bool
	TrialMonths   int
}
