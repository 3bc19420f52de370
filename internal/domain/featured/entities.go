package featured

import (
	"fmt"
	"time"

	"realestate-backend/internal/domain/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = fmt.Errorf("featured property %w", errs.ErrNotFound)
	ErrAlreadyFeatured = fmt.Errorf("property is already featured: %w", errs.ErrConflict)
	ErrNotOwner        = fmt.Errorf("only the purchaser can cancel this promotion: %w", errs.ErrUnauthorized)
	ErrCancelled       = fmt.Errorf("featured promotion was cancelled: %w", errs.ErrInvalidState)
	ErrOrderMismatch   = fmt.Errorf("order does not belong to this promotion: %w", errs.ErrInvalidState)
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFree      PaymentStatus = "FREE"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

// Settled reports whether the promotion has been paid for (or was free).
func (s PaymentStatus) Settled() bool { return s == PaymentCompleted || s == PaymentFree }

// Table: featured_properties
type FeaturedProperty struct {
	ID             uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	FeaturedID     string          `gorm:"column:featured_id;size:32;not null;uniqueIndex" json:"featured_id"`
	PropertyID     uint64          `gorm:"column:property_id;not null;index:idx_featured_property_active,priority:1" json:"property_id"`
	UserID         uint64          `gorm:"column:user_id;not null;index" json:"user_id"`
	OriginalPrice  decimal.Decimal `gorm:"column:original_price;type:decimal(12,2);not null" json:"original_price"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:decimal(12,2);not null" json:"discount_amount"`
	FinalPrice     decimal.Decimal `gorm:"column:final_price;type:decimal(12,2);not null" json:"final_price"`
	CouponID       *uint64         `gorm:"column:coupon_id" json:"coupon_id,omitempty"`
	CouponCode     string          `gorm:"column:coupon_code;size:64" json:"coupon_code,omitempty"`
	DurationMonths int             `gorm:"column:duration_months;not null" json:"duration_months"`
	FeaturedFrom   *time.Time      `gorm:"column:featured_from" json:"featured_from,omitempty"`
	FeaturedUntil  *time.Time      `gorm:"column:featured_until" json:"featured_until,omitempty"`
	IsActive       bool            `gorm:"column:is_active;not null;index:idx_featured_property_active,priority:2" json:"is_active"`
	PaymentStatus  PaymentStatus   `gorm:"column:payment_status;size:20;not null" json:"payment_status"`
	PaymentID      string          `gorm:"column:payment_id;size:64" json:"payment_id,omitempty"`
	OrderID        string          `gorm:"column:order_id;size:64;index" json:"order_id,omitempty"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (FeaturedProperty) TableName() string { return "featured_properties" }

// ActiveAt evaluates the full activity rule; the stored flag alone is not enough
// because expiry is never swept.
func (f *FeaturedProperty) ActiveAt(now time.Time) bool {
	if !f.IsActive || !f.PaymentStatus.Settled() {
		return false
	}
	if f.FeaturedFrom == nil || f.FeaturedUntil == nil {
		return false
	}
	return !now.Before(*f.FeaturedFrom) && now.Before(*f.FeaturedUntil)
}

// Activate opens the promotion window [now, now+DurationMonths).
func (f *FeaturedProperty) Activate(status PaymentStatus, now time.Time) {
	from := now
	until := now.AddDate(0, f.DurationMonths, 0)
	f.FeaturedFrom = &from
	f.FeaturedUntil = &until
	f.IsActive = true
	f.PaymentStatus = status
}
