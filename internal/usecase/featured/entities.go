package featured

import (
	"time"

	"realestate-backend/internal/domain/featured"
	"realestate-backend/internal/domain/payment"

	"github.com/shopspring/decimal"
)

// Pricing is injected from configuration.
type Pricing struct {
	BasePrice     decimal.Decimal
	DefaultMonths int
	MaxMonths     int
	Currency      string
}

type ApplyInput struct {
	PropertyID     uint64
	UserID         uint64
	CouponCode     string
	DurationMonths int
}

type CompletePaymentInput struct {
	FeaturedID string
	PaymentID  string
	OrderID    string
	Signature  string
}

type FeaturedDTO struct {
	*featured.FeaturedProperty
	ActiveNow bool `json:"active_now"`
}

type ApplyResult struct {
	Featured *FeaturedDTO   `json:"featured"`
	Free     bool           `json:"free"`
	Order    *payment.Order `json:"order,omitempty"`
}

type ActivityDTO struct {
	PropertyID    uint64     `json:"property_id"`
	Active        bool       `json:"active"`
	FeaturedID    string     `json:"featured_id,omitempty"`
	FeaturedUntil *time.Time `json:"featured_until,omitempty"`
}

func toDTO(f *featured.FeaturedProperty, now time.Time) *FeaturedDTO {
	return &FeaturedDTO{FeaturedProperty: f, ActiveNow: f.ActiveAt(now)}
}
