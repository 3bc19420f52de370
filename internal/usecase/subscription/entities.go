package subscription

import (
	"realestate-backend/internal/domain/payment"
	"realestate-backend/internal/domain/subscription"

	"github.com/shopspring/decimal"
)

type Plan struct {
	Price  decimal.Decimal
	Months int
}

// Settings is injected from configuration; Plans replaces a process-wide price table.
type Settings struct {
	Plans         map[subscription.PlanType]Plan
	Currency      string
	MaxProperties int
}

type CreatePaidInput struct {
	BrokerID   uint64
	PlanType   string
	CouponCode string
}

type VerifyInput struct {
	OrderID   string
	PaymentID string
	Signature string
}

type CheckoutDTO struct {
	Subscription *subscription.BrokerSubscription `json:"subscription"`
	Free         bool                             `json:"free"`
	Order        *payment.Order                   `json:"order,omitempty"`
}

type QuotaDTO struct {
	Allowed        bool   `json:"allowed"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	Posted         int    `json:"properties_posted"`
	Max            int    `json:"max_properties"`
	Remaining      int    `json:"remaining"`
}

func quotaOf(s *subscription.BrokerSubscription) *QuotaDTO {
	remaining := s.MaxProperties - s.PropertiesPosted
	if remaining < 0 {
		remaining = 0
	}
	return &QuotaDTO{
		Allowed:        s.CanPost(),
		SubscriptionID: s.SubscriptionID,
		Posted:         s.PropertiesPosted,
		Max:            s.MaxProperties,
		Remaining:      remaining,
	}
}
