package subscription

import (
	"fmt"
	"time"

	"realestate-backend/internal/domain/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = fmt.Errorf("subscription %w", errs.ErrNotFound)
	ErrNoActive      = fmt.Errorf("active subscription %w", errs.ErrNotFound)
	ErrAlreadyActive = fmt.Errorf("broker already has an active subscription: %w", errs.ErrConflict)
	ErrInvalidPlan   = fmt.Errorf("unknown subscription plan: %w", errs.ErrInvalidState)
	ErrNotPending    = fmt.Errorf("subscription is not awaiting payment: %w", errs.ErrInvalidState)
	ErrQuotaExceeded = fmt.Errorf("property posting limit reached: %w", errs.ErrConflict)
)

const DefaultMaxProperties = 50

type PlanType string

const (
	PlanFreeTrial PlanType = "FREE_TRIAL"
	PlanMonthly   PlanType = "MONTHLY"
	PlanQuarterly PlanType = "QUARTERLY"
	PlanYearly    PlanType = "YEARLY"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
	StatusPending   Status = "PENDING"
)

// Table: broker_subscriptions
type BrokerSubscription struct {
	ID                     uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	SubscriptionID         string          `gorm:"column:subscription_id;size:32;not null;uniqueIndex" json:"subscription_id"`
	BrokerID               uint64          `gorm:"column:broker_id;not null;index:idx_broker_subscriptions_broker_status,priority:1" json:"broker_id"`
	PlanType               PlanType        `gorm:"column:plan_type;size:20;not null" json:"plan_type"`
	StartDate              *time.Time      `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate                *time.Time      `gorm:"column:end_date;index" json:"end_date,omitempty"`
	Status                 Status          `gorm:"column:status;size:20;not null;index:idx_broker_subscriptions_broker_status,priority:2" json:"status"`
	RazorpayOrderID        string          `gorm:"column:razorpay_order_id;size:64;index" json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID      string          `gorm:"column:razorpay_payment_id;size:64" json:"razorpay_payment_id,omitempty"`
	RazorpaySubscriptionID string          `gorm:"column:razorpay_subscription_id;size:64" json:"razorpay_subscription_id,omitempty"`
	Amount                 decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	CouponID               *uint64         `gorm:"column:coupon_id" json:"coupon_id,omitempty"`
	FailureReason          string          `gorm:"column:failure_reason;size:255" json:"failure_reason,omitempty"`
	PropertiesPosted       int             `gorm:"column:properties_posted;not null" json:"properties_posted"`
	MaxProperties          int             `gorm:"column:max_properties;not null" json:"max_properties"`
	CreatedAt              time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (BrokerSubscription) TableName() string { return "broker_subscriptions" }

// ActiveAt re-checks end_date so a missed sweep never extends an entitlement.
func (s *BrokerSubscription) ActiveAt(now time.Time) bool {
	return s.Status == StatusActive && s.EndDate != nil && s.EndDate.After(now)
}

func (s *BrokerSubscription) CanPost() bool { return s.PropertiesPosted < s.MaxProperties }

// Activate starts the entitlement window at now for the given number of months.
func (s *BrokerSubscription) Activate(now time.Time, months int) {
	start := now
	end := now.AddDate(0, months, 0)
	s.StartDate = &start
	s.EndDate = &end
	s.Status = StatusActive
}
