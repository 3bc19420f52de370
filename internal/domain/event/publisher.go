package event

import (
	"context"
	"time"
)

const (
	FeaturedActivated     = "featured.activated"
	SubscriptionActivated = "subscription.activated"
	SubscriptionExpired   = "subscription.expired"
)

type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// Publisher delivers events after the owning transaction commits. Delivery is
// best effort; callers log and continue on error.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
