package subscription

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s *BrokerSubscription) error
	Save(ctx context.Context, s *BrokerSubscription) error
	SetOrderID(ctx context.Context, id uint64, orderID string) error
	GetByOrderIDForUpdate(ctx context.Context, orderID string) (*BrokerSubscription, error)
	GetActiveByBroker(ctx context.Context, brokerID uint64, now time.Time) (*BrokerSubscription, error)
	ListByBroker(ctx context.Context, brokerID uint64) ([]BrokerSubscription, error)
	// IncrementPosted is a compare-and-increment on a subscription still ACTIVE
	// at now; ok is false when the quota is used up or the subscription lapsed.
	IncrementPosted(ctx context.Context, id uint64, now time.Time) (ok bool, err error)
	// ExpireBefore flips every ACTIVE row whose end_date < now to EXPIRED.
	ExpireBefore(ctx context.Context, now time.Time) ([]BrokerSubscription, error)
}
