package subscriptionmock

import (
	"context"
	"time"

	domain "realestate-backend/internal/domain/subscription"

	"gorm.io/gorm"
)

// Compile-time checks
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock of domain.Repository.
// Unset writers are no-ops; unset single-row readers return gorm.ErrRecordNotFound.
type Repo struct {
	CreateFn                func(ctx context.Context, s *domain.BrokerSubscription) error
	SaveFn                  func(ctx context.Context, s *domain.BrokerSubscription) error
	SetOrderIDFn            func(ctx context.Context, id uint64, orderID string) error
	GetByOrderIDForUpdateFn func(ctx context.Context, orderID string) (*domain.BrokerSubscription, error)
	GetActiveByBrokerFn     func(ctx context.Context, brokerID uint64, now time.Time) (*domain.BrokerSubscription, error)
	ListByBrokerFn          func(ctx context.Context, brokerID uint64) ([]domain.BrokerSubscription, error)
	IncrementPostedFn       func(ctx context.Context, id uint64, now time.Time) (bool, error)
	ExpireBeforeFn          func(ctx context.Context, now time.Time) ([]domain.BrokerSubscription, error)
}

func (m *Repo) Create(ctx context.Context, s *domain.BrokerSubscription) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, s *domain.BrokerSubscription) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}

func (m *Repo) SetOrderID(ctx context.Context, id uint64, orderID string) error {
	if m.SetOrderIDFn != nil {
		return m.SetOrderIDFn(ctx, id, orderID)
	}
	return nil
}

func (m *Repo) GetByOrderIDForUpdate(ctx context.Context, orderID string) (*domain.BrokerSubscription, error) {
	if m.GetByOrderIDForUpdateFn != nil {
		return m.GetByOrderIDForUpdateFn(ctx, orderID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetActiveByBroker(ctx context.Context, brokerID uint64, now time.Time) (*domain.BrokerSubscription, error) {
	if m.GetActiveByBrokerFn != nil {
		return m.GetActiveByBrokerFn(ctx, brokerID, now)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListByBroker(ctx context.Context, brokerID uint64) ([]domain.BrokerSubscription, error) {
	if m.ListByBrokerFn != nil {
		return m.ListByBrokerFn(ctx, brokerID)
	}
	return nil, nil
}

func (m *Repo) IncrementPosted(ctx context.Context, id uint64, now time.Time) (bool, error) {
	if m.IncrementPostedFn != nil {
		return m.IncrementPostedFn(ctx, id, now)
	}
	return false, nil
}

func (m *Repo) ExpireBefore(ctx context.Context, now time.Time) ([]domain.BrokerSubscription, error) {
	if m.ExpireBeforeFn != nil {
		return m.ExpireBeforeFn(ctx, now)
	}
	return nil, nil
}
