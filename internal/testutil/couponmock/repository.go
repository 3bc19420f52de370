package couponmock

import (
	"context"

	domain "realestate-backend/internal/domain/coupon"

	"gorm.io/gorm"
)

// Compile-time checks
var (
	_ domain.Repository       = (*Repo)(nil)
	_ domain.BrokerRepository = (*BrokerRepo)(nil)
)

// Repo is a function-backed mock of domain.Repository.
// Unset writers are no-ops; unset single-row readers return gorm.ErrRecordNotFound.
type Repo struct {
	CreateFn         func(ctx context.Context, c *domain.Coupon) error
	SaveFn           func(ctx context.Context, c *domain.Coupon) error
	DeleteFn         func(ctx context.Context, id uint64) error
	GetByIDFn        func(ctx context.Context, id uint64) (*domain.Coupon, error)
	GetByCodeFn      func(ctx context.Context, code string) (*domain.Coupon, error)
	ListFn           func(ctx context.Context) ([]domain.Coupon, error)
	IncrementUsageFn func(ctx context.Context, id uint64) error
}

func (m *Repo) Create(ctx context.Context, c *domain.Coupon) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, c *domain.Coupon) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Coupon, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) List(ctx context.Context) ([]domain.Coupon, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *Repo) IncrementUsage(ctx context.Context, id uint64) error {
	if m.IncrementUsageFn != nil {
		return m.IncrementUsageFn(ctx, id)
	}
	return nil
}

// BrokerRepo is a function-backed mock of domain.BrokerRepository.
// Unset writers are no-ops; unset single-row readers return gorm.ErrRecordNotFound.
type BrokerRepo struct {
	CreateFn           func(ctx context.Context, c *domain.BrokerCoupon) error
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.BrokerCoupon, error)
	GetByCodeFn        func(ctx context.Context, code string) (*domain.BrokerCoupon, error)
	ListFn             func(ctx context.Context) ([]domain.BrokerCoupon, error)
	IncrementUsageFn   func(ctx context.Context, id uint64) error
	HasRedeemedFn      func(ctx context.Context, brokerID, couponID uint64) (bool, error)
	RecordRedemptionFn func(ctx context.Context, u *domain.BrokerUsage) error
}

func (m *BrokerRepo) Create(ctx context.Context, c *domain.BrokerCoupon) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *BrokerRepo) GetByID(ctx context.Context, id uint64) (*domain.BrokerCoupon, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *BrokerRepo) GetByCode(ctx context.Context, code string) (*domain.BrokerCoupon, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *BrokerRepo) List(ctx context.Context) ([]domain.BrokerCoupon, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *BrokerRepo) IncrementUsage(ctx context.Context, id uint64) error {
	if m.IncrementUsageFn != nil {
		return m.IncrementUsageFn(ctx, id)
	}
	return nil
}

func (m *BrokerRepo) HasRedeemed(ctx context.Context, brokerID, couponID uint64) (bool, error) {
	if m.HasRedeemedFn != nil {
		return m.HasRedeemedFn(ctx, brokerID, couponID)
	}
	return false, nil
}

func (m *BrokerRepo) RecordRedemption(ctx context.Context, u *domain.BrokerUsage) error {
	if m.RecordRedemptionFn != nil {
		return m.RecordRedemptionFn(ctx, u)
	}
	return nil
}
