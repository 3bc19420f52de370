package coupon

import "context"

type Repository interface {
	Create(ctx context.Context, c *Coupon) error
	Save(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, id uint64) error
	GetByID(ctx context.Context, id uint64) (*Coupon, error)
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context) ([]Coupon, error)
	// IncrementUsage bumps used_count by one unless the usage limit is already reached.
	IncrementUsage(ctx context.Context, id uint64) error
}

type BrokerRepository interface {
	Create(ctx context.Context, c *BrokerCoupon) error
	GetByID(ctx context.Context, id uint64) (*BrokerCoupon, error)
	GetByCode(ctx context.Context, code string) (*BrokerCoupon, error)
	List(ctx context.Context) ([]BrokerCoupon, error)
	IncrementUsage(ctx context.Context, id uint64) error

	HasRedeemed(ctx context.Context, brokerID, couponID uint64) (bool, error)
	RecordRedemption(ctx context.Context, u *BrokerUsage) error
}
