package uow

import (
	"context"

	"realestate-backend/internal/domain/coupon"
	"realestate-backend/internal/domain/deal"
	"realestate-backend/internal/domain/featured"
	"realestate-backend/internal/domain/property"
	"realestate-backend/internal/domain/subscription"
	"realestate-backend/internal/domain/user"
)

// Repos are bound to one transaction.
type Repos struct {
	Deals         deal.Repository
	Coupons       coupon.Repository
	BrokerCoupons coupon.BrokerRepository
	Featured      featured.Repository
	Subscriptions subscription.Repository
	Properties    property.Repository
	Users         user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock deal first, then pass it in
	WithinDealTx(ctx context.Context, dealID string, fn func(r Repos, d *deal.Deal) error) error
}
