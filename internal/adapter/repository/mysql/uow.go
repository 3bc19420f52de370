package mysql

import (
	"context"
	"realestate-backend/internal/domain/deal"
	"realestate-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// NewRepos binds every repository to db (a *gorm.DB or a tx).
func NewRepos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Deals:         &DealRepository{db: db},
		Coupons:       &CouponRepository{db: db},
		BrokerCoupons: &BrokerCouponRepository{db: db},
		Featured:      &FeaturedRepository{db: db},
		Subscriptions: &SubscriptionRepository{db: db},
		Properties:    &PropertyRepository{db: db},
		Users:         &UserRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}

func (u *GormUoW) WithinDealTx(ctx context.Context, dealID string, fn func(r uow.Repos, d *deal.Deal) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := NewRepos(tx)
		// lock the deal row up-front to prevent races
		d, err := r.Deals.GetByDealIDForUpdate(ctx, dealID)
		if err != nil {
			return err
		}
		return fn(r, d)
	})
}
