package mysql

import (
	"context"
	couponDomain "realestate-backend/internal/domain/coupon"

	"gorm.io/gorm"
)

type CouponRepository struct{ db *gorm.DB }

func NewCouponRepository(db *gorm.DB) *CouponRepository { return &CouponRepository{db: db} }

func (r *CouponRepository) Create(ctx context.Context, c *couponDomain.Coupon) error {
	c.Code = couponDomain.NormalizeCode(c.Code)
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CouponRepository) Save(ctx context.Context, c *couponDomain.Coupon) error {
	c.Code = couponDomain.NormalizeCode(c.Code)
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CouponRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&couponDomain.Coupon{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CouponRepository) GetByID(ctx context.Context, id uint64) (*couponDomain.Coupon, error) {
	var out couponDomain.Coupon
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*couponDomain.Coupon, error) {
	var out couponDomain.Coupon
	res := r.db.WithContext(ctx).Where("code = ?", couponDomain.NormalizeCode(code)).First(&out)
	return &out, res.Error
}

func (r *CouponRepository) List(ctx context.Context) ([]couponDomain.Coupon, error) {
	var out []couponDomain.Coupon
	res := r.db.WithContext(ctx).Order("id DESC").Find(&out)
	return out, res.Error
}

func (r *CouponRepository) IncrementUsage(ctx context.Context, id uint64) error {
	return incrementUsage(r.db.WithContext(ctx), couponDomain.Coupon{}.TableName(), id)
}

type BrokerCouponRepository struct{ db *gorm.DB }

func NewBrokerCouponRepository(db *gorm.DB) *BrokerCouponRepository {
	return &BrokerCouponRepository{db: db}
}

func (r *BrokerCouponRepository) Create(ctx context.Context, c *couponDomain.BrokerCoupon) error {
	c.Code = couponDomain.NormalizeCode(c.Code)
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *BrokerCouponRepository) GetByID(ctx context.Context, id uint64) (*couponDomain.BrokerCoupon, error) {
	var out couponDomain.BrokerCoupon
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *BrokerCouponRepository) GetByCode(ctx context.Context, code string) (*couponDomain.BrokerCoupon, error) {
	var out couponDomain.BrokerCoupon
	res := r.db.WithContext(ctx).Where("code = ?", couponDomain.NormalizeCode(code)).First(&out)
	return &out, res.Error
}

func (r *BrokerCouponRepository) List(ctx context.Context) ([]couponDomain.BrokerCoupon, error) {
	var out []couponDomain.BrokerCoupon
	res := r.db.WithContext(ctx).Order("id DESC").Find(&out)
	return out, res.Error
}

func (r *BrokerCouponRepository) IncrementUsage(ctx context.Context, id uint64) error {
	return incrementUsage(r.db.WithContext(ctx), couponDomain.BrokerCoupon{}.TableName(), id)
}

func (r *BrokerCouponRepository) HasRedeemed(ctx context.Context, brokerID, couponID uint64) (bool, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&couponDomain.BrokerUsage{}).
		Where("broker_id = ? AND coupon_id = ?", brokerID, couponID).
		Count(&n)
	return n > 0, res.Error
}

func (r *BrokerCouponRepository) RecordRedemption(ctx context.Context, u *couponDomain.BrokerUsage) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// incrementUsage is a guarded bump: it never passes usage_limit and never decrements.
func incrementUsage(db *gorm.DB, table string, id uint64) error {
	res := db.Table(table).
		Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return couponDomain.ErrUsageLimitReached
	}
	return nil
}
