package mysql

import (
	"context"
	featuredDomain "realestate-backend/internal/domain/featured"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeaturedRepository struct{ db *gorm.DB }

func NewFeaturedRepository(db *gorm.DB) *FeaturedRepository { return &FeaturedRepository{db: db} }

func (r *FeaturedRepository) Create(ctx context.Context, f *featuredDomain.FeaturedProperty) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FeaturedRepository) Save(ctx context.Context, f *featuredDomain.FeaturedProperty) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *FeaturedRepository) GetByFeaturedID(ctx context.Context, featuredID string) (*featuredDomain.FeaturedProperty, error) {
	var out featuredDomain.FeaturedProperty
	res := r.db.WithContext(ctx).Where("featured_id = ?", featuredID).First(&out)
	return &out, res.Error
}

func (r *FeaturedRepository) GetByFeaturedIDForUpdate(ctx context.Context, featuredID string) (*featuredDomain.FeaturedProperty, error) {
	var out featuredDomain.FeaturedProperty
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("featured_id = ?", featuredID).
		First(&out)
	return &out, res.Error
}

func (r *FeaturedRepository) GetActiveByProperty(ctx context.Context, propertyID uint64, now time.Time) (*featuredDomain.FeaturedProperty, error) {
	var out featuredDomain.FeaturedProperty
	res := r.active(ctx, now).
		Where("property_id = ?", propertyID).
		Order("featured_until DESC").
		First(&out)
	return &out, res.Error
}

func (r *FeaturedRepository) ListActive(ctx context.Context, now time.Time) ([]featuredDomain.FeaturedProperty, error) {
	var out []featuredDomain.FeaturedProperty
	res := r.active(ctx, now).Order("featured_from DESC").Find(&out)
	return out, res.Error
}

func (r *FeaturedRepository) ListByUser(ctx context.Context, userID uint64) ([]featuredDomain.FeaturedProperty, error) {
	var out []featuredDomain.FeaturedProperty
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

// active mirrors FeaturedProperty.ActiveAt in SQL.
func (r *FeaturedRepository) active(ctx context.Context, now time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("payment_status IN ?", []featuredDomain.PaymentStatus{featuredDomain.PaymentCompleted, featuredDomain.PaymentFree}).
		Where("featured_from <= ? AND featured_until > ?", now, now)
}
