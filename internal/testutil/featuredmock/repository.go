package featuredmock

import (
	"context"
	"time"

	domain "realestate-backend/internal/domain/featured"

	"gorm.io/gorm"
)

// Compile-time checks
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock of domain.Repository.
// Unset writers are no-ops; unset single-row readers return gorm.ErrRecordNotFound.
type Repo struct {
	CreateFn                   func(ctx context.Context, f *domain.FeaturedProperty) error
	SaveFn                     func(ctx context.Context, f *domain.FeaturedProperty) error
	GetByFeaturedIDFn          func(ctx context.Context, featuredID string) (*domain.FeaturedProperty, error)
	GetByFeaturedIDForUpdateFn func(ctx context.Context, featuredID string) (*domain.FeaturedProperty, error)
	GetActiveByPropertyFn      func(ctx context.Context, propertyID uint64, now time.Time) (*domain.FeaturedProperty, error)
	ListActiveFn               func(ctx context.Context, now time.Time) ([]domain.FeaturedProperty, error)
	ListByUserFn               func(ctx context.Context, userID uint64) ([]domain.FeaturedProperty, error)
}

func (m *Repo) Create(ctx context.Context, f *domain.FeaturedProperty) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, f)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, f *domain.FeaturedProperty) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, f)
	}
	return nil
}

func (m *Repo) GetByFeaturedID(ctx context.Context, featuredID string) (*domain.FeaturedProperty, error) {
	if m.GetByFeaturedIDFn != nil {
		return m.GetByFeaturedIDFn(ctx, featuredID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByFeaturedIDForUpdate(ctx context.Context, featuredID string) (*domain.FeaturedProperty, error) {
	if m.GetByFeaturedIDForUpdateFn != nil {
		return m.GetByFeaturedIDForUpdateFn(ctx, featuredID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetActiveByProperty(ctx context.Context, propertyID uint64, now time.Time) (*domain.FeaturedProperty, error) {
	if m.GetActiveByPropertyFn != nil {
		return m.GetActiveByPropertyFn(ctx, propertyID, now)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListActive(ctx context.Context, now time.Time) ([]domain.FeaturedProperty, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx, now)
	}
	return nil, nil
}

func (m *Repo) ListByUser(ctx context.Context, userID uint64) ([]domain.FeaturedProperty, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}
