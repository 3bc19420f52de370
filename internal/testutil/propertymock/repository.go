package propertymock

import (
	"context"

	domain "realestate-backend/internal/domain/property"

	"gorm.io/gorm"
)

// Compile-time checks
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock of domain.Repository.
// Unset writers are no-ops; unset single-row readers return gorm.ErrRecordNotFound.
type Repo struct {
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Property, error)
	GetByIDForUpdateFn func(ctx context.Context, id uint64) (*domain.Property, error)
	SetFeaturedFn      func(ctx context.Context, id uint64, featured bool) error
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Property, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Property, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) SetFeatured(ctx context.Context, id uint64, featured bool) error {
	if m.SetFeaturedFn != nil {
		return m.SetFeaturedFn(ctx, id, featured)
	}
	return nil
}
