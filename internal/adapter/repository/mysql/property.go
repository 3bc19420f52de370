package mysql

import (
	"context"
	propertyDomain "realestate-backend/internal/domain/property"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PropertyRepository struct{ db *gorm.DB }

func NewPropertyRepository(db *gorm.DB) *PropertyRepository { return &PropertyRepository{db: db} }

func (r *PropertyRepository) GetByID(ctx context.Context, id uint64) (*propertyDomain.Property, error) {
	var out propertyDomain.Property
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *PropertyRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*propertyDomain.Property, error) {
	var out propertyDomain.Property
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

// SetFeatured only touches is_featured; the listings service owns every other column.
func (r *PropertyRepository) SetFeatured(ctx context.Context, id uint64, featured bool) error {
	return r.db.WithContext(ctx).
		Model(&propertyDomain.Property{}).
		Where("id = ?", id).
		UpdateColumn("is_featured", featured).Error
}
