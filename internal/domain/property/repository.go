package property

import "context"

type Repository interface {
	GetByID(ctx context.Context, id uint64) (*Property, error)
	// GetByIDForUpdate locks the property row until the surrounding tx ends.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Property, error)
	SetFeatured(ctx context.Context, id uint64, featured bool) error
}
