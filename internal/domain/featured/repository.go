package featured

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, f *FeaturedProperty) error
	Save(ctx context.Context, f *FeaturedProperty) error
	GetByFeaturedID(ctx context.Context, featuredID string) (*FeaturedProperty, error)
	GetByFeaturedIDForUpdate(ctx context.Context, featuredID string) (*FeaturedProperty, error)
	// GetActiveByProperty returns the row currently in effect for the property at now.
	GetActiveByProperty(ctx context.Context, propertyID uint64, now time.Time) (*FeaturedProperty, error)
	ListActive(ctx context.Context, now time.Time) ([]FeaturedProperty, error)
	ListByUser(ctx context.Context, userID uint64) ([]FeaturedProperty, error)
}
