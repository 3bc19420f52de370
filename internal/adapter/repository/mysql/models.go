package mysql

import (
	"realestate-backend/internal/domain/coupon"
	"realestate-backend/internal/domain/deal"
	"realestate-backend/internal/domain/featured"
	"realestate-backend/internal/domain/property"
	"realestate-backend/internal/domain/subscription"
	"realestate-backend/internal/domain/user"

	"gorm.io/gorm"
)

// OwnedModels are the tables this service migrates.
func OwnedModels() []any {
	return []any{
		&deal.Deal{},
		&deal.Audit{},
		&coupon.Coupon{},
		&coupon.BrokerCoupon{},
		&coupon.BrokerUsage{},
		&featured.FeaturedProperty{},
		&subscription.BrokerSubscription{},
	}
}

// CollaboratorModels belong to the listings and accounts services; migrate them
// only for local development and tests.
func CollaboratorModels() []any {
	return []any{&property.Property{}, &user.User{}}
}

func Migrate(db *gorm.DB, withCollaborators bool) error {
	models := OwnedModels()
	if withCollaborators {
		models = append(CollaboratorModels(), models...)
	}
	return db.AutoMigrate(models...)
}
