package property

import (
	"fmt"
	"time"

	"realestate-backend/internal/domain/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = fmt.Errorf("property %w", errs.ErrNotFound)
	ErrDeleted  = fmt.Errorf("property has been deleted: %w", errs.ErrInvalidState)
)

// Table: property (owned by the listings service). IsActive=false is the soft-delete flag.
type Property struct {
	ID         uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title      string          `gorm:"column:title;size:255" json:"title"`
	OwnerID    uint64          `gorm:"column:owner_id;index" json:"owner_id"`
	Price      decimal.Decimal `gorm:"column:price;type:decimal(14,2)" json:"price"`
	IsActive   bool            `gorm:"column:is_active;not null" json:"is_active"`
	IsFeatured bool            `gorm:"column:is_featured;not null" json:"is_featured"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Property) TableName() string { return "property" }
