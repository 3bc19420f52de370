package user

import (
	"fmt"
	"time"

	"realestate-backend/internal/domain/errs"
)

var (
	ErrNotFound      = fmt.Errorf("user %w", errs.ErrNotFound)
	ErrAgentNotFound = fmt.Errorf("agent %w", errs.ErrNotFound)
	ErrNotAgent      = fmt.Errorf("user is not an agent or admin: %w", errs.ErrInvalidRole)
	ErrNotBroker     = fmt.Errorf("user is not a broker: %w", errs.ErrInvalidRole)
)

type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
	RoleAgent  Role = "AGENT"
	RoleAdmin  Role = "ADMIN"
	RoleBroker Role = "BROKER"
)

// CanHandleDeals reports whether the role may be assigned to a deal.
func (r Role) CanHandleDeals() bool { return r == RoleAgent || r == RoleAdmin }

// Table: users (owned by the accounts service, read here)
type User struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;size:120" json:"name"`
	Email     string    `gorm:"column:email;size:190;uniqueIndex" json:"email"`
	Role      Role      `gorm:"column:role;size:20;not null" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
