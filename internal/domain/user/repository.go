package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, id uint64) (*User, error)
	// GetByIDForUpdate locks the user row; used as the per-broker mutex for subscriptions.
	GetByIDForUpdate(ctx context.Context, id uint64) (*User, error)
}
