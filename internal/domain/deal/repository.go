package deal

import "context"

type Repository interface {
	Create(ctx context.Context, d *Deal) error
	Save(ctx context.Context, d *Deal) error
	GetByDealID(ctx context.Context, dealID string) (*Deal, error)
	// GetByDealIDForUpdate locks the deal row until the surrounding tx ends.
	GetByDealIDForUpdate(ctx context.Context, dealID string) (*Deal, error)
	GetByPropertyAndBuyer(ctx context.Context, propertyID, buyerID uint64) (*Deal, error)

	ListByAgent(ctx context.Context, agentID uint64) ([]Deal, error)
	ListByBuyer(ctx context.Context, buyerID uint64) ([]Deal, error)
	ListByStage(ctx context.Context, s Stage) ([]Deal, error)
	ListActive(ctx context.Context) ([]Deal, error)
	CountByStage(ctx context.Context) (map[Stage]int64, error)

	AddAudit(ctx context.Context, a *Audit) error
	ListAudit(ctx context.Context, dealNumericID uint64) ([]Audit, error)
}
