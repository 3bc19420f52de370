package dealmock

import (
	"context"

	domain "realestate-backend/internal/domain/deal"

	"gorm.io/gorm"
)

// Compile-time checks
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock of domain.Repository.
// Unset writers are no-ops; unset single-row readers return gorm.ErrRecordNotFound.
type Repo struct {
	CreateFn                func(ctx context.Context, d *domain.Deal) error
	SaveFn                  func(ctx context.Context, d *domain.Deal) error
	GetByDealIDFn           func(ctx context.Context, dealID string) (*domain.Deal, error)
	GetByDealIDForUpdateFn  func(ctx context.Context, dealID string) (*domain.Deal, error)
	GetByPropertyAndBuyerFn func(ctx context.Context, propertyID, buyerID uint64) (*domain.Deal, error)
	ListByAgentFn           func(ctx context.Context, agentID uint64) ([]domain.Deal, error)
	ListByBuyerFn           func(ctx context.Context, buyerID uint64) ([]domain.Deal, error)
	ListByStageFn           func(ctx context.Context, s domain.Stage) ([]domain.Deal, error)
	ListActiveFn            func(ctx context.Context) ([]domain.Deal, error)
	CountByStageFn          func(ctx context.Context) (map[domain.Stage]int64, error)
	AddAuditFn              func(ctx context.Context, a *domain.Audit) error
	ListAuditFn             func(ctx context.Context, dealNumericID uint64) ([]domain.Audit, error)
}

func (m *Repo) Create(ctx context.Context, d *domain.Deal) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, d *domain.Deal) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetByDealID(ctx context.Context, dealID string) (*domain.Deal, error) {
	if m.GetByDealIDFn != nil {
		return m.GetByDealIDFn(ctx, dealID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByDealIDForUpdate(ctx context.Context, dealID string) (*domain.Deal, error) {
	if m.GetByDealIDForUpdateFn != nil {
		return m.GetByDealIDForUpdateFn(ctx, dealID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByPropertyAndBuyer(ctx context.Context, propertyID, buyerID uint64) (*domain.Deal, error) {
	if m.GetByPropertyAndBuyerFn != nil {
		return m.GetByPropertyAndBuyerFn(ctx, propertyID, buyerID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListByAgent(ctx context.Context, agentID uint64) ([]domain.Deal, error) {
	if m.ListByAgentFn != nil {
		return m.ListByAgentFn(ctx, agentID)
	}
	return nil, nil
}

func (m *Repo) ListByBuyer(ctx context.Context, buyerID uint64) ([]domain.Deal, error) {
	if m.ListByBuyerFn != nil {
		return m.ListByBuyerFn(ctx, buyerID)
	}
	return nil, nil
}

func (m *Repo) ListByStage(ctx context.Context, s domain.Stage) ([]domain.Deal, error) {
	if m.ListByStageFn != nil {
		return m.ListByStageFn(ctx, s)
	}
	return nil, nil
}

func (m *Repo) ListActive(ctx context.Context) ([]domain.Deal, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx)
	}
	return nil, nil
}

func (m *Repo) CountByStage(ctx context.Context) (map[domain.Stage]int64, error) {
	if m.CountByStageFn != nil {
		return m.CountByStageFn(ctx)
	}
	return nil, nil
}

func (m *Repo) AddAudit(ctx context.Context, a *domain.Audit) error {
	if m.AddAuditFn != nil {
		return m.AddAuditFn(ctx, a)
	}
	return nil
}

func (m *Repo) ListAudit(ctx context.Context, dealNumericID uint64) ([]domain.Audit, error) {
	if m.ListAuditFn != nil {
		return m.ListAuditFn(ctx, dealNumericID)
	}
	return nil, nil
}
