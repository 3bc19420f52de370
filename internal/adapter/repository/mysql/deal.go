package mysql

import (
	"context"
	dealDomain "realestate-backend/internal/domain/deal"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DealRepository struct{ db *gorm.DB }

func NewDealRepository(db *gorm.DB) *DealRepository { return &DealRepository{db: db} }

func (r *DealRepository) Create(ctx context.Context, d *dealDomain.Deal) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DealRepository) Save(ctx context.Context, d *dealDomain.Deal) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DealRepository) GetByDealID(ctx context.Context, dealID string) (*dealDomain.Deal, error) {
	var out dealDomain.Deal
	res := r.db.WithContext(ctx).Where("deal_id = ?", dealID).First(&out)
	return &out, res.Error
}

func (r *DealRepository) GetByDealIDForUpdate(ctx context.Context, dealID string) (*dealDomain.Deal, error) {
	var out dealDomain.Deal
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("deal_id = ?", dealID).
		First(&out)
	return &out, res.Error
}

func (r *DealRepository) GetByPropertyAndBuyer(ctx context.Context, propertyID, buyerID uint64) (*dealDomain.Deal, error) {
	var out dealDomain.Deal
	res := r.db.WithContext(ctx).
		Where("property_id = ? AND buyer_id = ?", propertyID, buyerID).
		First(&out)
	return &out, res.Error
}

func (r *DealRepository) ListByAgent(ctx context.Context, agentID uint64) ([]dealDomain.Deal, error) {
	return r.list(ctx, "agent_id = ?", agentID)
}

func (r *DealRepository) ListByBuyer(ctx context.Context, buyerID uint64) ([]dealDomain.Deal, error) {
	return r.list(ctx, "buyer_id = ?", buyerID)
}

func (r *DealRepository) ListByStage(ctx context.Context, s dealDomain.Stage) ([]dealDomain.Deal, error) {
	return r.list(ctx, "stage = ?", s)
}

func (r *DealRepository) ListActive(ctx context.Context) ([]dealDomain.Deal, error) {
	return r.list(ctx, "stage <> ?", dealDomain.StageCompleted)
}

func (r *DealRepository) list(ctx context.Context, where string, args ...any) ([]dealDomain.Deal, error) {
	var out []dealDomain.Deal
	res := r.db.WithContext(ctx).
		Where(where, args...).
		Order("updated_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

type stageCount struct {
	Stage dealDomain.Stage
	Total int64
}

func (r *DealRepository) CountByStage(ctx context.Context) (map[dealDomain.Stage]int64, error) {
	var rows []stageCount
	res := r.db.WithContext(ctx).
		Model(&dealDomain.Deal{}).
		Select("stage, COUNT(*) AS total").
		Group("stage").
		Scan(&rows)
	if res.Error != nil {
		return nil, res.Error
	}
	out := make(map[dealDomain.Stage]int64, len(rows))
	for _, row := range rows {
		out[row.Stage] = row.Total
	}
	return out, nil
}

func (r *DealRepository) AddAudit(ctx context.Context, a *dealDomain.Audit) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *DealRepository) ListAudit(ctx context.Context, dealNumericID uint64) ([]dealDomain.Audit, error) {
	var out []dealDomain.Audit
	res := r.db.WithContext(ctx).
		Where("deal_id = ?", dealNumericID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
