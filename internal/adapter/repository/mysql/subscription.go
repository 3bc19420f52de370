package mysql

import (
	"context"
	subDomain "realestate-backend/internal/domain/subscription"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository struct{ db *gorm.DB }

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *subDomain.BrokerSubscription) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SubscriptionRepository) Save(ctx context.Context, s *subDomain.BrokerSubscription) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SubscriptionRepository) SetOrderID(ctx context.Context, id uint64, orderID string) error {
	return r.db.WithContext(ctx).
		Model(&subDomain.BrokerSubscription{}).
		Where("id = ?", id).
		Update("razorpay_order_id", orderID).Error
}

func (r *SubscriptionRepository) GetByOrderIDForUpdate(ctx context.Context, orderID string) (*subDomain.BrokerSubscription, error) {
	var out subDomain.BrokerSubscription
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("razorpay_order_id = ?", orderID).
		First(&out)
	return &out, res.Error
}

func (r *SubscriptionRepository) GetActiveByBroker(ctx context.Context, brokerID uint64, now time.Time) (*subDomain.BrokerSubscription, error) {
	var out subDomain.BrokerSubscription
	res := r.db.WithContext(ctx).
		Where("broker_id = ? AND status = ? AND end_date > ?", brokerID, subDomain.StatusActive, now).
		Order("end_date DESC").
		First(&out)
	return &out, res.Error
}

func (r *SubscriptionRepository) ListByBroker(ctx context.Context, brokerID uint64) ([]subDomain.BrokerSubscription, error) {
	var out []subDomain.BrokerSubscription
	res := r.db.WithContext(ctx).
		Where("broker_id = ?", brokerID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *SubscriptionRepository) IncrementPosted(ctx context.Context, id uint64, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&subDomain.BrokerSubscription{}).
		Where("id = ? AND status = ? AND end_date > ? AND properties_posted < max_properties", id, subDomain.StatusActive, now).
		UpdateColumn("properties_posted", gorm.Expr("properties_posted + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ExpireBefore claims the overdue batch under row locks, then flips it. The
// status guard on the UPDATE keeps a concurrent run from flipping a row twice.
func (r *SubscriptionRepository) ExpireBefore(ctx context.Context, now time.Time) ([]subDomain.BrokerSubscription, error) {
	var due []subDomain.BrokerSubscription
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("status = ? AND end_date < ?", subDomain.StatusActive, now).
		Find(&due)
	if res.Error != nil || len(due) == 0 {
		return nil, res.Error
	}

	ids := make([]uint64, 0, len(due))
	for _, s := range due {
		ids = append(ids, s.ID)
	}
	res = r.db.WithContext(ctx).
		Model(&subDomain.BrokerSubscription{}).
		Where("id IN ? AND status = ?", ids, subDomain.StatusActive).
		Updates(map[string]any{"status": subDomain.StatusExpired, "updated_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	for i := range due {
		due[i].Status = subDomain.StatusExpired
	}
	return due, nil
}
