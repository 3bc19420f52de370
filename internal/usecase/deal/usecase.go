package deal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"realestate-backend/internal/domain/deal"
	"realestate-backend/internal/domain/property"
	"realestate-backend/internal/domain/uow"
	"realestate-backend/internal/domain/user"
	"realestate-backend/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	repo deal.Repository
	uow  uow.UnitOfWork
	log  *slog.Logger
	now  func() time.Time
}

// NewUsecase: reads go through repo, every mutation through the UoW.
func NewUsecase(repo deal.Repository, tx uow.UnitOfWork, log *slog.Logger) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{repo: repo, uow: tx, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) CreateDeal(ctx context.Context, in CreateDealInput) (*DealDTO, error) {
	now := u.now()
	var created *deal.Deal

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Properties.GetByID(ctx, in.PropertyID); err != nil {
			return mapNotFound(err, property.ErrNotFound)
		}
		buyer, err := r.Users.GetByID(ctx, in.BuyerID)
		if err != nil {
			return mapNotFound(err, user.ErrNotFound)
		}
		if in.AgentID != nil {
			agent, err := r.Users.GetByID(ctx, *in.AgentID)
			if err != nil {
				return mapNotFound(err, user.ErrAgentNotFound)
			}
			if !agent.Role.CanHandleDeals() {
				return user.ErrNotAgent
			}
		}

		// Fast path for the common duplicate; the unique index closes the race.
		existing, err := r.Deals.GetByPropertyAndBuyer(ctx, in.PropertyID, in.BuyerID)
		switch {
		case err == nil:
			u.log.InfoContext(ctx, "deal already exists", "deal_id", existing.DealID)
			return deal.ErrAlreadyExists
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		d := &deal.Deal{
			DealID:        id.NewID32(),
			PropertyID:    in.PropertyID,
			BuyerID:       in.BuyerID,
			AgentID:       in.AgentID,
			Stage:         deal.StageInquiry,
			LastUpdatedBy: buyer.ID,
		}
		d.MarkStageEntered(deal.StageInquiry, now)
		note := in.Notes
		if note == "" {
			note = "Buyer expressed interest in the property"
		}
		d.AppendNote(now, actorLabel(buyer.Name, buyer.ID), note)

		if err := r.Deals.Create(ctx, d); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return deal.ErrAlreadyExists
			}
			return err
		}
		if err := r.Deals.AddAudit(ctx, &deal.Audit{
			DealID:  d.ID,
			Action:  deal.AuditCreated,
			ToStage: d.Stage,
			Notes:   note,
			ActorID: buyer.ID,
		}); err != nil {
			return err
		}
		created = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "deal created", "deal_id", created.DealID, "property_id", created.PropertyID, "buyer_id", created.BuyerID)
	return toDTO(created), nil
}

func (u *Usecase) UpdateStage(ctx context.Context, in UpdateStageInput) (*DealDTO, error) {
	next, ok := deal.ParseStage(in.Stage)
	if !ok {
		return nil, deal.ErrUnknownStage
	}
	now := u.now()
	var updated *deal.Deal

	err := u.uow.WithinDealTx(ctx, in.DealID, func(r uow.Repos, d *deal.Deal) error {
		// State guard: forward or same stage only
		if !d.Stage.CanMoveTo(next) {
			return deal.ErrInvalidTransition
		}
		from := d.Stage
		d.Stage = next
		d.MarkStageEntered(next, now)
		if in.AgreedPrice != nil {
			p := *in.AgreedPrice
			d.AgreedPrice = &p
		}

		note := in.Notes
		if note == "" {
			note = fmt.Sprintf("Stage changed from %s to %s", from, next)
		}
		d.AppendNote(now, actorLabel(in.ActorName, in.ActorID), note)
		d.LastUpdatedBy = in.ActorID
		d.UpdatedAt = now

		if err := r.Deals.Save(ctx, d); err != nil {
			return err
		}
		if err := r.Deals.AddAudit(ctx, &deal.Audit{
			DealID:    d.ID,
			Action:    deal.AuditStageChange,
			FromStage: from,
			ToStage:   next,
			Notes:     note,
			ActorID:   in.ActorID,
		}); err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err, deal.ErrNotFound)
	}

	u.log.InfoContext(ctx, "deal stage updated", "deal_id", updated.DealID, "stage", updated.Stage, "actor_id", in.ActorID)
	return toDTO(updated), nil
}

func (u *Usecase) AssignAgent(ctx context.Context, in AssignAgentInput) (*DealDTO, error) {
	now := u.now()
	var updated *deal.Deal

	err := u.uow.WithinDealTx(ctx, in.DealID, func(r uow.Repos, d *deal.Deal) error {
		agent, err := r.Users.GetByID(ctx, in.AgentID)
		if err != nil {
			return mapNotFound(err, user.ErrAgentNotFound)
		}
		if !agent.Role.CanHandleDeals() {
			return user.ErrNotAgent
		}

		agentID := agent.ID
		d.AgentID = &agentID
		note := fmt.Sprintf("Agent %s assigned", actorLabel(agent.Name, agent.ID))
		d.AppendNote(now, actorLabel(in.ActorName, in.ActorID), note)
		d.LastUpdatedBy = in.ActorID
		d.UpdatedAt = now

		if err := r.Deals.Save(ctx, d); err != nil {
			return err
		}
		if err := r.Deals.AddAudit(ctx, &deal.Audit{
			DealID:    d.ID,
			Action:    deal.AuditAgentAssign,
			FromStage: d.Stage,
			ToStage:   d.Stage,
			Notes:     note,
			ActorID:   in.ActorID,
		}); err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err, deal.ErrNotFound)
	}
	return toDTO(updated), nil
}

func (u *Usecase) Get(ctx context.Context, dealID string) (*DealDTO, error) {
	d, err := u.repo.GetByDealID(ctx, dealID)
	if err != nil {
		return nil, mapNotFound(err, deal.ErrNotFound)
	}
	return toDTO(d), nil
}

func (u *Usecase) History(ctx context.Context, dealID string) ([]deal.Audit, error) {
	d, err := u.repo.GetByDealID(ctx, dealID)
	if err != nil {
		return nil, mapNotFound(err, deal.ErrNotFound)
	}
	return u.repo.ListAudit(ctx, d.ID)
}

func (u *Usecase) ListByAgent(ctx context.Context, agentID uint64) ([]DealDTO, error) {
	return listed(u.repo.ListByAgent(ctx, agentID))
}

func (u *Usecase) ListByBuyer(ctx context.Context, buyerID uint64) ([]DealDTO, error) {
	return listed(u.repo.ListByBuyer(ctx, buyerID))
}

func (u *Usecase) ListByStage(ctx context.Context, raw string) ([]DealDTO, error) {
	s, ok := deal.ParseStage(raw)
	if !ok {
		return nil, deal.ErrUnknownStage
	}
	return listed(u.repo.ListByStage(ctx, s))
}

// ListActive returns every deal that has not reached COMPLETED.
func (u *Usecase) ListActive(ctx context.Context) ([]DealDTO, error) {
	return listed(u.repo.ListActive(ctx))
}

// Stats counts deals per stage on demand; stages without deals report 0.
func (u *Usecase) Stats(ctx context.Context) (*StatsDTO, error) {
	counts, err := u.repo.CountByStage(ctx)
	if err != nil {
		return nil, err
	}
	out := &StatsDTO{ByStage: make(map[deal.Stage]int64, len(deal.Stages()))}
	for _, s := range deal.Stages() {
		out.ByStage[s] = counts[s]
		out.Total += counts[s]
	}
	return out, nil
}

func listed(in []deal.Deal, err error) ([]DealDTO, error) {
	if err != nil {
		return nil, err
	}
	return toDTOs(in), nil
}

func mapNotFound(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

func actorLabel(name string, userID uint64) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("user#%d", userID)
}
