package deal

import (
	"time"

	"realestate-backend/internal/domain/deal"

	"github.com/shopspring/decimal"
)

type CreateDealInput struct {
	PropertyID uint64
	BuyerID    uint64
	AgentID    *uint64
	Notes      string
}

type UpdateStageInput struct {
	DealID      string
	Stage       string
	Notes       string
	AgreedPrice *decimal.Decimal
	ActorID     uint64
	ActorName   string
}

type AssignAgentInput struct {
	DealID    string
	AgentID   uint64
	ActorID   uint64
	ActorName string
}

type DealDTO struct {
	DealID           string               `json:"deal_id"`
	PropertyID       uint64               `json:"property_id"`
	BuyerID          uint64               `json:"buyer_id"`
	AgentID          *uint64              `json:"agent_id,omitempty"`
	Stage            deal.Stage           `json:"stage"`
	StageLabel       string               `json:"stage_label"`
	StageRank        int                  `json:"stage_rank"`
	Notes            string               `json:"notes"`
	AgreedPrice      *decimal.Decimal     `json:"agreed_price,omitempty"`
	StageDates       map[string]time.Time `json:"stage_dates"`
	BuyerDocUploaded bool                 `json:"buyer_doc_uploaded"`
	SellerConfirmed  bool                 `json:"seller_confirmed"`
	AdminVerified    bool                 `json:"admin_verified"`
	PaymentInitiated bool                 `json:"payment_initiated"`
	PaymentCompleted bool                 `json:"payment_completed"`
	LastUpdatedBy    uint64               `json:"last_updated_by"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

type StatsDTO struct {
	Total   int64                `json:"total"`
	ByStage map[deal.Stage]int64 `json:"by_stage"`
}

func toDTO(d *deal.Deal) *DealDTO {
	dates := map[string]time.Time{}
	stamp := func(s deal.Stage, t *time.Time) {
		if t != nil {
			dates[string(s)] = *t
		}
	}
	stamp(deal.StageInquiry, d.InquiryAt)
	stamp(deal.StageShortlist, d.ShortlistAt)
	stamp(deal.StageNegotiation, d.NegotiationAt)
	stamp(deal.StageAgreement, d.AgreementAt)
	stamp(deal.StageRegistration, d.RegistrationAt)
	stamp(deal.StagePayment, d.PaymentAt)
	stamp(deal.StageCompleted, d.CompletedAt)

	return &DealDTO{
		DealID:           d.DealID,
		PropertyID:       d.PropertyID,
		BuyerID:          d.BuyerID,
		AgentID:          d.AgentID,
		Stage:            d.Stage,
		StageLabel:       d.Stage.Label(),
		StageRank:        d.Stage.Rank(),
		Notes:            d.Notes,
		AgreedPrice:      d.AgreedPrice,
		StageDates:       dates,
		BuyerDocUploaded: d.BuyerDocUploaded,
		SellerConfirmed:  d.SellerConfirmed,
		AdminVerified:    d.AdminVerified,
		PaymentInitiated: d.PaymentInitiated,
		PaymentCompleted: d.PaymentCompleted,
		LastUpdatedBy:    d.LastUpdatedBy,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func toDTOs(in []deal.Deal) []DealDTO {
	out := make([]DealDTO, 0, len(in))
	for i := range in {
		out = append(out, *toDTO(&in[i]))
	}
	return out
}
