package deal

import (
	"fmt"
	"time"

	"realestate-backend/internal/domain/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = fmt.Errorf("deal %w", errs.ErrNotFound)
	ErrAlreadyExists     = fmt.Errorf("deal already exists for this property and buyer: %w", errs.ErrConflict)
	ErrInvalidTransition = fmt.Errorf("cannot move deal to an earlier stage: %w", errs.ErrInvalidTransition)
	ErrUnknownStage      = fmt.Errorf("unknown deal stage: %w", errs.ErrInvalidTransition)
)

// Table: deal_status
type Deal struct {
	ID          uint64           `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	DealID      string           `gorm:"column:deal_id;size:32;not null;uniqueIndex:ux_deal_status_deal_id" json:"deal_id"`
	PropertyID  uint64           `gorm:"column:property_id;not null;uniqueIndex:ux_deal_status_property_buyer,priority:1" json:"property_id"`
	BuyerID     uint64           `gorm:"column:buyer_id;not null;uniqueIndex:ux_deal_status_property_buyer,priority:2;index" json:"buyer_id"`
	AgentID     *uint64          `gorm:"column:agent_id;index" json:"agent_id,omitempty"`
	Stage       Stage            `gorm:"column:stage;size:20;not null;index" json:"stage"`
	Notes       string           `gorm:"column:notes;type:text" json:"notes"`
	AgreedPrice *decimal.Decimal `gorm:"column:agreed_price;type:decimal(14,2)" json:"agreed_price,omitempty"`

	InquiryAt      *time.Time `gorm:"column:inquiry_at" json:"inquiry_at,omitempty"`
	ShortlistAt    *time.Time `gorm:"column:shortlist_at" json:"shortlist_at,omitempty"`
	NegotiationAt  *time.Time `gorm:"column:negotiation_at" json:"negotiation_at,omitempty"`
	AgreementAt    *time.Time `gorm:"column:agreement_at" json:"agreement_at,omitempty"`
	RegistrationAt *time.Time `gorm:"column:registration_at" json:"registration_at,omitempty"`
	PaymentAt      *time.Time `gorm:"column:payment_at" json:"payment_at,omitempty"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	BuyerDocUploaded bool `gorm:"column:buyer_doc_uploaded;not null" json:"buyer_doc_uploaded"`
	SellerConfirmed  bool `gorm:"column:seller_confirmed;not null" json:"seller_confirmed"`
	AdminVerified    bool `gorm:"column:admin_verified;not null" json:"admin_verified"`
	PaymentInitiated bool `gorm:"column:payment_initiated;not null" json:"payment_initiated"`
	PaymentCompleted bool `gorm:"column:payment_completed;not null" json:"payment_completed"`

	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	LastUpdatedBy uint64    `gorm:"column:last_updated_by" json:"last_updated_by"`
}

func (Deal) TableName() string { return "deal_status" }

// MarkStageEntered stamps the timestamp column of s the first time the deal reaches it.
func (d *Deal) MarkStageEntered(s Stage, at time.Time) {
	slot := d.stageSlot(s)
	if slot != nil && *slot == nil {
		t := at
		*slot = &t
	}
	switch s {
	case StagePayment:
		d.PaymentInitiated = true
	case StageCompleted:
		d.PaymentInitiated = true
		d.PaymentCompleted = true
	}
}

func (d *Deal) stageSlot(s Stage) **time.Time {
	switch s {
	case StageInquiry:
		return &d.InquiryAt
	case StageShortlist:
		return &d.ShortlistAt
	case StageNegotiation:
		return &d.NegotiationAt
	case StageAgreement:
		return &d.AgreementAt
	case StageRegistration:
		return &d.RegistrationAt
	case StagePayment:
		return &d.PaymentAt
	case StageCompleted:
		return &d.CompletedAt
	}
	return nil
}

// AppendNote adds a "[date - actor] text" line; earlier lines are never touched.
func (d *Deal) AppendNote(at time.Time, actor, text string) {
	line := fmt.Sprintf("[%s - %s] %s", at.UTC().Format("2006-01-02 15:04"), actor, text)
	if d.Notes == "" {
		d.Notes = line
		return
	}
	d.Notes += "\n" + line
}

// Table: deal_status_audit
type Audit struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	DealID    uint64    `gorm:"column:deal_id;not null;index" json:"-"`
	Action    string    `gorm:"column:action;size:20;not null" json:"action"`
	FromStage Stage     `gorm:"column:from_stage;size:20" json:"from_stage"`
	ToStage   Stage     `gorm:"column:to_stage;size:20" json:"to_stage"`
	Notes     string    `gorm:"column:notes;type:text" json:"notes"`
	ActorID   uint64    `gorm:"column:actor_id" json:"actor_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Audit) TableName() string { return "deal_status_audit" }

const (
	AuditStageChange = "STAGE_CHANGE"
	AuditAgentAssign = "AGENT_ASSIGN"
	AuditCreated     = "CREATED"
)
