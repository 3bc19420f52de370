package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"realestate-backend/internal/domain/errs"
	"realestate-backend/internal/domain/payment"
)

const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
	EventOrderPaid       = "order.paid"
)

var ErrMalformed = fmt.Errorf("malformed webhook payload: %w", errs.ErrInvalidState)

// FailureHandler cancels the pending purchase behind a failed order.
type FailureHandler interface {
	HandlePaymentFailure(ctx context.Context, orderID, reason string) (bool, error)
}

type envelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity paymentEntity `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

type paymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Status           string `json:"status"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

type Result struct {
	Event   string `json:"event"`
	Handled bool   `json:"handled"`
}

type Usecase struct {
	gateway  payment.Gateway
	failures FailureHandler
	log      *slog.Logger
}

func NewUsecase(gateway payment.Gateway, failures FailureHandler, log *slog.Logger) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{gateway: gateway, failures: failures, log: log.With("component", "webhook")}
}

// Dispatch verifies the raw body against signature and routes the event.
// Unknown events are acknowledged and ignored.
func (u *Usecase) Dispatch(ctx context.Context, body []byte, signature string) (*Result, error) {
	if !u.gateway.VerifyWebhookSignature(body, signature) {
		u.log.WarnContext(ctx, "webhook signature rejected")
		return nil, payment.ErrSignatureInvalid
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, ErrMalformed
	}

	res := &Result{Event: env.Event}
	switch env.Event {
	case EventPaymentFailed:
		p := env.Payload.Payment.Entity
		if p.OrderID == "" {
			return nil, ErrMalformed
		}
		reason := p.ErrorDescription
		if reason == "" {
			reason = p.ErrorCode
		}
		changed, err := u.failures.HandlePaymentFailure(ctx, p.OrderID, reason)
		if err != nil {
			return nil, err
		}
		res.Handled = changed
		u.log.InfoContext(ctx, "payment failed", "order_id", p.OrderID, "payment_id", p.ID, "cancelled", changed)
	case EventPaymentCaptured:
		p := env.Payload.Payment.Entity
		u.log.InfoContext(ctx, "payment captured", "order_id", p.OrderID, "payment_id", p.ID)
	case EventOrderPaid:
		u.log.InfoContext(ctx, "order paid", "order_id", env.Payload.Order.Entity.ID)
	default:
		u.log.DebugContext(ctx, "webhook event ignored", "event", env.Event)
	}
	return res, nil
}
