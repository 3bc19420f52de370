package payment

import (
	"context"
	"fmt"

	"realestate-backend/internal/domain/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrGateway          = fmt.Errorf("payment gateway request failed: %w", errs.ErrPaymentGateway)
	ErrSignatureInvalid = fmt.Errorf("payment signature verification failed: %w", errs.ErrPaymentGateway)
)

type OrderRequest struct {
	Amount   decimal.Decimal
	Currency string
	Receipt  string
	Notes    map[string]string
}

type Order struct {
	OrderID  string          `json:"order_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Status   string          `json:"status"`
	Receipt  string          `json:"receipt"`
	KeyID    string          `json:"key_id,omitempty"`
}

// Gateway is the payment provider. Implementations bound every call with a timeout
// and wrap failures in ErrGateway.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	VerifyWebhookSignature(payload []byte, signature string) bool
}
