package paymentmock

import (
	"context"
	"fmt"
	"sync"

	"realestate-backend/internal/domain/payment"
)

var _ payment.Gateway = (*Gateway)(nil)

// Gateway is a function-backed payment.Gateway. Without CreateOrderFn it hands out
// sequential order ids; signatures verify when they equal Sig(orderID, paymentID)
// or the payload string.
type Gateway struct {
	CreateOrderFn            func(ctx context.Context, req payment.OrderRequest) (*payment.Order, error)
	VerifyPaymentSignatureFn func(orderID, paymentID, signature string) bool
	VerifyWebhookSignatureFn func(payload []byte, signature string) bool

	mu     sync.Mutex
	seq    int
	Orders []payment.OrderRequest
}

func Sig(orderID, paymentID string) string { return "sig:" + orderID + "|" + paymentID }

func (m *Gateway) CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.Order, error) {
	m.mu.Lock()
	m.Orders = append(m.Orders, req)
	m.seq++
	n := m.seq
	m.mu.Unlock()

	if m.CreateOrderFn != nil {
		return m.CreateOrderFn(ctx, req)
	}
	return &payment.Order{
		OrderID:  fmt.Sprintf("order_%d", n),
		Amount:   req.Amount,
		Currency: req.Currency,
		Status:   "created",
		Receipt:  req.Receipt,
	}, nil
}

func (m *Gateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	if m.VerifyPaymentSignatureFn != nil {
		return m.VerifyPaymentSignatureFn(orderID, paymentID, signature)
	}
	return signature == Sig(orderID, paymentID)
}

func (m *Gateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	if m.VerifyWebhookSignatureFn != nil {
		return m.VerifyWebhookSignatureFn(payload, signature)
	}
	return signature == "sig:"+string(payload)
}

func (m *Gateway) OrderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Orders)
}
