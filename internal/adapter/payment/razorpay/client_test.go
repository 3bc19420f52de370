package razorpay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"realestate-backend/internal/domain/errs"
	"realestate-backend/internal/domain/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	var got orderBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_key", user)
		require.Equal(t, "rzp_secret", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_abc","amount":49900,"currency":"INR","receipt":"feat_x","status":"created"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{KeyID: "rzp_key", KeySecret: "rzp_secret", BaseURL: srv.URL})
	order, err := c.CreateOrder(context.Background(), payment.OrderRequest{
		Amount:   decimal.RequireFromString("499.00"),
		Currency: "INR",
		Receipt:  "feat_x",
		Notes:    map[string]string{"featured_id": "x"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(49900), got.Amount)
	require.Equal(t, "x", got.Notes["featured_id"])
	require.Equal(t, "order_abc", order.OrderID)
	require.True(t, order.Amount.Equal(decimal.RequireFromString("499")))
	require.Equal(t, "rzp_key", order.KeyID)
}

func TestCreateOrder_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{KeyID: "k", KeySecret: "s", BaseURL: srv.URL})
	_, err := c.CreateOrder(context.Background(), payment.OrderRequest{Amount: decimal.NewFromInt(1), Currency: "INR"})
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrPaymentGateway))
	require.Contains(t, err.Error(), "amount too small")
}

func TestCreateOrder_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(Config{KeyID: "k", KeySecret: "s", BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	_, err := c.CreateOrder(context.Background(), payment.OrderRequest{Amount: decimal.NewFromInt(1), Currency: "INR"})
	require.ErrorIs(t, err, payment.ErrGateway)
}

func TestVerifyPaymentSignature(t *testing.T) {
	c := NewClient(Config{KeySecret: "secret"})
	sig := Sign([]byte("order_1|pay_1"), "secret")

	require.True(t, c.VerifyPaymentSignature("order_1", "pay_1", sig))
	require.False(t, c.VerifyPaymentSignature("order_1", "pay_2", sig))
	require.False(t, c.VerifyPaymentSignature("order_1", "pay_1", ""))
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"payment.failed"}`)
	c := NewClient(Config{WebhookSecret: "whsec"})

	require.True(t, c.VerifyWebhookSignature(body, Sign(body, "whsec")))
	require.False(t, c.VerifyWebhookSignature(body, Sign(body, "other")))

	noSecret := NewClient(Config{})
	require.False(t, noSecret.VerifyWebhookSignature(body, Sign(body, "")))
}

func TestPaise(t *testing.T) {
	require.Equal(t, int64(12345), ToPaise(decimal.RequireFromString("123.45")))
	require.Equal(t, int64(100), ToPaise(decimal.RequireFromString("0.999")))
	require.True(t, FromPaise(49950).Equal(decimal.RequireFromString("499.5")))
}
