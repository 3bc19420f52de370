package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"realestate-backend/internal/domain/payment"

	"github.com/shopspring/decimal"
)

const DefaultBaseURL = "https://api.razorpay.com"

var hundred = decimal.NewFromInt(100)

type Config struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	BaseURL       string
	Timeout       time.Duration
}

// Client talks to the Razorpay orders API.
type Client struct {
	client *http.Client
	cfg    Config
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

type orderBody struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder posts /v1/orders. Amounts go over the wire in paise.
func (c *Client) CreateOrder(ctx context.Context, in payment.OrderRequest) (*payment.Order, error) {
	body, err := json.Marshal(orderBody{
		Amount:   ToPaise(in.Amount),
		Currency: in.Currency,
		Receipt:  in.Receipt,
		Notes:    in.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal order: %v", payment.ErrGateway, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", payment.ErrGateway, err)
	}
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", payment.ErrGateway, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", payment.ErrGateway, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		_ = json.Unmarshal(raw, &e)
		if e.Error.Description != "" {
			return nil, fmt.Errorf("%w: status %d: %s", payment.ErrGateway, resp.StatusCode, e.Error.Description)
		}
		return nil, fmt.Errorf("%w: unexpected status code: %d", payment.ErrGateway, resp.StatusCode)
	}

	var out orderResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", payment.ErrGateway, err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("%w: missing order id in response", payment.ErrGateway)
	}

	return &payment.Order{
		OrderID:  out.ID,
		Amount:   FromPaise(out.Amount),
		Currency: out.Currency,
		Status:   out.Status,
		Receipt:  out.Receipt,
		KeyID:    c.cfg.KeyID,
	}, nil
}

// VerifyPaymentSignature checks the checkout signature: HMAC-SHA256 of
// "order_id|payment_id" keyed with the API secret.
func (c *Client) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	return validMAC([]byte(orderID+"|"+paymentID), c.cfg.KeySecret, signature)
}

// VerifyWebhookSignature checks X-Razorpay-Signature against the raw body.
func (c *Client) VerifyWebhookSignature(payload []byte, signature string) bool {
	if signature == "" || c.cfg.WebhookSecret == "" {
		return false
	}
	return validMAC(payload, c.cfg.WebhookSecret, signature)
}

func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func validMAC(payload []byte, secret, signature string) bool {
	want := Sign(payload, secret)
	return hmac.Equal([]byte(want), []byte(strings.ToLower(signature)))
}

func ToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

func FromPaise(p int64) decimal.Decimal {
	return decimal.NewFromInt(p).Div(hundred)
}
