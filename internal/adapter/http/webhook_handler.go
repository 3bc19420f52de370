package http

import (
	"errors"
	"io"
	"net/http"

	"realestate-backend/internal/domain/payment"
	"realestate-backend/internal/usecase/webhook"

	"github.com/labstack/echo/v4"
)

const (
	maxWebhookBody  = 1 << 20
	signatureHeader = "X-Razorpay-Signature"
)

type WebhookHandler struct{ uc *webhook.Usecase }

func NewWebhookHandler(uc *webhook.Usecase) *WebhookHandler { return &WebhookHandler{uc: uc} }

// Razorpay reads the raw body; the signature covers the exact bytes.
func (h *WebhookHandler) Razorpay(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if len(body) > maxWebhookBody {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "payload too large"})
	}
	res, err := h.uc.Dispatch(c.Request().Context(), body, c.Request().Header.Get(signatureHeader))
	if err != nil {
		if errors.Is(err, payment.ErrSignatureInvalid) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid signature"})
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
