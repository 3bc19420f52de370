package http

import (
	"net/http"
	"strconv"

	"realestate-backend/internal/adapter/middleware"
	featuredUC "realestate-backend/internal/usecase/featured"

	"github.com/labstack/echo/v4"
)

type FeaturedHandler struct{ uc *featuredUC.Usecase }

func NewFeaturedHandler(uc *featuredUC.Usecase) *FeaturedHandler { return &FeaturedHandler{uc: uc} }

type applyFeaturedReq struct {
	PropertyID     uint64 `json:"property_id" validate:"required"`
	CouponCode     string `json:"coupon_code" validate:"omitempty,coupon_code"`
	DurationMonths int    `json:"duration_months" validate:"gte=0"`
}

// RazorpayCallback is the checkout handler payload posted back by the client.
type RazorpayCallback struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

type verifyFeaturedReq struct {
	FeaturedID string `param:"featured_id" json:"-" validate:"hex32"`
	RazorpayCallback
}

// Apply starts a featured listing; a fully discounted purchase activates at once.
func (h *FeaturedHandler) Apply(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req applyFeaturedReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	res, err := h.uc.Apply(c.Request().Context(), featuredUC.ApplyInput{
		PropertyID:     req.PropertyID,
		UserID:         actor.UserID,
		CouponCode:     req.CouponCode,
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *FeaturedHandler) Verify(c echo.Context) error {
	var req verifyFeaturedReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.CompletePayment(c.Request().Context(), featuredUC.CompletePaymentInput{
		FeaturedID: req.FeaturedID,
		PaymentID:  req.PaymentID,
		OrderID:    req.OrderID,
		Signature:  req.Signature,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *FeaturedHandler) Cancel(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	dto, err := h.uc.Cancel(c.Request().Context(), c.Param("featured_id"), actor.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *FeaturedHandler) PropertyActivity(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("property_id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "property_id must be a positive integer"})
	}
	dto, err := h.uc.IsActive(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *FeaturedHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("featured_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *FeaturedHandler) ListActive(c echo.Context) error {
	items, err := h.uc.ListActive(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

func (h *FeaturedHandler) ListMine(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	items, err := h.uc.ListByUser(c.Request().Context(), actor.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}
