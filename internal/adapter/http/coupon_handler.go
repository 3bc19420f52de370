package http

import (
	"net/http"
	"time"

	"realestate-backend/internal/adapter/middleware"
	"realestate-backend/internal/domain/coupon"
	"realestate-backend/internal/usecase/pricing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type CouponHandler struct{ uc *pricing.Usecase }

func NewCouponHandler(uc *pricing.Usecase) *CouponHandler { return &CouponHandler{uc: uc} }

type validateCouponReq struct {
	Code       string          `json:"code" validate:"required,coupon_code"`
	OrderValue decimal.Decimal `json:"order_value" validate:"gte=0,dec2"`
	// Kind selects the coupon family: "property" (default) or "broker".
	Kind string `json:"kind" validate:"omitempty,oneof=property broker"`
}

type couponReq struct {
	ID            uint64              `param:"id" json:"-"`
	Code          string              `json:"code" validate:"required,coupon_code"`
	Description   string              `json:"description" validate:"max=255"`
	DiscountType  coupon.DiscountType `json:"discount_type" validate:"required,oneof=PERCENTAGE FLAT FIXED_AMOUNT FREE_TRIAL"`
	DiscountValue decimal.Decimal     `json:"discount_value" validate:"gte=0,dec2"`
	MaxDiscount   *decimal.Decimal    `json:"max_discount,omitempty" validate:"omitempty,gt=0,dec2"`
	MinOrderValue *decimal.Decimal    `json:"min_order_value,omitempty" validate:"omitempty,gte=0,dec2"`
	UsageLimit    *int                `json:"usage_limit,omitempty" validate:"omitempty,gte=0"`
	ValidFrom     time.Time           `json:"valid_from" validate:"required"`
	ValidUntil    time.Time           `json:"valid_until" validate:"required,gtfield=ValidFrom"`
	IsActive      *bool               `json:"is_active,omitempty"`
	TrialMonths   int                 `json:"trial_months" validate:"gte=0,lte=24"`
}

func (r couponReq) input() pricing.CouponInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return pricing.CouponInput{
		Code:          r.Code,
		Description:   r.Description,
		DiscountType:  r.DiscountType,
		DiscountValue: r.DiscountValue,
		MaxDiscount:   r.MaxDiscount,
		MinOrderValue: r.MinOrderValue,
		UsageLimit:    r.UsageLimit,
		ValidFrom:     r.ValidFrom.UTC(),
		ValidUntil:    r.ValidUntil.UTC(),
		IsActive:      active,
		TrialMonths:   r.TrialMonths,
	}
}

type couponIDReq struct {
	ID uint64 `param:"id" validate:"required"`
}

// Validate quotes a coupon without consuming it.
func (h *CouponHandler) Validate(c echo.Context) error {
	var req validateCouponReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	ctx := c.Request().Context()
	var (
		q   *pricing.Quote
		err error
	)
	if req.Kind == "broker" {
		actor, _ := middleware.ActorFrom(c)
		q, err = h.uc.ValidateBroker(ctx, actor.UserID, req.Code, req.OrderValue)
	} else {
		q, err = h.uc.Validate(ctx, req.Code, req.OrderValue)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

func (h *CouponHandler) Create(c echo.Context) error {
	var req couponReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.CreateCoupon(c.Request().Context(), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CouponHandler) Update(c echo.Context) error {
	var req couponReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.UpdateCoupon(c.Request().Context(), req.ID, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CouponHandler) Deactivate(c echo.Context) error {
	var req couponIDReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.DeactivateCoupon(c.Request().Context(), req.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CouponHandler) Delete(c echo.Context) error {
	var req couponIDReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	if err := h.uc.DeleteCoupon(c.Request().Context(), req.ID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CouponHandler) List(c echo.Context) error {
	items, err := h.uc.ListCoupons(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

func (h *CouponHandler) CreateBroker(c echo.Context) error {
	var req couponReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.CreateBrokerCoupon(c.Request().Context(), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CouponHandler) ListBroker(c echo.Context) error {
	items, err := h.uc.ListBrokerCoupons(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}
