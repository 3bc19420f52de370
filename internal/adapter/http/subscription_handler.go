package http

import (
	"net/http"

	"realestate-backend/internal/adapter/middleware"
	subUC "realestate-backend/internal/usecase/subscription"

	"github.com/labstack/echo/v4"
)

type SubscriptionHandler struct{ uc *subUC.Usecase }

func NewSubscriptionHandler(uc *subUC.Usecase) *SubscriptionHandler {
	return &SubscriptionHandler{uc: uc}
}

type trialReq struct {
	CouponCode string `json:"coupon_code" validate:"required,coupon_code"`
}

type createSubscriptionReq struct {
	PlanType   string `json:"plan_type" validate:"required,oneof=MONTHLY QUARTERLY YEARLY"`
	CouponCode string `json:"coupon_code" validate:"omitempty,coupon_code"`
}

func (h *SubscriptionHandler) Trial(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req trialReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	sub, err := h.uc.ApplyCouponTrial(c.Request().Context(), actor.UserID, req.CouponCode)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, sub)
}

func (h *SubscriptionHandler) Create(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req createSubscriptionReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.CreatePaidSubscription(c.Request().Context(), subUC.CreatePaidInput{
		BrokerID:   actor.UserID,
		PlanType:   req.PlanType,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *SubscriptionHandler) Verify(c echo.Context) error {
	var req RazorpayCallback
	if ok, err := decode(c, &req); !ok {
		return err
	}
	sub, err := h.uc.VerifyAndActivate(c.Request().Context(), subUC.VerifyInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionHandler) Me(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	sub, err := h.uc.GetActive(c.Request().Context(), actor.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionHandler) History(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	items, err := h.uc.History(c.Request().Context(), actor.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

func (h *SubscriptionHandler) Quota(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	q, err := h.uc.CanPostProperty(c.Request().Context(), actor.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

// ConsumePost records one property posting against the active plan.
func (h *SubscriptionHandler) ConsumePost(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	q, err := h.uc.IncrementPropertiesPosted(c.Request().Context(), actor.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, q)
}
