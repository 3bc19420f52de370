package http

import (
	"net/http"
	"strconv"

	"realestate-backend/internal/adapter/middleware"
	dealUC "realestate-backend/internal/usecase/deal"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type DealHandler struct{ uc *dealUC.Usecase }

func NewDealHandler(uc *dealUC.Usecase) *DealHandler { return &DealHandler{uc: uc} }

type createDealReq struct {
	PropertyID uint64  `json:"property_id" validate:"required"`
	AgentID    *uint64 `json:"agent_id,omitempty" validate:"omitempty,gt=0"`
	Notes      string  `json:"notes" validate:"max=2000"`
}

type updateStageReq struct {
	DealID      string           `param:"deal_id" json:"-" validate:"hex32"`
	Stage       string           `json:"stage" validate:"required"`
	Notes       string           `json:"notes" validate:"max=2000"`
	AgreedPrice *decimal.Decimal `json:"agreed_price,omitempty" validate:"omitempty,gt=0,dec2"`
}

type assignAgentReq struct {
	DealID  string `param:"deal_id" json:"-" validate:"hex32"`
	AgentID uint64 `json:"agent_id" validate:"required"`
}

// CreateDeal opens a deal for the calling buyer.
func (h *DealHandler) CreateDeal(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req createDealReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.CreateDeal(c.Request().Context(), dealUC.CreateDealInput{
		PropertyID: req.PropertyID,
		BuyerID:    actor.UserID,
		AgentID:    req.AgentID,
		Notes:      req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *DealHandler) GetDeal(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("deal_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DealHandler) History(c echo.Context) error {
	trail, err := h.uc.History(c.Request().Context(), c.Param("deal_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": trail})
}

func (h *DealHandler) UpdateStage(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req updateStageReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.UpdateStage(c.Request().Context(), dealUC.UpdateStageInput{
		DealID:      req.DealID,
		Stage:       req.Stage,
		Notes:       req.Notes,
		AgreedPrice: req.AgreedPrice,
		ActorID:     actor.UserID,
		ActorName:   actor.Name,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DealHandler) AssignAgent(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req assignAgentReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.AssignAgent(c.Request().Context(), dealUC.AssignAgentInput{
		DealID:    req.DealID,
		AgentID:   req.AgentID,
		ActorID:   actor.UserID,
		ActorName: actor.Name,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ListDeals filters by exactly one of agent_id, buyer_id or stage; without a
// filter it returns the deals still in progress.
func (h *DealHandler) ListDeals(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		items []dealUC.DealDTO
		err   error
	)
	switch {
	case c.QueryParam("agent_id") != "":
		id, perr := strconv.ParseUint(c.QueryParam("agent_id"), 10, 64)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "agent_id must be a positive integer"})
		}
		items, err = h.uc.ListByAgent(ctx, id)
	case c.QueryParam("buyer_id") != "":
		id, perr := strconv.ParseUint(c.QueryParam("buyer_id"), 10, 64)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "buyer_id must be a positive integer"})
		}
		items, err = h.uc.ListByBuyer(ctx, id)
	case c.QueryParam("stage") != "":
		items, err = h.uc.ListByStage(ctx, c.QueryParam("stage"))
	default:
		items, err = h.uc.ListActive(ctx)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *DealHandler) Stats(c echo.Context) error {
	stats, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
