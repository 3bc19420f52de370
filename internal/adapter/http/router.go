package http

import (
	"context"
	"log/slog"

	"realestate-backend/internal/adapter/middleware"
	"realestate-backend/internal/domain/user"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Handlers struct {
	Health       *Handler
	Deals        *DealHandler
	Coupons      *CouponHandler
	Featured     *FeaturedHandler
	Subscription *SubscriptionHandler
	Webhooks     *WebhookHandler
}

type RouterConfig struct {
	JWTSecret []byte
	// Idempotency guards the purchase endpoints; nil disables it.
	Idempotency echo.MiddlewareFunc
}

// NewEcho returns an Echo instance with the validator, panic recovery and
// slog request logging installed.
func NewEcho(log *slog.Logger) *echo.Echo {
	if log == nil {
		log = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= 500 || v.Error != nil {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			log.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	}))
	return e
}

// Register mounts every route on e.
func Register(e *echo.Echo, h Handlers, cfg RouterConfig) {
	auth := middleware.JWTAuth(cfg.JWTSecret)
	idem := cfg.Idempotency
	if idem == nil {
		idem = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	roles := middleware.RequireRoles
	admin := roles(user.RoleAdmin)
	broker := roles(user.RoleBroker)

	e.GET("/health", h.Health.Health)

	deals := e.Group("/deals")
	deals.POST("", h.Deals.CreateDeal, auth, roles(user.RoleBuyer))
	deals.GET("", h.Deals.ListDeals, auth)
	deals.GET("/stats", h.Deals.Stats, auth, admin)
	deals.GET("/:deal_id", h.Deals.GetDeal, auth)
	deals.GET("/:deal_id/history", h.Deals.History, auth)
	deals.PATCH("/:deal_id/stage", h.Deals.UpdateStage, auth, roles(user.RoleAgent, user.RoleAdmin))
	deals.PATCH("/:deal_id/agent", h.Deals.AssignAgent, auth, admin)

	e.POST("/coupons/validate", h.Coupons.Validate, auth)
	adm := e.Group("/admin")
	adm.POST("/coupons", h.Coupons.Create, auth, admin)
	adm.GET("/coupons", h.Coupons.List, auth, admin)
	adm.PUT("/coupons/:id", h.Coupons.Update, auth, admin)
	adm.POST("/coupons/:id/deactivate", h.Coupons.Deactivate, auth, admin)
	adm.DELETE("/coupons/:id", h.Coupons.Delete, auth, admin)
	adm.POST("/broker-coupons", h.Coupons.CreateBroker, auth, admin)
	adm.GET("/broker-coupons", h.Coupons.ListBroker, auth, admin)

	fp := e.Group("/featured")
	fp.GET("/active", h.Featured.ListActive)
	fp.GET("/property/:property_id", h.Featured.PropertyActivity)
	fp.POST("", h.Featured.Apply, auth, idem)
	fp.GET("/mine", h.Featured.ListMine, auth)
	fp.GET("/:featured_id", h.Featured.Get, auth)
	fp.POST("/:featured_id/verify", h.Featured.Verify, auth)
	fp.DELETE("/:featured_id", h.Featured.Cancel, auth)

	subs := e.Group("/subscriptions")
	subs.POST("/trial", h.Subscription.Trial, auth, broker)
	subs.POST("", h.Subscription.Create, auth, broker, idem)
	subs.POST("/verify", h.Subscription.Verify, auth, broker)
	subs.GET("/me", h.Subscription.Me, auth, broker)
	subs.GET("/me/history", h.Subscription.History, auth, broker)
	subs.GET("/me/quota", h.Subscription.Quota, auth, broker)
	subs.POST("/me/posts", h.Subscription.ConsumePost, auth, broker)

	e.POST("/webhooks/razorpay", h.Webhooks.Razorpay)
}
