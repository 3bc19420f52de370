package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"realestate-backend/internal/domain/coupon"
	"realestate-backend/internal/domain/errs"
	"realestate-backend/internal/domain/event"
	"realestate-backend/internal/domain/payment"
	"realestate-backend/internal/domain/subscription"
	"realestate-backend/internal/domain/uow"
	"realestate-backend/internal/domain/user"
	"realestate-backend/internal/usecase/pricing"
	"realestate-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Usecase struct {
	repo     subscription.Repository
	uow      uow.UnitOfWork
	gateway  payment.Gateway
	events   event.Publisher
	settings Settings
	log      *slog.Logger
	now      func() time.Time
}

func NewUsecase(
	repo subscription.Repository,
	tx uow.UnitOfWork,
	gateway payment.Gateway,
	events event.Publisher,
	s Settings,
	log *slog.Logger,
) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	if s.MaxProperties <= 0 {
		s.MaxProperties = subscription.DefaultMaxProperties
	}
	return &Usecase{
		repo:     repo,
		uow:      tx,
		gateway:  gateway,
		events:   events,
		settings: s,
		log:      log.With("component", "subscription"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// ApplyCouponTrial starts a FREE_TRIAL subscription from a broker coupon.
func (u *Usecase) ApplyCouponTrial(ctx context.Context, brokerID uint64, code string) (*subscription.BrokerSubscription, error) {
	now := u.now()
	var s *subscription.BrokerSubscription

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := lockBroker(ctx, r, brokerID, now); err != nil {
			return err
		}
		q, err := pricing.QuoteBrokerCoupon(ctx, r.BrokerCoupons, brokerID, code, decimal.Zero, now)
		if err != nil {
			return err
		}
		if q.DiscountType != coupon.DiscountFreeTrial {
			return coupon.ErrNotApplicable
		}
		months := q.TrialMonths
		if months <= 0 {
			months = 1
		}

		couponID := q.CouponID
		s = &subscription.BrokerSubscription{
			SubscriptionID: id.NewID32(),
			BrokerID:       brokerID,
			PlanType:       subscription.PlanFreeTrial,
			Amount:         decimal.Zero,
			CouponID:       &couponID,
			MaxProperties:  u.settings.MaxProperties,
		}
		s.Activate(now, months)
		if err := r.Subscriptions.Create(ctx, s); err != nil {
			return err
		}
		return redeem(ctx, r, brokerID, couponID, s.ID, now)
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "free trial started", "broker_id", brokerID, "subscription_id", s.SubscriptionID, "end_date", s.EndDate)
	u.publish(ctx, event.SubscriptionActivated, s)
	return s, nil
}

// CreatePaidSubscription commits a PENDING subscription and then asks the gateway
// for an order. A broker coupon that discounts the plan to zero activates at once.
func (u *Usecase) CreatePaidSubscription(ctx context.Context, in CreatePaidInput) (*CheckoutDTO, error) {
	planType := subscription.PlanType(strings.ToUpper(strings.TrimSpace(in.PlanType)))
	plan, ok := u.settings.Plans[planType]
	if !ok || planType == subscription.PlanFreeTrial {
		return nil, subscription.ErrInvalidPlan
	}
	now := u.now()
	var s *subscription.BrokerSubscription

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := lockBroker(ctx, r, in.BrokerID, now); err != nil {
			return err
		}

		price := plan.Price
		var couponID *uint64
		if in.CouponCode != "" {
			q, err := pricing.QuoteBrokerCoupon(ctx, r.BrokerCoupons, in.BrokerID, in.CouponCode, plan.Price, now)
			if err != nil {
				return err
			}
			if q.DiscountType != coupon.DiscountPercentage && q.DiscountType != coupon.DiscountFixedAmount {
				return coupon.ErrNotApplicable
			}
			price = q.FinalPrice
			cid := q.CouponID
			couponID = &cid
		}

		s = &subscription.BrokerSubscription{
			SubscriptionID: id.NewID32(),
			BrokerID:       in.BrokerID,
			PlanType:       planType,
			Status:         subscription.StatusPending,
			Amount:         price,
			CouponID:       couponID,
			MaxProperties:  u.settings.MaxProperties,
		}
		if price.IsPositive() {
			return r.Subscriptions.Create(ctx, s)
		}

		s.Activate(now, plan.Months)
		if err := r.Subscriptions.Create(ctx, s); err != nil {
			return err
		}
		if couponID != nil {
			return redeem(ctx, r, in.BrokerID, *couponID, s.ID, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.Status == subscription.StatusActive {
		u.log.InfoContext(ctx, "subscription activated without payment", "broker_id", in.BrokerID, "subscription_id", s.SubscriptionID)
		u.publish(ctx, event.SubscriptionActivated, s)
		return &CheckoutDTO{Subscription: s, Free: true}, nil
	}

	order, err := u.gateway.CreateOrder(ctx, payment.OrderRequest{
		Amount:   s.Amount,
		Currency: u.settings.Currency,
		Receipt:  id.Receipt("sub", s.SubscriptionID),
		Notes: map[string]string{
			"subscription_id": s.SubscriptionID,
			"broker_id":       fmt.Sprint(s.BrokerID),
			"plan_type":       string(s.PlanType),
		},
	})
	if err != nil {
		u.log.ErrorContext(ctx, "subscription order creation failed", "subscription_id", s.SubscriptionID, "error", err)
		return nil, gatewayErr(err)
	}
	if err := u.repo.SetOrderID(ctx, s.ID, order.OrderID); err != nil {
		return nil, err
	}
	s.RazorpayOrderID = order.OrderID

	u.log.InfoContext(ctx, "subscription order created", "subscription_id", s.SubscriptionID, "order_id", order.OrderID, "amount", s.Amount.String())
	return &CheckoutDTO{Subscription: s, Order: order}, nil
}

// VerifyAndActivate flips PENDING -> ACTIVE once for a verified payment.
func (u *Usecase) VerifyAndActivate(ctx context.Context, in VerifyInput) (*subscription.BrokerSubscription, error) {
	if !u.gateway.VerifyPaymentSignature(in.OrderID, in.PaymentID, in.Signature) {
		return nil, payment.ErrSignatureInvalid
	}
	now := u.now()
	var (
		s         *subscription.BrokerSubscription
		activated bool
	)

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		cur, err := r.Subscriptions.GetByOrderIDForUpdate(ctx, in.OrderID)
		if err != nil {
			return mapNotFound(err, subscription.ErrNotFound)
		}
		s = cur
		switch s.Status {
		case subscription.StatusActive, subscription.StatusExpired:
			if s.RazorpayPaymentID == in.PaymentID {
				return nil
			}
			return subscription.ErrNotPending
		case subscription.StatusCancelled:
			return subscription.ErrNotPending
		}

		if _, err := r.Users.GetByIDForUpdate(ctx, s.BrokerID); err != nil {
			return mapNotFound(err, user.ErrNotFound)
		}
		if other, err := r.Subscriptions.GetActiveByBroker(ctx, s.BrokerID, now); err == nil && other.ID != s.ID {
			return subscription.ErrAlreadyActive
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		plan, ok := u.settings.Plans[s.PlanType]
		if !ok {
			return subscription.ErrInvalidPlan
		}
		s.RazorpayPaymentID = in.PaymentID
		s.FailureReason = ""
		s.Activate(now, plan.Months)
		if err := r.Subscriptions.Save(ctx, s); err != nil {
			return err
		}
		activated = true
		if s.CouponID == nil {
			return nil
		}
		used, err := r.BrokerCoupons.HasRedeemed(ctx, s.BrokerID, *s.CouponID)
		if err != nil {
			return err
		}
		if used {
			// paid at the quoted price already; keep the payment, skip the redemption
			u.log.WarnContext(ctx, "broker coupon redeemed elsewhere before payment", "subscription_id", s.SubscriptionID, "coupon_id", *s.CouponID)
			return nil
		}
		return redeem(ctx, r, s.BrokerID, *s.CouponID, s.ID, now)
	})
	if err != nil {
		return nil, err
	}
	if activated {
		u.log.InfoContext(ctx, "subscription activated", "subscription_id", s.SubscriptionID, "payment_id", in.PaymentID)
		u.publish(ctx, event.SubscriptionActivated, s)
	}
	return s, nil
}

// HandlePaymentFailure cancels the PENDING subscription for orderID, if any.
func (u *Usecase) HandlePaymentFailure(ctx context.Context, orderID, reason string) (bool, error) {
	changed := false
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Subscriptions.GetByOrderIDForUpdate(ctx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if s.Status != subscription.StatusPending {
			return nil
		}
		s.Status = subscription.StatusCancelled
		reason = truncateReason(reason, maxFailureReason)
		s.FailureReason = reason
		changed = true
		return r.Subscriptions.Save(ctx, s)
	})
	if err != nil {
		return false, err
	}
	if changed {
		u.log.InfoContext(ctx, "subscription payment failed", "order_id", orderID, "reason", reason)
	}
	return changed, nil
}

// ExpireSweep flips overdue ACTIVE subscriptions to EXPIRED. Running it again,
// or concurrently, changes nothing further.
func (u *Usecase) ExpireSweep(ctx context.Context, now time.Time) (int, error) {
	var expired []subscription.BrokerSubscription
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		rows, err := r.Subscriptions.ExpireBefore(ctx, now)
		expired = rows
		return err
	})
	if err != nil {
		return 0, err
	}
	for i := range expired {
		u.publish(ctx, event.SubscriptionExpired, &expired[i])
	}
	if len(expired) > 0 {
		u.log.InfoContext(ctx, "subscriptions expired", "count", len(expired))
	}
	return len(expired), nil
}

func (u *Usecase) GetActive(ctx context.Context, brokerID uint64) (*subscription.BrokerSubscription, error) {
	now := u.now()
	s, err := u.repo.GetActiveByBroker(ctx, brokerID, now)
	if err != nil {
		return nil, mapNotFound(err, subscription.ErrNoActive)
	}
	if !s.ActiveAt(now) {
		return nil, subscription.ErrNoActive
	}
	return s, nil
}

func (u *Usecase) History(ctx context.Context, brokerID uint64) ([]subscription.BrokerSubscription, error) {
	return u.repo.ListByBroker(ctx, brokerID)
}

func (u *Usecase) CanPostProperty(ctx context.Context, brokerID uint64) (*QuotaDTO, error) {
	s, err := u.GetActive(ctx, brokerID)
	if errors.Is(err, subscription.ErrNoActive) {
		return &QuotaDTO{}, nil
	}
	if err != nil {
		return nil, err
	}
	return quotaOf(s), nil
}

// IncrementPropertiesPosted consumes one posting slot with a compare-and-increment.
func (u *Usecase) IncrementPropertiesPosted(ctx context.Context, brokerID uint64) (*QuotaDTO, error) {
	s, err := u.GetActive(ctx, brokerID)
	if err != nil {
		return nil, err
	}
	ok, err := u.repo.IncrementPosted(ctx, s.ID, u.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, subscription.ErrQuotaExceeded
	}
	s.PropertiesPosted++
	return quotaOf(s), nil
}

// lockBroker takes the broker row lock that serialises subscription changes and
// rejects brokers that already hold an active subscription.
func lockBroker(ctx context.Context, r uow.Repos, brokerID uint64, now time.Time) error {
	b, err := r.Users.GetByIDForUpdate(ctx, brokerID)
	if err != nil {
		return mapNotFound(err, user.ErrNotFound)
	}
	if b.Role != user.RoleBroker {
		return user.ErrNotBroker
	}
	_, err = r.Subscriptions.GetActiveByBroker(ctx, brokerID, now)
	switch {
	case err == nil:
		return subscription.ErrAlreadyActive
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return err
	}
}

func redeem(ctx context.Context, r uow.Repos, brokerID, couponID, subscriptionID uint64, now time.Time) error {
	if err := r.BrokerCoupons.RecordRedemption(ctx, &coupon.BrokerUsage{
		BrokerID:       brokerID,
		CouponID:       couponID,
		SubscriptionID: subscriptionID,
		RedeemedAt:     now,
	}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return coupon.ErrAlreadyRedeemed
		}
		return err
	}
	return r.BrokerCoupons.IncrementUsage(ctx, couponID)
}

func (u *Usecase) publish(ctx context.Context, kind string, s *subscription.BrokerSubscription) {
	if u.events == nil {
		return
	}
	err := u.events.Publish(ctx, event.Event{
		Type:       kind,
		OccurredAt: u.now(),
		Payload: map[string]any{
			"subscription_id": s.SubscriptionID,
			"broker_id":       s.BrokerID,
			"plan_type":       s.PlanType,
			"status":          s.Status,
			"end_date":        s.EndDate,
		},
	})
	if err != nil {
		u.log.WarnContext(ctx, "publish event failed", "type", kind, "subscription_id", s.SubscriptionID, "error", err)
	}
}

// maxFailureReason is the width of the failure_reason column.
const maxFailureReason = 255

// truncateReason cuts s to at most n bytes without splitting a rune.
func truncateReason(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func mapNotFound(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

func gatewayErr(err error) error {
	if errors.Is(err, errs.ErrPaymentGateway) {
		return err
	}
	return fmt.Errorf("%w: %v", payment.ErrGateway, err)
}
