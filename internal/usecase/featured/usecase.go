package featured

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"realestate-backend/internal/domain/coupon"
	"realestate-backend/internal/domain/errs"
	"realestate-backend/internal/domain/event"
	"realestate-backend/internal/domain/featured"
	"realestate-backend/internal/domain/payment"
	"realestate-backend/internal/domain/property"
	"realestate-backend/internal/domain/uow"
	"realestate-backend/internal/usecase/pricing"
	"realestate-backend/pkg/id"

	"gorm.io/gorm"
)

var ErrInvalidDuration = fmt.Errorf("invalid featured duration: %w", errs.ErrInvalidState)

type Usecase struct {
	repo       featured.Repository
	properties property.Repository
	uow        uow.UnitOfWork
	gateway    payment.Gateway
	events     event.Publisher
	pricing    Pricing
	log        *slog.Logger
	now        func() time.Time
}

func NewUsecase(
	repo featured.Repository,
	properties property.Repository,
	tx uow.UnitOfWork,
	gateway payment.Gateway,
	events event.Publisher,
	p Pricing,
	log *slog.Logger,
) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	if p.DefaultMonths <= 0 {
		p.DefaultMonths = 3
	}
	return &Usecase{
		repo:       repo,
		properties: properties,
		uow:        tx,
		gateway:    gateway,
		events:     events,
		pricing:    p,
		log:        log.With("component", "featured"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Apply buys a featured slot. An invalid coupon rejects the purchase; there is
// no silent fallback to the full price. A zero final price activates at once,
// otherwise a PENDING row is committed before the gateway order is requested.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*ApplyResult, error) {
	months := in.DurationMonths
	if months == 0 {
		months = u.pricing.DefaultMonths
	}
	if months < 0 || (u.pricing.MaxMonths > 0 && months > u.pricing.MaxMonths) {
		return nil, ErrInvalidDuration
	}
	now := u.now()
	var f *featured.FeaturedProperty

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// property row is the per-property mutex for the one-active rule
		p, err := r.Properties.GetByIDForUpdate(ctx, in.PropertyID)
		if err != nil {
			return mapNotFound(err, property.ErrNotFound)
		}
		if !p.IsActive {
			return property.ErrDeleted
		}
		if _, err := r.Featured.GetActiveByProperty(ctx, p.ID, now); err == nil {
			return featured.ErrAlreadyFeatured
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		quote := pricing.NoDiscount(u.pricing.BasePrice)
		var couponID *uint64
		couponCode := ""
		if in.CouponCode != "" {
			q, err := pricing.QuoteCoupon(ctx, r.Coupons, in.CouponCode, u.pricing.BasePrice, now)
			if err != nil {
				return err
			}
			quote = q.Discount
			cid := q.CouponID
			couponID = &cid
			couponCode = q.Code
		}

		f = &featured.FeaturedProperty{
			FeaturedID:     id.NewID32(),
			PropertyID:     p.ID,
			UserID:         in.UserID,
			OriginalPrice:  quote.OrderValue,
			DiscountAmount: quote.DiscountAmount,
			FinalPrice:     quote.FinalPrice,
			CouponID:       couponID,
			CouponCode:     couponCode,
			DurationMonths: months,
			PaymentStatus:  featured.PaymentPending,
		}
		if !quote.Free() {
			return r.Featured.Create(ctx, f)
		}

		f.Activate(featured.PaymentFree, now)
		if err := r.Featured.Create(ctx, f); err != nil {
			return err
		}
		if err := r.Properties.SetFeatured(ctx, p.ID, true); err != nil {
			return err
		}
		if couponID != nil {
			return r.Coupons.IncrementUsage(ctx, *couponID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if f.PaymentStatus == featured.PaymentFree {
		u.log.InfoContext(ctx, "featured activated for free", "featured_id", f.FeaturedID, "property_id", f.PropertyID)
		u.publishActivated(ctx, f)
		return &ApplyResult{Featured: toDTO(f, now), Free: true}, nil
	}

	order, err := u.gateway.CreateOrder(ctx, payment.OrderRequest{
		Amount:   f.FinalPrice,
		Currency: u.pricing.Currency,
		Receipt:  id.Receipt("feat", f.FeaturedID),
		Notes: map[string]string{
			"featured_id": f.FeaturedID,
			"property_id": fmt.Sprint(f.PropertyID),
			"user_id":     fmt.Sprint(f.UserID),
		},
	})
	if err != nil {
		// row stays PENDING; nothing was activated
		u.log.ErrorContext(ctx, "featured order creation failed", "featured_id", f.FeaturedID, "error", err)
		return nil, gatewayErr(err)
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		cur, err := r.Featured.GetByFeaturedIDForUpdate(ctx, f.FeaturedID)
		if err != nil {
			return err
		}
		cur.OrderID = order.OrderID
		if err := r.Featured.Save(ctx, cur); err != nil {
			return err
		}
		f = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "featured order created", "featured_id", f.FeaturedID, "order_id", order.OrderID, "amount", f.FinalPrice.String())
	return &ApplyResult{Featured: toDTO(f, now), Order: order}, nil
}

// CompletePayment latches PENDING -> COMPLETED once. Repeating the call for a
// settled row returns it unchanged and redeems nothing.
func (u *Usecase) CompletePayment(ctx context.Context, in CompletePaymentInput) (*FeaturedDTO, error) {
	if !u.gateway.VerifyPaymentSignature(in.OrderID, in.PaymentID, in.Signature) {
		return nil, payment.ErrSignatureInvalid
	}
	now := u.now()

	head, err := u.repo.GetByFeaturedID(ctx, in.FeaturedID)
	if err != nil {
		return nil, mapNotFound(err, featured.ErrNotFound)
	}

	var (
		out       *featured.FeaturedProperty
		cancelled bool
		activated bool
	)
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// property before featured row: same lock order as Apply
		p, err := r.Properties.GetByIDForUpdate(ctx, head.PropertyID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p = nil
		} else if err != nil {
			return err
		}
		f, err := r.Featured.GetByFeaturedIDForUpdate(ctx, in.FeaturedID)
		if err != nil {
			return mapNotFound(err, featured.ErrNotFound)
		}
		out = f
		// a row whose order was never created cannot be settled by any order
		if f.OrderID != in.OrderID {
			return featured.ErrOrderMismatch
		}

		switch f.PaymentStatus {
		case featured.PaymentCompleted, featured.PaymentFree:
			return nil
		case featured.PaymentCancelled:
			return featured.ErrCancelled
		}

		f.PaymentID = in.PaymentID
		if p == nil || !p.IsActive {
			// property went away while the payment was in flight
			f.IsActive = false
			f.PaymentStatus = featured.PaymentCancelled
			cancelled = true
			return r.Featured.Save(ctx, f)
		}

		if other, err := r.Featured.GetActiveByProperty(ctx, p.ID, now); err == nil && other.ID != f.ID {
			return featured.ErrAlreadyFeatured
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		f.Activate(featured.PaymentCompleted, now)
		if err := r.Featured.Save(ctx, f); err != nil {
			return err
		}
		if err := r.Properties.SetFeatured(ctx, p.ID, true); err != nil {
			return err
		}
		if f.CouponID != nil {
			if err := r.Coupons.IncrementUsage(ctx, *f.CouponID); err != nil {
				// already paid at the quoted price; the limit only gates new quotes
				if !errors.Is(err, coupon.ErrUsageLimitReached) {
					return err
				}
				u.log.WarnContext(ctx, "coupon limit reached at payment completion", "featured_id", f.FeaturedID, "coupon_id", *f.CouponID)
			}
		}
		activated = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cancelled {
		u.log.WarnContext(ctx, "featured cancelled: property deleted before payment completed", "featured_id", out.FeaturedID, "payment_id", in.PaymentID)
		return nil, property.ErrDeleted
	}
	if activated {
		u.log.InfoContext(ctx, "featured payment completed", "featured_id", out.FeaturedID, "payment_id", in.PaymentID)
		u.publishActivated(ctx, out)
	}
	return toDTO(out, now), nil
}

// Cancel is a soft cancel by the purchaser; the row is kept for history.
func (u *Usecase) Cancel(ctx context.Context, featuredID string, userID uint64) (*FeaturedDTO, error) {
	head, err := u.repo.GetByFeaturedID(ctx, featuredID)
	if err != nil {
		return nil, mapNotFound(err, featured.ErrNotFound)
	}
	if head.UserID != userID {
		return nil, featured.ErrNotOwner
	}
	now := u.now()
	var out *featured.FeaturedProperty

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Properties.GetByIDForUpdate(ctx, head.PropertyID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		f, err := r.Featured.GetByFeaturedIDForUpdate(ctx, featuredID)
		if err != nil {
			return mapNotFound(err, featured.ErrNotFound)
		}
		out = f
		return cancelRow(ctx, r, f, now)
	})
	if err != nil {
		return nil, err
	}
	u.log.InfoContext(ctx, "featured cancelled", "featured_id", featuredID, "user_id", userID)
	return toDTO(out, now), nil
}

// IsActive evaluates activity at read time. A promotion whose property has been
// soft-deleted is force-cancelled on the way.
func (u *Usecase) IsActive(ctx context.Context, propertyID uint64) (*ActivityDTO, error) {
	now := u.now()
	out := &ActivityDTO{PropertyID: propertyID}

	f, err := u.repo.GetActiveByProperty(ctx, propertyID, now)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	p, err := u.properties.GetByID(ctx, propertyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p = nil
	} else if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		if cerr := u.forceCancel(ctx, f.FeaturedID, propertyID, now); cerr != nil {
			return nil, cerr
		}
		return out, nil
	}

	if f.ActiveAt(now) {
		out.Active = true
		out.FeaturedID = f.FeaturedID
		out.FeaturedUntil = f.FeaturedUntil
	}
	return out, nil
}

func (u *Usecase) forceCancel(ctx context.Context, featuredID string, propertyID uint64, now time.Time) error {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Properties.GetByIDForUpdate(ctx, propertyID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		f, err := r.Featured.GetByFeaturedIDForUpdate(ctx, featuredID)
		if err != nil {
			return err
		}
		return cancelRow(ctx, r, f, now)
	})
	if err == nil {
		u.log.WarnContext(ctx, "featured force-cancelled: property deleted", "featured_id", featuredID, "property_id", propertyID)
	}
	return err
}

func (u *Usecase) Get(ctx context.Context, featuredID string) (*FeaturedDTO, error) {
	f, err := u.repo.GetByFeaturedID(ctx, featuredID)
	if err != nil {
		return nil, mapNotFound(err, featured.ErrNotFound)
	}
	return toDTO(f, u.now()), nil
}

func (u *Usecase) ListActive(ctx context.Context) ([]FeaturedDTO, error) {
	now := u.now()
	rows, err := u.repo.ListActive(ctx, now)
	if err != nil {
		return nil, err
	}
	return toDTOs(rows, now), nil
}

func (u *Usecase) ListByUser(ctx context.Context, userID uint64) ([]FeaturedDTO, error) {
	now := u.now()
	rows, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDTOs(rows, now), nil
}

// cancelRow deactivates f and clears the property flag when nothing else is
// featuring it. Already-inactive settled rows are left as they are.
func cancelRow(ctx context.Context, r uow.Repos, f *featured.FeaturedProperty, now time.Time) error {
	if !f.IsActive && f.PaymentStatus != featured.PaymentPending {
		return nil
	}
	f.IsActive = false
	if f.PaymentStatus == featured.PaymentPending {
		f.PaymentStatus = featured.PaymentCancelled
	}
	if err := r.Featured.Save(ctx, f); err != nil {
		return err
	}
	_, err := r.Featured.GetActiveByProperty(ctx, f.PropertyID, now)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.Properties.SetFeatured(ctx, f.PropertyID, false)
	default:
		return err
	}
}

func (u *Usecase) publishActivated(ctx context.Context, f *featured.FeaturedProperty) {
	if u.events == nil {
		return
	}
	err := u.events.Publish(ctx, event.Event{
		Type:       event.FeaturedActivated,
		OccurredAt: u.now(),
		Payload: map[string]any{
			"featured_id":    f.FeaturedID,
			"property_id":    f.PropertyID,
			"user_id":        f.UserID,
			"payment_status": f.PaymentStatus,
			"featured_until": f.FeaturedUntil,
		},
	})
	if err != nil {
		u.log.WarnContext(ctx, "publish featured.activated failed", "featured_id", f.FeaturedID, "error", err)
	}
}

func toDTOs(rows []featured.FeaturedProperty, now time.Time) []FeaturedDTO {
	out := make([]FeaturedDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i], now))
	}
	return out
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
