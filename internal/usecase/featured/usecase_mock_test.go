package featured_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"realestate-backend/internal/domain/event"
	"realestate-backend/internal/domain/featured"
	"realestate-backend/internal/domain/property"
	"realestate-backend/internal/domain/uow"
	"realestate-backend/internal/testutil/eventmock"
	"realestate-backend/internal/testutil/featuredmock"
	"realestate-backend/internal/testutil/paymentmock"
	"realestate-backend/internal/testutil/propertymock"
	"realestate-backend/internal/testutil/uowmock"
	featuredUC "realestate-backend/internal/usecase/featured"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestCompletePayment_WriteFailuresSkipMirror(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	errDisk := errors.New("disk full")

	pendingRow := func() *featured.FeaturedProperty {
		return &featured.FeaturedProperty{
			ID:            12,
			FeaturedID:    "FP-12",
			PropertyID:    4,
			UserID:        2,
			OrderID:       "order_1",
			PaymentStatus: featured.PaymentPending,
			FinalPrice:    decimal.NewFromInt(999),
		}
	}

	tests := []struct {
		name        string
		saveErr     error
		mirrorErr   error
		wantErr     error
		wantMirrors int
	}{
		{name: "save after activate fails", saveErr: errDisk, wantErr: errDisk, wantMirrors: 0},
		{name: "property mirror fails", mirrorErr: errDisk, wantErr: errDisk, wantMirrors: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var saved []featured.FeaturedProperty
			repo := &featuredmock.Repo{
				GetByFeaturedIDFn:          func(ctx context.Context, featuredID string) (*featured.FeaturedProperty, error) { return pendingRow(), nil },
				GetByFeaturedIDForUpdateFn: func(ctx context.Context, featuredID string) (*featured.FeaturedProperty, error) { return pendingRow(), nil },
				GetActiveByPropertyFn: func(ctx context.Context, propertyID uint64, now time.Time) (*featured.FeaturedProperty, error) {
					return nil, gorm.ErrRecordNotFound
				},
				SaveFn: func(ctx context.Context, f *featured.FeaturedProperty) error {
					if f.PaymentStatus != featured.PaymentCompleted || !f.IsActive {
						t.Fatalf("saved row not activated: %+v", f)
					}
					saved = append(saved, *f)
					return tt.saveErr
				},
			}
			mirrors := 0
			props := &propertymock.Repo{
				GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*property.Property, error) {
					return &property.Property{ID: id, IsActive: true}, nil
				},
				SetFeaturedFn: func(ctx context.Context, id uint64, on bool) error {
					if id != 4 || !on {
						t.Fatalf("unexpected mirror: %d %v", id, on)
					}
					mirrors++
					return tt.mirrorErr
				},
			}
			events := &eventmock.Recorder{}
			tx := uowmock.Passthrough(uow.Repos{Featured: repo, Properties: props})
			uc := featuredUC.NewUsecase(repo, props, tx, &paymentmock.Gateway{}, events,
				featuredUC.Pricing{BasePrice: decimal.NewFromInt(999), DefaultMonths: 3, MaxMonths: 12, Currency: "INR"}, nil,
			).WithClock(func() time.Time { return now })

			_, err := uc.CompletePayment(context.Background(), featuredUC.CompletePaymentInput{
				FeaturedID: "FP-12",
				OrderID:    "order_1",
				PaymentID:  "pay_1",
				Signature:  paymentmock.Sig("order_1", "pay_1"),
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
			if len(saved) != 1 {
				t.Fatalf("want one save attempt, got %d", len(saved))
			}
			if mirrors != tt.wantMirrors {
				t.Fatalf("SetFeatured calls = %d, want %d", mirrors, tt.wantMirrors)
			}
			if n := events.Count(event.FeaturedActivated); n != 0 {
				t.Fatalf("activation published despite failed tx: %d", n)
			}
		})
	}
}
