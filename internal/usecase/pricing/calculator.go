package pricing

import (
	"realestate-backend/internal/domain/coupon"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Discount is the outcome of applying one rule to an order value.
type Discount struct {
	OrderValue     decimal.Decimal `json:"order_value"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalPrice     decimal.Decimal `json:"final_price"`
}

// Free reports whether nothing is left to pay.
func (d Discount) Free() bool { return !d.FinalPrice.IsPositive() }

// Calculate applies rule to orderValue. The discount never exceeds the order
// value, so the final price is floored at zero. Amounts are rounded to 2 places.
func Calculate(rule coupon.Rule, orderValue decimal.Decimal) Discount {
	var amount decimal.Decimal
	switch rule.DiscountType {
	case coupon.DiscountPercentage:
		amount = orderValue.Mul(rule.DiscountValue).Div(hundred)
		if rule.MaxDiscount != nil && amount.GreaterThan(*rule.MaxDiscount) {
			amount = *rule.MaxDiscount
		}
	case coupon.DiscountFlat, coupon.DiscountFixedAmount:
		amount = rule.DiscountValue
	case coupon.DiscountFreeTrial:
		amount = orderValue
	}

	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if amount.GreaterThan(orderValue) {
		amount = orderValue
	}
	amount = amount.Round(2)

	return Discount{
		OrderValue:     orderValue,
		DiscountAmount: amount,
		FinalPrice:     orderValue.Sub(amount),
	}
}

// NoDiscount is the quote for a purchase without a coupon.
func NoDiscount(orderValue decimal.Decimal) Discount {
	return Discount{OrderValue: orderValue, DiscountAmount: decimal.Zero, FinalPrice: orderValue}
}
