package models

import (
	"github.com/shopspring/decimal"
)

type DiscountKind string

const (
	DiscountKindPercentage DiscountKind = "percentage"
	DiscountKindFixed      DiscountKind = "fixed"
)

type Discount struct {
	ID              uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID       uint            `gorm:"uniqueIndex;not null" json:"product_id"` // at most one discount per product
	Kind            DiscountKind    `gorm:"type:VARCHAR(20);not null" json:"kind"`
	Value           decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"value"`
	DiscountedPrice decimal.Decimal `gorm:"type:decimal(16,2)" json:"discounted_price"`
}

var oneHundred = decimal.NewFromInt(100)

// DiscountedPrice applies a discount to a base price. A missing kind or a
// non-positive value leaves the price untouched. The result never goes
// below zero.
func DiscountedPrice(base decimal.Decimal, kind DiscountKind, value decimal.Decimal) decimal.Decimal {
	if kind == "" || value.LessThanOrEqual(decimal.Zero) {
		return base
	}

	var out decimal.Decimal
	switch kind {
	case DiscountKindPercentage:
		out = base.Sub(base.Mul(value).Div(oneHundred))
	case DiscountKindFixed:
		out = base.Sub(value)
	default:
		return base
	}

	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// Recompute refreshes the cached DiscountedPrice from the owning
// product's current base price. Called whenever an admin applies or
// updates the discount.
func (d *Discount) Recompute(basePrice decimal.Decimal) {
	d.DiscountedPrice = DiscountedPrice(basePrice, d.Kind, d.Value)
}
