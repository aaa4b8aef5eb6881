package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		kind  DiscountKind
		value string
		want  string
	}{
		{"no kind returns base", "1000", "", "10", "1000"},
		{"zero value returns base", "1000", DiscountKindPercentage, "0", "1000"},
		{"negative value returns base", "1000", DiscountKindFixed, "-5", "1000"},
		{"unknown kind returns base", "1000", DiscountKind("bogus"), "10", "1000"},
		{"ten percent off", "1000", DiscountKindPercentage, "10", "900"},
		{"fixed amount off", "1000", DiscountKindFixed, "250", "750"},
		{"percentage over hundred clamps to zero", "1000", DiscountKindPercentage, "150", "0"},
		{"fixed over base clamps to zero", "100", DiscountKindFixed, "500", "0"},
		{"fractional percentage", "999", DiscountKindPercentage, "12.5", "874.125"},
		{"zero base stays zero", "0", DiscountKindPercentage, "50", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountedPrice(d(tt.base), tt.kind, d(tt.value))
			assert.True(t, got.Equal(d(tt.want)), "got %s, want %s", got, tt.want)
			assert.False(t, got.IsNegative())
		})
	}
}

func TestDiscountRecompute(t *testing.T) {
	disc := Discount{Kind: DiscountKindPercentage, Value: d("10")}
	disc.Recompute(d("1000"))
	assert.True(t, disc.DiscountedPrice.Equal(d("900")))

	disc.Value = d("200")
	disc.Recompute(d("100"))
	assert.True(t, disc.DiscountedPrice.Equal(d("0")), "discounted price must clamp at zero")
}

func TestProductEffectivePrice(t *testing.T) {
	p := Product{Price: d("1000")}
	assert.True(t, p.EffectivePrice().Equal(d("1000")), "no discount keeps base price")

	p.Discount = &Discount{Kind: DiscountKindPercentage, Value: d("10")}
	assert.True(t, p.EffectivePrice().Equal(d("900")))
}

func TestProductColorSizeList(t *testing.T) {
	pc := ProductColor{Sizes: "S, M ,L,,XL"}
	assert.Equal(t, []string{"S", "M", "L", "XL"}, pc.SizeList())

	empty := ProductColor{}
	assert.Nil(t, empty.SizeList())
}
