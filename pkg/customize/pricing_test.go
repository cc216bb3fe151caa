package customize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dixieflatline76/Muralist/pkg/provider"
)

func TestQuote_PercentageDiscount(t *testing.T) {
	// Base price 100, 20% off, 200x100 cm: unit 80/m², area 2 m², total 160.
	dim := Dimension{WidthCm: 200, HeightCm: 100}
	discount := Discount{Kind: DiscountPercentage, Percentage: 20}

	result := Quote(dim, discount, 100, nil)

	assert.Equal(t, 2.0, result.AreaM2)
	assert.InDelta(t, 80.0, result.UnitPrice, 1e-9)
	assert.InDelta(t, 160.0, result.Total, 1e-9)
}

func TestQuote_FixedAmountDiscount(t *testing.T) {
	dim := Dimension{WidthCm: 100, HeightCm: 100}
	discount := Discount{Kind: DiscountFixedAmount, Amount: 55}

	result := Quote(dim, discount, 100, nil)

	assert.Equal(t, 1.0, result.AreaM2)
	assert.Equal(t, 55.0, result.UnitPrice)
	assert.Equal(t, 55.0, result.Total)
}

func TestQuote_NoDiscount(t *testing.T) {
	result := Quote(Dimension{WidthCm: 50, HeightCm: 200}, Discount{}, 120, nil)

	assert.Equal(t, 1.0, result.AreaM2)
	assert.Equal(t, 120.0, result.UnitPrice)
	assert.Equal(t, 120.0, result.Total)
}

func TestQuote_MaterialOverride(t *testing.T) {
	// A selected material overrides the discounted unit price entirely.
	dim := Dimension{WidthCm: 200, HeightCm: 100}
	discount := Discount{Kind: DiscountPercentage, Percentage: 20}
	material := &provider.MaterialOption{ID: "m1", Name: "Vinyl", UnitPricePerM2: 150}

	result := Quote(dim, discount, 100, material)

	assert.Equal(t, 150.0, result.UnitPrice)
	assert.InDelta(t, 300.0, result.Total, 1e-9)
}

func TestQuote_IncompleteDimension(t *testing.T) {
	tests := []struct {
		name string
		dim  Dimension
	}{
		{"both zero", Dimension{}},
		{"zero width", Dimension{HeightCm: 100}},
		{"zero height", Dimension{WidthCm: 100}},
		{"negative width", Dimension{WidthCm: -10, HeightCm: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Quote(tt.dim, Discount{}, 100, nil)
			assert.Equal(t, 0.0, result.AreaM2)
			assert.Equal(t, 0.0, result.Total)
			assert.False(t, tt.dim.Complete())
		})
	}
}

func TestDiscountOf_PercentagePrecedence(t *testing.T) {
	// When source data carries both fields, percentage wins.
	p := provider.Product{BasePrice: 100, DiscountPercent: 10, DiscountAmount: 42}
	d := DiscountOf(p)

	assert.Equal(t, DiscountPercentage, d.Kind)
	assert.InDelta(t, 90.0, d.UnitPrice(p.BasePrice), 1e-9)
}

func TestDiscountOf_Shapes(t *testing.T) {
	assert.Equal(t, DiscountNone, DiscountOf(provider.Product{BasePrice: 100}).Kind)
	assert.Equal(t, DiscountFixedAmount, DiscountOf(provider.Product{BasePrice: 100, DiscountAmount: 42}).Kind)
}
