package customize

import "github.com/dixieflatline76/Muralist/pkg/provider"

// Dimension holds user-entered wall measurements in centimeters. The
// zero value is the natural initial state, not an error.
type Dimension struct {
	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`
}

// Complete reports whether both measurements are strictly positive.
func (d Dimension) Complete() bool {
	return d.WidthCm > 0 && d.HeightCm > 0
}

// Ratio returns widthCm/heightCm. Only meaningful when Complete.
func (d Dimension) Ratio() float64 {
	return d.WidthCm / d.HeightCm
}

// AreaM2 returns the wall area in square meters, 0 when incomplete.
func (d Dimension) AreaM2() float64 {
	if !d.Complete() {
		return 0
	}
	return d.WidthCm * d.HeightCm / 10000
}

// DiscountKind tags the active discount shape of a product.
type DiscountKind int

const (
	// DiscountNone leaves the base price untouched.
	DiscountNone DiscountKind = iota
	// DiscountPercentage reduces the base price by a percentage.
	DiscountPercentage
	// DiscountFixedAmount replaces the base price outright.
	DiscountFixedAmount
)

// Discount is a tagged variant; exactly one shape is active at a time.
type Discount struct {
	Kind       DiscountKind
	Percentage float64 // 0..100, DiscountPercentage only
	Amount     float64 // DiscountFixedAmount only
}

// DiscountOf derives the tagged discount from a product record, where
// the shape is implied by which field is non-zero. When both are set,
// percentage wins. That tie-break matches long-standing storefront
// behavior; whether a product may legitimately carry both is an open
// question tracked in DESIGN.md.
func DiscountOf(p provider.Product) Discount {
	switch {
	case p.DiscountPercent > 0:
		return Discount{Kind: DiscountPercentage, Percentage: p.DiscountPercent}
	case p.DiscountAmount > 0:
		return Discount{Kind: DiscountFixedAmount, Amount: p.DiscountAmount}
	default:
		return Discount{Kind: DiscountNone}
	}
}

// UnitPrice resolves the per-square-meter price from the discount
// against a base price.
func (d Discount) UnitPrice(basePrice float64) float64 {
	switch d.Kind {
	case DiscountPercentage:
		return basePrice * (1 - d.Percentage/100)
	case DiscountFixedAmount:
		return d.Amount
	default:
		return basePrice
	}
}

// PriceResult is the live pricing feedback for one (dimension,
// discount, material) input set.
type PriceResult struct {
	AreaM2    float64 `json:"area_m2"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Quote prices a dimension. A selected material overrides the
// product's own discounted unit price. Pure: callers re-invoke it on
// every keystroke and material change instead of caching the result,
// so the displayed price is never stale relative to the inputs.
func Quote(dim Dimension, discount Discount, basePrice float64, material *provider.MaterialOption) PriceResult {
	unit := discount.UnitPrice(basePrice)
	if material != nil {
		unit = material.UnitPricePerM2
	}
	area := dim.AreaM2()
	return PriceResult{
		AreaM2:    area,
		UnitPrice: unit,
		Total:     area * unit,
	}
}
