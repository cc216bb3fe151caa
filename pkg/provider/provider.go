package provider

import (
	"context"
	"net/http"
)

// Product is the slice of the storefront's product record the
// customization pipeline needs. The full record (SEO fields, category
// links, stock) lives in the backend and never crosses this boundary.
type Product struct {
	ID              string
	Name            string
	BasePrice       float64 // list price per square meter
	DiscountPercent float64 // 0 when no percentage discount applies
	DiscountAmount  float64 // discounted unit price; 0 when unset
	ImageURL        string  // main product photo at natural resolution
}

// MaterialOption is one printable material (paper type) offered for a
// product. Selecting a material overrides the product's own discounted
// unit price for area pricing.
type MaterialOption struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	BasePrice        float64  `json:"base_price"`
	UnitPricePerM2   float64  `json:"unit_price_per_m2"`
	DescriptionLines []string `json:"description_lines"`
	ImageURL         string   `json:"image_url,omitempty"`
}

// CartLine is the purchasable line item produced by a commit. It is a
// snapshot: a new commit produces a new CartLine.
type CartLine struct {
	ID              string   `json:"id"`
	ProductID       string   `json:"product_id"`
	UnitPrice       float64  `json:"unit_price"`
	Total           float64  `json:"total"`
	WidthCm         float64  `json:"width_cm"`
	HeightCm        float64  `json:"height_cm"`
	MaterialID      string   `json:"material_id"`
	CroppingEnabled bool     `json:"cropping_enabled"`
	ImageRef        string   `json:"image_ref"`
	AttributeLabels []string `json:"attribute_labels"`
}

// ProductSource resolves product records from the storefront backend.
type ProductSource interface {
	// Name returns the source name for logging.
	Name() string
	// GetProduct fetches one product by ID.
	GetProduct(ctx context.Context, productID string) (Product, error)
}

// MaterialCatalog lists the materials offered for a product. A failed
// fetch is non-fatal to the customization flow: the UI proceeds with an
// empty list and commit stays blocked until a material is available.
type MaterialCatalog interface {
	Name() string
	FetchMaterials(ctx context.Context, productID string) ([]MaterialOption, error)
}

// UploadSink accepts an encoded image payload for a product context and
// returns a stable reference URL. Retry and timeout policy belong to
// the sink, not the caller.
type UploadSink interface {
	Upload(ctx context.Context, productID string, payload []byte, contentType string) (string, error)
}

// CartSink accepts completed cart lines, one at a time.
type CartSink interface {
	Append(ctx context.Context, line CartLine) error
}

// HeaderProvider is an optional interface for sources that need custom
// headers on image downloads.
type HeaderProvider interface {
	GetDownloadHeaders() map[string]string
}

// CustomClientProvider is an optional interface for sources that manage
// their own HTTP client (custom auth transport, etc).
type CustomClientProvider interface {
	GetClient() *http.Client
}
