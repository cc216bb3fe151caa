package customize

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/google/uuid"

	"github.com/dixieflatline76/Muralist/pkg/provider"
	"github.com/dixieflatline76/Muralist/util/log"
)

// Session is the event-driven orchestrator for one customer
// customizing one product. All derived state (quote, display fit, crop
// rect) is recomputed from source-of-truth inputs on every event, never
// patched in place, so reloads and resizes cannot desynchronize the
// crop from the image.
type Session struct {
	mu sync.Mutex

	id       string
	product  provider.Product
	discount Discount

	widthRaw  string
	heightRaw string
	dim       Dimension
	material  *provider.MaterialOption

	maxDimensionCm float64

	container Box
	natural   NaturalSize
	src       image.Image
	fit       DisplayFit
	fitValid  bool

	crop      CropRect
	cropValid bool
	drag      gesture

	croppingEnabled bool
	quote           PriceResult
}

// NewSession starts a customization session for a product.
func NewSession(product provider.Product) *Session {
	s := &Session{
		id:              uuid.NewString(),
		product:         product,
		discount:        DiscountOf(product),
		croppingEnabled: true,
	}
	s.quote = Quote(s.dim, s.discount, product.BasePrice, nil)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Product returns the product under customization.
func (s *Session) Product() provider.Product {
	return s.product
}

// SetDimensionLimit caps accepted measurements at cm per axis. Zero
// means unlimited.
func (s *Session) SetDimensionLimit(cm float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxDimensionCm = cm
}

// SetDimensionInput applies raw dimension keystrokes. Invalid or
// over-limit strings are refused without touching state; valid ones
// are normalized, repriced, and the crop rect is re-derived
// (re-centered, discarding any drag offset).
func (s *Session) SetDimensionInput(widthRaw, heightRaw string) error {
	if !ValidInput(widthRaw) || !ValidInput(heightRaw) {
		return fmt.Errorf("rejected dimension input %q x %q", widthRaw, heightRaw)
	}
	dim := Dimension{WidthCm: Normalize(widthRaw), HeightCm: Normalize(heightRaw)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxDimensionCm > 0 && (dim.WidthCm > s.maxDimensionCm || dim.HeightCm > s.maxDimensionCm) {
		return fmt.Errorf("dimension exceeds %g cm limit", s.maxDimensionCm)
	}
	s.widthRaw = widthRaw
	s.heightRaw = heightRaw
	s.dim = dim
	s.recomputeLocked()
	return nil
}

// SelectMaterial sets the material override and reprices.
func (s *Session) SelectMaterial(m *provider.MaterialOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.material = m
	s.recomputeLocked()
}

// SetCropping toggles whether commit rasterizes the crop region.
func (s *Session) SetCropping(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.croppingEnabled = enabled
}

// ImageLoaded installs the decoded source image and recomputes the
// display fit. A failed decode (zero natural size) keeps the previous
// fit untouched and only logs a warning.
func (s *Session) ImageLoaded(src image.Image, natural NaturalSize) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if natural.Width <= 0 || natural.Height <= 0 {
		log.Printf("Warning: session %s: image decode produced %dx%d, keeping previous fit", s.id, natural.Width, natural.Height)
		return
	}
	s.src = src
	s.natural = natural
	s.refitLocked()
}

// ContainerResized recomputes the display fit for a new container box.
func (s *Session) ContainerResized(container Box) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.container = container
	s.refitLocked()
}

// refitLocked replaces the display fit wholesale and re-derives the
// crop. Caller must hold s.mu.
func (s *Session) refitLocked() {
	if s.natural.Width <= 0 || s.container.Width <= 0 {
		return
	}
	fit, err := Fit(s.container, s.natural)
	if err != nil {
		log.Printf("Warning: session %s: %v", s.id, err)
		return
	}
	s.fit = fit
	s.fitValid = true
	s.recomputeLocked()
}

// recomputeLocked refreshes quote and crop from current inputs.
// Caller must hold s.mu.
func (s *Session) recomputeLocked() {
	s.quote = Quote(s.dim, s.discount, s.product.BasePrice, s.material)
	if s.fitValid {
		s.crop, s.cropValid = DeriveCrop(s.dim, s.fit)
	}
}

// PointerDown starts a drag when the pointer lands inside the crop
// rect. Returns whether a drag began.
func (s *Session) PointerDown(x, y float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cropValid {
		return false
	}
	return s.drag.down(x, y, s.crop)
}

// PointerMove translates the crop rect while a drag is active,
// clamped to the fit box.
func (s *Session) PointerMove(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cropValid || !s.fitValid {
		return
	}
	s.crop = s.drag.move(x, y, s.crop, s.fit)
}

// PointerUp ends the drag gesture. Also used for pointer-leave.
func (s *Session) PointerUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag.up()
}

// SuggestCrop replaces the crop rect with a content-aware placement at
// the current aspect ratio. The centered derivation stays the default;
// this runs only when the customer asks for it.
func (s *Session) SuggestCrop(rz *Rasterizer) (CropRect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fitValid || s.src == nil {
		return CropRect{}, ErrNotDecoded
	}
	crop, err := rz.SuggestCrop(s.src, s.dim, s.fit)
	if err != nil {
		return CropRect{}, err
	}
	s.crop = crop
	s.cropValid = true
	return crop, nil
}

// State is a serializable snapshot of the session's derived state,
// sent to the client after every state-changing event.
type State struct {
	SessionID       string      `json:"session_id"`
	Quote           PriceResult `json:"quote"`
	Fit             *DisplayFit `json:"fit,omitempty"`
	Crop            *CropRect   `json:"crop,omitempty"`
	MaterialID      string      `json:"material_id,omitempty"`
	CroppingEnabled bool        `json:"cropping_enabled"`
	Blocking        string      `json:"blocking,omitempty"`
}

// State snapshots the current derived state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		SessionID:       s.id,
		Quote:           s.quote,
		CroppingEnabled: s.croppingEnabled,
	}
	if s.fitValid {
		fit := s.fit
		st.Fit = &fit
	}
	if s.cropValid {
		crop := s.crop
		st.Crop = &crop
	}
	if s.material != nil {
		st.MaterialID = s.material.ID
	} else {
		st.Blocking = "missing_material"
	}
	if !s.dim.Complete() {
		st.Blocking = "incomplete_dimension"
	}
	return st
}

// commitSnapshot freezes the inputs of one commit so edits made while
// the upload is in flight cannot retroactively affect it.
type commitSnapshot struct {
	dim             Dimension
	material        *provider.MaterialOption
	quote           PriceResult
	croppingEnabled bool
	src             image.Image
	crop            CropRect
	fit             DisplayFit
}

// Commit produces the cart line: rasterize and upload the crop when
// enabled, then compose and append. Rasterization or upload failure
// degrades to the original image reference (the warning return carries
// the reason); ErrIncompleteDimension and ErrMissingMaterial block the
// commit outright.
func (s *Session) Commit(ctx context.Context, rz *Rasterizer, cart provider.CartSink) (provider.CartLine, string, error) {
	s.mu.Lock()
	snap := commitSnapshot{
		dim:             s.dim,
		material:        s.material,
		quote:           s.quote,
		croppingEnabled: s.croppingEnabled,
		src:             s.src,
		crop:            s.crop,
		fit:             s.fit,
	}
	s.mu.Unlock()

	if !snap.dim.Complete() || snap.quote.AreaM2 <= 0 {
		return provider.CartLine{}, "", ErrIncompleteDimension
	}
	if snap.material == nil {
		return provider.CartLine{}, "", ErrMissingMaterial
	}

	// Rasterization is attempted whenever cropping is on, even when the
	// source image never decoded or no crop exists yet: the typed
	// failure surfaces as the warning instead of being silently skipped.
	var imageRef, warning string
	if snap.croppingEnabled {
		ref, err := rz.RasterizeAndUpload(ctx, snap.src, snap.crop, snap.fit, s.product.ID)
		if err != nil {
			// Degrade, don't fail the order: the composed line falls
			// back to the original image reference.
			warning = err.Error()
			log.Printf("Warning: session %s: crop not rasterized, using original image: %v", s.id, err)
		} else {
			imageRef = ref
		}
	}

	line, err := Compose(s.product, snap.dim, snap.material, snap.croppingEnabled, snap.quote, imageRef)
	if err != nil {
		return provider.CartLine{}, warning, err
	}

	if cart != nil {
		if err := cart.Append(ctx, line); err != nil {
			return provider.CartLine{}, warning, fmt.Errorf("appending to cart: %w", err)
		}
	}
	return line, warning, nil
}
