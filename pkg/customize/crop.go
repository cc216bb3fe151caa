package customize

// CropRect is the sub-rectangle of the letterboxed image, in display
// coordinates, that will be rasterized as the printed region. Its
// aspect ratio always equals the dimension's widthCm/heightCm.
type CropRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Ratio returns the rect's width/height.
func (r CropRect) Ratio() float64 {
	return r.Width / r.Height
}

// DeriveCrop computes the centered crop rectangle for a dimension
// inside a display fit. The rect fills the displayed width or height,
// whichever axis is the binding constraint for the target ratio, and
// is centered on the other. Returns ok=false while the dimension is
// incomplete; callers must treat the rect as undefined then.
//
// Deriving is idempotent in (dim, fit): any prior drag offset is
// discarded, so a dimension change always re-centers the rectangle.
func DeriveCrop(dim Dimension, fit DisplayFit) (CropRect, bool) {
	if !dim.Complete() {
		return CropRect{}, false
	}

	targetRatio := dim.Ratio()
	var crop CropRect
	if targetRatio > fit.Ratio() {
		crop.Width = fit.Width
		crop.Height = crop.Width / targetRatio
	} else {
		crop.Height = fit.Height
		crop.Width = crop.Height * targetRatio
	}
	crop.X = fit.OffsetX + (fit.Width-crop.Width)/2
	crop.Y = fit.OffsetY + (fit.Height-crop.Height)/2
	return crop, true
}

// Translate moves a crop rect by (dx, dy) and clamps it so it stays
// fully inside the fit box. Size is never altered by translation;
// clamping is total, not partial.
func Translate(crop CropRect, dx, dy float64, fit DisplayFit) CropRect {
	crop.X = clamp(crop.X+dx, fit.OffsetX, fit.OffsetX+fit.Width-crop.Width)
	crop.Y = clamp(crop.Y+dy, fit.OffsetY, fit.OffsetY+fit.Height-crop.Height)
	return crop
}

// Contains reports whether the crop rect lies fully inside the fit
// box, within tolerance for float drift.
func (f DisplayFit) Contains(r CropRect) bool {
	const eps = 1e-6
	return r.X >= f.OffsetX-eps &&
		r.Y >= f.OffsetY-eps &&
		r.X+r.Width <= f.OffsetX+f.Width+eps &&
		r.Y+r.Height <= f.OffsetY+f.Height+eps
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		// Crop fills the axis exactly; only one position is legal.
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// gesture tracks a single pointer drag over the crop rect. Idle to
// dragging on pointer-down inside the rect, back to idle on pointer-up
// or pointer-leave. No state survives between gestures beyond the last
// committed CropRect.
type gesture struct {
	active bool
	grabDX float64 // pointer offset from the rect origin at pointer-down
	grabDY float64
}

func (g *gesture) down(x, y float64, crop CropRect) bool {
	if x < crop.X || x > crop.X+crop.Width || y < crop.Y || y > crop.Y+crop.Height {
		return false
	}
	g.active = true
	g.grabDX = x - crop.X
	g.grabDY = y - crop.Y
	return true
}

// move returns the translated rect for the current pointer position.
// No-op while idle.
func (g *gesture) move(x, y float64, crop CropRect, fit DisplayFit) CropRect {
	if !g.active {
		return crop
	}
	return Translate(crop, (x-g.grabDX)-crop.X, (y-g.grabDY)-crop.Y, fit)
}

func (g *gesture) up() {
	g.active = false
}
