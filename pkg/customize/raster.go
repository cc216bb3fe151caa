package customize

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
	xdraw "golang.org/x/image/draw"

	"github.com/dixieflatline76/Muralist/pkg/provider"
	"github.com/dixieflatline76/Muralist/util/log"
)

// Rasterizer turns a display-space crop rect into an uploaded image
// reference. It always reads from the natural-resolution source, never
// the scaled on-screen copy, and allocates a fresh surface per commit
// so no state leaks between commits.
type Rasterizer struct {
	sink      provider.UploadSink
	quality   int
	resampler imaging.ResampleFilter
}

// NewRasterizer creates a Rasterizer uploading through sink.
func NewRasterizer(sink provider.UploadSink) *Rasterizer {
	return &Rasterizer{
		sink:      sink,
		quality:   95,
		resampler: imaging.Lanczos,
	}
}

// sourceRegion maps a crop rect from display coordinates into natural
// image coordinates via the display-to-natural scale factors, rounded
// to whole pixels and clamped to the image bounds.
func sourceRegion(crop CropRect, fit DisplayFit, bounds image.Rectangle) image.Rectangle {
	scaleX := float64(bounds.Dx()) / fit.Width
	scaleY := float64(bounds.Dy()) / fit.Height

	x0 := bounds.Min.X + int(math.Round((crop.X-fit.OffsetX)*scaleX))
	y0 := bounds.Min.Y + int(math.Round((crop.Y-fit.OffsetY)*scaleY))
	x1 := x0 + int(math.Round(crop.Width*scaleX))
	y1 := y0 + int(math.Round(crop.Height*scaleY))

	return image.Rect(x0, y0, x1, y1).Intersect(bounds)
}

// Render draws the natural-space sub-region selected by crop onto a
// fresh surface sized at the crop's display-pixel dimensions. Keeping
// the output at display resolution caps payload size while preserving
// exactly what the customer saw; outputting at natural resolution
// instead is an open question (DESIGN.md).
func (rz *Rasterizer) Render(src image.Image, crop CropRect, fit DisplayFit) (image.Image, error) {
	if src == nil {
		return nil, ErrNotDecoded
	}
	if fit.Width <= 0 || fit.Height <= 0 {
		return nil, fmt.Errorf("%w: zero display fit", ErrDraw)
	}

	region := sourceRegion(crop, fit, src.Bounds())
	if region.Empty() {
		return nil, fmt.Errorf("%w: crop maps outside source bounds", ErrDraw)
	}

	outW := int(math.Round(crop.Width))
	outH := int(math.Round(crop.Height))
	if outW <= 0 || outH <= 0 {
		return nil, fmt.Errorf("%w: zero-sized crop", ErrDraw)
	}

	out := image.NewRGBA(image.Rect(0, 0, outW, outH))
	xdraw.CatmullRom.Scale(out, out.Bounds(), src, region, xdraw.Src, nil)
	return out, nil
}

// Encode serializes a rendered surface as JPEG.
func (rz *Rasterizer) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(rz.quality)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDraw, err)
	}
	return buf.Bytes(), nil
}

// RasterizeAndUpload runs the full commit-time pipeline: render the
// natural-space region, encode, upload, return the durable reference
// URL. All failures are typed; the caller decides whether to retry or
// fall back to the original image reference.
func (rz *Rasterizer) RasterizeAndUpload(ctx context.Context, src image.Image, crop CropRect, fit DisplayFit, productID string) (string, error) {
	rendered, err := rz.Render(src, crop, fit)
	if err != nil {
		return "", err
	}

	payload, err := rz.Encode(rendered)
	if err != nil {
		return "", err
	}

	ref, err := rz.sink.Upload(ctx, productID, payload, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	log.Debugf("uploaded crop for product %s: %s (%d bytes)", productID, ref, len(payload))
	return ref, nil
}

// SuggestCrop runs content-aware analysis over the natural image and
// proposes a crop placement at the dimension's aspect ratio, mapped
// back into display space and clamped to the fit box. The centered
// derivation stays the default; this is offered as a starting position
// the customer can accept or drag away from.
func (rz *Rasterizer) SuggestCrop(src image.Image, dim Dimension, fit DisplayFit) (CropRect, error) {
	if src == nil {
		return CropRect{}, ErrNotDecoded
	}
	centered, ok := DeriveCrop(dim, fit)
	if !ok {
		return CropRect{}, ErrIncompleteDimension
	}

	bounds := src.Bounds()
	scaleX := float64(bounds.Dx()) / fit.Width
	scaleY := float64(bounds.Dy()) / fit.Height

	analyzer := smartcrop.NewAnalyzer(&resizer{resampler: rz.resampler})
	best, err := analyzer.FindBestCrop(src, int(math.Round(centered.Width*scaleX)), int(math.Round(centered.Height*scaleY)))
	if err != nil {
		return CropRect{}, fmt.Errorf("finding best crop: %w", err)
	}

	// Map the suggestion back to display space; keep the derived size
	// so the aspect-ratio invariant holds exactly.
	suggested := CropRect{
		X:      fit.OffsetX + float64(best.Min.X-bounds.Min.X)/scaleX,
		Y:      fit.OffsetY + float64(best.Min.Y-bounds.Min.Y)/scaleY,
		Width:  centered.Width,
		Height: centered.Height,
	}
	return Translate(suggested, 0, 0, fit), nil
}

// resizer adapts imaging to the smartcrop.Resizer interface.
type resizer struct {
	resampler imaging.ResampleFilter
}

func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}
