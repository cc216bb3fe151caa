package customize

import "errors"

// Failure kinds of the customization pipeline. Callers classify with
// errors.Is; everything except the two commit blockers degrades to
// "use the original image, keep the computed price".
var (
	// ErrIncompleteDimension means one or both measurements are missing
	// or non-positive. Blocks commit.
	ErrIncompleteDimension = errors.New("dimension incomplete")

	// ErrMissingMaterial means no material has been selected. Blocks
	// commit.
	ErrMissingMaterial = errors.New("no material selected")

	// ErrNotDecoded means the source image is not available at natural
	// resolution (fetch or decode failed, or no image was loaded).
	ErrNotDecoded = errors.New("source image not decoded")

	// ErrDraw means the raster surface could not be drawn (empty or
	// out-of-bounds source region).
	ErrDraw = errors.New("raster draw failed")

	// ErrUpload means the storage collaborator rejected the payload or
	// the network failed.
	ErrUpload = errors.New("upload failed")
)
