package customize

import "fmt"

// Box is a container size in display pixels.
type Box struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NaturalSize is the true decoded resolution of the source image,
// independent of how large it is drawn on screen.
type NaturalSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DisplayFit describes where and how large the image is drawn inside
// its container under "contain" semantics: aspect ratio preserved,
// centered, the non-matching axis letterboxed.
type DisplayFit struct {
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Ratio returns the fit's width/height.
func (f DisplayFit) Ratio() float64 {
	return f.Width / f.Height
}

// Fit computes the contain placement of an image inside a container.
// It is recomputed wholesale on image load, container resize, and
// image source change; never incrementally patched. A zero-sized
// natural size (failed decode) is an error so the caller can keep the
// previous fit instead of replacing it with a zero-sized one.
func Fit(container Box, natural NaturalSize) (DisplayFit, error) {
	if natural.Width <= 0 || natural.Height <= 0 {
		return DisplayFit{}, fmt.Errorf("%w: natural size %dx%d", ErrNotDecoded, natural.Width, natural.Height)
	}
	if container.Width <= 0 || container.Height <= 0 {
		return DisplayFit{}, fmt.Errorf("invalid container %gx%g", container.Width, container.Height)
	}

	imageRatio := float64(natural.Width) / float64(natural.Height)
	containerRatio := container.Width / container.Height

	var fit DisplayFit
	if imageRatio > containerRatio {
		// Image relatively wider: pin the width, letterbox vertically.
		fit.Width = container.Width
		fit.Height = container.Width / imageRatio
		fit.OffsetY = (container.Height - fit.Height) / 2
	} else {
		fit.Height = container.Height
		fit.Width = container.Height * imageRatio
		fit.OffsetX = (container.Width - fit.Width) / 2
	}
	return fit, nil
}
