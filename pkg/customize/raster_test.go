package customize

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createSplitImage builds a width x height image whose left half is
// red and right half is blue, so crop placement is visible per pixel.
func createSplitImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	draw.Draw(img, image.Rect(0, 0, width/2, height), &image.Uniform{red}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(width/2, 0, width, height), &image.Uniform{blue}, image.Point{}, draw.Src)
	return img
}

// stubSink records uploads and can be told to fail.
type stubSink struct {
	fail     bool
	payloads [][]byte
	url      string
}

func (s *stubSink) Upload(_ context.Context, _ string, payload []byte, _ string) (string, error) {
	if s.fail {
		return "", fmt.Errorf("storage unavailable")
	}
	s.payloads = append(s.payloads, payload)
	return s.url, nil
}

func TestRender_MapsDisplayToNatural(t *testing.T) {
	rz := NewRasterizer(&stubSink{})
	src := createSplitImage(800, 400)
	fit := DisplayFit{OffsetX: 0, OffsetY: 50, Width: 400, Height: 200}

	t.Run("left half is red", func(t *testing.T) {
		crop := CropRect{X: 0, Y: 50, Width: 200, Height: 200}
		out, err := rz.Render(src, crop, fit)
		require.NoError(t, err)

		bounds := out.Bounds()
		assert.Equal(t, 200, bounds.Dx())
		assert.Equal(t, 200, bounds.Dy())

		r, g, b, _ := out.At(100, 100).RGBA()
		assert.Equal(t, uint32(0xffff), r)
		assert.Equal(t, uint32(0), g)
		assert.Equal(t, uint32(0), b)
	})

	t.Run("right half is blue", func(t *testing.T) {
		crop := CropRect{X: 200, Y: 50, Width: 200, Height: 200}
		out, err := rz.Render(src, crop, fit)
		require.NoError(t, err)

		_, _, b, _ := out.At(100, 100).RGBA()
		assert.Equal(t, uint32(0xffff), b)
	})

	t.Run("full fit reproduces the displayed image", func(t *testing.T) {
		crop := CropRect{X: 0, Y: 50, Width: 400, Height: 200}
		out, err := rz.Render(src, crop, fit)
		require.NoError(t, err)

		bounds := out.Bounds()
		assert.Equal(t, 400, bounds.Dx())
		assert.Equal(t, 200, bounds.Dy())

		r, _, _, _ := out.At(50, 100).RGBA()
		assert.Equal(t, uint32(0xffff), r)
		_, _, b, _ := out.At(350, 100).RGBA()
		assert.Equal(t, uint32(0xffff), b)
	})
}

func TestRender_Failures(t *testing.T) {
	rz := NewRasterizer(&stubSink{})
	fit := DisplayFit{Width: 400, Height: 200}

	t.Run("nil source", func(t *testing.T) {
		_, err := rz.Render(nil, CropRect{Width: 100, Height: 100}, fit)
		assert.ErrorIs(t, err, ErrNotDecoded)
	})

	t.Run("zero fit", func(t *testing.T) {
		_, err := rz.Render(createSplitImage(10, 10), CropRect{Width: 100, Height: 100}, DisplayFit{})
		assert.ErrorIs(t, err, ErrDraw)
	})

	t.Run("crop outside source", func(t *testing.T) {
		crop := CropRect{X: 5000, Y: 5000, Width: 100, Height: 100}
		_, err := rz.Render(createSplitImage(800, 400), crop, fit)
		assert.ErrorIs(t, err, ErrDraw)
	})
}

func TestRasterizeAndUpload(t *testing.T) {
	src := createSplitImage(800, 400)
	fit := DisplayFit{OffsetX: 0, OffsetY: 50, Width: 400, Height: 200}
	crop := CropRect{X: 50, Y: 50, Width: 300, Height: 200}

	t.Run("success returns reference URL", func(t *testing.T) {
		sink := &stubSink{url: "https://cdn.example.com/crops/abc.jpg"}
		rz := NewRasterizer(sink)

		ref, err := rz.RasterizeAndUpload(context.Background(), src, crop, fit, "p1")
		require.NoError(t, err)
		assert.Equal(t, sink.url, ref)
		require.Len(t, sink.payloads, 1)
		assert.NotEmpty(t, sink.payloads[0])
	})

	t.Run("upload failure is typed", func(t *testing.T) {
		rz := NewRasterizer(&stubSink{fail: true})

		_, err := rz.RasterizeAndUpload(context.Background(), src, crop, fit, "p1")
		assert.ErrorIs(t, err, ErrUpload)
	})

	t.Run("undecoded source is typed", func(t *testing.T) {
		rz := NewRasterizer(&stubSink{})

		_, err := rz.RasterizeAndUpload(context.Background(), nil, crop, fit, "p1")
		assert.True(t, errors.Is(err, ErrNotDecoded))
	})
}

func TestSuggestCrop(t *testing.T) {
	rz := NewRasterizer(&stubSink{})
	src := createSplitImage(800, 400)
	fit := DisplayFit{OffsetX: 0, OffsetY: 50, Width: 400, Height: 200}
	dim := Dimension{WidthCm: 150, HeightCm: 100}

	crop, err := rz.SuggestCrop(src, dim, fit)
	require.NoError(t, err)

	// The suggestion keeps the derived size so the ratio invariant
	// holds, and stays inside the fit box wherever the analyzer
	// points it.
	centered, _ := DeriveCrop(dim, fit)
	assert.Equal(t, centered.Width, crop.Width)
	assert.Equal(t, centered.Height, crop.Height)
	assert.True(t, fit.Contains(crop))

	t.Run("incomplete dimension", func(t *testing.T) {
		_, err := rz.SuggestCrop(src, Dimension{}, fit)
		assert.ErrorIs(t, err, ErrIncompleteDimension)
	})

	t.Run("nil source", func(t *testing.T) {
		_, err := rz.SuggestCrop(nil, dim, fit)
		assert.ErrorIs(t, err, ErrNotDecoded)
	})
}
