package customize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit_WideImage(t *testing.T) {
	// Container 400x300 (ratio 1.33), image 800x400 (ratio 2.0):
	// width pinned, vertically letterboxed.
	fit, err := Fit(Box{Width: 400, Height: 300}, NaturalSize{Width: 800, Height: 400})
	require.NoError(t, err)

	assert.Equal(t, 400.0, fit.Width)
	assert.Equal(t, 200.0, fit.Height)
	assert.Equal(t, 0.0, fit.OffsetX)
	assert.Equal(t, 50.0, fit.OffsetY)
}

func TestFit_TallImage(t *testing.T) {
	fit, err := Fit(Box{Width: 400, Height: 300}, NaturalSize{Width: 300, Height: 600})
	require.NoError(t, err)

	assert.Equal(t, 300.0, fit.Height)
	assert.Equal(t, 150.0, fit.Width)
	assert.Equal(t, 125.0, fit.OffsetX)
	assert.Equal(t, 0.0, fit.OffsetY)
}

func TestFit_ExactRatio(t *testing.T) {
	fit, err := Fit(Box{Width: 400, Height: 200}, NaturalSize{Width: 800, Height: 400})
	require.NoError(t, err)

	assert.Equal(t, 400.0, fit.Width)
	assert.Equal(t, 200.0, fit.Height)
	assert.Equal(t, 0.0, fit.OffsetX)
	assert.Equal(t, 0.0, fit.OffsetY)
}

func TestFit_PreservesAspectAndContainment(t *testing.T) {
	containers := []Box{
		{Width: 400, Height: 300},
		{Width: 1920, Height: 1080},
		{Width: 123, Height: 777},
	}
	naturals := []NaturalSize{
		{Width: 800, Height: 400},
		{Width: 333, Height: 999},
		{Width: 64, Height: 64},
	}

	for _, c := range containers {
		for _, n := range naturals {
			fit, err := Fit(c, n)
			require.NoError(t, err)

			imageRatio := float64(n.Width) / float64(n.Height)
			assert.InDelta(t, imageRatio, fit.Ratio(), 1e-9)

			// Fully contained, one axis exactly matching.
			assert.LessOrEqual(t, fit.Width, c.Width+1e-9)
			assert.LessOrEqual(t, fit.Height, c.Height+1e-9)
			assert.True(t, fit.Width == c.Width || fit.Height == c.Height)
			assert.GreaterOrEqual(t, fit.OffsetX, 0.0)
			assert.GreaterOrEqual(t, fit.OffsetY, 0.0)
		}
	}
}

func TestFit_UndecodedImage(t *testing.T) {
	// A failed decode reports naturalWidth/Height == 0; the engine must
	// error out so the caller keeps its previous fit.
	_, err := Fit(Box{Width: 400, Height: 300}, NaturalSize{})
	assert.ErrorIs(t, err, ErrNotDecoded)

	_, err = Fit(Box{}, NaturalSize{Width: 800, Height: 400})
	assert.Error(t, err)
}
