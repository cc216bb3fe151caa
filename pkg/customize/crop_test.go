package customize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The 800x400 image letterboxed in a 400x300 container.
var testFit = DisplayFit{OffsetX: 0, OffsetY: 50, Width: 400, Height: 200}

func TestDeriveCrop_FillsHeight(t *testing.T) {
	// Dimension ratio 1.5 < fit ratio 2.0: crop fills the displayed
	// height, width derived, centered horizontally.
	crop, ok := DeriveCrop(Dimension{WidthCm: 150, HeightCm: 100}, testFit)
	require.True(t, ok)

	assert.Equal(t, 200.0, crop.Height)
	assert.Equal(t, 300.0, crop.Width)
	assert.Equal(t, 50.0, crop.X)
	assert.Equal(t, 50.0, crop.Y)
}

func TestDeriveCrop_FillsWidth(t *testing.T) {
	// Dimension ratio 4.0 > fit ratio 2.0: crop fills the displayed
	// width, height derived, centered vertically.
	crop, ok := DeriveCrop(Dimension{WidthCm: 400, HeightCm: 100}, testFit)
	require.True(t, ok)

	assert.Equal(t, 400.0, crop.Width)
	assert.Equal(t, 100.0, crop.Height)
	assert.Equal(t, 0.0, crop.X)
	assert.Equal(t, 100.0, crop.Y)
}

func TestDeriveCrop_Invariants(t *testing.T) {
	dims := []Dimension{
		{WidthCm: 150, HeightCm: 100},
		{WidthCm: 100, HeightCm: 300},
		{WidthCm: 987, HeightCm: 123},
		{WidthCm: 0.5, HeightCm: 0.5},
	}

	for _, dim := range dims {
		crop, ok := DeriveCrop(dim, testFit)
		require.True(t, ok)

		assert.InDelta(t, dim.Ratio(), crop.Ratio(), 1e-9)
		assert.True(t, testFit.Contains(crop))
	}
}

func TestDeriveCrop_IncompleteDimension(t *testing.T) {
	_, ok := DeriveCrop(Dimension{}, testFit)
	assert.False(t, ok)

	_, ok = DeriveCrop(Dimension{WidthCm: 100}, testFit)
	assert.False(t, ok)
}

func TestDeriveCrop_Recenters(t *testing.T) {
	// Deriving is a pure function of (dimension, fit): a dragged rect
	// has no influence on a re-derivation.
	crop, _ := DeriveCrop(Dimension{WidthCm: 150, HeightCm: 100}, testFit)
	dragged := Translate(crop, 40, 0, testFit)
	assert.NotEqual(t, crop, dragged)

	again, _ := DeriveCrop(Dimension{WidthCm: 150, HeightCm: 100}, testFit)
	assert.Equal(t, crop, again)
}

func TestTranslate_Clamps(t *testing.T) {
	crop, _ := DeriveCrop(Dimension{WidthCm: 150, HeightCm: 100}, testFit)

	tests := []struct {
		name   string
		dx, dy float64
	}{
		{"small move", 10, 5},
		{"far right", 10000, 0},
		{"far left", -10000, 0},
		{"far down", 0, 10000},
		{"far up", 0, -10000},
		{"both overflowing", -99999, 99999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			moved := Translate(crop, tt.dx, tt.dy, testFit)
			assert.True(t, testFit.Contains(moved), "moved rect %+v escapes fit", moved)
			// Size is never altered by translation.
			assert.Equal(t, crop.Width, moved.Width)
			assert.Equal(t, crop.Height, moved.Height)
		})
	}
}

func TestTranslate_FullAxisCrop(t *testing.T) {
	// A crop filling the whole fit has exactly one legal position.
	crop, _ := DeriveCrop(Dimension{WidthCm: 200, HeightCm: 100}, testFit)
	require.Equal(t, testFit.Width, crop.Width)
	require.Equal(t, testFit.Height, crop.Height)

	moved := Translate(crop, 35, -17, testFit)
	assert.Equal(t, crop, moved)
}

func TestGesture_StateMachine(t *testing.T) {
	// A derived crop always fills one fit axis, so a hand-built rect
	// with slack on both axes is needed to observe free movement.
	crop := CropRect{X: 100, Y: 80, Width: 120, Height: 90}
	require.True(t, testFit.Contains(crop))
	var g gesture

	// Pointer-down outside the rect: stays idle.
	assert.False(t, g.down(10, 60, crop))
	assert.False(t, g.active)

	// Move while idle is a no-op.
	assert.Equal(t, crop, g.move(300, 300, crop, testFit))

	// Pointer-down inside: the grab offset is relative to the origin.
	require.True(t, g.down(crop.X+30, crop.Y+20, crop))
	assert.True(t, g.active)

	// Moving the pointer moves the rect by the same delta on both axes.
	moved := g.move(crop.X+40, crop.Y+25, crop, testFit)
	assert.InDelta(t, crop.X+10, moved.X, 1e-9)
	assert.InDelta(t, crop.Y+5, moved.Y, 1e-9)

	// A drag past the fit edge clamps instead of escaping.
	pinned := g.move(crop.X+30+10000, crop.Y+20, moved, testFit)
	assert.InDelta(t, testFit.OffsetX+testFit.Width-moved.Width, pinned.X, 1e-9)
	assert.True(t, testFit.Contains(pinned))

	// Pointer-up returns to idle.
	g.up()
	assert.False(t, g.active)
	assert.Equal(t, pinned, g.move(0, 0, pinned, testFit))
}

func TestTranslate_ClampsEachAxisIndependently(t *testing.T) {
	// Height-filling derived crop: X slides, Y has a single legal value.
	crop, _ := DeriveCrop(Dimension{WidthCm: 150, HeightCm: 100}, testFit)
	require.Equal(t, testFit.Height, crop.Height)

	moved := Translate(crop, 10, 5, testFit)
	assert.InDelta(t, crop.X+10, moved.X, 1e-9)
	assert.InDelta(t, testFit.OffsetY, moved.Y, 1e-9)
}
