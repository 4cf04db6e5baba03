package vision

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"produce-grader/internal/domain/entity"
)

func TestRGBToHSV(t *testing.T) {
	cases := []struct {
		name    string
		r, g, b uint8
		h, s, v uint8
	}{
		{"black", 0, 0, 0, 0, 0, 0},
		{"gray", 128, 128, 128, 0, 0, 128},
		{"red", 255, 0, 0, 0, 255, 255},
		{"green", 0, 255, 0, 60, 255, 255},
		{"blue", 0, 0, 255, 120, 255, 255},
		{"saddle brown", 139, 69, 19, 13, 220, 139},
		{"magenta", 255, 0, 255, 150, 255, 255},
		{"tie", 160, 141, 100, 21, 96, 160},
		{"negative hue", 255, 0, 20, 178, 255, 255},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, s, v := rgbToHSV(tc.r, tc.g, tc.b)
			assert.Equal(t, tc.h, h, "hue")
			assert.Equal(t, tc.s, s, "saturation")
			assert.Equal(t, tc.v, v, "value")
		})
	}
}

func TestInBrownRange_Inclusive(t *testing.T) {
	assert.True(t, inBrownRange(10, 50, 20))
	assert.True(t, inBrownRange(20, 255, 200))
	assert.False(t, inBrownRange(9, 100, 100))
	assert.False(t, inBrownRange(21, 100, 100))
	assert.False(t, inBrownRange(15, 49, 100))
	assert.False(t, inBrownRange(15, 100, 19))
	assert.False(t, inBrownRange(15, 100, 201))
}

func TestBrownMask_MatchesFixedPointRounding(t *testing.T) {
	// Дробный тон 20.5 округляется вверх и выходит за границу бурого.
	h, s, v := rgbToHSV(160, 141, 100)
	assert.Equal(t, uint8(21), h)
	assert.False(t, inBrownRange(h, s, v))

	// Тон 20.0 ровно на границе остаётся бурым.
	h, s, v = rgbToHSV(200, 160, 80)
	assert.Equal(t, uint8(20), h)
	assert.True(t, inBrownRange(h, s, v))
}

func TestCheckImage(t *testing.T) {
	require.ErrorIs(t, checkImage(nil), entity.ErrInvalidImage)
	require.ErrorIs(t, checkImage(image.NewNRGBA(image.Rect(0, 0, 0, 5))), entity.ErrInvalidImage)
	require.ErrorIs(t, checkImage(image.NewGray(image.Rect(0, 0, 4, 4))), entity.ErrInvalidImage)
	require.ErrorIs(t, checkImage(image.NewAlpha16(image.Rect(0, 0, 4, 4))), entity.ErrInvalidImage)
	require.NoError(t, checkImage(image.NewRGBA(image.Rect(0, 0, 4, 4))))
}
