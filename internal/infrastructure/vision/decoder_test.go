package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"produce-grader/internal/domain/entity"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecoder_Supports(t *testing.T) {
	d := NewDecoder()
	for _, name := range []string{"a.jpg", "b.JPEG", "c.Png", "d.webp", "dir/e.jpg", `C:\photos\f.PNG`} {
		assert.True(t, d.Supports(name), name)
	}
	for _, name := range []string{"a.gif", "b.bmp", "noext", "", "archive.jpg.zip"} {
		assert.False(t, d.Supports(name), name)
	}
	assert.Equal(t, []string{".jpg", ".jpeg", ".png", ".webp"}, d.SupportedFormats())
}

func TestDecoder_DecodePNG(t *testing.T) {
	data := encodePNG(t, solid(6, 4, saddleBrown))

	img, err := NewDecoder().Decode("../../tomato.PNG", data)
	require.NoError(t, err)
	nrgba, ok := img.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, 6, nrgba.Bounds().Dx())
	assert.Equal(t, 4, nrgba.Bounds().Dy())
	assert.Equal(t, saddleBrown, nrgba.NRGBAAt(1, 1))
}

func TestDecoder_GrayBecomesNRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 3))
	gray.SetGray(1, 1, color.Gray{Y: 200})

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, gray, nil))

	img, err := NewDecoder().Decode("gray.jpg", buf.Bytes())
	require.NoError(t, err)
	_, ok := img.(*image.NRGBA)
	require.True(t, ok)

	_, err = NewColorAnalyzer().Analyze(img)
	require.NoError(t, err)
}

func TestDecoder_Errors(t *testing.T) {
	d := NewDecoder()

	_, err := d.Decode("photo.gif", []byte("GIF89a"))
	require.ErrorIs(t, err, entity.ErrUnsupportedFormat)

	_, err = d.Decode("photo.png", []byte("definitely not an image"))
	require.ErrorIs(t, err, entity.ErrUnsupportedFormat)

	data := encodePNG(t, solid(4, 4, pureRed))
	_, err = d.Decode("photo.png", data[:len(data)/2])
	require.ErrorIs(t, err, entity.ErrInvalidImage)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "x.jpg", SanitizeFilename("../../etc/x.jpg"))
	assert.Equal(t, "y.png", SanitizeFilename(`..\..\y.png`))
	assert.Equal(t, "", SanitizeFilename(""))
}
