package imageprocessor

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngImage(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestProcess_DownscalesLargeImage(t *testing.T) {
	t.Parallel()

	processor := NewProcessor(85)

	result, err := processor.Process(pngImage(t, 1600, 1200), SizeMedium)
	require.NoError(t, err)

	decoded, format, err := image.Decode(result)
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	bounds := decoded.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), SizeMedium.Width)
	assert.LessOrEqual(t, bounds.Dy(), SizeMedium.Height)
	// Пропорции 4:3 сохраняются
	assert.Equal(t, 800, bounds.Dx())
	assert.Equal(t, 600, bounds.Dy())
}

func TestProcess_KeepsSmallImage(t *testing.T) {
	t.Parallel()

	processor := NewProcessor(85)

	result, err := processor.Process(pngImage(t, 100, 100), SizeMedium)
	require.NoError(t, err)

	decoded, _, err := image.Decode(result)
	require.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())
	assert.Equal(t, 100, decoded.Bounds().Dy())
}

func TestProcess_RejectsGarbage(t *testing.T) {
	t.Parallel()

	processor := NewProcessor(85)

	_, err := processor.Process(bytes.NewBufferString("not an image"), SizeThumbnail)
	assert.Error(t, err)
}

func TestIsValidImage(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidImage(pngImage(t, 10, 10)))
	assert.False(t, IsValidImage(bytes.NewBufferString("garbage")))
}
