package snapshot

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/grimoire/internal/raster"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PNG ")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	f, err = ParseFormat("bgra")
	require.NoError(t, err)
	assert.Equal(t, FormatBGRA, f)

	_, err = ParseFormat("gif")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWriter_PNG(t *testing.T) {
	fr := raster.NewFrame(4, 3)
	fr.Fill(raster.RGB{10, 20, 30}, 0xff)

	var buf bytes.Buffer
	w := &Writer{W: &buf, Format: FormatPNG}
	require.NoError(t, w.Present(fr))
	assert.Equal(t, 1, w.Frames)

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
	r, g, b, a := img.At(1, 1).RGBA()
	assert.Equal(t, []uint32{10, 20, 30, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}

func TestWriter_BGRA(t *testing.T) {
	fr := raster.NewFrame(2, 1)
	fr.Fill(raster.RGB{1, 2, 3}, 0xff)

	var buf bytes.Buffer
	require.NoError(t, (&Writer{W: &buf, Format: FormatBGRA}).Present(fr))
	assert.Equal(t, []byte{3, 2, 1, 255, 3, 2, 1, 255}, buf.Bytes())
}

func TestWriter_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := (&Writer{W: &buf, Format: "tiff"}).Present(raster.NewFrame(1, 1))
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Zero(t, buf.Len())
}
