package codec

import (
	"image"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gray/pkg/common"
)

func randomBuffer(width, height, channels int, seed int64) *common.ImageBuffer {
	buf := common.NewImageBuffer(width, height, channels)
	rand.New(rand.NewSource(seed)).Read(buf.Pix)
	return buf
}

func TestDecodeMissingFile(t *testing.T) {
	c := &FileCodec{}
	_, err := c.Decode(filepath.Join(t.TempDir(), "missing.jpg"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInputNotFound)
	assert.Equal(t, common.KindInputNotFound, common.KindOf(err))
}

func TestDecodeGarbageIsNotNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	_, err := (&FileCodec{}).Decode(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrInputNotFound)
}

func TestLosslessFormatsRoundTripRGB(t *testing.T) {
	src := randomBuffer(13, 7, common.RGB_CHANNELS, 1)
	c := &FileCodec{}

	for _, name := range []string{"rgb.png", "rgb.bmp", "rgb.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, c.Encode(src, path))

			got, err := c.Decode(path)
			require.NoError(t, err)
			assert.True(t, src.Equal(got))
		})
	}
}

func TestEncodeGrayExpandsToRGBOnDecode(t *testing.T) {
	src := randomBuffer(5, 4, common.GRAY_CHANNELS, 2)
	path := filepath.Join(t.TempDir(), "nested", "gray.png")
	c := &FileCodec{}
	require.NoError(t, c.Encode(src, path))

	got, err := c.Decode(path)
	require.NoError(t, err)
	require.Equal(t, common.RGB_CHANNELS, got.Channels)
	for i, v := range src.Pix {
		assert.Equal(t, []byte{v, v, v}, got.Pix[i*3:i*3+3])
	}
}

func TestEncodeJPEG(t *testing.T) {
	src := randomBuffer(32, 32, common.GRAY_CHANNELS, 3)
	path := filepath.Join(t.TempDir(), "gray.jpg")
	require.NoError(t, (&FileCodec{JPEGQuality: 80}).Encode(src, path))

	got, err := (&FileCodec{}).Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 32, got.Width)
	assert.Equal(t, 32, got.Height)
}

func TestEncodeUnsupportedExtension(t *testing.T) {
	err := (&FileCodec{}).Encode(randomBuffer(2, 2, 1, 4), filepath.Join(t.TempDir(), "out.xyz"))
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestFromImageOffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	img.Set(10, 20, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	img.Set(12, 21, color.NRGBA{R: 4, G: 5, B: 6, A: 255})

	buf := FromImage(img)
	require.NoError(t, buf.Validate())
	assert.Equal(t, 3, buf.Width)
	assert.Equal(t, 2, buf.Height)
	assert.Equal(t, []byte{1, 2, 3}, buf.Pix[0:3])
	assert.Equal(t, []byte{4, 5, 6}, buf.Pix[15:18])
}

func TestRawDump(t *testing.T) {
	src := randomBuffer(40, 30, common.GRAY_CHANNELS, 5)
	path := filepath.Join(t.TempDir(), "result-threaded.png")
	require.NoError(t, (&FileCodec{RawDump: true}).Encode(src, path))

	rawPath := RawPath(path)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "result-threaded.raw.zst"), rawPath)

	got, err := ReadRaw(rawPath)
	require.NoError(t, err)
	assert.True(t, src.Equal(got))
}

func TestDecodeRawRejectsGarbage(t *testing.T) {
	_, err := DecodeRaw([]byte("nope"))
	assert.Error(t, err)

	_, err = DecodeRaw([]byte("XXXXaaaabbbbcccc"))
	assert.ErrorContains(t, err, "not a raw image buffer")
}
