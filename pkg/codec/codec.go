// Package codec loads images into flat RGB buffers and writes gray buffers
// back to disk.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"go-gray/pkg/common"
)

const DEFAULT_JPEG_QUALITY = 95

// FileCodec reads and writes images on the local filesystem.
type FileCodec struct {
	// JPEGQuality is used for .jpg/.jpeg outputs; zero means DEFAULT_JPEG_QUALITY.
	JPEGQuality int
	// RawDump also writes a zstd-compressed copy of every encoded buffer
	// next to the image (see RawPath).
	RawDump bool
}

// Decode loads the image at path as a 3-channel RGB buffer. A missing file
// yields an error wrapping common.ErrInputNotFound.
func (c *FileCodec) Decode(path string) (*common.ImageBuffer, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return FromImage(img), nil
}

// FromImage copies img into a packed RGB buffer.
func FromImage(img image.Image) *common.ImageBuffer {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	width, height := bounds.Dx(), bounds.Dy()
	buf := common.NewImageBuffer(width, height, common.RGB_CHANNELS)
	for y := 0; y < height; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+width*4]
		dst := buf.Row(y)
		for x := 0; x < width; x++ {
			dst[x*3] = src[x*4]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+2]
		}
	}
	return buf
}

// ToImage wraps buf as an image.Gray (1 channel) or image.RGBA (3 channels).
func ToImage(buf *common.ImageBuffer) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, buf.Width, buf.Height)
	switch buf.Channels {
	case common.GRAY_CHANNELS:
		return &image.Gray{Pix: buf.Pix, Stride: buf.Width, Rect: rect}, nil
	case common.RGB_CHANNELS:
		rgba := image.NewRGBA(rect)
		for i, j := 0, 0; i < len(buf.Pix); i, j = i+3, j+4 {
			rgba.Pix[j] = buf.Pix[i]
			rgba.Pix[j+1] = buf.Pix[i+1]
			rgba.Pix[j+2] = buf.Pix[i+2]
			rgba.Pix[j+3] = 0xff
		}
		return rgba, nil
	default:
		return nil, fmt.Errorf("cannot encode %d-channel buffer", buf.Channels)
	}
}

// Encode writes buf to path in the format named by its extension.
func (c *FileCodec) Encode(buf *common.ImageBuffer, path string) error {
	img, err := ToImage(buf)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jpg", ".jpeg":
		quality := c.JPEGQuality
		if quality <= 0 {
			quality = DEFAULT_JPEG_QUALITY
		}
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: quality})
	case ".png":
		err = png.Encode(file, img)
	case ".bmp":
		err = bmp.Encode(file, img)
	case ".tif", ".tiff":
		err = tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = fmt.Errorf("unsupported output format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if c.RawDump {
		if err := WriteRaw(buf, RawPath(path)); err != nil {
			return err
		}
	}
	return nil
}
