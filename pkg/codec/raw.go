package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"go-gray/pkg/common"
)

var rawMagic = [4]byte{'G', 'R', 'A', 'W'}

type rawHeader struct {
	Magic    [4]byte
	Width    uint32
	Height   uint32
	Channels uint32
}

// RawPath returns the raw dump path for an encoded image path:
// "out/result-threaded.jpg" becomes "out/result-threaded.raw.zst".
func RawPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".raw.zst"
}

// EncodeRaw serializes buf losslessly: a fixed header followed by the
// zstd-compressed pixels.
func EncodeRaw(buf *common.ImageBuffer) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	hdr := rawHeader{
		Magic:    rawMagic,
		Width:    uint32(buf.Width),
		Height:   uint32(buf.Height),
		Channels: uint32(buf.Channels),
	}
	if err := binary.Write(&out, binary.LittleEndian, hdr); err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(buf.Pix, out.Bytes()), nil
}

// DecodeRaw is the inverse of EncodeRaw.
func DecodeRaw(data []byte) (*common.ImageBuffer, error) {
	var hdr rawHeader
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("failed to read raw header: %w", err)
	}
	if hdr.Magic != rawMagic {
		return nil, fmt.Errorf("not a raw image buffer")
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	pix, err := dec.DecodeAll(data[len(data)-r.Len():], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress raw pixels: %w", err)
	}
	buf := &common.ImageBuffer{
		Width:    int(hdr.Width),
		Height:   int(hdr.Height),
		Channels: int(hdr.Channels),
		Pix:      pix,
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	return buf, nil
}

func WriteRaw(buf *common.ImageBuffer, path string) error {
	data, err := EncodeRaw(buf)
	if err != nil {
		return fmt.Errorf("failed to encode raw buffer: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write raw buffer: %w", err)
	}
	return nil
}

func ReadRaw(path string) (*common.ImageBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeRaw(data)
}
