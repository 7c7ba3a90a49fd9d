package common

import (
	"bytes"
	"fmt"
	"time"
)

const (
	RGB_CHANNELS  = 3
	GRAY_CHANNELS = 1
)

// ImageBuffer is a flat pixel buffer indexed (y*Width + x)*Channels + c.
type ImageBuffer struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Channels int    `json:"channels"`
	Pix      []byte `json:"-"`
}

func NewImageBuffer(width, height, channels int) *ImageBuffer {
	return &ImageBuffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]byte, width*height*channels),
	}
}

// Stride returns the number of bytes in one row.
func (b *ImageBuffer) Stride() int {
	return b.Width * b.Channels
}

// Row returns the bytes of row y. Writes through the slice land in Pix.
func (b *ImageBuffer) Row(y int) []byte {
	stride := b.Stride()
	return b.Pix[y*stride : (y+1)*stride : (y+1)*stride]
}

func (b *ImageBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("image buffer is nil")
	}
	if b.Width < 0 || b.Height < 0 || b.Channels < 1 {
		return fmt.Errorf("invalid image shape %dx%dx%d", b.Width, b.Height, b.Channels)
	}
	if len(b.Pix) != b.Width*b.Height*b.Channels {
		return fmt.Errorf("pixel buffer has %d bytes, want %d for %dx%dx%d",
			len(b.Pix), b.Width*b.Height*b.Channels, b.Width, b.Height, b.Channels)
	}
	return nil
}

func (b *ImageBuffer) Equal(other *ImageBuffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.Width == other.Width &&
		b.Height == other.Height &&
		b.Channels == other.Channels &&
		bytes.Equal(b.Pix, other.Pix)
}

// RowRange is the half-open row interval [Start, End) owned by one worker.
type RowRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r RowRange) Len() int {
	return r.End - r.Start
}

func (r RowRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// BenchmarkResult is one timed stage. The first result of a run is the baseline.
type BenchmarkResult struct {
	Label           string    `json:"label"`
	Seconds         float64   `json:"duration_seconds"`
	Workers         int       `json:"workers,omitempty"`
	OutputPath      string    `json:"output_path,omitempty"`
	Digest          uint64    `json:"digest"`
	MatchesBaseline bool      `json:"matches_baseline"`
	Timestamp       time.Time `json:"timestamp"`
}

type StageFailure struct {
	Label   string    `json:"label"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

type RunReport struct {
	RunID      string            `json:"run_id"`
	InputPath  string            `json:"input_path"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Results    []BenchmarkResult `json:"results"`
	Failures   []StageFailure    `json:"failures,omitempty"`
}
