// Package strategy holds the interchangeable ways of converting an RGB
// buffer to grayscale. Every strategy produces the same pixels; they differ
// only in how the rows are scheduled.
package strategy

import (
	"context"
	"fmt"
	"time"

	"go-gray/pkg/common"
	"go-gray/pkg/gray"
	"go-gray/pkg/progress"
)

// Strategy converts an RGB buffer into a gray buffer of the same size.
//
// The returned duration covers dispatch of the work up to the moment every
// worker has joined. Allocation of the output buffer happens before the
// clock starts.
type Strategy interface {
	Name() string
	Run(ctx context.Context, in *common.ImageBuffer, tracker *progress.Aggregator) (*common.ImageBuffer, time.Duration, error)
}

// RowConverter converts one RGB row into one gray row.
type RowConverter func(dst, src []byte)

func checkInput(in *common.ImageBuffer) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnexpectedFailure, err)
	}
	if in.Channels != common.RGB_CHANNELS {
		return fmt.Errorf("%w: input has %d channels, want %d",
			common.ErrUnexpectedFailure, in.Channels, common.RGB_CHANNELS)
	}
	return nil
}

func newOutput(in *common.ImageBuffer) *common.ImageBuffer {
	return common.NewImageBuffer(in.Width, in.Height, common.GRAY_CHANNELS)
}

// convertRows converts the rows of r, reporting each finished row.
func convertRows(ctx context.Context, convert RowConverter, out, in *common.ImageBuffer, r common.RowRange, tracker *progress.Aggregator) error {
	for y := r.Start; y < r.End; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		convert(out.Row(y), in.Row(y))
		tracker.Increment(1)
	}
	return nil
}

func converterOrDefault(c RowConverter) RowConverter {
	if c == nil {
		return gray.ConvertRow
	}
	return c
}
