package strategy

import (
	"context"
	"fmt"
	"time"

	"go-gray/pkg/common"
	"go-gray/pkg/progress"
)

// Sequential converts the whole image in a single pass on the calling goroutine.
type Sequential struct {
	convert RowConverter
}

func NewSequential() *Sequential {
	return &Sequential{}
}

func (s *Sequential) Name() string {
	return "Sequential"
}

func (s *Sequential) Run(ctx context.Context, in *common.ImageBuffer, tracker *progress.Aggregator) (out *common.ImageBuffer, elapsed time.Duration, err error) {
	if err := checkInput(in); err != nil {
		return nil, 0, err
	}
	out = newOutput(in)
	convert := converterOrDefault(s.convert)

	defer func() {
		if r := recover(); r != nil {
			out, elapsed, err = nil, 0, fmt.Errorf("%w: sequential pass panicked: %v", common.ErrUnexpectedFailure, r)
		}
	}()

	startTime := time.Now()
	if err := convertRows(ctx, convert, out, in, common.RowRange{Start: 0, End: in.Height}, tracker); err != nil {
		return nil, 0, err
	}
	elapsed = time.Since(startTime)
	tracker.Finish()

	return out, elapsed, nil
}
