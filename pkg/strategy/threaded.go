package strategy

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"go-gray/pkg/common"
	"go-gray/pkg/partition"
	"go-gray/pkg/progress"
)

const DEFAULT_WORKERS = 4

// Threaded gives each worker one contiguous row range. Workers write only
// their own rows of the output, so the buffer needs no locking; the progress
// counter is the only state they share.
type Threaded struct {
	Workers int
	convert RowConverter
}

func NewThreaded(workers int) *Threaded {
	if workers < 1 {
		workers = DEFAULT_WORKERS
	}
	return &Threaded{Workers: workers}
}

func (t *Threaded) Name() string {
	return fmt.Sprintf("Threaded (%d workers)", t.Workers)
}

func (t *Threaded) Run(ctx context.Context, in *common.ImageBuffer, tracker *progress.Aggregator) (*common.ImageBuffer, time.Duration, error) {
	if err := checkInput(in); err != nil {
		return nil, 0, err
	}
	out := newOutput(in)
	convert := converterOrDefault(t.convert)
	ranges := partition.Rows(in.Height, t.Workers)

	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for id, r := range ranges {
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("%w: worker %d rows %s panicked: %v", common.ErrUnexpectedFailure, id, r, p)
				}
			}()
			if err := convertRows(gctx, convert, out, in, r, tracker); err != nil {
				return fmt.Errorf("worker %d rows %s: %w", id, r, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	elapsed := time.Since(startTime)
	tracker.Finish()

	return out, elapsed, nil
}
