// Package accel provides the accelerated grayscale routine. Importing it for
// its side effect registers the routine with the strategy package:
//
//	import _ "go-gray/pkg/accel"
package accel

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"

	"go-gray/pkg/common"
	"go-gray/pkg/gray"
	"go-gray/pkg/strategy"
)

// rowsPerBatch is the number of rows a worker claims at a time.
const rowsPerBatch = 16

func init() {
	strategy.RegisterAccelerator(New(0))
}

// LookupAccelerator converts pixels with precomputed tables on a persistent
// worker pool.
type LookupAccelerator struct {
	tables *gray.ChannelTables
	pool   *workerpool.Pool
}

// New returns an accelerator with the given number of workers; workers <= 0
// means GOMAXPROCS.
func New(workers int) *LookupAccelerator {
	return &LookupAccelerator{
		tables: gray.Tables(),
		pool:   workerpool.New(workers),
	}
}

func (a *LookupAccelerator) Name() string {
	return fmt.Sprintf("lookup tables, %d workers", a.pool.NumWorkers())
}

// Convert fills dst with the luminance of src.
func (a *LookupAccelerator) Convert(ctx context.Context, dst, src *common.ImageBuffer) error {
	if dst.Width != src.Width || dst.Height != src.Height {
		return fmt.Errorf("destination is %dx%d, source is %dx%d", dst.Width, dst.Height, src.Width, src.Height)
	}
	t := a.tables
	return forBatches(a.pool, src.Height, rowsPerBatch, func(start, end int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for y := start; y < end; y++ {
			in, out := src.Row(y), dst.Row(y)
			for x := range out {
				i := x * 3
				out[x] = t.Lookup(in[i], in[i+1], in[i+2])
			}
		}
		return nil
	})
}

// Close stops the worker pool. Later calls to Convert run on the caller's goroutine.
func (a *LookupAccelerator) Close() {
	a.pool.Close()
}

// forBatches runs fn over [0, n) in batches on the pool and returns the first
// error. A panicking batch is reported as an error; a worker that dies would
// never release the pool's barrier. Once a batch fails the remaining batches
// are skipped.
func forBatches(p *workerpool.Pool, n, batch int, fn func(start, end int) error) error {
	var (
		once     sync.Once
		firstErr error
		failed   atomic.Bool
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			failed.Store(true)
		})
	}
	p.ParallelForAtomicBatched(n, batch, func(start, end int) {
		if failed.Load() {
			return
		}
		defer func() {
			if r := recover(); r != nil {
				fail(fmt.Errorf("rows %d-%d: panic: %v", start, end, r))
			}
		}()
		if err := fn(start, end); err != nil {
			fail(err)
		}
	})
	return firstErr
}
