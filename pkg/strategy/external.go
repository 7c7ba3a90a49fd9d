package strategy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-gray/pkg/common"
	"go-gray/pkg/progress"
)

// Accelerator is an externally supplied grayscale routine. How it schedules
// its work is its own business; it must fill dst with the same pixels the
// Sequential strategy would produce.
//
// Implementations register themselves from an init function and are enabled
// with a blank import:
//
//	import _ "go-gray/pkg/accel"
type Accelerator interface {
	Name() string
	Convert(ctx context.Context, dst, src *common.ImageBuffer) error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator installs a as the accelerated routine, replacing any
// previous one. Passing nil unregisters it.
func RegisterAccelerator(a Accelerator) {
	accelMu.Lock()
	accel = a
	accelMu.Unlock()
}

// RegisteredAccelerator returns the installed accelerator, or nil.
func RegisteredAccelerator() Accelerator {
	accelMu.RLock()
	defer accelMu.RUnlock()
	return accel
}

// External runs whatever Accelerator is registered when Run is called.
type External struct {
	lookup func() Accelerator
}

func NewExternal() *External {
	return &External{lookup: RegisteredAccelerator}
}

func (e *External) Name() string {
	if a := e.accelerator(); a != nil {
		return "Accelerated (" + a.Name() + ")"
	}
	return "Accelerated"
}

func (e *External) accelerator() Accelerator {
	if e.lookup == nil {
		return RegisteredAccelerator()
	}
	return e.lookup()
}

func (e *External) Run(ctx context.Context, in *common.ImageBuffer, tracker *progress.Aggregator) (out *common.ImageBuffer, elapsed time.Duration, err error) {
	a := e.accelerator()
	if a == nil {
		return nil, 0, common.ErrAcceleratedUnavailable
	}
	if err := checkInput(in); err != nil {
		return nil, 0, err
	}
	out = newOutput(in)

	defer func() {
		if r := recover(); r != nil {
			out, elapsed, err = nil, 0, fmt.Errorf("%w: accelerator %s panicked: %v", common.ErrUnexpectedFailure, a.Name(), r)
		}
	}()

	startTime := time.Now()
	if err := a.Convert(ctx, out, in); err != nil {
		if errors.Is(err, common.ErrAcceleratedUnavailable) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: accelerator %s: %v", common.ErrUnexpectedFailure, a.Name(), err)
	}
	elapsed = time.Since(startTime)
	tracker.Finish()

	if out.Width != in.Width || out.Height != in.Height || out.Channels != common.GRAY_CHANNELS || out.Validate() != nil {
		return nil, 0, fmt.Errorf("%w: accelerator %s changed the output shape", common.ErrUnexpectedFailure, a.Name())
	}
	return out, elapsed, nil
}
