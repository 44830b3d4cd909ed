package fence

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/framekit/hal"
	"github.com/vkngwrapper/framekit/internal/utils"
	"github.com/vkngwrapper/framekit/memutils"
	"golang.org/x/exp/slog"
)

// Fence is a monotonically increasing hardware completion counter for one queue. Values passed
// to Signal must increase from call to call. The fence does not reject out-of-order values,
// but builds with the debug_framekit tag assert on them.
type Fence struct {
	logger  *slog.Logger
	name    string
	counter hal.Counter

	mutex        sync.Mutex
	lastSignaled uint64
	destroyed    bool
}

// Create acquires a hardware counter from device. Failure to create the counter is an
// initialization failure and the returned error is marked with memutils.ErrInitializationFailure.
func Create(logger *slog.Logger, device hal.Device, name string) (*Fence, error) {
	logger = utils.LoggerOrDiscard(logger)

	counter, err := device.CreateCounter(name, 0)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to create fence %q", name), memutils.ErrInitializationFailure)
	}

	logger.Debug("Fence::Create", slog.String("Name", name))

	return &Fence{
		logger:  logger,
		name:    name,
		counter: counter,
	}, nil
}

// Name returns the debug name of the fence
func (f *Fence) Name() string { return f.name }

// Counter returns the hardware counter, for queue Wait commands
func (f *Fence) Counter() hal.Counter { return f.counter }

// Signal enqueues a command on queue that advances the fence to value once all work submitted
// to queue before it has finished
func (f *Fence) Signal(queue hal.Queue, value uint64) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.signalAfterLock(queue, value)
}

// SignalNext signals the value following the last signaled value on queue and returns it
func (f *Fence) SignalNext(queue hal.Queue) (uint64, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	value := f.lastSignaled + 1
	err := f.signalAfterLock(queue, value)
	if err != nil {
		return 0, err
	}

	return value, nil
}

func (f *Fence) signalAfterLock(queue hal.Queue, value uint64) error {
	memutils.DebugAssert(value > f.lastSignaled, "fence %q signaled with %d after %d", f.name, value, f.lastSignaled)

	err := queue.Signal(f.counter, value)
	if err != nil {
		return errors.Wrapf(err, "failed to signal fence %q to %d on the %s queue", f.name, value, queue.Type())
	}

	if value > f.lastSignaled {
		f.lastSignaled = value
	}
	return nil
}

// SignalCPU advances the fence to value from the host
func (f *Fence) SignalCPU(value uint64) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	memutils.DebugAssert(value > f.lastSignaled, "fence %q signaled with %d after %d", f.name, value, f.lastSignaled)

	err := f.counter.Signal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to signal fence %q to %d", f.name, value)
	}

	if value > f.lastSignaled {
		f.lastSignaled = value
	}
	return nil
}

// QueueWait enqueues a command on queue that stalls it until this fence reaches value. This
// is how work on one queue is ordered after work on another.
func (f *Fence) QueueWait(queue hal.Queue, value uint64) error {
	err := queue.Wait(f.counter, value)
	if err != nil {
		return errors.Wrapf(err, "%s queue failed to wait on fence %q for %d", queue.Type(), f.name, value)
	}
	return nil
}

// LastSignaledValue returns the highest value passed to Signal, SignalNext, or SignalCPU. The
// hardware may not have reached it yet.
func (f *Fence) LastSignaledValue() uint64 {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.lastSignaled
}

// CompletedValue returns the highest value the hardware has confirmed finished
func (f *Fence) CompletedValue() uint64 {
	return f.counter.CompletedValue()
}

// IsCompleted returns true once the hardware has reached value
func (f *Fence) IsCompleted(value uint64) bool {
	return f.counter.CompletedValue() >= value
}

// Wait blocks the calling goroutine until the hardware has reached value or ctx is done. This
// is the only blocking operation in framekit. Cancelling ctx abandons the wait, never the GPU work.
func (f *Fence) Wait(ctx context.Context, value uint64) error {
	if f.IsCompleted(value) {
		return nil
	}

	f.logger.Debug("Fence::Wait", slog.String("Name", f.name), slog.Uint64("Value", value))

	err := f.counter.WaitFor(ctx, value)
	if err != nil {
		return errors.Wrapf(err, "failed waiting for fence %q to reach %d", f.name, value)
	}
	return nil
}

// WaitIdle waits for the last signaled value
func (f *Fence) WaitIdle(ctx context.Context) error {
	return f.Wait(ctx, f.LastSignaledValue())
}

// Destroy releases the hardware counter
func (f *Fence) Destroy() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.destroyed {
		return errors.Newf("fence %q destroyed twice", f.name)
	}
	f.destroyed = true

	return f.counter.Destroy()
}
