package fence_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/framekit/fence"
	"github.com/vkngwrapper/framekit/hal"
	mock_hal "github.com/vkngwrapper/framekit/hal/mocks"
	"github.com/vkngwrapper/framekit/hal/sim"
	"github.com/vkngwrapper/framekit/memutils"
	"go.uber.org/mock/gomock"
)

func TestCreateFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	device := mock_hal.NewMockDevice(ctrl)
	device.EXPECT().CreateCounter("Graphics", uint64(0)).Return(nil, errors.New("no counters left"))

	_, err := fence.Create(nil, device, "Graphics")
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.ErrInitializationFailure))
	require.Contains(t, err.Error(), "Graphics")
}

func TestSignalGoesThroughQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	counter := mock_hal.NewMockCounter(ctrl)
	queue := mock_hal.NewMockQueue(ctrl)
	device := mock_hal.NewMockDevice(ctrl)
	device.EXPECT().CreateCounter("Compute", uint64(0)).Return(counter, nil)

	f, err := fence.Create(nil, device, "Compute")
	require.NoError(t, err)
	require.Equal(t, "Compute", f.Name())
	require.Equal(t, hal.Counter(counter), f.Counter())

	queue.EXPECT().Signal(counter, uint64(1)).Return(nil)
	require.NoError(t, f.Signal(queue, 1))

	queue.EXPECT().Signal(counter, uint64(2)).Return(nil)
	value, err := f.SignalNext(queue)
	require.NoError(t, err)
	require.Equal(t, uint64(2), value)
	require.Equal(t, uint64(2), f.LastSignaledValue())

	queue.EXPECT().Type().Return(hal.QueueCompute)
	queue.EXPECT().Signal(counter, uint64(3)).Return(errors.New("device lost"))
	_, err = f.SignalNext(queue)
	require.Error(t, err)
	require.Equal(t, uint64(2), f.LastSignaledValue())

	queue.EXPECT().Wait(counter, uint64(2)).Return(nil)
	require.NoError(t, f.QueueWait(queue, 2))
}

func TestWaitAfterCompletionReturnsImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	counter := mock_hal.NewMockCounter(ctrl)
	device := mock_hal.NewMockDevice(ctrl)
	device.EXPECT().CreateCounter("Copy", uint64(0)).Return(counter, nil)

	f, err := fence.Create(nil, device, "Copy")
	require.NoError(t, err)

	// WaitFor is never expected: a completed value must not reach the hardware wait
	counter.EXPECT().CompletedValue().Return(uint64(5)).AnyTimes()
	require.NoError(t, f.Wait(context.Background(), 5))
	require.NoError(t, f.Wait(context.Background(), 4))
}

func TestIsCompleted(t *testing.T) {
	device := sim.New(nil, sim.Options{})
	defer device.Close()

	f, err := fence.Create(nil, device, "Graphics")
	require.NoError(t, err)

	require.True(t, f.IsCompleted(0))
	require.False(t, f.IsCompleted(1))

	require.NoError(t, f.SignalCPU(1))
	require.True(t, f.IsCompleted(1))
	require.False(t, f.IsCompleted(2))
	require.Equal(t, uint64(1), f.CompletedValue())
}

func TestWaitBlocksUntilQueueSignals(t *testing.T) {
	device := sim.New(nil, sim.Options{})
	defer device.Close()

	f, err := fence.Create(nil, device, "Graphics")
	require.NoError(t, err)

	queue := device.Queue(hal.QueueGraphics)
	release := make(chan struct{})
	require.NoError(t, queue.Submit(sim.Work(func() { <-release })))
	require.NoError(t, f.Signal(queue, 1))

	require.False(t, f.IsCompleted(1))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.Error(t, f.Wait(ctx, 1))

	close(release)
	require.NoError(t, f.WaitIdle(context.Background()))
	require.True(t, f.IsCompleted(1))
}

func TestCompletionTokens(t *testing.T) {
	device := sim.New(nil, sim.Options{})
	defer device.Close()

	f, err := fence.Create(nil, device, "Frame")
	require.NoError(t, err)

	var zero fence.Completion
	require.Equal(t, uint64(0), zero.Value())
	require.Nil(t, zero.Fence())
	require.False(t, zero.Valid())

	require.Equal(t, uint64(0), f.Completion().Value())
	require.True(t, f.Completion().Valid())

	require.NoError(t, f.Signal(device.Queue(hal.QueueGraphics), 3))
	done, err := f.WaitCompletion(context.Background(), 2)
	require.NoError(t, err)
	require.GreaterOrEqual(t, done.Value(), uint64(2))
	require.Equal(t, f, done.Fence())

	require.NoError(t, f.WaitIdle(context.Background()))
	require.Equal(t, uint64(3), f.Completion().Value())

	require.NoError(t, f.Destroy())
	require.Error(t, f.Destroy())
}
