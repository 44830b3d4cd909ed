package descriptor_test

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/framekit/descriptor"
	"github.com/vkngwrapper/framekit/fence"
	"github.com/vkngwrapper/framekit/memutils"
)

func TestRingBlocksUntilFrameReleased(t *testing.T) {
	device, heap := newTestHeap(t, 8, true)
	frames := newTestFence(t, device)
	ring := descriptor.NewRingAllocator(heap)

	a, err := ring.Allocate(3)
	require.NoError(t, err)
	b, err := ring.Allocate(3)
	require.NoError(t, err)
	require.Equal(t, 0, a.First().Index())
	require.Equal(t, 3, b.First().Index())
	require.NoError(t, ring.FinishCurrentFrame(1))

	// Frame 2 needs a run that overlaps frame 1's live slots
	_, err = ring.Allocate(4)
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.ErrOutOfDescriptorSpace))

	// A completion that does not cover frame 1 releases nothing
	require.Equal(t, 0, ring.ReleaseCompletedFrames(frames.Completion()))
	_, err = ring.Allocate(4)
	require.Error(t, err)

	require.Equal(t, 1, ring.ReleaseCompletedFrames(completeFrame(t, frames, 1)))
	c, err := ring.Allocate(4)
	require.NoError(t, err)
	require.Equal(t, 0, c.First().Index())
	require.Equal(t, 4, c.Count())
	require.NoError(t, ring.Validate())
}

func TestRingWrapChargesSkippedSlots(t *testing.T) {
	device, heap := newTestHeap(t, 8, true)
	frames := newTestFence(t, device)
	ring := descriptor.NewRingAllocator(heap)

	_, err := ring.Allocate(3)
	require.NoError(t, err)
	require.NoError(t, ring.FinishCurrentFrame(1))

	_, err = ring.Allocate(3)
	require.NoError(t, err)
	require.NoError(t, ring.FinishCurrentFrame(2))

	ring.ReleaseCompletedFrames(completeFrame(t, frames, 1))
	require.Equal(t, 3, ring.UsedCount())

	// Slots 6 and 7 cannot hold a table of 3, so it wraps to slot 0
	table, err := ring.Allocate(3)
	require.NoError(t, err)
	require.Equal(t, 0, table.First().Index())
	require.Equal(t, 8, ring.UsedCount())
	require.NoError(t, ring.Validate())

	// The ring is now full
	_, err = ring.Allocate(1)
	require.True(t, errors.Is(err, memutils.ErrOutOfDescriptorSpace))
	require.NoError(t, ring.FinishCurrentFrame(3))

	ring.ReleaseCompletedFrames(completeFrame(t, frames, 2))
	require.Equal(t, 5, ring.UsedCount())

	next, err := ring.Allocate(3)
	require.NoError(t, err)
	require.Equal(t, 3, next.First().Index())
	require.NoError(t, ring.Validate())

	ring.ReleaseCompletedFrames(completeFrame(t, frames, 3))
	require.Equal(t, 3, ring.UsedCount())
	require.Equal(t, 0, ring.PendingFrames())
	require.NoError(t, ring.Validate())
}

func TestRingReleasesEveryFrameUpToCompletion(t *testing.T) {
	device, heap := newTestHeap(t, 16, true)
	frames := newTestFence(t, device)
	ring := descriptor.NewRingAllocator(heap)

	for frame := uint64(1); frame <= 4; frame++ {
		_, err := ring.Allocate(2)
		require.NoError(t, err)
		require.NoError(t, ring.FinishCurrentFrame(frame))
	}
	require.Equal(t, 4, ring.PendingFrames())
	require.Equal(t, 8, ring.UsedCount())

	require.Equal(t, 3, ring.ReleaseCompletedFrames(completeFrame(t, frames, 3)))
	require.Equal(t, 1, ring.PendingFrames())
	require.Equal(t, 2, ring.UsedCount())
	require.NoError(t, ring.Validate())
}

func TestRingSkippedFrameIndices(t *testing.T) {
	device, heap := newTestHeap(t, 16, true)
	frames := newTestFence(t, device)
	ring := descriptor.NewRingAllocator(heap)

	_, err := ring.Allocate(2)
	require.NoError(t, err)
	require.NoError(t, ring.FinishCurrentFrame(2))

	_, err = ring.Allocate(2)
	require.NoError(t, err)
	require.NoError(t, ring.FinishCurrentFrame(5))

	require.Equal(t, 1, ring.ReleaseCompletedFrames(completeFrame(t, frames, 4)))
	require.Equal(t, 2, ring.UsedCount())
	require.Equal(t, 1, ring.ReleaseCompletedFrames(completeFrame(t, frames, 5)))
	require.Equal(t, 0, ring.UsedCount())
}

func TestRingArgumentErrors(t *testing.T) {
	_, heap := newTestHeap(t, 8, true)
	ring := descriptor.NewRingAllocator(heap)

	_, err := ring.Allocate(0)
	require.Error(t, err)

	_, err = ring.Allocate(9)
	require.True(t, errors.Is(err, memutils.ErrAllocationTooLarge))
	require.False(t, errors.Is(err, memutils.ErrOutOfDescriptorSpace))

	require.NoError(t, ring.FinishCurrentFrame(0))
	require.Error(t, ring.FinishCurrentFrame(0))
	require.NoError(t, ring.FinishCurrentFrame(1))
	require.Error(t, ring.FinishCurrentFrame(1))

	// The zero completion proves nothing, not even frame 0
	require.Equal(t, 0, ring.ReleaseCompletedFrames(fence.Completion{}))
	require.Equal(t, 2, ring.PendingFrames())
}

func TestRingFrameZero(t *testing.T) {
	device, heap := newTestHeap(t, 8, true)
	frames := newTestFence(t, device)
	ring := descriptor.NewRingAllocator(heap)

	_, err := ring.Allocate(3)
	require.NoError(t, err)
	_, err = ring.Allocate(3)
	require.NoError(t, err)
	require.NoError(t, ring.FinishCurrentFrame(0))

	_, err = ring.Allocate(4)
	require.True(t, errors.Is(err, memutils.ErrOutOfDescriptorSpace))

	// A fresh fence has completed value 0, which covers frame 0
	require.Equal(t, 1, ring.ReleaseCompletedFrames(frames.Completion()))
	table, err := ring.Allocate(4)
	require.NoError(t, err)
	require.Equal(t, 0, table.First().Index())
	require.NoError(t, ring.FinishCurrentFrame(1))
	require.NoError(t, ring.Validate())
}

func TestRingLargeFrameIndexGap(t *testing.T) {
	device, heap := newTestHeap(t, 8, true)
	frames := newTestFence(t, device)
	ring := descriptor.NewRingAllocator(heap)

	_, err := ring.Allocate(2)
	require.NoError(t, err)
	require.NoError(t, ring.FinishCurrentFrame(1))
	_, err = ring.Allocate(2)
	require.NoError(t, err)
	require.NoError(t, ring.FinishCurrentFrame(1<<62))
	require.NoError(t, ring.Validate())

	done := completeFrame(t, frames, 1<<62)
	released := make(chan int, 1)
	go func() { released <- ring.ReleaseCompletedFrames(done) }()

	select {
	case n := <-released:
		require.Equal(t, 2, n)
	case <-time.After(5 * time.Second):
		t.Fatal("retiring two frames far apart did not finish")
	}
	require.Equal(t, 0, ring.PendingFrames())
	require.Equal(t, 0, ring.UsedCount())
	require.NoError(t, ring.Validate())
}

func TestRingTableAddresses(t *testing.T) {
	_, heap := newTestHeap(t, 8, true)
	ring := descriptor.NewRingAllocator(heap)

	_, err := ring.Allocate(2)
	require.NoError(t, err)
	table, err := ring.Allocate(3)
	require.NoError(t, err)

	require.True(t, table.Valid())
	require.Equal(t, 4, table.Handle(2).Index())
	require.Equal(t, heap.GPUBase()+uint64(2*heap.Stride()), table.First().GPUAddress())
	require.Panics(t, func() { table.Handle(3) })
}
