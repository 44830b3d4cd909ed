package descriptor_test

import (
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/framekit/descriptor"
	"github.com/vkngwrapper/framekit/memutils"
)

func requireCoverage(t *testing.T, allocator *descriptor.FreeListAllocator) {
	free := 0
	for _, r := range allocator.FreeRanges() {
		free += r.Size()
	}
	require.Equal(t, allocator.Heap().Capacity(), free+allocator.AllocatedCount())
	require.NoError(t, allocator.Validate())
}

func TestFreeListAllocateInOrder(t *testing.T) {
	_, heap := newTestHeap(t, 3, false)
	allocator := descriptor.NewFreeListAllocator(heap)

	for i := 0; i < 3; i++ {
		handle, err := allocator.AllocateOne()
		require.NoError(t, err)
		require.True(t, handle.Valid())
		require.Equal(t, i, handle.Index())
		require.Equal(t, heap, handle.Heap())
		require.Equal(t, heap.CPUBase()+uint64(i*heap.Stride()), handle.CPUAddress())
		require.Zero(t, handle.GPUAddress())
	}

	require.Empty(t, allocator.FreeRanges())
	requireCoverage(t, allocator)

	_, err := allocator.AllocateOne()
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.ErrOutOfDescriptorSpace))
	require.Contains(t, err.Error(), "TestHeap")
}

func TestFreeListMergesAdjacentInEitherOrder(t *testing.T) {
	for _, order := range [][]int{{3, 4}, {4, 3}} {
		_, heap := newTestHeap(t, 8, false)
		allocator := descriptor.NewFreeListAllocator(heap)

		for i := 0; i < 8; i++ {
			_, err := allocator.AllocateOne()
			require.NoError(t, err)
		}

		for _, index := range order {
			require.NoError(t, allocator.Free(heap.Handle(index)))
		}

		require.Equal(t, []descriptor.FreeRange{{Begin: 3, End: 5}}, allocator.FreeRanges())
		requireCoverage(t, allocator)
	}
}

func TestFreeListThreeWayMerge(t *testing.T) {
	_, heap := newTestHeap(t, 8, false)
	allocator := descriptor.NewFreeListAllocator(heap)

	for i := 0; i < 8; i++ {
		_, err := allocator.AllocateOne()
		require.NoError(t, err)
	}

	require.NoError(t, allocator.Free(heap.Handle(2)))
	require.NoError(t, allocator.Free(heap.Handle(4)))
	require.Equal(t, []descriptor.FreeRange{{Begin: 2, End: 3}, {Begin: 4, End: 5}}, allocator.FreeRanges())

	require.NoError(t, allocator.Free(heap.Handle(3)))
	require.Equal(t, []descriptor.FreeRange{{Begin: 2, End: 5}}, allocator.FreeRanges())

	require.NoError(t, allocator.Free(heap.Handle(7)))
	require.NoError(t, allocator.Free(heap.Handle(0)))
	require.Equal(t, []descriptor.FreeRange{{Begin: 0, End: 1}, {Begin: 2, End: 5}, {Begin: 7, End: 8}}, allocator.FreeRanges())
	requireCoverage(t, allocator)
}

func TestFreeListEndToEnd(t *testing.T) {
	_, heap := newTestHeap(t, 4, false)
	allocator := descriptor.NewFreeListAllocator(heap)

	for i := 0; i < 4; i++ {
		_, err := allocator.AllocateOne()
		require.NoError(t, err)
	}

	require.NoError(t, allocator.Free(heap.Handle(1)))
	require.NoError(t, allocator.Free(heap.Handle(2)))
	require.Equal(t, []descriptor.FreeRange{{Begin: 1, End: 3}}, allocator.FreeRanges())

	first, err := allocator.AllocateOne()
	require.NoError(t, err)
	second, err := allocator.AllocateOne()
	require.NoError(t, err)

	require.Equal(t, 1, first.Index())
	require.Equal(t, 2, second.Index())
	require.Empty(t, allocator.FreeRanges())
	requireCoverage(t, allocator)
}

func TestFreeListRejectsBadFrees(t *testing.T) {
	_, heap := newTestHeap(t, 4, false)
	_, otherHeap := newTestHeap(t, 4, false)
	allocator := descriptor.NewFreeListAllocator(heap)

	handle, err := allocator.AllocateOne()
	require.NoError(t, err)

	require.Error(t, allocator.Free(otherHeap.Handle(0)))
	require.Error(t, allocator.Free(descriptor.Handle{}))
	require.Error(t, allocator.Free(heap.Handle(3)), "slot 3 was never allocated")

	require.NoError(t, allocator.Free(handle))
	require.Error(t, allocator.Free(handle), "double free")

	require.Equal(t, []descriptor.FreeRange{{Begin: 0, End: 4}}, allocator.FreeRanges())
	requireCoverage(t, allocator)
}

func TestFreeListRandomSequencesKeepCoverage(t *testing.T) {
	_, heap := newTestHeap(t, 64, false)
	allocator := descriptor.NewFreeListAllocator(heap)
	rng := rand.New(rand.NewSource(17))

	var live []descriptor.Handle
	for step := 0; step < 2000; step++ {
		if len(live) == 0 || (len(live) < 64 && rng.Intn(2) == 0) {
			handle, err := allocator.AllocateOne()
			require.NoError(t, err)
			live = append(live, handle)
		} else {
			i := rng.Intn(len(live))
			require.NoError(t, allocator.Free(live[i]))
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}

		require.Equal(t, len(live), allocator.AllocatedCount())
		requireCoverage(t, allocator)
	}

	for _, handle := range live {
		require.NoError(t, allocator.Free(handle))
	}
	require.Equal(t, []descriptor.FreeRange{{Begin: 0, End: 64}}, allocator.FreeRanges())
}

func TestFreeListStatistics(t *testing.T) {
	_, heap := newTestHeap(t, 10, false)
	allocator := descriptor.NewFreeListAllocator(heap)

	for i := 0; i < 6; i++ {
		_, err := allocator.AllocateOne()
		require.NoError(t, err)
	}
	require.NoError(t, allocator.Free(heap.Handle(2)))

	var stats memutils.DetailedStatistics
	stats.Clear()
	allocator.AddDetailedStatistics(&stats)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			BlockCount:      1,
			AllocationCount: 5,
			BlockUnits:      10,
			AllocationUnits: 5,
		},
		UnusedRangeCount:   2,
		UnusedRangeSizeMin: 1,
		UnusedRangeSizeMax: 4,
	}, stats)
}
