package descriptor

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/framekit/memutils"
	"golang.org/x/exp/slices"
)

// FreeRange is a half-open range [Begin, End) of unassigned slot indices
type FreeRange struct {
	Begin int
	End   int
}

// Size returns the number of slots in the range
func (r FreeRange) Size() int { return r.End - r.Begin }

// FreeListAllocator hands out long-lived descriptor slots from a CPU-visible heap. Free slots
// are kept as a sorted list of disjoint ranges that are merged whenever two become adjacent,
// so the number of ranges stays proportional to fragmentation rather than to free slots.
//
// FreeListAllocator is not safe for concurrent use.
type FreeListAllocator struct {
	heap      *Heap
	ranges    []FreeRange
	allocated int
}

// NewFreeListAllocator creates an allocator in which every slot of heap is free
func NewFreeListAllocator(heap *Heap) *FreeListAllocator {
	return &FreeListAllocator{
		heap:   heap,
		ranges: []FreeRange{{Begin: 0, End: heap.Capacity()}},
	}
}

// Heap returns the heap slots are allocated from
func (a *FreeListAllocator) Heap() *Heap { return a.heap }

// AllocateOne assigns the lowest free slot. When the heap is full the returned error is marked
// with memutils.ErrOutOfDescriptorSpace.
func (a *FreeListAllocator) AllocateOne() (Handle, error) {
	if len(a.ranges) == 0 {
		return Handle{}, errors.Wrapf(memutils.ErrOutOfDescriptorSpace, "descriptor heap %q (%s, capacity %d) is full",
			a.heap.Name(), a.heap.Kind(), a.heap.Capacity())
	}

	first := &a.ranges[0]
	index := first.Begin
	first.Begin++
	if first.Begin == first.End {
		a.ranges = slices.Delete(a.ranges, 0, 1)
	}
	a.allocated++

	return Handle{heap: a.heap, index: index}, nil
}

// Free returns a slot to the free list, merging it with the neighboring free ranges
func (a *FreeListAllocator) Free(handle Handle) error {
	if handle.heap != a.heap {
		return errors.Newf("descriptor handle does not belong to heap %q", a.heap.Name())
	}

	index := handle.index
	if index < 0 || index >= a.heap.Capacity() {
		return errors.Newf("descriptor slot %d is outside heap %q of capacity %d", index, a.heap.Name(), a.heap.Capacity())
	}

	// pos is the first range beginning after index
	pos, _ := slices.BinarySearchFunc(a.ranges, index, func(r FreeRange, target int) int {
		if r.Begin <= target {
			return -1
		}
		return 1
	})

	if pos > 0 && a.ranges[pos-1].End > index {
		return errors.Newf("descriptor slot %d of heap %q is already free", index, a.heap.Name())
	}

	mergePrev := pos > 0 && a.ranges[pos-1].End == index
	mergeNext := pos < len(a.ranges) && a.ranges[pos].Begin == index+1

	switch {
	case mergePrev && mergeNext:
		a.ranges[pos-1].End = a.ranges[pos].End
		a.ranges = slices.Delete(a.ranges, pos, pos+1)
	case mergePrev:
		a.ranges[pos-1].End = index + 1
	case mergeNext:
		a.ranges[pos].Begin = index
	default:
		a.ranges = slices.Insert(a.ranges, pos, FreeRange{Begin: index, End: index + 1})
	}
	a.allocated--

	memutils.DebugValidate(a)
	return nil
}

// FreeRanges returns a copy of the current free list, sorted by Begin
func (a *FreeListAllocator) FreeRanges() []FreeRange {
	return slices.Clone(a.ranges)
}

// AllocatedCount returns the number of slots currently assigned
func (a *FreeListAllocator) AllocatedCount() int { return a.allocated }

// FreeCount returns the number of unassigned slots
func (a *FreeListAllocator) FreeCount() int { return a.heap.Capacity() - a.allocated }

// Validate checks that the free list is sorted, disjoint, never adjacent, and together with the
// allocated count covers the heap exactly
func (a *FreeListAllocator) Validate() error {
	freeSlots := 0
	for i, r := range a.ranges {
		if r.Begin < 0 || r.End > a.heap.Capacity() || r.Begin >= r.End {
			return errors.Newf("free range %d [%d, %d) is invalid for heap %q of capacity %d", i, r.Begin, r.End, a.heap.Name(), a.heap.Capacity())
		}
		if i > 0 && a.ranges[i-1].End >= r.Begin {
			return errors.Newf("free range %d [%d, %d) overlaps or touches the previous range ending at %d", i, r.Begin, r.End, a.ranges[i-1].End)
		}
		freeSlots += r.Size()
	}

	if freeSlots+a.allocated != a.heap.Capacity() {
		return errors.Newf("heap %q has %d free slots and %d allocated slots, which does not add up to the capacity %d",
			a.heap.Name(), freeSlots, a.allocated, a.heap.Capacity())
	}

	return nil
}

// AddStatistics sums this allocator's usage into stats
func (a *FreeListAllocator) AddStatistics(stats *memutils.Statistics) {
	stats.BlockCount++
	stats.BlockUnits += a.heap.Capacity()
	stats.AllocationCount += a.allocated
	stats.AllocationUnits += a.allocated
}

// AddDetailedStatistics sums this allocator's usage and fragmentation into stats
func (a *FreeListAllocator) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	a.AddStatistics(&stats.Statistics)
	for _, r := range a.ranges {
		stats.AddUnusedRange(r.Size())
	}
}

// WriteJSON writes the allocator state as fields of an open json object. The free list itself
// is only written when detailed is set.
func (a *FreeListAllocator) WriteJSON(json *jwriter.ObjectState, detailed bool) {
	a.heap.WriteJSON(json)

	var stats memutils.DetailedStatistics
	stats.Clear()
	a.AddDetailedStatistics(&stats)
	stats.WriteJSON(json)

	if detailed {
		arr := json.Name("FreeRanges").Array()
		for _, r := range a.ranges {
			obj := arr.Object()
			obj.Name("Begin").Int(r.Begin)
			obj.Name("End").Int(r.End)
			obj.End()
		}
		arr.End()
	}
}
