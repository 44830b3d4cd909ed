package descriptor

import (
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/framekit/fence"
	"github.com/vkngwrapper/framekit/memutils"
)

// ringFrame is the retirement record of one finished frame
type ringFrame struct {
	frame uint64
	// end is the write cursor when the frame finished; once the frame retires the ring's
	// oldest live slot moves here
	end int
	// consumed is the number of slots the frame used, including slots skipped at the end of
	// the heap when a table wrapped around
	consumed int
}

// RingAllocator hands out short-lived descriptor tables from a shader-visible heap. Tables
// allocated during a frame stay live until the frame is retired with ReleaseCompletedFrames,
// which requires a fence.Completion proving the GPU has finished with it.
//
// Frame indices passed to FinishCurrentFrame must be strictly increasing. Gaps are allowed.
// RingAllocator is not safe for concurrent use.
type RingAllocator struct {
	heap     *Heap
	capacity int

	// head is the next slot to allocate, tail is the oldest live slot
	head int
	tail int
	// used counts live slots, which tells a full ring apart from an empty one when head == tail
	used int

	currentFrameUsed int
	// records holds pending frames keyed by finish order, oldest at firstRecord
	records          *swiss.Map[uint64, ringFrame]
	firstRecord      uint64
	nextRecord       uint64
	newestFrame      uint64
	finished         bool
}

// NewRingAllocator creates a ring over every slot of heap
func NewRingAllocator(heap *Heap) *RingAllocator {
	return &RingAllocator{
		heap:     heap,
		capacity: heap.Capacity(),
		records:  swiss.NewMap[uint64, ringFrame](8),
	}
}

// Heap returns the heap tables are allocated from
func (r *RingAllocator) Heap() *Heap { return r.heap }

// Allocate reserves count contiguous slots for the current frame. If the run does not fit
// before the end of the heap the ring wraps to slot 0, and the skipped slots are charged to the
// current frame. The returned error is marked with memutils.ErrOutOfDescriptorSpace when no
// contiguous run exists outside the live region, or memutils.ErrAllocationTooLarge when count
// exceeds the capacity of the heap.
func (r *RingAllocator) Allocate(count int) (Table, error) {
	if count <= 0 {
		return Table{}, errors.Newf("descriptor table size must be positive, got %d", count)
	}
	if count > r.capacity {
		return Table{}, errors.Wrapf(memutils.ErrAllocationTooLarge, "descriptor table of %d slots requested from ring %q of capacity %d",
			count, r.heap.Name(), r.capacity)
	}

	if r.used == 0 {
		r.head = 0
		r.tail = 0
	}

	offset := -1
	charged := 0

	switch {
	case r.used > 0 && r.head == r.tail:
		// full
	case r.head >= r.tail:
		if r.head+count <= r.capacity {
			offset = r.head
			charged = count
		} else if count <= r.tail {
			offset = 0
			charged = r.capacity - r.head + count
		}
	default:
		if r.head+count <= r.tail {
			offset = r.head
			charged = count
		}
	}

	if offset < 0 {
		return Table{}, errors.Wrapf(memutils.ErrOutOfDescriptorSpace, "descriptor ring %q has no run of %d free slots (%d of %d slots live)",
			r.heap.Name(), count, r.used, r.capacity)
	}

	r.head = offset + count
	if r.head == r.capacity {
		r.head = 0
	}
	r.used += charged
	r.currentFrameUsed += charged

	return Table{first: Handle{heap: r.heap, index: offset}, count: count}, nil
}

// FinishCurrentFrame records the write cursor as the retirement boundary of frameIndex. It must
// be called once per frame after every table for the frame has been allocated.
func (r *RingAllocator) FinishCurrentFrame(frameIndex uint64) error {
	if r.finished && frameIndex <= r.newestFrame {
		return errors.Newf("frame %d finished after frame %d", frameIndex, r.newestFrame)
	}

	r.records.Put(r.nextRecord, ringFrame{frame: frameIndex, end: r.head, consumed: r.currentFrameUsed})
	r.nextRecord++
	r.newestFrame = frameIndex
	r.finished = true
	r.currentFrameUsed = 0

	return nil
}

// ReleaseCompletedFrames retires every finished frame whose index is at most done.Value(),
// making its slots available again. It returns the number of frames retired. The zero
// Completion retires nothing.
func (r *RingAllocator) ReleaseCompletedFrames(done fence.Completion) int {
	if !done.Valid() {
		return 0
	}

	completed := done.Value()
	released := 0

	for r.firstRecord < r.nextRecord {
		record, ok := r.records.Get(r.firstRecord)
		if !ok {
			memutils.DebugAssert(false, "ring %q lost retirement record %d", r.heap.Name(), r.firstRecord)
			break
		}
		if record.frame > completed {
			break
		}

		r.records.Delete(r.firstRecord)
		r.firstRecord++
		if record.consumed > 0 {
			r.tail = record.end
		}
		r.used -= record.consumed
		released++
	}

	memutils.DebugValidate(r)
	return released
}

// UsedCount returns the number of live slots, including slots skipped by wrapping
func (r *RingAllocator) UsedCount() int { return r.used }

// PendingFrames returns the number of finished frames that have not been retired
func (r *RingAllocator) PendingFrames() int { return int(r.nextRecord - r.firstRecord) }

// Validate performs internal consistency checks on the ring
func (r *RingAllocator) Validate() error {
	if r.used < 0 || r.used > r.capacity {
		return errors.Newf("ring %q reports %d live slots out of %d", r.heap.Name(), r.used, r.capacity)
	}
	if r.head < 0 || r.head >= r.capacity || r.tail < 0 || r.tail > r.capacity {
		return errors.Newf("ring %q cursors out of range: head %d, tail %d, capacity %d", r.heap.Name(), r.head, r.tail, r.capacity)
	}
	if r.records.Count() != r.PendingFrames() {
		return errors.Newf("ring %q has %d retirement records but counts %d pending frames", r.heap.Name(), r.records.Count(), r.PendingFrames())
	}

	pendingUsed := 0
	previous := uint64(0)
	for seq := r.firstRecord; seq < r.nextRecord; seq++ {
		record, ok := r.records.Get(seq)
		if !ok {
			return errors.Newf("ring %q is missing retirement record %d", r.heap.Name(), seq)
		}
		if seq > r.firstRecord && record.frame <= previous {
			return errors.Newf("ring %q retires frame %d after frame %d", r.heap.Name(), record.frame, previous)
		}
		previous = record.frame
		pendingUsed += record.consumed
	}
	if pendingUsed+r.currentFrameUsed != r.used {
		return errors.Newf("ring %q has %d slots in finished frames and %d in the current frame, but %d live slots",
			r.heap.Name(), pendingUsed, r.currentFrameUsed, r.used)
	}

	return nil
}

// AddStatistics sums this ring's usage into stats
func (r *RingAllocator) AddStatistics(stats *memutils.Statistics) {
	stats.BlockCount++
	stats.BlockUnits += r.capacity
	stats.AllocationCount += r.PendingFrames()
	stats.AllocationUnits += r.used
}

// WriteJSON writes the ring state as fields of an open json object
func (r *RingAllocator) WriteJSON(json *jwriter.ObjectState) {
	r.heap.WriteJSON(json)
	json.Name("Head").Int(r.head)
	json.Name("Tail").Int(r.tail)
	json.Name("UsedSlots").Int(r.used)
	json.Name("CurrentFrameSlots").Int(r.currentFrameUsed)
	json.Name("PendingFrames").Int(r.PendingFrames())
}
