package descriptor

// Handle identifies one descriptor slot. It is a value type: two handles are equal when they
// name the same slot of the same heap. The zero Handle is invalid.
type Handle struct {
	heap  *Heap
	index int
}

// Valid returns true if the handle refers to a heap
func (h Handle) Valid() bool { return h.heap != nil }

func (h Handle) Heap() *Heap { return h.heap }
func (h Handle) Index() int  { return h.index }

// CPUAddress is the host address of the slot, used to write the descriptor
func (h Handle) CPUAddress() uint64 {
	return h.heap.cpuBase + uint64(h.index*h.heap.stride)
}

// GPUAddress is the device address of the slot, or 0 if the heap is not shader visible
func (h Handle) GPUAddress() uint64 {
	if !h.heap.shaderVisible {
		return 0
	}
	return h.heap.gpuBase + uint64(h.index*h.heap.stride)
}

// Table is a contiguous run of descriptor slots, addressed from shaders by an index relative
// to its first slot
type Table struct {
	first Handle
	count int
}

// Valid returns true if the table refers to a heap
func (t Table) Valid() bool { return t.first.Valid() }

// First returns the handle of the first slot
func (t Table) First() Handle { return t.first }

// Count returns the number of slots in the table
func (t Table) Count() int { return t.count }

// Handle returns the handle at position i within the table. It panics if i is out of range.
func (t Table) Handle(i int) Handle {
	if i < 0 || i >= t.count {
		panic("descriptor table index out of range")
	}
	return Handle{heap: t.first.heap, index: t.first.index + i}
}
