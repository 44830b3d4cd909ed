package descriptor

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/framekit/hal"
	"github.com/vkngwrapper/framekit/memutils"
)

// Heap is a fixed-capacity array of descriptor slots of one kind. It is immutable after
// creation.
type Heap struct {
	name          string
	kind          hal.DescriptorKind
	capacity      int
	shaderVisible bool
	cpuBase       uint64
	gpuBase       uint64
	stride        int

	memory hal.HeapMemory
}

// NewHeap creates the hardware storage for a heap. A failure is marked with
// memutils.ErrInitializationFailure.
func NewHeap(device hal.Device, desc hal.HeapDesc) (*Heap, error) {
	if desc.Capacity <= 0 {
		return nil, errors.Newf("descriptor heap %q must have a positive capacity, got %d", desc.Name, desc.Capacity)
	}

	memory, err := device.CreateHeap(desc)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to create descriptor heap %q", desc.Name), memutils.ErrInitializationFailure)
	}

	return &Heap{
		name:          desc.Name,
		kind:          desc.Kind,
		capacity:      desc.Capacity,
		shaderVisible: desc.ShaderVisible,
		cpuBase:       memory.CPUBase(),
		gpuBase:       memory.GPUBase(),
		stride:        memory.Stride(),
		memory:        memory,
	}, nil
}

func (h *Heap) Name() string             { return h.name }
func (h *Heap) Kind() hal.DescriptorKind { return h.kind }
func (h *Heap) Capacity() int            { return h.capacity }
func (h *Heap) ShaderVisible() bool      { return h.shaderVisible }
func (h *Heap) CPUBase() uint64          { return h.cpuBase }
func (h *Heap) GPUBase() uint64          { return h.gpuBase }
func (h *Heap) Stride() int              { return h.stride }
func (h *Heap) Memory() hal.HeapMemory   { return h.memory }

// Handle returns the handle for slot index. It panics if index is out of range.
func (h *Heap) Handle(index int) Handle {
	if index < 0 || index >= h.capacity {
		panic(errors.AssertionFailedf("slot %d is outside descriptor heap %q of capacity %d", index, h.name, h.capacity))
	}
	return Handle{heap: h, index: index}
}

// Destroy releases the hardware storage. Handles into the heap must not be used afterwards.
func (h *Heap) Destroy() error {
	return h.memory.Destroy()
}

// WriteJSON writes the heap's static description as fields of an open json object
func (h *Heap) WriteJSON(json *jwriter.ObjectState) {
	json.Name("Name").String(h.name)
	json.Name("Kind").String(h.kind.String())
	json.Name("Capacity").Int(h.capacity)
	json.Name("ShaderVisible").Bool(h.shaderVisible)
	json.Name("Stride").Int(h.stride)
}
