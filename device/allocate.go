package device

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/framekit/descriptor"
	"github.com/vkngwrapper/framekit/hal"
	"github.com/vkngwrapper/framekit/linear"
)

// AllocatePersistentDescriptor returns a CPU-visible descriptor slot of kind that stays valid
// until FreeDescriptor. Running out of slots is unrecoverable: the heap capacity set in
// CreateOptions is too small and the device aborts.
func (d *Device) AllocatePersistentDescriptor(kind hal.DescriptorKind) descriptor.Handle {
	handle, err := d.TryAllocatePersistentDescriptor(kind)
	if err != nil {
		d.fatal("AllocatePersistentDescriptor", err)
		return descriptor.Handle{}
	}
	return handle
}

// TryAllocatePersistentDescriptor is AllocatePersistentDescriptor returning the error instead
// of aborting
func (d *Device) TryAllocatePersistentDescriptor(kind hal.DescriptorKind) (descriptor.Handle, error) {
	if kind < 0 || kind >= hal.DescriptorKindCount {
		return descriptor.Handle{}, errors.Newf("invalid descriptor kind %d", kind)
	}

	d.persistentMutex[kind].Lock()
	defer d.persistentMutex[kind].Unlock()

	return d.persistent[kind].AllocateOne()
}

// FreeDescriptor returns a persistent descriptor slot to its heap. The slot is reusable
// immediately: persistent heaps are never read by the GPU directly.
func (d *Device) FreeDescriptor(handle descriptor.Handle) error {
	if !handle.Valid() {
		return errors.New("cannot free an invalid descriptor handle")
	}

	kind := handle.Heap().Kind()
	if kind < 0 || kind >= hal.DescriptorKindCount || d.heaps[kind] != handle.Heap() {
		return errors.Newf("descriptor handle from heap %q was not allocated as a persistent descriptor", handle.Heap().Name())
	}

	d.persistentMutex[kind].Lock()
	defer d.persistentMutex[kind].Unlock()

	return d.persistent[kind].Free(handle)
}

// AllocateTransientDescriptorTable returns count contiguous shader-visible descriptor slots
// that stay valid until the GPU finishes the frame being recorded. Running out of ring space
// is unrecoverable and the device aborts.
func (d *Device) AllocateTransientDescriptorTable(count int) descriptor.Table {
	table, err := d.TryAllocateTransientDescriptorTable(count)
	if err != nil {
		d.fatal("AllocateTransientDescriptorTable", err)
		return descriptor.Table{}
	}
	return table
}

// TryAllocateTransientDescriptorTable is AllocateTransientDescriptorTable returning the error
// instead of aborting
func (d *Device) TryAllocateTransientDescriptorTable(count int) (descriptor.Table, error) {
	d.ringMutex.Lock()
	defer d.ringMutex.Unlock()

	return d.ring.Allocate(count)
}

// AllocateFrameConstant returns size bytes of mapped memory, aligned for constant buffer views,
// that stay valid until the GPU finishes the frame being recorded. It may only be called
// between BeginFrame and EndFrame. Failure to grow the allocator is unrecoverable and the device
// aborts.
func (d *Device) AllocateFrameConstant(size int) linear.Allocation {
	alloc, err := d.TryAllocateFrameConstant(size)
	if err != nil {
		d.fatal("AllocateFrameConstant", err)
		return linear.Allocation{}
	}
	return alloc
}

// TryAllocateFrameConstant is AllocateFrameConstant returning the error instead of aborting
func (d *Device) TryAllocateFrameConstant(size int) (linear.Allocation, error) {
	d.constantsMutex.Lock()
	defer d.constantsMutex.Unlock()

	if !d.inFrame.Load() {
		return linear.Allocation{}, errors.New("frame constants can only be allocated between BeginFrame and EndFrame")
	}
	return d.currentConstants().Allocate(size, constantAlignment)
}

// AllocateFrameConstantValue allocates a frame constant sized for value and copies value into
// it. T must not contain pointers.
func AllocateFrameConstantValue[T any](d *Device, value T) linear.Allocation {
	alloc, err := TryAllocateFrameConstantValue(d, value)
	if err != nil {
		d.fatal("AllocateFrameConstantValue", err)
		return linear.Allocation{}
	}
	return alloc
}

// TryAllocateFrameConstantValue is AllocateFrameConstantValue returning the error instead of
// aborting
func TryAllocateFrameConstantValue[T any](d *Device, value T) (linear.Allocation, error) {
	d.constantsMutex.Lock()
	defer d.constantsMutex.Unlock()

	if !d.inFrame.Load() {
		return linear.Allocation{}, errors.New("frame constants can only be allocated between BeginFrame and EndFrame")
	}
	return linear.AllocateValue(d.currentConstants(), constantAlignment, value)
}
