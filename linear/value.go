package linear

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

// AllocateValue allocates room for a T and copies value into it. T must not contain pointers:
// the GPU reads the raw bytes. The allocator's pages must be mapped.
func AllocateValue[T any](a *Allocator, alignment uint, value T) (Allocation, error) {
	size := int(unsafe.Sizeof(value))
	if size == 0 {
		return Allocation{}, errors.Newf("cannot allocate zero-sized %T", value)
	}
	if a.options.Unmapped {
		return Allocation{}, errors.Newf("linear allocator %q is not mapped and cannot be written from the host", a.options.Name)
	}

	alloc, err := a.Allocate(size, alignment)
	if err != nil {
		return Allocation{}, err
	}

	copy(alloc.CPU, unsafe.Slice((*byte)(unsafe.Pointer(&value)), size))
	return alloc, nil
}
