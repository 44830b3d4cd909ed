package sim

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/framekit/hal"
)

// Buffer is simulated GPU-visible memory
type Buffer struct {
	device     *Device
	name       string
	size       int
	data       []byte
	gpuAddress uint64
	destroyed  bool
}

var _ hal.Buffer = &Buffer{}

func (b *Buffer) Name() string       { return b.name }
func (b *Buffer) Size() int          { return b.size }
func (b *Buffer) Mapped() []byte     { return b.data }
func (b *Buffer) GPUAddress() uint64 { return b.gpuAddress }

func (b *Buffer) Destroy() error {
	if b.destroyed {
		return errors.Newf("buffer %q destroyed twice", b.name)
	}
	b.destroyed = true

	var err error
	if b.data != nil {
		err = unmapMemory(b.data)
		b.data = nil
	}

	b.device.mutex.Lock()
	b.device.liveBuffers--
	b.device.mutex.Unlock()

	return err
}

// HeapMemory is simulated descriptor storage
type HeapMemory struct {
	device    *Device
	name      string
	data      []byte
	gpuBase   uint64
	stride    int
	destroyed bool
}

var _ hal.HeapMemory = &HeapMemory{}

func (h *HeapMemory) CPUBase() uint64 {
	if len(h.data) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&h.data[0])))
}

func (h *HeapMemory) GPUBase() uint64 { return h.gpuBase }
func (h *HeapMemory) Stride() int     { return h.stride }

// Slot returns the CPU storage for one descriptor slot
func (h *HeapMemory) Slot(index int) []byte {
	return h.data[index*h.stride : (index+1)*h.stride]
}

func (h *HeapMemory) Destroy() error {
	if h.destroyed {
		return errors.Newf("heap %q destroyed twice", h.name)
	}
	h.destroyed = true

	err := unmapMemory(h.data)
	h.data = nil

	h.device.mutex.Lock()
	h.device.liveHeaps--
	h.device.mutex.Unlock()

	return err
}
