// Package hal is the boundary between framekit and the hardware queue abstraction. framekit calls
// these interfaces but never implements them for real hardware: a rendering backend supplies a
// Device, and package sim supplies a software Device for tests and tooling.
package hal

//go:generate mockgen -source hal.go -destination mocks/hal.go

import (
	"context"
)

// Counter is a hardware completion counter. The hardware advances CompletedValue as submitted
// work finishes; the value never decreases.
type Counter interface {
	// Name is the debug name the counter was created with
	Name() string
	// CompletedValue returns the highest value the hardware has confirmed
	CompletedValue() uint64
	// Signal sets the counter from the host side
	Signal(value uint64) error
	// WaitFor blocks until CompletedValue is at least value or ctx is done
	WaitFor(ctx context.Context, value uint64) error
	// Destroy releases the hardware counter
	Destroy() error
}

// CommandBuffer is an opaque unit of recorded GPU work. framekit never looks inside it.
type CommandBuffer any

// Queue is a hardware queue. Work on one queue executes in submission order; there is no
// ordering between queues except through Signal/Wait pairs.
type Queue interface {
	// Type identifies the queue
	Type() QueueType
	// Submit enqueues recorded work for execution
	Submit(cmd CommandBuffer) error
	// Signal enqueues a command that sets counter to value once all previously submitted work
	// on this queue has finished
	Signal(counter Counter, value uint64) error
	// Wait enqueues a command that stalls this queue until counter reaches value
	Wait(counter Counter, value uint64) error
}

// Buffer is GPU-visible memory. Mapped returns nil if the buffer is not CPU visible.
type Buffer interface {
	Name() string
	Size() int
	Mapped() []byte
	GPUAddress() uint64
	Destroy() error
}

// BufferDesc describes a buffer to create
type BufferDesc struct {
	Name string
	Size int
	// Mapped requests that the buffer be persistently mapped for CPU writes
	Mapped bool
}

// HeapDesc describes a descriptor heap to create
type HeapDesc struct {
	Name          string
	Kind          DescriptorKind
	Capacity      int
	ShaderVisible bool
}

// HeapMemory is the hardware storage behind a descriptor heap
type HeapMemory interface {
	// CPUBase is the host address of slot 0
	CPUBase() uint64
	// GPUBase is the device address of slot 0, or 0 when the heap is not shader visible
	GPUBase() uint64
	// Stride is the distance in bytes between two consecutive slots
	Stride() int
	Destroy() error
}

// Device creates hardware objects and exposes the hardware queues
type Device interface {
	CreateCounter(name string, initialValue uint64) (Counter, error)
	CreateHeap(desc HeapDesc) (HeapMemory, error)
	CreateBuffer(desc BufferDesc) (Buffer, error)
	Queue(queueType QueueType) Queue
}
