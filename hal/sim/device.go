// Package sim is a software implementation of the hal interfaces. Each queue executes its
// submitted work on its own goroutine, so counters advance asynchronously to the submitting
// goroutine the way hardware fences do. Buffer and heap memory is mapped from the operating system.
package sim

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/framekit/hal"
	"github.com/vkngwrapper/framekit/internal/utils"
	"github.com/vkngwrapper/framekit/memutils"
	"golang.org/x/exp/slog"
)

const (
	defaultDescriptorStride int    = 32
	defaultQueueDepth       int    = 256
	gpuAddressBase          uint64 = 0x1_0000_0000
	gpuAddressAlignment     uint64 = 64 * 1024
)

// Options configures a simulated device. All fields may be left zero.
type Options struct {
	// DescriptorStride is the size in bytes of one descriptor slot
	DescriptorStride int
	// QueueDepth is the number of commands a queue accepts before Submit blocks
	QueueDepth int
	// FailCounterCreation makes CreateCounter fail, to exercise initialization failure paths
	FailCounterCreation bool
}

// Device is a simulated GPU
type Device struct {
	logger  *slog.Logger
	options Options

	mutex          sync.Mutex
	nextCounterID  uint64
	counters       *swiss.Map[uint64, *Counter]
	nextGPUAddress uint64
	liveBuffers    int
	liveHeaps      int
	closed         bool

	queues  [hal.QueueTypeCount]*Queue
	workers sync.WaitGroup
	stop    context.CancelFunc
}

var _ hal.Device = &Device{}

// New creates a simulated device and starts one goroutine per queue. Close must be called
// to stop them.
func New(logger *slog.Logger, options Options) *Device {
	logger = utils.LoggerOrDiscard(logger)
	if options.DescriptorStride == 0 {
		options.DescriptorStride = defaultDescriptorStride
	}
	if options.QueueDepth == 0 {
		options.QueueDepth = defaultQueueDepth
	}

	device := &Device{
		logger:         logger,
		options:        options,
		counters:       swiss.NewMap[uint64, *Counter](8),
		nextGPUAddress: gpuAddressBase,
	}

	var ctx context.Context
	ctx, device.stop = context.WithCancel(context.Background())

	for _, queueType := range hal.QueueTypes() {
		queue := newQueue(device, queueType, options.QueueDepth)
		device.queues[queueType] = queue
		device.workers.Add(1)
		go queue.run(ctx, &device.workers)
	}

	return device
}

// Queue returns the simulated hardware queue of the requested type
func (d *Device) Queue(queueType hal.QueueType) hal.Queue {
	return d.queues[queueType]
}

// CreateCounter creates a completion counter starting at initialValue
func (d *Device) CreateCounter(name string, initialValue uint64) (hal.Counter, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.closed {
		return nil, errors.New("device is closed")
	}
	if d.options.FailCounterCreation {
		return nil, errors.Newf("simulated failure creating counter %q", name)
	}

	d.nextCounterID++
	counter := newCounter(d, d.nextCounterID, name, initialValue)
	d.counters.Put(counter.id, counter)

	d.logger.Debug("Device::CreateCounter", slog.String("Name", name), slog.Uint64("ID", counter.id))
	return counter, nil
}

func (d *Device) removeCounter(id uint64) bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if !d.counters.Has(id) {
		return false
	}
	d.counters.Delete(id)
	return true
}

// CreateHeap creates descriptor storage for desc.Capacity slots
func (d *Device) CreateHeap(desc hal.HeapDesc) (hal.HeapMemory, error) {
	if desc.Capacity <= 0 {
		return nil, errors.Newf("heap %q has invalid capacity %d", desc.Name, desc.Capacity)
	}

	data, err := mapMemory(desc.Capacity * d.options.DescriptorStride)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to map memory for heap %q", desc.Name)
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	heap := &HeapMemory{
		device: d,
		name:   desc.Name,
		data:   data,
		stride: d.options.DescriptorStride,
	}
	if desc.ShaderVisible {
		heap.gpuBase = d.reserveAddressSpace(len(data))
	}
	d.liveHeaps++

	d.logger.Debug("Device::CreateHeap", slog.String("Name", desc.Name), slog.Int("Capacity", desc.Capacity), slog.Bool("ShaderVisible", desc.ShaderVisible))
	return heap, nil
}

// CreateBuffer creates GPU-visible memory, mapped for the CPU if desc.Mapped is set
func (d *Device) CreateBuffer(desc hal.BufferDesc) (hal.Buffer, error) {
	if desc.Size <= 0 {
		return nil, errors.Newf("buffer %q has invalid size %d", desc.Name, desc.Size)
	}

	var data []byte
	if desc.Mapped {
		var err error
		data, err = mapMemory(desc.Size)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to map memory for buffer %q", desc.Name)
		}
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	buffer := &Buffer{
		device:     d,
		name:       desc.Name,
		size:       desc.Size,
		data:       data,
		gpuAddress: d.reserveAddressSpace(desc.Size),
	}
	d.liveBuffers++

	d.logger.Debug("Device::CreateBuffer", slog.String("Name", desc.Name), slog.Int("Size", desc.Size), slog.Bool("Mapped", desc.Mapped))
	return buffer, nil
}

func (d *Device) reserveAddressSpace(size int) uint64 {
	address := d.nextGPUAddress
	d.nextGPUAddress = memutils.AlignUpAddress(address+uint64(size), gpuAddressAlignment)
	return address
}

// LiveObjects reports how many counters, heaps, and buffers have been created and not destroyed
func (d *Device) LiveObjects() (counters, heaps, buffers int) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.counters.Count(), d.liveHeaps, d.liveBuffers
}

// Close stops the queue goroutines once they have drained their commands. Queue waits that are
// still blocked are abandoned. Work submitted after Close fails.
func (d *Device) Close() {
	d.mutex.Lock()
	if d.closed {
		d.mutex.Unlock()
		return
	}
	d.closed = true
	d.mutex.Unlock()

	for _, queue := range d.queues {
		queue.close()
	}
	d.stop()
	d.workers.Wait()
}
