// Package device ties the descriptor allocators, fences, per-frame constant allocators and the
// deferred release queue into one frame loop over a hal.Device.
//
// The frame loop is driven from one goroutine: BeginFrame, record and submit, EndFrame. The
// allocation methods may be called from any goroutine unless the device was created with
// DeviceCreateExternallySynchronized.
package device

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/framekit/descriptor"
	"github.com/vkngwrapper/framekit/fence"
	"github.com/vkngwrapper/framekit/hal"
	"github.com/vkngwrapper/framekit/internal/utils"
	"github.com/vkngwrapper/framekit/linear"
	"github.com/vkngwrapper/framekit/memutils"
	"github.com/vkngwrapper/framekit/release"
	"golang.org/x/exp/slog"
)

// Device owns every per-device descriptor and transient memory structure
type Device struct {
	logger  *slog.Logger
	hw      hal.Device
	options CreateOptions

	heaps           [hal.DescriptorKindCount]*descriptor.Heap
	persistent      [hal.DescriptorKindCount]*descriptor.FreeListAllocator
	persistentMutex [hal.DescriptorKindCount]utils.OptionalRWMutex

	ringHeap  *descriptor.Heap
	ring      *descriptor.RingAllocator
	ringMutex utils.OptionalMutex

	// constants holds one allocator per frame in flight, indexed by frame index modulo
	// FramesInFlight
	constants      []*linear.Allocator
	constantsMutex utils.OptionalMutex

	queueFences [hal.QueueTypeCount]*fence.Fence
	submitMutex [hal.QueueTypeCount]utils.OptionalMutex
	frameFence  *fence.Fence

	releaseQueue *release.Queue

	// frameIndex is the frame being recorded. Frame indices start at 1 so that fence value 0
	// never refers to a frame.
	frameIndex atomic.Uint64
	inFrame    atomic.Bool
}

// New creates every heap, fence and allocator the device needs. A hardware object that
// cannot be created fails the whole call with an error marked memutils.ErrInitializationFailure,
// and everything created before it is destroyed.
//
// logger - Receives the device's structured logs, nil discards them
//
// hw - The hardware device objects are created on
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, hw hal.Device, options CreateOptions) (*Device, error) {
	options.resolve()
	useMutex := options.Flags&DeviceCreateExternallySynchronized == 0

	d := &Device{
		logger:  utils.LoggerOrDiscard(logger),
		hw:      hw,
		options: options,
	}
	d.ringMutex.UseMutex = useMutex
	d.constantsMutex.UseMutex = useMutex
	for i := range d.persistentMutex {
		d.persistentMutex[i].UseMutex = useMutex
	}
	for i := range d.submitMutex {
		d.submitMutex[i].UseMutex = useMutex
	}
	d.frameIndex.Store(1)

	err := d.init()
	if err != nil {
		destroyErr := d.destroyObjects()
		if destroyErr != nil {
			d.logger.Error("Device::New failed to clean up", slog.Any("error", destroyErr))
		}
		return nil, err
	}

	d.logger.Debug("Device::New",
		slog.String("Flags", options.Flags.String()),
		slog.Int("RingCapacity", options.RingCapacity),
		slog.Int("ConstantPageSize", options.ConstantPageSize),
		slog.Int("FramesInFlight", options.FramesInFlight),
		slog.Int("BackbufferCount", options.BackbufferCount),
	)
	return d, nil
}

func (d *Device) init() error {
	for _, kind := range hal.DescriptorKinds() {
		name, _ := kindConfig(kind)
		heap, err := descriptor.NewHeap(d.hw, hal.HeapDesc{
			Name:     name,
			Kind:     kind,
			Capacity: d.options.HeapCapacities[kind],
		})
		if err != nil {
			return err
		}
		d.heaps[kind] = heap
		d.persistent[kind] = descriptor.NewFreeListAllocator(heap)
	}

	var err error
	d.ringHeap, err = descriptor.NewHeap(d.hw, hal.HeapDesc{
		Name:          "TransientResourceRing",
		Kind:          hal.DescriptorKindResource,
		Capacity:      d.options.RingCapacity,
		ShaderVisible: true,
	})
	if err != nil {
		return err
	}
	d.ring = descriptor.NewRingAllocator(d.ringHeap)

	for _, queueType := range hal.QueueTypes() {
		d.queueFences[queueType], err = fence.Create(d.logger, d.hw, queueType.String()+"QueueFence")
		if err != nil {
			return err
		}
	}
	d.frameFence, err = fence.Create(d.logger, d.hw, "FrameFence")
	if err != nil {
		return err
	}

	d.constants = make([]*linear.Allocator, d.options.FramesInFlight)
	for slot := range d.constants {
		d.constants[slot], err = linear.New(d.logger, d.hw, linear.Options{
			Name:     "FrameConstants" + strconv.Itoa(slot),
			PageSize: d.options.ConstantPageSize,
		})
		if err != nil {
			return err
		}
	}

	d.releaseQueue, err = release.New(d.logger, d.queueFences, true)
	return err
}

// FramesInFlight returns the number of frames the CPU may record ahead of the GPU
func (d *Device) FramesInFlight() int { return d.options.FramesInFlight }

// FrameIndex returns the index of the frame being recorded
func (d *Device) FrameIndex() uint64 { return d.frameIndex.Load() }

// FrameFence returns the fence signaled with the frame index at the end of every frame
func (d *Device) FrameFence() *fence.Fence { return d.frameFence }

// QueueFence returns the fence Submit signals on queueType
func (d *Device) QueueFence(queueType hal.QueueType) *fence.Fence {
	return d.queueFences[queueType]
}

// Queue returns the hardware queue of queueType
func (d *Device) Queue(queueType hal.QueueType) hal.Queue {
	return d.hw.Queue(queueType)
}

// fatal reports an unrecoverable condition and hands it to the abort hook
func (d *Device) fatal(operation string, err error) {
	d.logger.Error("Device::"+operation, slog.Any("error", err))
	d.options.Abort(err)
}

// Destroy waits for the GPU to go idle, releases everything in the release queue, then destroys
// every object the device created. The device must not be used afterwards.
func (d *Device) Destroy(ctx context.Context) error {
	err := d.WaitForGPUIdle(ctx)
	if err != nil {
		return err
	}

	return d.destroyObjects()
}

func (d *Device) destroyObjects() error {
	var err error

	if d.releaseQueue != nil {
		_, flushErr := d.releaseQueue.Flush()
		err = errors.CombineErrors(err, flushErr)
	}

	for _, allocator := range d.constants {
		if allocator != nil {
			err = errors.CombineErrors(err, allocator.Destroy())
		}
	}

	if d.ringHeap != nil {
		err = errors.CombineErrors(err, d.ringHeap.Destroy())
	}
	for _, heap := range d.heaps {
		if heap != nil {
			err = errors.CombineErrors(err, heap.Destroy())
		}
	}

	for _, f := range d.queueFences {
		if f != nil {
			err = errors.CombineErrors(err, f.Destroy())
		}
	}
	if d.frameFence != nil {
		err = errors.CombineErrors(err, d.frameFence.Destroy())
	}

	if err != nil {
		return errors.Wrap(err, "failed to destroy device objects")
	}

	d.logger.Debug("Device::Destroy")
	return nil
}

// Validate performs internal consistency checks on every allocator
func (d *Device) Validate() error {
	for kind, allocator := range d.persistent {
		d.persistentMutex[kind].RLock()
		err := allocator.Validate()
		d.persistentMutex[kind].RUnlock()
		if err != nil {
			return err
		}
	}

	d.ringMutex.Lock()
	err := d.ring.Validate()
	d.ringMutex.Unlock()
	if err != nil {
		return err
	}

	d.constantsMutex.Lock()
	defer d.constantsMutex.Unlock()
	for _, allocator := range d.constants {
		err = allocator.Validate()
		if err != nil {
			return err
		}
	}

	return nil
}

var _ memutils.Validatable = &Device{}
