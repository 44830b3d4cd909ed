package device

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/framekit/hal"
)

// CreateFlags indicate specific device behaviors to activate or deactivate
type CreateFlags int32

var deviceCreateFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	deviceCreateFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return deviceCreateFlagsMapping.FlagsToString(f)
}

const (
	// DeviceCreateExternallySynchronized ensures that the device and its allocators will not be
	// synchronized internally. The consumer must guarantee that they are used from only one
	// goroutine at a time or are synchronized by some other mechanism. The deferred release queue
	// keeps its own lock regardless, since objects are commonly retired from loader goroutines.
	DeviceCreateExternallySynchronized CreateFlags = 1 << iota
	// DeviceCreateValidateEveryFrame runs the consistency checks of every allocator at the end of
	// each frame and aborts on failure. It is expensive and intended for tests and tooling.
	DeviceCreateValidateEveryFrame
)

func init() {
	DeviceCreateExternallySynchronized.Register("DeviceCreateExternallySynchronized")
	DeviceCreateValidateEveryFrame.Register("DeviceCreateValidateEveryFrame")
}

const (
	defaultRingCapacity     int = 8192
	defaultConstantPageSize int = 256 * 1024
	defaultFramesInFlight   int = 2
	defaultBackbufferCount  int = 3

	// constantAlignment is the placement alignment hardware requires of constant buffer views
	constantAlignment uint = 256
)

// CreateOptions contains optional settings when creating a Device. It is valid to leave every
// field blank.
type CreateOptions struct {
	// Flags indicates specific device behaviors to activate or deactivate
	Flags CreateFlags

	// HeapCapacities is the number of persistent descriptor slots for each kind, indexed by
	// hal.DescriptorKind. Zero entries use a per-kind default.
	HeapCapacities [hal.DescriptorKindCount]int
	// RingCapacity is the number of slots in the shader-visible heap that transient descriptor
	// tables are allocated from. It must cover the worst case of every frame in flight.
	RingCapacity int
	// ConstantPageSize is the page size of the per-frame constant allocators
	ConstantPageSize int

	// FramesInFlight is the number of frames the CPU may record ahead of the GPU. It is clamped
	// to [1, BackbufferCount].
	FramesInFlight int
	// BackbufferCount is the number of swapchain images
	BackbufferCount int

	// Abort is called with the error when the device hits an unrecoverable condition, such as
	// running out of descriptor space. It defaults to panicking. If it returns, the failing call
	// returns a zero value.
	Abort func(err error)
}

// kindConfig returns the debug name and default persistent capacity of a descriptor kind
func kindConfig(kind hal.DescriptorKind) (string, int) {
	switch kind {
	case hal.DescriptorKindResource:
		return "PersistentResourceHeap", 4096
	case hal.DescriptorKindSampler:
		return "PersistentSamplerHeap", 256
	case hal.DescriptorKindRenderTarget:
		return "PersistentRenderTargetHeap", 256
	case hal.DescriptorKindDepthStencil:
		return "PersistentDepthStencilHeap", 64
	}

	panic(errors.AssertionFailedf("unknown descriptor kind %d", kind))
}

func (o *CreateOptions) resolve() {
	for _, kind := range hal.DescriptorKinds() {
		if o.HeapCapacities[kind] == 0 {
			_, o.HeapCapacities[kind] = kindConfig(kind)
		}
	}
	if o.RingCapacity == 0 {
		o.RingCapacity = defaultRingCapacity
	}
	if o.ConstantPageSize == 0 {
		o.ConstantPageSize = defaultConstantPageSize
	}
	if o.BackbufferCount <= 0 {
		o.BackbufferCount = defaultBackbufferCount
	}
	if o.FramesInFlight == 0 {
		o.FramesInFlight = defaultFramesInFlight
	}
	if o.FramesInFlight < 1 {
		o.FramesInFlight = 1
	}
	if o.FramesInFlight > o.BackbufferCount {
		o.FramesInFlight = o.BackbufferCount
	}
	if o.Abort == nil {
		o.Abort = func(err error) { panic(err) }
	}
}
