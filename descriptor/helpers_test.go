package descriptor_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/framekit/descriptor"
	"github.com/vkngwrapper/framekit/fence"
	"github.com/vkngwrapper/framekit/hal"
	"github.com/vkngwrapper/framekit/hal/sim"
)

func newTestHeap(t *testing.T, capacity int, shaderVisible bool) (*sim.Device, *descriptor.Heap) {
	device := sim.New(nil, sim.Options{DescriptorStride: 32})
	t.Cleanup(device.Close)

	heap, err := descriptor.NewHeap(device, hal.HeapDesc{
		Name:          "TestHeap",
		Kind:          hal.DescriptorKindResource,
		Capacity:      capacity,
		ShaderVisible: shaderVisible,
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, heap.Destroy()) })

	return device, heap
}

func newTestFence(t *testing.T, device hal.Device) *fence.Fence {
	f, err := fence.Create(nil, device, "Frame")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, f.Destroy()) })
	return f
}

// completeFrame marks frame as finished on the GPU and returns proof of it
func completeFrame(t *testing.T, f *fence.Fence, frame uint64) fence.Completion {
	require.NoError(t, f.SignalCPU(frame))
	return f.Completion()
}
