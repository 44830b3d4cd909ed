package descriptor_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/framekit/descriptor"
	"github.com/vkngwrapper/framekit/hal"
	mock_hal "github.com/vkngwrapper/framekit/hal/mocks"
	"github.com/vkngwrapper/framekit/memutils"
	"go.uber.org/mock/gomock"
)

func TestNewHeapCreationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mock_hal.NewMockDevice(ctrl)

	desc := hal.HeapDesc{Name: "Samplers", Kind: hal.DescriptorKindSampler, Capacity: 16}
	device.EXPECT().CreateHeap(desc).Return(nil, errors.New("out of device memory"))

	_, err := descriptor.NewHeap(device, desc)
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.ErrInitializationFailure))
	require.False(t, memutils.IsConfigurationExhausted(err))
}

func TestNewHeapRejectsEmptyHeap(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mock_hal.NewMockDevice(ctrl)

	_, err := descriptor.NewHeap(device, hal.HeapDesc{Name: "Empty", Capacity: 0})
	require.Error(t, err)
}

func TestHeapAddresses(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mock_hal.NewMockDevice(ctrl)
	memory := mock_hal.NewMockHeapMemory(ctrl)

	memory.EXPECT().CPUBase().Return(uint64(0x1000))
	memory.EXPECT().GPUBase().Return(uint64(0x8000_0000))
	memory.EXPECT().Stride().Return(64)
	memory.EXPECT().Destroy().Return(nil)

	desc := hal.HeapDesc{Name: "Resources", Kind: hal.DescriptorKindResource, Capacity: 4, ShaderVisible: true}
	device.EXPECT().CreateHeap(desc).Return(memory, nil)

	heap, err := descriptor.NewHeap(device, desc)
	require.NoError(t, err)

	handle := heap.Handle(3)
	require.Equal(t, uint64(0x1000+3*64), handle.CPUAddress())
	require.Equal(t, uint64(0x8000_0000+3*64), handle.GPUAddress())
	require.Panics(t, func() { heap.Handle(4) })

	writer := jwriter.NewWriter()
	obj := writer.Object()
	heap.WriteJSON(&obj)
	obj.End()
	require.NoError(t, writer.Error())
	require.JSONEq(t, `{"Name":"Resources","Kind":"Resource","Capacity":4,"ShaderVisible":true,"Stride":64}`, string(writer.Bytes()))

	require.NoError(t, heap.Destroy())
}

func TestNonShaderVisibleHeapHasNoGPUAddress(t *testing.T) {
	_, heap := newTestHeap(t, 4, false)

	require.Equal(t, uint64(0), heap.Handle(1).GPUAddress())
	require.NotEqual(t, uint64(0), heap.Handle(1).CPUAddress())
}
