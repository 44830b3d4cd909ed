//go:build debug_framekit

package fence_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/framekit/fence"
	"github.com/vkngwrapper/framekit/hal/sim"
	"github.com/vkngwrapper/framekit/memutils"
)

func TestBackwardsSignalAsserts(t *testing.T) {
	require.True(t, memutils.DebugEnabled)

	device := sim.New(nil, sim.Options{})
	defer device.Close()

	f, err := fence.Create(nil, device, "Graphics")
	require.NoError(t, err)

	require.NoError(t, f.SignalCPU(4))
	require.Panics(t, func() { _ = f.SignalCPU(4) })
	require.Panics(t, func() { _ = f.SignalCPU(2) })
}
