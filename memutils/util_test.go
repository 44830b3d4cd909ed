package memutils_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/framekit/memutils"
)

func TestCheckPow2(t *testing.T) {
	require.NoError(t, memutils.CheckPow2(uint(1), "alignment"))
	require.NoError(t, memutils.CheckPow2(uint(256), "alignment"))

	err := memutils.CheckPow2(uint(3), "alignment")
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.PowerOfTwoError))
	require.Contains(t, err.Error(), "alignment is 3")

	err = memutils.CheckPow2(0, "alignment")
	require.True(t, errors.Is(err, memutils.PowerOfTwoError))
}

func TestAlignUp(t *testing.T) {
	require.Equal(t, 0, memutils.AlignUp(0, 256))
	require.Equal(t, 256, memutils.AlignUp(1, 256))
	require.Equal(t, 256, memutils.AlignUp(256, 256))
	require.Equal(t, 20, memutils.AlignUp(17, 4))
	require.Equal(t, uint64(0x10000), memutils.AlignUpAddress(0x8001, 0x10000))
}

func TestDivideRoundingUp(t *testing.T) {
	require.Equal(t, 0, memutils.DivideRoundingUp(0, 64))
	require.Equal(t, 1, memutils.DivideRoundingUp(1, 64))
	require.Equal(t, 2, memutils.DivideRoundingUp(65, 64))
}

func TestConfigurationExhausted(t *testing.T) {
	err := errors.Wrapf(memutils.ErrOutOfDescriptorSpace, "heap %s", "Resources")
	require.True(t, memutils.IsConfigurationExhausted(err))
	require.True(t, memutils.IsConfigurationExhausted(memutils.ErrAllocationTooLarge))
	require.False(t, memutils.IsConfigurationExhausted(memutils.ErrInitializationFailure))
}

func TestDetailedStatisticsJSON(t *testing.T) {
	var stats memutils.DetailedStatistics
	stats.Clear()
	stats.BlockCount = 1
	stats.BlockUnits = 10
	stats.AllocationCount = 2
	stats.AllocationUnits = 4
	stats.AddUnusedRange(2)
	stats.AddUnusedRange(4)

	require.Equal(t, 6, stats.UnusedUnits())

	writer := jwriter.NewWriter()
	obj := writer.Object()
	stats.WriteJSON(&obj)
	obj.End()

	require.NoError(t, writer.Error())
	require.JSONEq(t, `{"BlockCount":1,"AllocationCount":2,"BlockUnits":10,"AllocationUnits":4,"UnusedRangeCount":2,"UnusedRangeSizeMin":2,"UnusedRangeSizeMax":4}`, string(writer.Bytes()))
}
