package device

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/framekit/hal"
	"github.com/vkngwrapper/framekit/memutils"
	"golang.org/x/exp/slog"
)

// Statistics holds device-wide usage. Descriptor units are slots and constant units are bytes.
type Statistics struct {
	Persistent [hal.DescriptorKindCount]memutils.Statistics
	Transient  memutils.Statistics
	Constants  memutils.Statistics
	// PendingReleases is the number of objects waiting in the release queue
	PendingReleases int
}

// CalculateStatistics returns a snapshot of the usage of every allocator
func (d *Device) CalculateStatistics() Statistics {
	var stats Statistics

	for kind, allocator := range d.persistent {
		d.persistentMutex[kind].RLock()
		allocator.AddStatistics(&stats.Persistent[kind])
		d.persistentMutex[kind].RUnlock()
	}

	d.ringMutex.Lock()
	d.ring.AddStatistics(&stats.Transient)
	d.ringMutex.Unlock()

	d.constantsMutex.Lock()
	for _, allocator := range d.constants {
		allocator.AddStatistics(&stats.Constants)
	}
	d.constantsMutex.Unlock()

	stats.PendingReleases = d.releaseQueue.Len()
	return stats
}

// BuildStatsString returns a JSON document describing every allocator of the device. When
// detailed is set it includes the free ranges of the persistent heaps and the pages of the
// constant allocators.
func (d *Device) BuildStatsString(detailed bool) string {
	writer := jwriter.NewWriter()
	obj := writer.Object()

	frame := obj.Name("Frame").Object()
	frame.Name("Index").Int(int(d.frameIndex.Load()))
	frame.Name("Completed").Int(int(d.frameFence.CompletedValue()))
	frame.Name("FramesInFlight").Int(d.options.FramesInFlight)
	frame.End()

	persistent := obj.Name("PersistentHeaps").Object()
	for _, kind := range hal.DescriptorKinds() {
		heapObj := persistent.Name(kind.String()).Object()
		d.persistentMutex[kind].RLock()
		d.persistent[kind].WriteJSON(&heapObj, detailed)
		d.persistentMutex[kind].RUnlock()
		heapObj.End()
	}
	persistent.End()

	ring := obj.Name("TransientRing").Object()
	d.ringMutex.Lock()
	d.ring.WriteJSON(&ring)
	var ringStats memutils.Statistics
	d.ring.AddStatistics(&ringStats)
	d.ringMutex.Unlock()
	ringStats.WriteJSON(&ring)
	ring.End()

	constants := obj.Name("FrameConstants").Array()
	d.constantsMutex.Lock()
	for _, allocator := range d.constants {
		allocatorObj := constants.Object()
		var stats memutils.Statistics
		allocator.AddStatistics(&stats)
		stats.WriteJSON(&allocatorObj)
		if detailed {
			allocator.WriteJSON(&allocatorObj)
		} else {
			allocatorObj.Name("Name").String(allocator.Name())
		}
		allocatorObj.End()
	}
	d.constantsMutex.Unlock()
	constants.End()

	releases := obj.Name("ReleaseQueue").Object()
	d.releaseQueue.WriteJSON(&releases)
	releases.End()

	obj.End()

	if err := writer.Error(); err != nil {
		d.logger.Error("Device::BuildStatsString", slog.Any("error", err))
	}
	return string(writer.Bytes())
}
