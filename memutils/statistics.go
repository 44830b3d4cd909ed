package memutils

import (
	"math"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Statistics summarizes how much of an allocator's capacity is in use. Units are allocator
// specific: descriptor slots for descriptor allocators, bytes for buffer allocators.
type Statistics struct {
	// BlockCount is the number of heaps or pages backing the allocator
	BlockCount int
	// AllocationCount is the number of live allocations
	AllocationCount int
	// BlockUnits is the total capacity of every block
	BlockUnits int
	// AllocationUnits is the capacity handed out to live allocations
	AllocationUnits int
}

func (s *Statistics) Clear() {
	s.BlockCount = 0
	s.AllocationCount = 0
	s.BlockUnits = 0
	s.AllocationUnits = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.BlockCount += other.BlockCount
	s.AllocationCount += other.AllocationCount
	s.BlockUnits += other.BlockUnits
	s.AllocationUnits += other.AllocationUnits
}

// UnusedUnits is the capacity not handed out to any allocation
func (s *Statistics) UnusedUnits() int {
	return s.BlockUnits - s.AllocationUnits
}

// WriteJSON writes the statistics as fields of an open json object
func (s *Statistics) WriteJSON(json *jwriter.ObjectState) {
	json.Name("BlockCount").Int(s.BlockCount)
	json.Name("AllocationCount").Int(s.AllocationCount)
	json.Name("BlockUnits").Int(s.BlockUnits)
	json.Name("AllocationUnits").Int(s.AllocationUnits)
}

// DetailedStatistics adds fragmentation data to Statistics
type DetailedStatistics struct {
	Statistics
	UnusedRangeCount   int
	UnusedRangeSizeMin int
	UnusedRangeSizeMax int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.UnusedRangeCount = 0
	s.UnusedRangeSizeMin = math.MaxInt
	s.UnusedRangeSizeMax = 0
}

func (s *DetailedStatistics) AddUnusedRange(size int) {
	s.UnusedRangeCount++

	if size < s.UnusedRangeSizeMin {
		s.UnusedRangeSizeMin = size
	}

	if size > s.UnusedRangeSizeMax {
		s.UnusedRangeSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.UnusedRangeCount += other.UnusedRangeCount

	if other.UnusedRangeSizeMin < s.UnusedRangeSizeMin {
		s.UnusedRangeSizeMin = other.UnusedRangeSizeMin
	}

	if other.UnusedRangeSizeMax > s.UnusedRangeSizeMax {
		s.UnusedRangeSizeMax = other.UnusedRangeSizeMax
	}
}

// WriteJSON writes the statistics as fields of an open json object
func (s *DetailedStatistics) WriteJSON(json *jwriter.ObjectState) {
	s.Statistics.WriteJSON(json)
	json.Name("UnusedRangeCount").Int(s.UnusedRangeCount)
	if s.UnusedRangeCount > 0 {
		json.Name("UnusedRangeSizeMin").Int(s.UnusedRangeSizeMin)
		json.Name("UnusedRangeSizeMax").Int(s.UnusedRangeSizeMax)
	}
}
