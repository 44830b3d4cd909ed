package linear

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/framekit/hal"
)

// page is one backing buffer of the allocator with a bump offset into it
type page struct {
	buffer hal.Buffer
	size   int
	offset int

	allocationCount int
}

func (p *page) reset() {
	p.offset = 0
	p.allocationCount = 0
}

func (p *page) writeJSON(json *jwriter.ObjectState) {
	json.Name("Name").String(p.buffer.Name())
	json.Name("Size").Int(p.size)
	json.Name("Offset").Int(p.offset)
	json.Name("AllocationCount").Int(p.allocationCount)
}
