// Package linear implements a paged bump allocator for memory that lives for one frame, such
// as shader constants. The allocator grows a page at a time when a frame overflows it and
// returns pages to the device once a rolling usage history shows they are no longer needed.
package linear

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/framekit/fence"
	"github.com/vkngwrapper/framekit/hal"
	"github.com/vkngwrapper/framekit/internal/utils"
	"github.com/vkngwrapper/framekit/memutils"
	"golang.org/x/exp/slog"
)

// HistoryLength is the number of frames of page usage Clear considers before trimming pages
const HistoryLength = 8

const defaultPageSize = 256 * 1024

// Options configures an Allocator. All fields may be left zero.
type Options struct {
	// Name prefixes the debug names of the page buffers
	Name string
	// PageSize is the size in bytes of a regular page. Allocations larger than this get
	// a page of their own size. Defaults to 256KiB.
	PageSize int
	// Unmapped creates pages without a CPU mapping, and Allocation.CPU is always nil
	Unmapped bool
}

// Allocation is a region of a page buffer. Distinct allocations from the same frame never
// overlap.
type Allocation struct {
	Buffer hal.Buffer
	// CPU is the mapped memory of the region, or nil if the page is not mapped
	CPU        []byte
	GPUAddress uint64
	Offset     int
	Size       int
}

// Allocator hands out frame-lifetime memory by bumping an offset through an ordered list of
// pages. Nothing is freed individually: Clear resets every page once the GPU has finished the
// frame. Allocator is not safe for concurrent use.
type Allocator struct {
	logger  *slog.Logger
	device  hal.Device
	options Options

	pages   []*page
	current int
	// nextPageID makes page buffer names unique across trims
	nextPageID int

	history      [HistoryLength]int
	historyIndex int
	historyCount int

	// inFlightFrame is the frame passed to FinishFrame, which must be complete before Clear
	inFlightFrame uint64
}

// New creates an empty allocator. No page is created until the first Allocate.
func New(logger *slog.Logger, device hal.Device, options Options) (*Allocator, error) {
	if options.PageSize == 0 {
		options.PageSize = defaultPageSize
	}
	if options.PageSize < 0 {
		return nil, errors.Newf("linear allocator page size must be positive, got %d", options.PageSize)
	}
	if options.Name == "" {
		options.Name = "LinearAllocator"
	}

	return &Allocator{
		logger:  utils.LoggerOrDiscard(logger),
		device:  device,
		options: options,
	}, nil
}

func (a *Allocator) Name() string   { return a.options.Name }
func (a *Allocator) PageSize() int  { return a.options.PageSize }
func (a *Allocator) PageCount() int { return len(a.pages) }

// Allocate returns size bytes aligned to alignment, which must be a power of two. When the
// current page cannot hold the request the allocator moves to the next page, inserting a new
// one if the next page is missing or too small. It creates at most one page per call and only
// fails if the alignment is invalid or the device cannot create a page, in which case the error
// is marked with memutils.ErrInitializationFailure.
func (a *Allocator) Allocate(size int, alignment uint) (Allocation, error) {
	if size <= 0 {
		return Allocation{}, errors.Newf("linear allocation size must be positive, got %d", size)
	}
	err := memutils.CheckPow2(alignment, "alignment")
	if err != nil {
		return Allocation{}, err
	}

	if len(a.pages) > 0 {
		p := a.pages[a.current]
		offset := memutils.AlignUp(p.offset, alignment)
		if offset+size <= p.size {
			return a.take(p, offset, size), nil
		}

		next := a.current + 1
		if next < len(a.pages) && size <= a.pages[next].size {
			a.current = next
			return a.take(a.pages[next], 0, size), nil
		}
	}

	pageSize := a.options.PageSize
	if size > pageSize {
		pageSize = size
	}

	p, err := a.createPage(pageSize)
	if err != nil {
		return Allocation{}, err
	}

	insertAt := 0
	if len(a.pages) > 0 {
		insertAt = a.current + 1
	}
	a.pages = append(a.pages, nil)
	copy(a.pages[insertAt+1:], a.pages[insertAt:])
	a.pages[insertAt] = p
	a.current = insertAt

	a.logger.Info("Allocator::Allocate grew",
		slog.String("Name", a.options.Name),
		slog.Int("PageSize", pageSize),
		slog.Int("PageCount", len(a.pages)))

	memutils.DebugValidate(a)
	return a.take(p, 0, size), nil
}

func (a *Allocator) take(p *page, offset, size int) Allocation {
	p.offset = offset + size
	p.allocationCount++

	alloc := Allocation{
		Buffer:     p.buffer,
		GPUAddress: p.buffer.GPUAddress() + uint64(offset),
		Offset:     offset,
		Size:       size,
	}
	if mapped := p.buffer.Mapped(); mapped != nil {
		alloc.CPU = mapped[offset : offset+size : offset+size]
	}
	return alloc
}

func (a *Allocator) createPage(size int) (*page, error) {
	name := a.options.Name + "Page" + strconv.Itoa(a.nextPageID)
	buffer, err := a.device.CreateBuffer(hal.BufferDesc{
		Name:   name,
		Size:   size,
		Mapped: !a.options.Unmapped,
	})
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to create page %q of %d bytes", name, size), memutils.ErrInitializationFailure)
	}
	a.nextPageID++

	return &page{buffer: buffer, size: size}, nil
}

// FinishFrame records the frame the allocator's current contents belong to. Clear refuses to
// reset the pages until that frame is complete.
func (a *Allocator) FinishFrame(frameIndex uint64) {
	a.inFlightFrame = frameIndex
}

// Clear resets every page for reuse. done must prove the frame recorded by FinishFrame has
// completed, and the zero Completion never does. Clear then records the number of pages this frame used, and once HistoryLength
// frames have been recorded, destroys trailing pages beyond the most any of those frames used.
// At least one page is always kept.
func (a *Allocator) Clear(done fence.Completion) error {
	if !done.Valid() {
		return errors.Newf("linear allocator %q cleared without a fence completion", a.options.Name)
	}
	if done.Value() < a.inFlightFrame {
		return errors.Newf("linear allocator %q cleared with completion %d while frame %d is in flight",
			a.options.Name, done.Value(), a.inFlightFrame)
	}

	a.history[a.historyIndex] = a.usedPageCount()
	a.historyIndex = (a.historyIndex + 1) % HistoryLength
	if a.historyCount < HistoryLength {
		a.historyCount++
	}

	for _, p := range a.pages {
		p.reset()
	}
	a.current = 0

	var err error
	if a.historyCount == HistoryLength {
		err = a.trim()
	}

	memutils.DebugValidate(a)
	return err
}

func (a *Allocator) usedPageCount() int {
	if len(a.pages) == 0 {
		return 0
	}
	if a.current == 0 && a.pages[0].offset == 0 {
		return 0
	}
	return a.current + 1
}

func (a *Allocator) trim() error {
	keep := 1
	for _, used := range a.history {
		if used > keep {
			keep = used
		}
	}
	if keep >= len(a.pages) {
		return nil
	}

	var err error
	for _, p := range a.pages[keep:] {
		err = errors.CombineErrors(err, p.buffer.Destroy())
	}
	for i := keep; i < len(a.pages); i++ {
		a.pages[i] = nil
	}
	trimmed := len(a.pages) - keep
	a.pages = a.pages[:keep]

	a.logger.Info("Allocator::Clear trimmed",
		slog.String("Name", a.options.Name),
		slog.Int("Trimmed", trimmed),
		slog.Int("PageCount", keep))

	if err != nil {
		return errors.Wrapf(err, "failed to destroy trimmed pages of linear allocator %q", a.options.Name)
	}
	return nil
}

// Validate performs internal consistency checks on the page list
func (a *Allocator) Validate() error {
	if len(a.pages) == 0 {
		if a.current != 0 {
			return errors.Newf("linear allocator %q has no pages but current page %d", a.options.Name, a.current)
		}
		return nil
	}
	if a.current < 0 || a.current >= len(a.pages) {
		return errors.Newf("linear allocator %q current page %d out of %d", a.options.Name, a.current, len(a.pages))
	}

	for i, p := range a.pages {
		if p == nil {
			return errors.Newf("linear allocator %q has nil page at index %d", a.options.Name, i)
		}
		if p.offset < 0 || p.offset > p.size {
			return errors.Newf("linear allocator %q page %d offset %d outside size %d", a.options.Name, i, p.offset, p.size)
		}
		if i > a.current && p.offset != 0 {
			return errors.Newf("linear allocator %q page %d is past the current page %d but has offset %d",
				a.options.Name, i, a.current, p.offset)
		}
		if p.buffer.Size() < p.size {
			return errors.Newf("linear allocator %q page %d is %d bytes but its buffer is %d", a.options.Name, i, p.size, p.buffer.Size())
		}
	}

	return nil
}

// AddStatistics sums the pages into stats. Allocation units are bytes bumped this frame,
// including alignment padding.
func (a *Allocator) AddStatistics(stats *memutils.Statistics) {
	for _, p := range a.pages {
		stats.BlockCount++
		stats.BlockUnits += p.size
		stats.AllocationCount += p.allocationCount
		stats.AllocationUnits += p.offset
	}
}

// WriteJSON writes the allocator state as fields of an open json object
func (a *Allocator) WriteJSON(json *jwriter.ObjectState) {
	json.Name("Name").String(a.options.Name)
	json.Name("PageSize").Int(a.options.PageSize)
	json.Name("CurrentPage").Int(a.current)

	history := json.Name("PageHistory").Array()
	for i := 0; i < a.historyCount; i++ {
		history.Int(a.history[(a.historyIndex-a.historyCount+i+HistoryLength)%HistoryLength])
	}
	history.End()

	pages := json.Name("Pages").Array()
	for _, p := range a.pages {
		obj := pages.Object()
		p.writeJSON(&obj)
		obj.End()
	}
	pages.End()
}

// Destroy releases every page. The GPU must be finished with all of them.
func (a *Allocator) Destroy() error {
	var err error
	for _, p := range a.pages {
		err = errors.CombineErrors(err, p.buffer.Destroy())
	}
	a.pages = nil
	a.current = 0
	a.historyCount = 0
	a.historyIndex = 0

	if err != nil {
		return errors.Wrapf(err, "failed to destroy linear allocator %q", a.options.Name)
	}
	return nil
}
