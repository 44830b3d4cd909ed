package fence

import "context"

// Completion is proof that a fence has reached a value. It can only be produced by
// Fence.Completion and Fence.WaitCompletion, so operations that recycle memory read by the GPU
// take a Completion instead of a raw value: releasing ahead of the hardware cannot be written.
//
// The zero Completion proves nothing. Consumers treat it as covering no frame, including frame 0.
type Completion struct {
	fence *Fence
	value uint64
}

// Valid returns false for the zero Completion
func (c Completion) Valid() bool { return c.fence != nil }

// Value is the completed fence value
func (c Completion) Value() uint64 { return c.value }

// Fence is the fence that confirmed the value, or nil for the zero Completion
func (c Completion) Fence() *Fence { return c.fence }

// Completion returns proof of the fence's current completed value without blocking
func (f *Fence) Completion() Completion {
	return Completion{fence: f, value: f.CompletedValue()}
}

// WaitCompletion blocks until the fence reaches value and returns proof of it
func (f *Fence) WaitCompletion(ctx context.Context, value uint64) (Completion, error) {
	err := f.Wait(ctx, value)
	if err != nil {
		return Completion{}, err
	}

	completed := f.CompletedValue()
	if completed < value {
		// A counter whose completed value moves backwards is broken hardware; only claim what was waited for
		completed = value
	}
	return Completion{fence: f, value: completed}, nil
}
