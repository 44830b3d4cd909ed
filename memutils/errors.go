package memutils

import "github.com/cockroachdb/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

var (
	// ErrOutOfDescriptorSpace is returned when a descriptor heap or ring has no room left for a request.
	// Heap capacities are chosen at startup, so this indicates the heap was sized too small for the
	// workload rather than a transient condition.
	ErrOutOfDescriptorSpace error = errors.New("out of descriptor space")
	// ErrAllocationTooLarge is returned when a request exceeds the total capacity of an allocator, so
	// it could never succeed no matter how much space was released.
	ErrAllocationTooLarge error = errors.New("allocation exceeds total allocator capacity")
	// ErrInitializationFailure is returned when a hardware object (counter, heap, buffer) could not
	// be created.
	ErrInitializationFailure error = errors.New("failed to create hardware object")
)

// IsConfigurationExhausted returns true if err indicates that an allocator ran out of fixed
// capacity. These errors are fatal to a frame loop.
func IsConfigurationExhausted(err error) bool {
	return errors.Is(err, ErrOutOfDescriptorSpace) || errors.Is(err, ErrAllocationTooLarge)
}
