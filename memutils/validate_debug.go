//go:build debug_framekit

package memutils

import "github.com/cockroachdb/errors"

// DebugEnabled is true when framekit is built with the debug_framekit build tag
const DebugEnabled = true

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_framekit build tag is present
func DebugValidate(validatable Validatable) {
	err := validatable.Validate()
	if err != nil {
		panic(err)
	}
}

// DebugAssert panics with an assertion failure built from format and args if condition is false.
// Caller contracts that are too expensive or too intrusive to check in release builds, such as
// fence values being signaled in increasing order, are checked with this method.
// This method no-ops unless the debug_framekit build tag is present.
func DebugAssert(condition bool, format string, args ...any) {
	if !condition {
		panic(errors.AssertionFailedf(format, args...))
	}
}
