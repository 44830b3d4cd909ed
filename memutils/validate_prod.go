//go:build !debug_framekit

package memutils

// DebugEnabled is true when framekit is built with the debug_framekit build tag
const DebugEnabled = false

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_framekit build tag is present
func DebugValidate(validatable Validatable) {
}

// DebugAssert panics with an assertion failure built from format and args if condition is false.
// This method no-ops unless the debug_framekit build tag is present.
func DebugAssert(condition bool, format string, args ...any) {
}
